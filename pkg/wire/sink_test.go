package wire

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failWriter struct{ err error }

func (f *failWriter) Write([]byte) (int, error) { return 0, f.err }

func TestSink_WriteAndFlush(t *testing.T) {
	var buf bytes.Buffer
	s := NewSink(&buf)
	n, err := s.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.NoError(t, s.Flush())
	assert.Equal(t, "abc", buf.String())
}

func TestSink_CloseFlushes(t *testing.T) {
	var buf bytes.Buffer
	s := NewSink(&buf)
	_, err := s.Write([]byte("xyz"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.Equal(t, "xyz", buf.String())
}

func TestSink_StickyError(t *testing.T) {
	fw := &failWriter{err: errors.New("boom")}
	s := NewSink(fw)
	// fill past the buffer so bufio is forced to flush to fw and see the error
	_, err := s.Write(bytes.Repeat([]byte{0x41}, bufferSize+1))
	require.Error(t, err)
	assert.ErrorIs(t, s.Err(), err)

	_, err2 := s.Write([]byte("more"))
	assert.Error(t, err2)
}
