//go:build linux

package acquire

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ja7ad/procsampler/pkg/record"
	"github.com/stretchr/testify/require"
)

func TestSystem_DecodeAndEmit_RealProc(t *testing.T) {
	if _, err := os.Stat("/proc/stat"); err != nil {
		t.Skip("no /proc/stat on this host")
	}

	s := NewSystem()
	defer s.Close()

	s.FastRead()

	var got record.SystemStats
	emitted := false
	err := s.DecodeAndEmit(func(ss record.SystemStats) error {
		got = ss
		emitted = true
		return nil
	})
	require.NoError(t, err)
	require.True(t, emitted)
	require.Greater(t, got.RamTotal, uint64(0))
	require.GreaterOrEqual(t, got.TsEnd, got.TsStart)
}

func TestSystem_DecodeAndEmit_SkipsWhenFilesMissing(t *testing.T) {
	dir := t.TempDir()
	s := &System{
		stat: newRawStats(filepath.Join(dir, "nonexistent-stat")),
		mem:  newRawStats(filepath.Join(dir, "nonexistent-mem")),
	}
	defer s.Close()

	s.FastRead()

	called := false
	err := s.DecodeAndEmit(func(record.SystemStats) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	require.False(t, called)
}
