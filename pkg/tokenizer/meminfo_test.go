package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMeminfo_S4(t *testing.T) {
	data := []byte("MemTotal: 1024 kB\nMemFree: 200 kB\nMemAvailable: 512 kB\n")
	f, err := ParseMeminfo(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(1048576), f.RamTotal)
	// MemFree wires to RamAvailable, MemAvailable wires to RamFree,
	// per the preserved source mapping.
	assert.Equal(t, uint64(204800), f.RamAvailable)
	assert.Equal(t, uint64(524288), f.RamFree)
}

func TestParseMeminfo_NoUnitMeansScale1(t *testing.T) {
	data := []byte("MemTotal: 1024\nMemFree: 200\nMemAvailable: 512\n")
	f, err := ParseMeminfo(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(1024), f.RamTotal)
}

func TestParseMeminfo_Incomplete(t *testing.T) {
	_, err := ParseMeminfo([]byte("MemTotal: 1024 kB\n"))
	assert.ErrorIs(t, err, ErrIncompleteMeminfo)
}

func TestParseMeminfo_StopsAfterAllThreeSeen(t *testing.T) {
	data := []byte("MemTotal: 1 kB\nMemFree: 1 kB\nMemAvailable: 1 kB\nSwapTotal: garbage\n")
	_, err := ParseMeminfo(data)
	require.NoError(t, err)
}
