//go:build linux

package proc

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockTicksAndPageSize(t *testing.T) {
	t.Setenv("CLK_TCK", "")
	t.Setenv("PAGE_SIZE", "")
	assert.Greater(t, ClockTicks(), 0)
	assert.Greater(t, PageSize(), 0)

	t.Setenv("CLK_TCK", "250")
	t.Setenv("PAGE_SIZE", "16384")
	assert.Equal(t, 250, ClockTicks())
	assert.Equal(t, 16384, PageSize())
}

func TestExists(t *testing.T) {
	assert.True(t, Exists(os.Getpid()))
	assert.False(t, Exists(999999))
}

func TestEnumeratePIDs(t *testing.T) {
	pids, err := EnumeratePIDs()
	require.NoError(t, err)
	assert.Contains(t, pids, os.Getpid())
	for _, p := range pids {
		assert.Greater(t, p, 0)
	}
}

func TestEnumerateTIDs(t *testing.T) {
	tids, err := EnumerateTIDs(os.Getpid())
	require.NoError(t, err)
	assert.NotEmpty(t, tids)
	for _, tid := range tids {
		assert.Greater(t, tid, 0)
	}
}
