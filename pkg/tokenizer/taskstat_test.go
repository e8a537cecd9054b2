package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProcessFields_S3(t *testing.T) {
	// 46-field /proc/<pid>/stat-shaped line, comm "my proc" with an
	// embedded space, indexes per §4.3.1.
	line := "1234 (my proc) S 1 1234 1234 0 -1 0 0 0 0 0 27 28 0 0 0 0 5 0 0 8192000 512 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0"
	f, err := ParseProcessFields(line)
	require.NoError(t, err)
	assert.Equal(t, uint64(1234), f.PID)
	assert.Equal(t, "my proc", f.Name)
	assert.Equal(t, uint64(27), f.Utime)
	assert.Equal(t, uint64(28), f.Stime)
	assert.Equal(t, uint64(5), f.ThreadCount)
	assert.Equal(t, uint64(8192000), f.VSize)
	assert.Equal(t, uint64(512), f.RSS)
}

func TestParseProcessFields_ShortLine(t *testing.T) {
	_, err := ParseProcessFields("1234 (sh) S 1 1234")
	assert.ErrorIs(t, err, ErrShortStat)
}

func TestParseThreadFields_StopsAtStime(t *testing.T) {
	line := "42 (worker) S 1 42 42 0 -1 0 0 0 0 0 9 11 99999999999999999999"
	f, err := ParseThreadFields(line)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), f.PID)
	assert.Equal(t, "worker", f.Name)
	assert.Equal(t, uint64(9), f.Utime)
	assert.Equal(t, uint64(11), f.Stime)
}

func TestMatchComm(t *testing.T) {
	line := "7 (target) S 1 7 7 0 -1 0"
	assert.True(t, MatchComm(line, "target"))
	assert.False(t, MatchComm(line, "other"))
}

func TestParseTaskStat_CommWithParens(t *testing.T) {
	// comm itself containing a literal "(": the STR state ends only at
	// the first ')', so the inner '(' stays part of the name.
	var got []string
	ParseTaskStat("99 (fo(o) R", func(idx int, v string) bool {
		got = append(got, v)
		return true
	})
	require.Len(t, got, 3)
	assert.Equal(t, "99", got[0])
	assert.Equal(t, "fo(o", got[1])
	assert.Equal(t, "R", got[2])
}
