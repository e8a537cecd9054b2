//go:build linux

package acquire

import (
	"os"
	"testing"

	"github.com/ja7ad/procsampler/pkg/record"
	"github.com/stretchr/testify/require"
)

func TestProcess_ByPID_Self(t *testing.T) {
	p := NewProcessByPID(os.Getpid())
	p.Init()
	require.Equal(t, Started, p.State())
	defer p.Close()

	p.ReadRaw()
	require.Equal(t, Started, p.State())

	var got record.ProcessStats
	emitted := false
	err := p.ProcessRaw(true,
		func(ps record.ProcessStats) error {
			got = ps
			emitted = true
			return nil
		},
		func(record.ThreadStats) error { return nil },
	)
	require.NoError(t, err)
	require.True(t, emitted)
	require.EqualValues(t, os.Getpid(), got.PID)
	require.NotEmpty(t, got.Name)
}

func TestProcess_ByPID_VanishedIsTerminal(t *testing.T) {
	// A pid this large is virtually guaranteed not to exist.
	p := NewProcessByPID(1 << 30)
	p.Init()
	require.Equal(t, Failed, p.State())

	p.ReadRaw()
	require.Equal(t, Failed, p.State())
}

func TestProcess_ByName_RetriesWhenNotFound(t *testing.T) {
	p := NewProcessByName("definitely-not-a-real-process-name-xyz")
	p.Init()
	require.Equal(t, Pending, p.State())

	p.ReadRaw()
	require.Equal(t, Pending, p.State())
}

func TestProcess_PID_ByName_UndiscoveredReturnsErr(t *testing.T) {
	p := NewProcessByName("definitely-not-a-real-process-name-xyz")
	p.Init()

	_, err := p.PID()
	require.ErrorIs(t, err, ErrNotDiscovered)
}

func TestProcess_PID_ByPID_AlwaysKnown(t *testing.T) {
	p := NewProcessByPID(os.Getpid())

	pid, err := p.PID()
	require.NoError(t, err)
	require.Equal(t, os.Getpid(), pid)
}

func TestProcess_CompactOrder_DropsMissing(t *testing.T) {
	p := &Process{state: Started, threads: map[int]*threadEntry{2: {tid: 2}}, order: []int{1, 2, 3}}
	p.compactOrder()
	require.Equal(t, []int{2}, p.order)
}

func TestProcess_ProcessRaw_PrunesThreadOnTickReadFailure(t *testing.T) {
	stat := newRawStats("/proc/self/stat")
	require.NoError(t, stat.Open())
	stat.FastRead(monotonicNs)
	require.True(t, stat.Pending())

	aliveRS := newRawStats("/proc/self/stat")
	require.NoError(t, aliveRS.Open())
	aliveRS.FastRead(monotonicNs)
	require.True(t, aliveRS.Pending())

	// deadRS simulates a thread whose fast-read failed this tick
	// because the task exited: pending false, fd never closed yet.
	deadRS := newRawStats("/proc/self/stat")
	require.NoError(t, deadRS.Open())

	p := &Process{
		state: Started,
		pid:   os.Getpid(),
		stat:  stat,
		threads: map[int]*threadEntry{
			1: {tid: 1, rs: aliveRS},
			2: {tid: 2, rs: deadRS},
		},
		order: []int{1, 2},
	}

	err := p.ProcessRaw(true,
		func(record.ProcessStats) error { return nil },
		func(record.ThreadStats) error { return nil },
	)
	require.NoError(t, err)

	_, stillPresent := p.threads[2]
	require.False(t, stillPresent, "thread with failed tick-read must be removed from the set")
	require.NotContains(t, p.order, 2)
	require.Contains(t, p.order, 1)
	require.False(t, deadRS.IsOpen(), "removed thread's fd must be closed")
}
