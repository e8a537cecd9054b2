//go:build linux

package sampler

import (
	"os"
	"testing"
	"time"

	"github.com/ja7ad/procsampler/internal/reactor"
	"github.com/ja7ad/procsampler/pkg/record"
	"github.com/stretchr/testify/require"
)

func TestSampler_TickWhileStoppedIsNoop(t *testing.T) {
	called := false
	s := New(Callbacks{SystemStats: func(record.SystemStats) error {
		called = true
		return nil
	}}, true)

	require.NoError(t, s.Tick())
	require.False(t, called)
}

func TestSampler_TickEmitsSystemAndProcessStats(t *testing.T) {
	if _, err := os.Stat("/proc/stat"); err != nil {
		t.Skip("no /proc/stat on this host")
	}

	var gotDuration record.AcquisitionDuration
	var gotSystem record.SystemStats
	var gotProcess record.ProcessStats
	beginCalled, endCalled, sysCalled, procCalled := false, false, false, false

	s := New(Callbacks{
		ResultsBegin: func(d record.AcquisitionDuration) { beginCalled = true; gotDuration = d },
		ResultsEnd:   func() { endCalled = true },
		SystemStats: func(ss record.SystemStats) error {
			sysCalled = true
			gotSystem = ss
			return nil
		},
		ProcessStats: func(ps record.ProcessStats) error {
			procCalled = true
			gotProcess = ps
			return nil
		},
	}, false)

	s.AddProcessByPID(os.Getpid())
	s.Start()
	require.NoError(t, s.Tick())

	require.True(t, beginCalled)
	require.True(t, endCalled)
	require.True(t, sysCalled)
	require.True(t, procCalled)
	require.GreaterOrEqual(t, gotDuration.EndNs, gotDuration.StartNs)
	require.Greater(t, gotSystem.RamTotal, uint64(0))
	require.EqualValues(t, os.Getpid(), gotProcess.PID)

	s.Stop()
	require.Equal(t, Stopped, s.State())
}

func TestSampler_StopIsIdempotent(t *testing.T) {
	s := New(Callbacks{}, true)
	s.Stop()
	s.Stop()
	require.Equal(t, Stopped, s.State())
}

func TestSampler_SetPeriodRearmsBoundTimerWhileStarted(t *testing.T) {
	r, err := reactor.New()
	require.NoError(t, err)
	defer r.Close()

	timer, err := reactor.NewPeriodic(r, time.Second, func() {})
	require.NoError(t, err)
	defer timer.Clear()

	s := New(Callbacks{}, true)
	s.Bind(timer, time.Second)
	s.Start()

	require.NoError(t, s.SetPeriod(5*time.Millisecond))
}

func TestSampler_SetPeriodWithoutBindIsNoop(t *testing.T) {
	s := New(Callbacks{}, true)
	s.Start()
	require.NoError(t, s.SetPeriod(5*time.Millisecond))
}
