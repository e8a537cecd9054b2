//go:build linux

// Package sampler drives the periodic acquisition tick: read every
// raw proc buffer as fast as possible, stamp the acquisition window,
// then decode and emit records for everything read. It owns no wire
// format and no reactor plumbing of its own — those are supplied by
// the caller so the tick procedure can be exercised without epoll.
package sampler

import (
	"time"

	"github.com/ja7ad/procsampler/internal/reactor"
	"github.com/ja7ad/procsampler/pkg/acquire"
	"github.com/ja7ad/procsampler/pkg/record"
	"github.com/ja7ad/procsampler/pkg/system/proc"
)

// State is the sampler's run state.
type State int

const (
	// Stopped is the initial state and the state after Stop.
	Stopped State = iota
	// Started is the state between Start and Stop.
	Started
)

// Callbacks bundles the optional emission hooks a Sampler drives
// during a tick. Any field left nil is simply skipped; only
// ResultsBegin/ResultsEnd bracket the whole batch unconditionally when
// set.
type Callbacks struct {
	ResultsBegin func(record.AcquisitionDuration)
	ResultsEnd   func()
	SystemStats  func(record.SystemStats) error
	ProcessStats func(record.ProcessStats) error
	ThreadStats  func(record.ThreadStats) error
}

// Sampler coordinates one System acquirer and any number of Process
// acquirers through the two-phase fast-read / decode-and-emit tick
// described for this module. The now field is injectable so tests in
// this package can avoid a real clock.
type Sampler struct {
	state State
	now   func() uint64

	system        *acquire.System
	processes     []*acquire.Process
	recordThreads bool
	cb            Callbacks

	period time.Duration
	timer  *reactor.Timer
}

// New constructs a Sampler bound to the given callbacks. recordThreads
// controls whether per-thread stats are decoded and emitted at all;
// when false, Process acquirers never reconcile or read thread fds.
func New(cb Callbacks, recordThreads bool) *Sampler {
	return &Sampler{
		state:         Stopped,
		now:           acquire.MonotonicNs,
		system:        acquire.NewSystem(),
		recordThreads: recordThreads,
		cb:            cb,
	}
}

// AddProcessByName adds a process acquirer that discovers its target
// by comm match, retrying on every tick until found.
func (s *Sampler) AddProcessByName(name string) {
	p := acquire.NewProcessByName(name)
	p.Init()
	s.processes = append(s.processes, p)
}

// AddProcessByPID adds a process acquirer bound to a fixed pid.
func (s *Sampler) AddProcessByPID(pid int) {
	p := acquire.NewProcessByPID(pid)
	p.Init()
	s.processes = append(s.processes, p)
}

// LoadProcesses watches every pid currently visible under /proc. It
// is the zero-positional-args behavior of the CLI front end: sample
// the whole machine rather than a named subset.
func (s *Sampler) LoadProcesses() error {
	pids, err := proc.EnumeratePIDs()
	if err != nil {
		return err
	}
	for _, pid := range pids {
		s.AddProcessByPID(pid)
	}
	return nil
}

// Bind associates the reactor timer driving Tick with the sampler, at
// the period it was armed with. Once bound, SetPeriod can re-arm that
// timer instead of only remembering the requested period.
func (s *Sampler) Bind(t *reactor.Timer, period time.Duration) {
	s.timer = t
	s.period = period
}

// SetPeriod changes the acquisition period. Legal in either state; if
// the sampler is Started and bound to a timer via Bind, the timer is
// re-armed immediately so the new period takes effect on the next
// tick.
func (s *Sampler) SetPeriod(d time.Duration) error {
	s.period = d
	if s.state == Started && s.timer != nil {
		return s.timer.Reset(d)
	}
	return nil
}

// Start transitions the sampler to Started. It is idempotent.
func (s *Sampler) Start() { s.state = Started }

// Stop transitions the sampler to Stopped and releases every
// acquirer's file descriptors. It is idempotent.
func (s *Sampler) Stop() {
	if s.state == Stopped {
		return
	}
	s.state = Stopped
	_ = s.system.Close()
	for _, p := range s.processes {
		_ = p.Close()
	}
}

// State reports whether the sampler is Started or Stopped.
func (s *Sampler) State() State { return s.state }

// Tick runs one full acquisition cycle: fast-read every raw buffer,
// stamp the acquisition window, then decode and emit. A Tick call
// while Stopped is a no-op.
func (s *Sampler) Tick() error {
	if s.state != Started {
		return nil
	}

	start := s.now()

	s.system.FastRead()
	for _, p := range s.processes {
		p.ReadRaw()
	}

	end := s.now()

	if s.cb.ResultsBegin != nil {
		s.cb.ResultsBegin(record.AcquisitionDuration{StartNs: start, EndNs: end})
	}

	if s.cb.SystemStats != nil {
		if err := s.system.DecodeAndEmit(s.cb.SystemStats); err != nil {
			return err
		}
	}

	for _, p := range s.processes {
		if err := p.ProcessRaw(s.recordThreads, s.emitProcess, s.emitThread); err != nil {
			return err
		}
	}

	if s.cb.ResultsEnd != nil {
		s.cb.ResultsEnd()
	}

	return nil
}

func (s *Sampler) emitProcess(ps record.ProcessStats) error {
	if s.cb.ProcessStats == nil {
		return nil
	}
	return s.cb.ProcessStats(ps)
}

func (s *Sampler) emitThread(ts record.ThreadStats) error {
	if s.cb.ThreadStats == nil {
		return nil
	}
	return s.cb.ThreadStats(ts)
}
