//go:build linux

package acquire

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ja7ad/procsampler/pkg/record"
	"github.com/ja7ad/procsampler/pkg/system/proc"
	"github.com/ja7ad/procsampler/pkg/tokenizer"
)

// State is a Process acquirer's discovery/liveness state, per §4.4.2.
type State int

const (
	// Pending means the target has not yet been found (by-name) or
	// has not yet been attempted (fresh by-pid).
	Pending State = iota
	// Started means the process stat file is open and being sampled.
	Started
	// Failed is terminal: a by-pid target that vanished. By-name
	// targets never reach Failed — they return to Pending instead.
	Failed
)

type threadEntry struct {
	tid  int
	rs   *RawStats
	name string
}

// Process acquires /proc/<pid>/stat and every /proc/<pid>/task/<tid>/stat
// for one watched process, identified either by name or by pid.
type Process struct {
	byName bool
	name   string
	pid    int

	state State
	stat  *RawStats

	threads map[int]*threadEntry
	order   []int
}

// NewProcessByName constructs a Process acquirer that discovers its
// target by comm match; it starts Pending and retries discovery on
// every Init/ReadRaw call until it succeeds.
func NewProcessByName(name string) *Process {
	return &Process{byName: true, name: name, state: Pending, threads: make(map[int]*threadEntry)}
}

// NewProcessByPID constructs a Process acquirer bound to a fixed pid;
// if that pid is gone at Init or vanishes later it becomes terminal.
func NewProcessByPID(pid int) *Process {
	return &Process{pid: pid, state: Pending, threads: make(map[int]*threadEntry)}
}

// State reports the acquirer's current discovery/liveness state.
func (p *Process) State() State { return p.state }

// PID reports the pid this acquirer currently targets. A by-pid
// acquirer always knows it; a by-name acquirer returns ErrNotDiscovered
// until a discovery attempt has succeeded at least once, and after its
// process exits it keeps reporting the last pid it found.
func (p *Process) PID() (int, error) {
	if p.byName && p.pid == 0 {
		return 0, ErrNotDiscovered
	}
	return p.pid, nil
}

// Init attempts discovery/open once. The sampler calls this once per
// acquirer when loading the watch set; ReadRaw also calls it every
// tick a Pending acquirer remains Pending, so it is safe to call
// repeatedly.
func (p *Process) Init() {
	p.tryStart()
}

func (p *Process) tryStart() {
	if p.state != Pending {
		return
	}

	pid := p.pid
	if p.byName {
		found, ok := discoverByName(p.name)
		if !ok {
			return
		}
		pid = found
	} else if !proc.Exists(pid) {
		p.state = Failed
		return
	}

	rs := newRawStats(fmt.Sprintf("/proc/%d/stat", pid))
	if err := rs.Open(); err != nil {
		if !p.byName {
			p.state = Failed
		}
		return
	}

	p.pid = pid
	p.stat = rs
	p.state = Started
}

func discoverByName(name string) (int, bool) {
	pids, err := proc.EnumeratePIDs()
	if err != nil {
		return 0, false
	}
	for _, pid := range pids {
		data, err := os.ReadFile("/proc/" + strconv.Itoa(pid) + "/stat")
		if err != nil {
			continue
		}
		if tokenizer.MatchComm(string(data), name) {
			return pid, true
		}
	}
	return 0, false
}

// ReadRaw performs the fast-read phase: the process stat fd, then
// every known thread stat fd. A process-stat read failure is treated
// as the process having exited and triggers cleanup immediately,
// skipping the thread reads for this tick.
func (p *Process) ReadRaw() {
	if p.state != Started {
		p.tryStart()
		return
	}

	p.stat.FastRead(monotonicNs)
	if !p.stat.Pending() {
		p.handleExit()
		return
	}

	for _, t := range p.threads {
		t.rs.FastRead(monotonicNs)
	}
}

func (p *Process) handleExit() {
	_ = p.stat.Close()
	for _, t := range p.threads {
		_ = t.rs.Close()
	}
	p.threads = make(map[int]*threadEntry)
	p.order = nil
	p.stat = nil

	if p.byName {
		p.state = Pending
	} else {
		p.state = Failed
	}
}

// ProcessRaw decodes the pending buffers and emits ProcessStats (and,
// if recordThreads, ThreadStats for every reconciled thread), then
// reconciles the thread set against the freshly decoded thread count.
func (p *Process) ProcessRaw(
	recordThreads bool,
	emitProcess func(record.ProcessStats) error,
	emitThread func(record.ThreadStats) error,
) error {
	if p.state != Started || !p.stat.Pending() {
		return nil
	}

	pf, err := tokenizer.ParseProcessFields(string(p.stat.Bytes()))
	if err != nil {
		// Malformed stat line at this instant is treated the same as
		// an exited process: localized, not surfaced further (§7).
		p.handleExit()
		return nil
	}

	ps := record.ProcessStats{
		TsStart:     p.stat.TsStart(),
		TsEnd:       p.stat.TsEnd(),
		PID:         uint32(pf.PID),
		Name:        pf.Name,
		VSize:       uint32(pf.VSize),
		RSS:         uint32(pf.RSS),
		ThreadCount: uint16(pf.ThreadCount),
		Utime:       pf.Utime,
		Stime:       pf.Stime,
	}
	if err := emitProcess(ps); err != nil {
		return err
	}

	if !recordThreads {
		return nil
	}

	if uint64(len(p.threads)) != pf.ThreadCount || len(p.threads) == 0 {
		p.reconcileThreads()
	}

	for _, tid := range p.order {
		t, ok := p.threads[tid]
		if !ok {
			continue
		}
		if !t.rs.Pending() {
			// Thread's tick-read failed: it exited between fast-read
			// and now. Drop it so its fd isn't retried next tick.
			_ = t.rs.Close()
			delete(p.threads, tid)
			continue
		}
		tf, err := tokenizer.ParseThreadFields(string(t.rs.Bytes()))
		if err != nil {
			_ = t.rs.Close()
			delete(p.threads, tid)
			continue
		}
		ts := record.ThreadStats{
			TsStart: t.rs.TsStart(),
			TsEnd:   t.rs.TsEnd(),
			PID:     ps.PID,
			TID:     uint32(tid),
			Name:    fmt.Sprintf("%d-%s", tid, tf.Name),
			Utime:   tf.Utime,
			Stime:   tf.Stime,
		}
		if err := emitThread(ts); err != nil {
			return err
		}
	}
	p.compactOrder()

	return nil
}

func (p *Process) reconcileThreads() {
	tids, err := proc.EnumerateTIDs(p.pid)
	if err != nil {
		return
	}
	for _, tid := range tids {
		if _, ok := p.threads[tid]; ok {
			continue
		}
		rs := newRawStats(fmt.Sprintf("/proc/%d/task/%d/stat", p.pid, tid))
		if err := rs.Open(); err != nil {
			continue
		}
		rs.FastRead(monotonicNs)
		if !rs.Pending() {
			_ = rs.Close()
			continue
		}
		tf, err := tokenizer.ParseThreadFields(string(rs.Bytes()))
		if err != nil {
			_ = rs.Close()
			continue
		}
		p.threads[tid] = &threadEntry{tid: tid, rs: rs, name: fmt.Sprintf("%d-%s", tid, tf.Name)}
		p.order = append(p.order, tid)
	}
}

// compactOrder drops tids from the insertion-order slice that were
// removed from the map by a failed tick-read or a failed decode,
// keeping emission order stable without a ghost entry lingering.
func (p *Process) compactOrder() {
	out := p.order[:0]
	for _, tid := range p.order {
		if _, ok := p.threads[tid]; ok {
			out = append(out, tid)
		}
	}
	p.order = out
}

// Close releases every file descriptor this acquirer owns.
func (p *Process) Close() error {
	if p.stat != nil {
		_ = p.stat.Close()
	}
	for _, t := range p.threads {
		_ = t.rs.Close()
	}
	return nil
}
