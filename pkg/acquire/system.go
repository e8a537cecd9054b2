//go:build linux

package acquire

import (
	"github.com/ja7ad/procsampler/pkg/record"
	"github.com/ja7ad/procsampler/pkg/tokenizer"
)

// System owns the two systemwide RawStats (/proc/stat and
// /proc/meminfo) and emits one combined SystemStats per tick, once
// both have valid data.
type System struct {
	stat *RawStats
	mem  *RawStats
}

// NewSystem constructs a System acquirer with its two RawStats left
// closed; they are opened lazily on the first FastRead.
func NewSystem() *System {
	return &System{
		stat: newRawStats("/proc/stat"),
		mem:  newRawStats("/proc/meminfo"),
	}
}

// FastRead performs the read-only burst for both pseudo-files,
// (re)opening either that is not currently open.
func (s *System) FastRead() {
	ensureOpen(s.stat)
	ensureOpen(s.mem)
	s.stat.FastRead(monotonicNs)
	s.mem.FastRead(monotonicNs)
}

func ensureOpen(r *RawStats) {
	if !r.IsOpen() {
		_ = r.Open()
	}
}

// DecodeAndEmit tokenizes both buffers and calls emit once with the
// combined SystemStats, but only if both reads succeeded this tick;
// otherwise it silently skips emission for this tick per §4.4.1.
func (s *System) DecodeAndEmit(emit func(record.SystemStats) error) error {
	if !s.stat.Pending() || !s.mem.Pending() {
		return nil
	}

	sf, err := tokenizer.ParseSystemStat(s.stat.Bytes())
	if err != nil {
		return nil
	}
	mf, err := tokenizer.ParseMeminfo(s.mem.Bytes())
	if err != nil {
		return nil
	}

	// ts_end takes the later of the two reads, giving the tightest
	// upper bound on the acquisition window, per §9's open question.
	tsEnd := s.stat.TsEnd()
	if s.mem.TsEnd() > tsEnd {
		tsEnd = s.mem.TsEnd()
	}
	tsStart := s.stat.TsStart()
	if s.mem.TsStart() < tsStart {
		tsStart = s.mem.TsStart()
	}

	return emit(record.SystemStats{
		TsStart:        tsStart,
		TsEnd:          tsEnd,
		Utime:          sf.Utime,
		Nice:           sf.Nice,
		Stime:          sf.Stime,
		Idle:           sf.Idle,
		IoWait:         sf.IoWait,
		Irq:            sf.Irq,
		SoftIrq:        sf.SoftIrq,
		IrqCount:       sf.IrqCount,
		SoftIrqCount:   sf.SoftIrqCount,
		CtxSwitchCount: sf.CtxSwitchCount,
		RamTotal:       mf.RamTotal,
		RamAvailable:   mf.RamAvailable,
		RamFree:        mf.RamFree,
	})
}

// Close releases both RawStats file descriptors.
func (s *System) Close() error {
	err1 := s.stat.Close()
	err2 := s.mem.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
