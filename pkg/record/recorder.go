package record

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ja7ad/procsampler/pkg/wire"
)

// ErrNoFreeOutputPath is returned when every PATH-00.log .. PATH-99.log
// candidate already exists.
var ErrNoFreeOutputPath = errors.New("record: no free output path in PATH-NN.log range")

// Recorder owns the wire.Registry and wire.Sink for one trace file and
// exposes one typed write method per record type. It is the only
// component that opens the output file; every other component emits
// through its Record* methods.
type Recorder struct {
	reg  *wire.Registry
	sink *wire.Sink
	file *os.File
	path string

	commandLine  *wire.Handle[CommandLine]
	systemConfig *wire.Handle[SystemConfig]
	acqDuration  *wire.Handle[AcquisitionDuration]
	systemStats  *wire.Handle[SystemStats]
	processStats *wire.Handle[ProcessStats]
	threadStats  *wire.Handle[ThreadStats]
}

// New builds a Recorder and registers every record type. The returned
// Recorder has no destination yet; call Open before recording.
func New() (*Recorder, error) {
	r := &Recorder{reg: wire.NewRegistry()}

	var err error
	if r.commandLine, err = wire.Register(r.reg, "commandline", []wire.Field[CommandLine]{
		{Name: "params", Code: wire.Str, Get: func(v CommandLine) any { return v.Params }},
	}); err != nil {
		return nil, err
	}

	if r.systemConfig, err = wire.Register(r.reg, "systemconfig", []wire.Field[SystemConfig]{
		{Name: "clktck", Code: wire.I32, Get: func(v SystemConfig) any { return v.ClkTck }},
		{Name: "pagesize", Code: wire.I32, Get: func(v SystemConfig) any { return v.PageSize }},
	}); err != nil {
		return nil, err
	}

	if r.acqDuration, err = wire.Register(r.reg, "acquisitionduration", []wire.Field[AcquisitionDuration]{
		{Name: "start", Code: wire.U64, Get: func(v AcquisitionDuration) any { return v.StartNs }},
		{Name: "end", Code: wire.U64, Get: func(v AcquisitionDuration) any { return v.EndNs }},
	}); err != nil {
		return nil, err
	}

	if r.systemStats, err = wire.Register(r.reg, "systemstats", []wire.Field[SystemStats]{
		{Name: "ts", Code: wire.U64, Get: func(v SystemStats) any { return v.TsStart }},
		{Name: "acqend", Code: wire.U64, Get: func(v SystemStats) any { return v.TsEnd }},
		{Name: "utime", Code: wire.U64, Get: func(v SystemStats) any { return v.Utime }},
		{Name: "nice", Code: wire.U64, Get: func(v SystemStats) any { return v.Nice }},
		{Name: "stime", Code: wire.U64, Get: func(v SystemStats) any { return v.Stime }},
		{Name: "idle", Code: wire.U64, Get: func(v SystemStats) any { return v.Idle }},
		{Name: "iowait", Code: wire.U64, Get: func(v SystemStats) any { return v.IoWait }},
		{Name: "irq", Code: wire.U64, Get: func(v SystemStats) any { return v.Irq }},
		{Name: "softirq", Code: wire.U64, Get: func(v SystemStats) any { return v.SoftIrq }},
		{Name: "irqcount", Code: wire.U64, Get: func(v SystemStats) any { return v.IrqCount }},
		{Name: "softirqcount", Code: wire.U64, Get: func(v SystemStats) any { return v.SoftIrqCount }},
		{Name: "ctxswitchcount", Code: wire.U64, Get: func(v SystemStats) any { return v.CtxSwitchCount }},
		{Name: "ramtotal", Code: wire.U64, Get: func(v SystemStats) any { return v.RamTotal }},
		{Name: "ramavailable", Code: wire.U64, Get: func(v SystemStats) any { return v.RamAvailable }},
		{Name: "ramfree", Code: wire.U64, Get: func(v SystemStats) any { return v.RamFree }},
	}); err != nil {
		return nil, err
	}

	if r.processStats, err = wire.Register(r.reg, "processstats", []wire.Field[ProcessStats]{
		{Name: "ts", Code: wire.U64, Get: func(v ProcessStats) any { return v.TsStart }},
		{Name: "acqend", Code: wire.U64, Get: func(v ProcessStats) any { return v.TsEnd }},
		{Name: "pid", Code: wire.U32, Get: func(v ProcessStats) any { return v.PID }},
		{Name: "name", Code: wire.Str, Get: func(v ProcessStats) any { return truncateName(v.Name) }},
		{Name: "vsize", Code: wire.U32, Get: func(v ProcessStats) any { return v.VSize }},
		{Name: "rss", Code: wire.U32, Get: func(v ProcessStats) any { return v.RSS }},
		{Name: "threadcount", Code: wire.U16, Get: func(v ProcessStats) any { return v.ThreadCount }},
		{Name: "utime", Code: wire.U64, Get: func(v ProcessStats) any { return v.Utime }},
		{Name: "stime", Code: wire.U64, Get: func(v ProcessStats) any { return v.Stime }},
	}); err != nil {
		return nil, err
	}

	if r.threadStats, err = wire.Register(r.reg, "threadstats", []wire.Field[ThreadStats]{
		{Name: "ts", Code: wire.U64, Get: func(v ThreadStats) any { return v.TsStart }},
		{Name: "acqend", Code: wire.U64, Get: func(v ThreadStats) any { return v.TsEnd }},
		{Name: "pid", Code: wire.U32, Get: func(v ThreadStats) any { return v.PID }},
		{Name: "tid", Code: wire.U32, Get: func(v ThreadStats) any { return v.TID }},
		{Name: "name", Code: wire.Str, Get: func(v ThreadStats) any { return truncateName(v.Name) }},
		{Name: "utime", Code: wire.U64, Get: func(v ThreadStats) any { return v.Utime }},
		{Name: "stime", Code: wire.U64, Get: func(v ThreadStats) any { return v.Stime }},
	}); err != nil {
		return nil, err
	}

	return r, nil
}

// PickOutputPath returns the first "<base>-NN.log" path (NN = 00..99)
// that does not already exist, without creating it.
func PickOutputPath(base string) (string, error) {
	for i := 0; i < 100; i++ {
		candidate := fmt.Sprintf("%s-%02d.log", base, i)
		if _, err := os.Stat(candidate); errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
	}
	return "", ErrNoFreeOutputPath
}

// Open picks a free output path derived from base, creates the file,
// and writes the descriptor header. It returns the path actually used.
func (r *Recorder) Open(base string) (string, error) {
	path, err := PickOutputPath(base)
	if err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("record: create %s: %w", path, err)
	}
	sink := wire.NewSink(f)
	if err := r.reg.WriteHeader(sink); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("record: write header: %w", err)
	}
	r.file = f
	r.sink = sink
	r.path = path
	return path, nil
}

// Path returns the path Open picked, or "" if not yet open.
func (r *Recorder) Path() string { return r.path }

func (r *Recorder) RecordCommandLine(v CommandLine) error {
	return wire.Write(r.sink, r.commandLine, v)
}

func (r *Recorder) RecordSystemConfig(v SystemConfig) error {
	return wire.Write(r.sink, r.systemConfig, v)
}

func (r *Recorder) RecordAcquisitionDuration(v AcquisitionDuration) error {
	return wire.Write(r.sink, r.acqDuration, v)
}

func (r *Recorder) RecordSystemStats(v SystemStats) error {
	return wire.Write(r.sink, r.systemStats, v)
}

func (r *Recorder) RecordProcessStats(v ProcessStats) error {
	return wire.Write(r.sink, r.processStats, v)
}

func (r *Recorder) RecordThreadStats(v ThreadStats) error {
	return wire.Write(r.sink, r.threadStats, v)
}

// Flush forces any buffered bytes to the trace file.
func (r *Recorder) Flush() error { return r.sink.Flush() }

// Close flushes and closes the trace file.
func (r *Recorder) Close() error {
	if r.sink == nil {
		return nil
	}
	return r.sink.Close()
}
