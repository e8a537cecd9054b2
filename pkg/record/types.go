// Package record defines the trace's record types and the Recorder
// that registers them with a wire.Registry and appends instances to a
// wire.Sink in the order the Sampler produces them.
package record

// CommandLine is written once, immediately after the descriptor
// header, and holds the full invocation the trace was captured under.
// It has no counterpart in the upstream spec's data model — it is
// supplemented from the original implementation's ProgramParameters
// record (see DESIGN.md) so a trace is self-describing about how it
// was produced.
type CommandLine struct {
	Params string
}

// SystemConfig is immutable for the lifetime of a trace: the clock
// tick rate and page size the recording host was running under when
// the sampler started. It is written once, right after CommandLine.
type SystemConfig struct {
	ClkTck   int32
	PageSize int32
}

// AcquisitionDuration brackets the fast-read phase of one tick.
type AcquisitionDuration struct {
	StartNs uint64
	EndNs   uint64
}

// SystemStats holds one tick's systemwide counters. ram_available and
// ram_free preserve the source's MemFree/MemAvailable wiring; see
// tokenizer.MeminfoFields.
type SystemStats struct {
	TsStart        uint64
	TsEnd          uint64
	Utime          uint64
	Nice           uint64
	Stime          uint64
	Idle           uint64
	IoWait         uint64
	Irq            uint64
	SoftIrq        uint64
	IrqCount       uint64
	SoftIrqCount   uint64
	CtxSwitchCount uint64
	RamTotal       uint64
	RamAvailable   uint64
	RamFree        uint64
}

// ProcessStats holds one tick's counters for one watched process.
// Name carries the comm from the stat line; the Recorder truncates it
// to 64 bytes when writing, to match the source's fixed-capacity field.
type ProcessStats struct {
	TsStart     uint64
	TsEnd       uint64
	PID         uint32
	Name        string
	VSize       uint32
	RSS         uint32
	ThreadCount uint16
	Utime       uint64
	Stime       uint64
}

// ThreadStats holds one tick's counters for one watched thread. Name
// is "tid-comm" per §3.
type ThreadStats struct {
	TsStart uint64
	TsEnd   uint64
	PID     uint32
	TID     uint32
	Name    string
	Utime   uint64
	Stime   uint64
}

// maxNameLen is the source's fixed comm buffer capacity.
const maxNameLen = 64

// truncateName clamps a comm-derived display name to the wire format's
// fixed-capacity field.
func truncateName(s string) string {
	if len(s) <= maxNameLen {
		return s
	}
	return s[:maxNameLen]
}
