// Package tokenizer implements the two proc-pseudo-file grammars the
// sampler depends on: the per-task stat line (shared by
// /proc/<pid>/stat and /proc/<pid>/task/<tid>/stat) and the line- or
// key/value-oriented system files (/proc/stat, /proc/meminfo). None of
// it copies beyond small local buffers, and none of it knows about the
// trace wire format — it only turns raw bytes into plain Go values.
package tokenizer

import "errors"

var (
	// ErrMalformed indicates a line did not have enough well-formed
	// fields to satisfy the caller's required index.
	ErrMalformed = errors.New("tokenizer: malformed line")

	// ErrNoCPULine indicates /proc/stat had no aggregate "cpu" line.
	ErrNoCPULine = errors.New("tokenizer: no cpu line in system stat")

	// ErrIncompleteMeminfo indicates meminfo ended before all three
	// tracked fields (MemTotal, MemFree, MemAvailable) were seen.
	ErrIncompleteMeminfo = errors.New("tokenizer: incomplete meminfo")

	// ErrShortStat indicates a task stat line ended before the field
	// index the caller required was reached.
	ErrShortStat = errors.New("tokenizer: short stat line")
)
