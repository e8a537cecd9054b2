//go:build linux

// Package acquire implements the two stateful proc readers the
// sampler drives every tick: the system acquirer (/proc/stat,
// /proc/meminfo) and the process acquirer (/proc/<pid>/stat and its
// threads' stat files).
package acquire

import (
	"io"
	"os"
)

// pageSize bounds RawStats' content buffer. Proc files are always
// readable in a single page per §4's RawStats notes; 4 KiB covers
// every kernel configuration this module targets.
const pageSize = 4096

// RawStats owns exactly one proc pseudo-file: its descriptor, the
// timestamps bracketing the last fast read, and a one-page content
// buffer. A RawStats with no open file is never read; FastRead on it
// is a no-op that leaves pending false.
type RawStats struct {
	path    string
	f       *os.File
	buf     []byte
	n       int
	pending bool
	tsStart uint64
	tsEnd   uint64
}

func newRawStats(path string) *RawStats {
	return &RawStats{path: path, buf: make([]byte, pageSize)}
}

// Open opens the backing file if not already open.
func (r *RawStats) Open() error {
	if r.f != nil {
		return nil
	}
	f, err := os.Open(r.path)
	if err != nil {
		return err
	}
	r.f = f
	return nil
}

// IsOpen reports whether the backing file descriptor is held.
func (r *RawStats) IsOpen() bool { return r.f != nil }

// Close releases the backing file descriptor, if held.
func (r *RawStats) Close() error {
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	r.pending = false
	return err
}

// FastRead performs a positional read at offset 0, bracketed by
// timestamps from now. A read failure clears pending but does not
// close the file — only the caller decides whether a failure means
// the underlying entity is gone.
func (r *RawStats) FastRead(now func() uint64) {
	if r.f == nil {
		r.pending = false
		return
	}
	r.tsStart = now()
	n, err := r.f.ReadAt(r.buf, 0)
	r.tsEnd = now()
	if err != nil && err != io.EOF {
		r.pending = false
		return
	}
	r.n = n
	r.pending = true
}

// Pending reports whether the last FastRead succeeded.
func (r *RawStats) Pending() bool { return r.pending }

// Bytes returns the content read by the last successful FastRead.
func (r *RawStats) Bytes() []byte { return r.buf[:r.n] }

// TsStart and TsEnd return the monotonic timestamps bracketing the
// last FastRead.
func (r *RawStats) TsStart() uint64 { return r.tsStart }
func (r *RawStats) TsEnd() uint64   { return r.tsEnd }
