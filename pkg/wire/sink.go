package wire

import (
	"bufio"
	"io"
)

// bufferSize bounds the sink's internal buffer before it is flushed to
// the destination writer. Proc records are small (well under a
// kilobyte each); 4 KiB keeps several ticks' worth of records in
// memory between syscalls without holding an unbounded amount.
const bufferSize = 4096

// Sink is a byte-oriented, append-only buffered writer. It is the only
// component that touches the destination file; every other package in
// this module formats into a Sink, never into a string.
//
// A Sink has no Seek: once bytes are accepted they cannot be revised.
type Sink struct {
	w   *bufio.Writer
	c   io.Closer
	err error
}

// NewSink wraps dst in a Sink. If dst also implements io.Closer,
// Close flushes and closes it; otherwise Close only flushes.
func NewSink(dst io.Writer) *Sink {
	s := &Sink{w: bufio.NewWriterSize(dst, bufferSize)}
	if c, ok := dst.(io.Closer); ok {
		s.c = c
	}
	return s
}

// Write appends bytes to the sink, flushing the internal buffer to the
// destination as needed. Once a Sink has failed, every subsequent
// Write is a no-op returning the first error encountered.
func (s *Sink) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	n, err := s.w.Write(p)
	if err != nil {
		s.err = err
	}
	return n, err
}

// Flush forces any buffered bytes to the destination.
func (s *Sink) Flush() error {
	if s.err != nil {
		return s.err
	}
	if err := s.w.Flush(); err != nil {
		s.err = err
		return err
	}
	return nil
}

// Close flushes the sink and, if the destination is closeable, closes
// it too. Flush is mandatory on close regardless of a prior error, so
// that as many buffered bytes as possible reach the destination.
func (s *Sink) Close() error {
	ferr := s.w.Flush()
	var cerr error
	if s.c != nil {
		cerr = s.c.Close()
	}
	if ferr != nil {
		return ferr
	}
	return cerr
}

// Err reports the first write or flush error the sink has observed.
func (s *Sink) Err() error {
	return s.err
}
