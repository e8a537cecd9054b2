package wire

import (
	"bytes"
	"encoding/binary"
	"reflect"
)

// Field describes one descriptor entry for a record type T: its wire
// name, its scalar code, and the accessor that reads it off a value of
// T. Get is captured once at Register time, replacing the source's
// offsetof-based pointer-to-field-at-offset table with an ordinary
// closure — there is nothing to keep a derive macro or reflection
// around for.
type Field[T any] struct {
	Name string
	Code ScalarCode
	Get  func(T) any
}

type fieldDesc struct {
	name string
	code ScalarCode
}

type descriptor struct {
	id     uint8
	name   string
	fields []fieldDesc
}

// Handle is the token returned by Register; it is the only way to
// write a value of T through the Registry that produced it.
type Handle[T any] struct {
	id     uint8
	fields []Field[T]
}

// Registry is a process-wide-in-spirit, but in practice recorder-owned,
// ordered catalogue of record types. Registrations append to the tail
// and ids are assigned densely starting at 0 in registration order.
// There is no package-level registry; every Recorder owns exactly one,
// matching §9's "global mutable registry" design note.
type Registry struct {
	descriptors []descriptor
	seen        map[reflect.Type]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{seen: make(map[reflect.Type]struct{})}
}

// Register adds a new record type to the registry and returns a handle
// used to write instances of it. Registering the same Go type twice
// fails with ErrAlreadyRegistered.
func Register[T any](r *Registry, name string, fields []Field[T]) (*Handle[T], error) {
	var zero T
	t := reflect.TypeOf(zero)
	if _, dup := r.seen[t]; dup {
		return nil, ErrAlreadyRegistered
	}
	if len(r.descriptors) >= 256 {
		return nil, ErrTooManyTypes
	}

	id := uint8(len(r.descriptors))
	fds := make([]fieldDesc, len(fields))
	for i, f := range fields {
		fds[i] = fieldDesc{name: f.Name, code: f.Code}
	}

	r.descriptors = append(r.descriptors, descriptor{id: id, name: name, fields: fds})
	r.seen[t] = struct{}{}

	owned := make([]Field[T], len(fields))
	copy(owned, fields)

	return &Handle[T]{id: id, fields: owned}, nil
}

// WriteHeader emits the descriptor table: format version, the reserved
// compression flag (always 0 — this module never compresses), the
// descriptor count, then each descriptor in registration order. This
// must be the very first thing written to a fresh trace sink.
func (r *Registry) WriteHeader(s *Sink) error {
	var buf bytes.Buffer
	buf.WriteByte(1) // format_version
	buf.WriteByte(0) // compressed_flag
	buf.WriteByte(uint8(len(r.descriptors)))

	for _, d := range r.descriptors {
		buf.WriteByte(d.id)
		if err := encodeStr(&buf, d.name); err != nil {
			return err
		}
		var cnt [4]byte
		binary.BigEndian.PutUint32(cnt[:], uint32(len(d.fields)))
		buf.Write(cnt[:])
		for _, f := range d.fields {
			if err := encodeStr(&buf, f.name); err != nil {
				return err
			}
			buf.WriteByte(entryKindRawValue)
			buf.WriteByte(uint8(f.code))
		}
	}

	_, err := s.Write(buf.Bytes())
	return err
}

// Write encodes rec through h and appends it to s as a single record:
// a type-id byte followed by the fields in descriptor order. The
// record is assembled in a local buffer first and written to the sink
// in one call, so a sink failure mid-record never leaves a
// partially-written record in the stream (§7).
func Write[T any](s *Sink, h *Handle[T], rec T) error {
	var buf bytes.Buffer
	buf.WriteByte(h.id)
	for _, f := range h.fields {
		if err := encodeScalar(&buf, f.Code, f.Get(rec)); err != nil {
			return err
		}
	}
	_, err := s.Write(buf.Bytes())
	return err
}
