// Package wire implements the trace file's binary substrate: the
// scalar encoding, the struct-descriptor registry, and the buffered
// append-only sink records are written to.
package wire

import "errors"

var (
	// ErrAlreadyRegistered is returned by Registry.Register when a
	// type has already been given a descriptor in this registry.
	ErrAlreadyRegistered = errors.New("wire: type already registered")

	// ErrUnknownType names the unknown-record-type error kind. Write
	// takes a Handle and no Registry, so a handle is never checked
	// against a registry and no function in this package returns it.
	ErrUnknownType = errors.New("wire: unknown type")

	// ErrTooManyTypes is returned once 256 types have been registered;
	// type ids are a single byte on the wire.
	ErrTooManyTypes = errors.New("wire: descriptor table full")

	// ErrStringTooLong is returned when a string field's encoded
	// length (including the trailing NUL) would overflow a u16.
	ErrStringTooLong = errors.New("wire: string field exceeds 0xFFFF bytes")
)
