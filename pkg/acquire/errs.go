package acquire

import "errors"

var (
	// ErrNotDiscovered is returned by a by-name process acquirer's
	// informational accessors before discovery has succeeded once.
	ErrNotDiscovered = errors.New("acquire: process not yet discovered")
)
