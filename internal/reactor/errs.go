package reactor

import "errors"

var (
	// ErrAlreadyRegistered is returned by AddFd for an fd already
	// known to the reactor.
	ErrAlreadyRegistered = errors.New("reactor: fd already registered")
	// ErrNotRegistered is returned by DelFd for an fd the reactor
	// does not know about.
	ErrNotRegistered = errors.New("reactor: fd not registered")
	// ErrNilCallback is returned by AddFd when cb is nil.
	ErrNilCallback = errors.New("reactor: nil callback")
)
