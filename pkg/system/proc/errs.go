package proc

import "errors"

// ErrNotFound indicates that a requested /proc entity (pid, tid) has no
// corresponding directory.
var ErrNotFound = errors.New("proc: not found")
