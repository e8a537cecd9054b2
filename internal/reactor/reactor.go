//go:build linux

// Package reactor implements the single-threaded cooperative event
// loop the sampler runs on: one epoll instance, one abort eventfd, and
// a flat registry of caller-owned file descriptors. There are no
// locks anywhere in this package — callbacks and the fd registry are
// only ever touched from the goroutine that calls Run, matching the
// single-threaded concurrency model the sampler requires. The one
// exception is the context watcher Run starts, which may call Abort
// from its own goroutine; Abort only writes to the abort eventfd.
package reactor

import (
	"context"
	"fmt"

	"golang.org/x/sys/unix"
)

// Callback is invoked with the ready event mask (a bitwise-or of
// unix.EPOLLIN / unix.EPOLLOUT / ...) whenever its fd becomes ready.
type Callback func(events uint32)

type registration struct {
	fd int
	cb Callback
}

// Reactor is the process-wide epoll loop. Every fd registered with it
// must be owned by exactly one caller, who is responsible for closing
// it; the reactor never closes a caller's fd on their behalf.
type Reactor struct {
	epfd int
	stop int // eventfd used to unblock Run from another tick's callback

	regs map[int]*registration
}

// New creates the epoll instance and the abort eventfd, registering
// the latter with the former immediately.
func New() (*Reactor, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("reactor: epoll_create1: %w", err)
	}

	stop, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		_ = unix.Close(epfd)
		return nil, fmt.Errorf("reactor: eventfd: %w", err)
	}

	r := &Reactor{epfd: epfd, stop: stop, regs: make(map[int]*registration)}

	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, stop, &unix.EpollEvent{
		Events: unix.EPOLLIN,
		Fd:     int32(stop),
	}); err != nil {
		_ = unix.Close(stop)
		_ = unix.Close(epfd)
		return nil, fmt.Errorf("reactor: epoll_ctl(stopfd): %w", err)
	}

	return r, nil
}

// AddFd registers fd for the given readiness mask. The mask is
// level-triggered epoll semantics (no EPOLLET) so a callback that does
// not fully drain its fd will simply be called again on the next
// Run iteration.
func (r *Reactor) AddFd(fd int, events uint32, cb Callback) error {
	if cb == nil {
		return ErrNilCallback
	}
	if _, exists := r.regs[fd]; exists {
		return ErrAlreadyRegistered
	}

	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, fd, &unix.EpollEvent{
		Events: events,
		Fd:     int32(fd),
	}); err != nil {
		return fmt.Errorf("reactor: epoll_ctl(add %d): %w", fd, err)
	}

	r.regs[fd] = &registration{fd: fd, cb: cb}
	return nil
}

// DelFd unregisters fd. It does not close fd.
func (r *Reactor) DelFd(fd int) error {
	if _, exists := r.regs[fd]; !exists {
		return ErrNotRegistered
	}
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return fmt.Errorf("reactor: epoll_ctl(del %d): %w", fd, err)
	}
	delete(r.regs, fd)
	return nil
}

// Run blocks, dispatching ready callbacks as their fds become
// readable, until Abort is called from within a callback or ctx is
// cancelled. A cancelled ctx triggers the same abort path a callback
// would use, so cleanup always runs through one code path.
func (r *Reactor) Run(ctx context.Context) error {
	watcherDone := make(chan struct{})
	defer close(watcherDone)

	go func() {
		select {
		case <-ctx.Done():
			_ = r.Abort()
		case <-watcherDone:
		}
	}()

	var events [8]unix.EpollEvent

	for {
		n, err := unix.EpollWait(r.epfd, events[:], -1)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("reactor: epoll_wait: %w", err)
		}

		for i := 0; i < n; i++ {
			fd := int(events[i].Fd)
			if fd == r.stop {
				r.drainStop()
				return nil
			}
			reg, ok := r.regs[fd]
			if !ok {
				continue
			}
			reg.cb(events[i].Events)
		}
	}
}

func (r *Reactor) drainStop() {
	var buf [8]byte
	_, _ = unix.Read(r.stop, buf[:])
}

// Abort requests Run to return at the next opportunity. Safe to call
// from within a callback running inside Run.
func (r *Reactor) Abort() error {
	buf := []byte{1, 0, 0, 0, 0, 0, 0, 0}
	if _, err := unix.Write(r.stop, buf); err != nil {
		return fmt.Errorf("reactor: write(stopfd): %w", err)
	}
	return nil
}

// Close releases the epoll and abort file descriptors. It does not
// touch any fd registered via AddFd.
func (r *Reactor) Close() error {
	err1 := unix.Close(r.stop)
	err2 := unix.Close(r.epfd)
	if err1 != nil {
		return err1
	}
	return err2
}
