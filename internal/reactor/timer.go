//go:build linux

package reactor

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// Timer wraps a CLOCK_MONOTONIC timerfd registered into a Reactor. A
// Timer owns its fd; Clear unregisters it and closes it. Reset re-arms
// the same fd in place.
type Timer struct {
	r  *Reactor
	fd int
}

// NewPeriodic creates and arms a repeating timer that fires cb every
// period, starting after the first period elapses. The reactor's
// epoll set gains one fd; callers must Clear the timer to remove it.
func NewPeriodic(r *Reactor, period time.Duration, cb func()) (*Timer, error) {
	spec := unix.ItimerSpec{
		Interval: unix.NsecToTimespec(period.Nanoseconds()),
		Value:    unix.NsecToTimespec(period.Nanoseconds()),
	}
	return newTimer(r, spec, cb)
}

// NewOneShot creates and arms a timer that fires cb exactly once,
// after delay elapses.
func NewOneShot(r *Reactor, delay time.Duration, cb func()) (*Timer, error) {
	spec := unix.ItimerSpec{
		Interval: unix.NsecToTimespec(0),
		Value:    unix.NsecToTimespec(delay.Nanoseconds()),
	}
	return newTimer(r, spec, cb)
}

func newTimer(r *Reactor, spec unix.ItimerSpec, cb func()) (*Timer, error) {
	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("reactor: timerfd_create: %w", err)
	}

	if err := unix.TimerfdSettime(fd, 0, &spec, nil); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("reactor: timerfd_settime: %w", err)
	}

	t := &Timer{r: r, fd: fd}
	readCb := func(uint32) {
		var expirations [8]byte
		_, _ = unix.Read(fd, expirations[:])
		cb()
	}
	if err := r.AddFd(fd, unix.EPOLLIN, readCb); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}

	return t, nil
}

// Reset re-arms the timer to period without touching its epoll
// registration: the fd is reused, only its itimerspec changes. Safe to
// call on a live periodic or one-shot timer; either way the timer is
// periodic afterwards, first firing one period from now.
func (t *Timer) Reset(period time.Duration) error {
	spec := unix.ItimerSpec{
		Interval: unix.NsecToTimespec(period.Nanoseconds()),
		Value:    unix.NsecToTimespec(period.Nanoseconds()),
	}
	if err := unix.TimerfdSettime(t.fd, 0, &spec, nil); err != nil {
		return fmt.Errorf("reactor: timerfd_settime: %w", err)
	}
	return nil
}

// Clear unregisters and closes the timer's fd. Safe to call once;
// calling it twice returns the reactor's "not registered" error.
func (t *Timer) Clear() error {
	if err := t.r.DelFd(t.fd); err != nil {
		return err
	}
	return unix.Close(t.fd)
}
