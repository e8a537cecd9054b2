//go:build linux

package reactor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestReactor_AddFdAndAbort(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	defer r.Close()

	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	require.NoError(t, err)
	defer unix.Close(fd)

	fired := false
	require.NoError(t, r.AddFd(fd, unix.EPOLLIN, func(uint32) {
		var buf [8]byte
		_, _ = unix.Read(fd, buf[:])
		fired = true
		require.NoError(t, r.Abort())
	}))

	go func() {
		time.Sleep(10 * time.Millisecond)
		buf := []byte{1, 0, 0, 0, 0, 0, 0, 0}
		_, _ = unix.Write(fd, buf)
	}()

	require.NoError(t, r.Run(context.Background()))
	require.True(t, fired)
}

func TestReactor_AddFdTwiceFails(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	defer r.Close()

	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	require.NoError(t, err)
	defer unix.Close(fd)

	require.NoError(t, r.AddFd(fd, unix.EPOLLIN, func(uint32) {}))
	require.ErrorIs(t, r.AddFd(fd, unix.EPOLLIN, func(uint32) {}), ErrAlreadyRegistered)
}

func TestReactor_DelFdUnknownFails(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	defer r.Close()

	require.ErrorIs(t, r.DelFd(99999), ErrNotRegistered)
}

func TestTimer_OneShotFiresAndAborts(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	defer r.Close()

	fired := false
	timer, err := NewOneShot(r, 5*time.Millisecond, func() {
		fired = true
		require.NoError(t, r.Abort())
	})
	require.NoError(t, err)
	defer timer.Clear()

	require.NoError(t, r.Run(context.Background()))
	require.True(t, fired)
}

func TestTimer_ResetRearmsPeriod(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	defer r.Close()

	count := 0
	var timer *Timer
	timer, err = NewPeriodic(r, 50*time.Millisecond, func() {
		count++
		if count == 2 {
			require.NoError(t, r.Abort())
		}
	})
	require.NoError(t, err)
	defer timer.Clear()

	require.NoError(t, timer.Reset(5*time.Millisecond))

	require.NoError(t, r.Run(context.Background()))
	require.Equal(t, 2, count)
}

func TestTimer_PeriodicFiresMultipleTimes(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	defer r.Close()

	count := 0
	var timer *Timer
	timer, err = NewPeriodic(r, 5*time.Millisecond, func() {
		count++
		if count == 3 {
			require.NoError(t, r.Abort())
		}
	})
	require.NoError(t, err)
	defer timer.Clear()

	require.NoError(t, r.Run(context.Background()))
	require.Equal(t, 3, count)
}
