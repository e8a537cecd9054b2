//go:build linux

package acquire

import "golang.org/x/sys/unix"

// monotonicNs returns CLOCK_MONOTONIC in nanoseconds, matching the
// clock acquisition windows are measured against (§4.4, §5).
func monotonicNs() uint64 {
	var ts unix.Timespec
	_ = unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts)
	return uint64(ts.Sec)*1e9 + uint64(ts.Nsec)
}

// MonotonicNs exposes monotonicNs to callers outside this package,
// notably the sampler, so every timestamp in a trace is drawn from
// the same clock source.
func MonotonicNs() uint64 { return monotonicNs() }
