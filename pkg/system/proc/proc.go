//go:build linux

// Package proc provides small, dependency-free primitives over the
// /proc pseudo-filesystem that do not belong to either grammar handled
// by the tokenizer package: clock calibration, pid existence checks,
// and pid enumeration.
package proc

import (
	"os"
	"strconv"
)

// ClockTicks returns the number of jiffies (clock ticks) per second used
// to interpret utime/stime counters found in task stat lines. It first
// checks the env var CLK_TCK (useful for testing on a host with a
// different configured rate), otherwise falls back to 100, the value
// used by the overwhelming majority of Linux configurations.
//
// Note: the authoritative source is `sysconf(_SC_CLK_TCK)`, which
// requires cgo. Keeping this package cgo-free mirrors the rest of the
// sampler, which only ever opens and reads pseudo-files.
func ClockTicks() int {
	if v, err := strconv.Atoi(os.Getenv("CLK_TCK")); err == nil && v > 0 {
		return v
	}
	return 100
}

// PageSize returns the system memory page size in bytes, used to convert
// vsize/rss page counts into bytes where applicable. It checks the
// env var PAGE_SIZE first (testing override), then falls back to
// os.Getpagesize().
func PageSize() int {
	if v, err := strconv.Atoi(os.Getenv("PAGE_SIZE")); err == nil && v > 0 {
		return v
	}
	return os.Getpagesize()
}

// Exists reports whether a given PID currently has an entry under /proc.
func Exists(pid int) bool {
	_, err := os.Stat("/proc/" + strconv.Itoa(pid))
	return err == nil
}

// EnumeratePIDs lists every numeric entry directly under /proc, i.e.
// every pid currently known to the kernel. Entries that are not valid
// positive decimal directory names are skipped rather than erroring,
// since /proc also holds non-pid entries (self, net, sys, ...).
func EnumeratePIDs() ([]int, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, err
	}
	pids := make([]int, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil || pid <= 0 {
			continue
		}
		pids = append(pids, pid)
	}
	return pids, nil
}

// EnumerateTIDs lists every thread id under /proc/<pid>/task.
func EnumerateTIDs(pid int) ([]int, error) {
	entries, err := os.ReadDir("/proc/" + strconv.Itoa(pid) + "/task")
	if err != nil {
		return nil, err
	}
	tids := make([]int, 0, len(entries))
	for _, e := range entries {
		tid, err := strconv.Atoi(e.Name())
		if err != nil || tid <= 0 {
			continue
		}
		tids = append(tids, tid)
	}
	return tids, nil
}
