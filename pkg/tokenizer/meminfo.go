package tokenizer

import (
	"bufio"
	"strconv"
	"strings"
)

// MeminfoFields is the subset of /proc/meminfo this module tracks.
//
// NOTE on naming: the source wires MemFree to RamAvailable and
// MemAvailable to RamFree — the opposite of what the field names
// suggest. This is preserved unchanged per §4.3.3's open question:
// flipping it would silently change the meaning of every existing
// trace without a format version bump, so it is kept exactly as the
// original implementation reads it.
type MeminfoFields struct {
	RamTotal     uint64
	RamAvailable uint64
	RamFree      uint64
}

// ParseMeminfo walks /proc/meminfo line by line. Each line has the
// form "Name: value [unit]"; only MemTotal, MemFree and MemAvailable
// are consumed, and parsing stops as soon as all three have been seen.
func ParseMeminfo(data []byte) (MeminfoFields, error) {
	var (
		f                           MeminfoFields
		sawTotal, sawFree, sawAvail bool
	)

	sc := bufio.NewScanner(strings.NewReader(string(data)))
	for sc.Scan() && !(sawTotal && sawFree && sawAvail) {
		name, value, ok := parseMeminfoLine(sc.Text())
		if !ok {
			continue
		}
		switch name {
		case "MemTotal":
			f.RamTotal = value
			sawTotal = true
		case "MemFree":
			f.RamAvailable = value
			sawFree = true
		case "MemAvailable":
			f.RamFree = value
			sawAvail = true
		}
	}
	if err := sc.Err(); err != nil {
		return MeminfoFields{}, err
	}
	if !(sawTotal && sawFree && sawAvail) {
		return MeminfoFields{}, ErrIncompleteMeminfo
	}
	return f, nil
}

// parseMeminfoLine splits "Name: value [unit]" into name and a value
// scaled to bytes. The only unit this module accepts is "kB", scale
// 1024; no unit means scale 1.
func parseMeminfoLine(line string) (name string, value uint64, ok bool) {
	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return "", 0, false
	}
	name = line[:colon]
	rest := strings.TrimLeft(line[colon+1:], " ")

	end := 0
	for end < len(rest) && (rest[end] == '-' || (rest[end] >= '0' && rest[end] <= '9')) {
		end++
	}
	if end == 0 {
		return "", 0, false
	}
	n, err := strconv.ParseInt(rest[:end], 10, 64)
	if err != nil || n < 0 {
		return "", 0, false
	}

	scale := uint64(1)
	switch rest[end:] {
	case "":
	case " kB":
		scale = 1024
	default:
		return "", 0, false
	}
	return name, uint64(n) * scale, true
}
