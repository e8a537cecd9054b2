package tokenizer

import (
	"bufio"
	"strconv"
	"strings"
)

// SystemStatFields is the subset of /proc/stat this module tracks.
type SystemStatFields struct {
	Utime          uint64
	Nice           uint64
	Stime          uint64
	Idle           uint64
	IoWait         uint64
	Irq            uint64
	SoftIrq        uint64
	IrqCount       uint64
	SoftIrqCount   uint64
	CtxSwitchCount uint64
}

// ParseSystemStat walks /proc/stat line by line, dispatching on the
// first whitespace-delimited token per §4.3.2. Any line whose leading
// token is not one of cpu/intr/softirq/ctxt is ignored.
func ParseSystemStat(data []byte) (SystemStatFields, error) {
	var f SystemStatFields
	sawCPU := false

	sc := bufio.NewScanner(strings.NewReader(string(data)))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "cpu":
			if len(fields) < 8 {
				return SystemStatFields{}, ErrMalformed
			}
			vals, err := parseUints(fields[1:8])
			if err != nil {
				return SystemStatFields{}, err
			}
			f.Utime, f.Nice, f.Stime, f.Idle, f.IoWait, f.Irq, f.SoftIrq =
				vals[0], vals[1], vals[2], vals[3], vals[4], vals[5], vals[6]
			sawCPU = true
		case "intr":
			if len(fields) < 2 {
				continue
			}
			v, err := strconv.ParseUint(fields[1], 10, 64)
			if err != nil {
				return SystemStatFields{}, err
			}
			f.IrqCount = v
		case "softirq":
			if len(fields) < 2 {
				continue
			}
			v, err := strconv.ParseUint(fields[1], 10, 64)
			if err != nil {
				return SystemStatFields{}, err
			}
			f.SoftIrqCount = v
		case "ctxt":
			if len(fields) < 2 {
				continue
			}
			v, err := strconv.ParseUint(fields[1], 10, 64)
			if err != nil {
				return SystemStatFields{}, err
			}
			f.CtxSwitchCount = v
		}
	}
	if err := sc.Err(); err != nil {
		return SystemStatFields{}, err
	}
	if !sawCPU {
		return SystemStatFields{}, ErrNoCPULine
	}
	return f, nil
}

func parseUints(fields []string) ([]uint64, error) {
	out := make([]uint64, len(fields))
	for i, s := range fields {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
