package tokenizer

import "strconv"

// Field indexes used by the core, per §4.3.1. The comm field (1) stays
// wrapped in parentheses in the raw file; ParseTaskStat strips them
// before handing the value to the consumer.
const (
	TaskFieldPID         = 0
	TaskFieldName        = 1
	TaskFieldUtime       = 13
	TaskFieldStime       = 14
	TaskFieldThreadCount = 19
	TaskFieldVSize       = 22
	TaskFieldRSS         = 23
)

// taskStatState is the three-state machine driving ParseTaskStat.
type taskStatState int

const (
	stateIdle taskStatState = iota
	stateInt
	stateStr
)

// ParseTaskStat walks a task stat line field by field, calling consume
// with the zero-based field index and its string value. consume
// returns false to stop parsing early (e.g. once the last field a
// caller needs has been read); a well-formed line needs no allocation
// beyond the slices consume itself keeps.
//
// The comm field (index 1) is the only field that may contain spaces
// or a literal '('; it is recognized by the leading '(' and ends at the
// first ')' rather than at whitespace. A comm that itself contains ')'
// is therefore cut at that ')', and the rest of it is read as further
// fields.
func ParseTaskStat(line string, consume func(idx int, value string) bool) {
	state := stateIdle
	start := 0
	idx := 0

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch state {
		case stateIdle:
			switch c {
			case ' ':
				continue
			case '(':
				state = stateStr
				start = i + 1
			default:
				state = stateInt
				start = i
			}
		case stateInt:
			if c == ' ' {
				if !consume(idx, line[start:i]) {
					return
				}
				idx++
				state = stateIdle
			}
		case stateStr:
			if c == ')' {
				if !consume(idx, line[start:i]) {
					return
				}
				idx++
				state = stateIdle
			}
		}
	}

	switch state {
	case stateInt, stateStr:
		consume(idx, line[start:])
	}
}

// ProcessFields is the subset of a process's own stat line the
// sampler's process records need.
type ProcessFields struct {
	PID         uint64
	Name        string
	Utime       uint64
	Stime       uint64
	ThreadCount uint64
	VSize       uint64
	RSS         uint64
}

// ParseProcessFields parses a /proc/<pid>/stat line, stopping at field
// 23 (rss) as the process consumer does per §4.3.1.
func ParseProcessFields(line string) (ProcessFields, error) {
	var (
		f          ProcessFields
		err        error
		reachedRSS bool
	)
	ParseTaskStat(line, func(idx int, v string) bool {
		switch idx {
		case TaskFieldPID:
			f.PID, err = parseUint(v)
		case TaskFieldName:
			f.Name = v
		case TaskFieldUtime:
			f.Utime, err = parseUint(v)
		case TaskFieldStime:
			f.Stime, err = parseUint(v)
		case TaskFieldThreadCount:
			f.ThreadCount, err = parseUint(v)
		case TaskFieldVSize:
			f.VSize, err = parseUint(v)
		case TaskFieldRSS:
			f.RSS, err = parseUint(v)
			reachedRSS = true
			return false
		}
		return err == nil
	})
	if err != nil {
		return ProcessFields{}, err
	}
	if !reachedRSS {
		return ProcessFields{}, ErrShortStat
	}
	return f, nil
}

// ThreadFields is the subset of a task's stat line the sampler's
// thread records need.
type ThreadFields struct {
	PID   uint64
	Name  string
	Utime uint64
	Stime uint64
}

// ParseThreadFields parses a /proc/<pid>/task/<tid>/stat line, stopping
// at field 14 (stime) as the thread consumer does.
func ParseThreadFields(line string) (ThreadFields, error) {
	var (
		f            ThreadFields
		err          error
		reachedStime bool
	)
	ParseTaskStat(line, func(idx int, v string) bool {
		switch idx {
		case TaskFieldPID:
			f.PID, err = parseUint(v)
		case TaskFieldName:
			f.Name = v
		case TaskFieldUtime:
			f.Utime, err = parseUint(v)
		case TaskFieldStime:
			f.Stime, err = parseUint(v)
			reachedStime = true
			return false
		}
		return err == nil
	})
	if err != nil {
		return ThreadFields{}, err
	}
	if !reachedStime {
		return ThreadFields{}, ErrShortStat
	}
	return f, nil
}

// MatchComm reports whether line's comm field (index 1) equals want,
// stopping as soon as that field is read — the name-match predicate's
// early-exit per §4.3.1.
func MatchComm(line, want string) bool {
	matched := false
	ParseTaskStat(line, func(idx int, v string) bool {
		if idx == TaskFieldName {
			matched = v == want
			return false
		}
		return true
	})
	return matched
}

func parseUint(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
