package trace

import (
	"errors"
	"fmt"
)

// ErrMalformedLine is returned by Parse for lines that do not follow the
// "MM-DD hh:mm:ss.mmm L/tag: message" layout.
var ErrMalformedLine = errors.New("malformed trace line")

// Byte offsets into a raw line.
const (
	MinTraceSize   = 21
	EndOfDateIndex = 18
	LevelIndex     = 19
	SeparatorIndex = 20
	MessageIndex   = 21

	separator = '/'
)

// Trace is a single parsed log line. It is an immutable value; two traces
// with the same level and message are equal.
type Trace struct {
	level   Level
	message string
}

// Parse converts a raw line into a Trace. The message keeps the date prefix
// [0,18) joined by a space to everything after the level separator.
func Parse(line string) (Trace, error) {
	if len(line) < MinTraceSize || line[SeparatorIndex] != separator {
		return Trace{}, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}
	return Trace{
		level:   ParseLevel(line[LevelIndex]),
		message: line[:EndOfDateIndex] + " " + line[MessageIndex:],
	}, nil
}

func (t Trace) Level() Level    { return t.level }
func (t Trace) Message() string { return t.message }

// Plain renders the trace the way it is shared: "<code>/ <message>".
func (t Trace) Plain() string {
	return t.level.Code() + "/ " + t.message
}

func (t Trace) String() string {
	return fmt.Sprintf("Trace{level=%s, message=%q}", t.level, t.message)
}
