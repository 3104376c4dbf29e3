package trace

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLevel reports a level name or code that is not recognized.
var ErrInvalidLevel = errors.New("invalid trace level")

// Level is the severity of a trace. Levels are totally ordered; filtering
// keeps traces at or above a threshold.
type Level int

const (
	Verbose Level = iota
	Debug
	Info
	Warning
	Error
	Assert
	Fatal
)

var levelCodes = [...]string{
	Verbose: "V",
	Debug:   "D",
	Info:    "I",
	Warning: "W",
	Error:   "E",
	Assert:  "A",
	Fatal:   "F",
}

var levelNames = [...]string{
	Verbose: "verbose",
	Debug:   "debug",
	Info:    "info",
	Warning: "warning",
	Error:   "error",
	Assert:  "assert",
	Fatal:   "fatal",
}

// ParseLevel decodes a single level code. Unknown codes map to Debug.
func ParseLevel(code byte) Level {
	switch code {
	case 'V':
		return Verbose
	case 'I':
		return Info
	case 'W':
		return Warning
	case 'E':
		return Error
	case 'A':
		return Assert
	case 'F':
		return Fatal
	default:
		return Debug
	}
}

// LevelFromString accepts either a code ("W") or a name ("warning").
func LevelFromString(s string) (Level, error) {
	value := strings.TrimSpace(s)
	for i, code := range levelCodes {
		if strings.EqualFold(value, code) || strings.EqualFold(value, levelNames[i]) {
			return Level(i), nil
		}
	}
	switch strings.ToLower(value) {
	case "warn":
		return Warning, nil
	case "wtf":
		return Fatal, nil
	}
	return Verbose, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	return l >= Verbose && l <= Fatal
}

// Code returns the single-letter code used in the log stream.
func (l Level) Code() string {
	if !l.Valid() {
		return "?"
	}
	return levelCodes[l]
}

func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return strings.ToUpper(levelNames[l])
}

// Next returns the following level, wrapping from Fatal to Verbose.
func (l Level) Next() Level {
	if !l.Valid() || l == Fatal {
		return Verbose
	}
	return l + 1
}

// Prev returns the preceding level, wrapping from Verbose to Fatal.
func (l Level) Prev() Level {
	if !l.Valid() || l == Verbose {
		return Fatal
	}
	return l - 1
}
