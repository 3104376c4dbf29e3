package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/five82/logscope/internal/trace"
)

// ErrInvalidMaxTraces is returned when the retention window is not positive.
var ErrInvalidMaxTraces = errors.New("max traces must be greater than zero")

const (
	DefaultMaxTraces        = 2500
	DefaultSamplingInterval = 150 * time.Millisecond
	DefaultTextSize         = 36.0
)

// ReaderConfig describes what the reader keeps and how often it notifies.
// It is a value: the With* methods return modified copies and never touch
// the receiver.
type ReaderConfig struct {
	maxTraces   int
	filter      string
	level       trace.Level
	textSize    float64
	hasTextSize bool
	sampling    time.Duration
}

// NewReaderConfig returns the defaults: 2500 traces, no filter, 150ms sampling.
func NewReaderConfig() ReaderConfig {
	return ReaderConfig{
		maxTraces: DefaultMaxTraces,
		level:     trace.Verbose,
		sampling:  DefaultSamplingInterval,
	}
}

// WithMaxTraces sets the retention window size.
func (c ReaderConfig) WithMaxTraces(n int) (ReaderConfig, error) {
	if n <= 0 {
		return c, fmt.Errorf("%w: got %d", ErrInvalidMaxTraces, n)
	}
	c.maxTraces = n
	return c, nil
}

// WithFilter sets the substring or regular expression to match.
func (c ReaderConfig) WithFilter(filter string) ReaderConfig {
	c.filter = filter
	return c
}

// WithLevel sets the minimum level retained when filtering.
func (c ReaderConfig) WithLevel(level trace.Level) (ReaderConfig, error) {
	if !level.Valid() {
		return c, fmt.Errorf("%w: %d", trace.ErrInvalidLevel, int(level))
	}
	c.level = level
	return c, nil
}

// WithTextSize records a display text size hint.
func (c ReaderConfig) WithTextSize(px float64) ReaderConfig {
	c.textSize = px
	c.hasTextSize = true
	return c
}

// WithSamplingInterval sets the minimum gap between two notifications.
// Negative values are clamped to zero.
func (c ReaderConfig) WithSamplingInterval(d time.Duration) ReaderConfig {
	if d < 0 {
		d = 0
	}
	c.sampling = d
	return c
}

func (c ReaderConfig) MaxTraces() int                  { return c.maxTraces }
func (c ReaderConfig) Filter() string                  { return c.filter }
func (c ReaderConfig) Level() trace.Level              { return c.level }
func (c ReaderConfig) SamplingInterval() time.Duration { return c.sampling }
func (c ReaderConfig) HasTextSize() bool               { return c.hasTextSize }

// TextSize returns the configured text size or DefaultTextSize.
func (c ReaderConfig) TextSize() float64 {
	if !c.hasTextSize {
		return DefaultTextSize
	}
	return c.textSize
}

// HasFilter reports whether any filtering applies. Verbose matches every
// level, so it doubles as "no level filter".
func (c ReaderConfig) HasFilter() bool {
	return c.filter != "" || c.level != trace.Verbose
}

// Validate reports values a zero or hand-built ReaderConfig may carry.
func (c ReaderConfig) Validate() error {
	if c.maxTraces <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxTraces, c.maxTraces)
	}
	if !c.level.Valid() {
		return fmt.Errorf("%w: %d", trace.ErrInvalidLevel, int(c.level))
	}
	return nil
}

// Equal reports value equality.
func (c ReaderConfig) Equal(other ReaderConfig) bool {
	return c == other
}

// Clone returns an independent copy.
func (c ReaderConfig) Clone() ReaderConfig {
	return c
}

func (c ReaderConfig) String() string {
	return fmt.Sprintf("ReaderConfig{maxTraces=%d, filter=%q, level=%s, textSize=%g, sampling=%s}",
		c.maxTraces, c.filter, c.level, c.TextSize(), c.sampling)
}
