package presenter

import (
	"errors"
	"fmt"

	"github.com/five82/logscope/internal/trace"
)

// ErrInvalidCapacity is returned for a non-positive buffer capacity.
var ErrInvalidCapacity = errors.New("buffer capacity must be greater than zero")

// TraceBuffer keeps the most recent traces up to a fixed capacity. Oldest
// traces are evicted first.
type TraceBuffer struct {
	traces   []trace.Trace
	capacity int
}

// NewTraceBuffer returns an empty buffer holding at most capacity traces.
func NewTraceBuffer(capacity int) (*TraceBuffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	return &TraceBuffer{
		traces:   make([]trace.Trace, 0, min(capacity, 1024)),
		capacity: capacity,
	}, nil
}

// Add appends the whole batch and then evicts from the front until the
// buffer fits. It returns the number of evicted traces.
func (b *TraceBuffer) Add(batch []trace.Trace) int {
	b.traces = append(b.traces, batch...)
	return b.trim()
}

// SetCapacity changes the capacity and evicts immediately if needed.
func (b *TraceBuffer) SetCapacity(capacity int) error {
	if capacity <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	b.capacity = capacity
	b.trim()
	return nil
}

// Clear drops every trace and keeps the capacity.
func (b *TraceBuffer) Clear() {
	clear(b.traces)
	b.traces = b.traces[:0]
}

func (b *TraceBuffer) Len() int { return len(b.traces) }
func (b *TraceBuffer) Cap() int { return b.capacity }

// Traces returns a copy of the buffer, oldest first.
func (b *TraceBuffer) Traces() []trace.Trace {
	out := make([]trace.Trace, len(b.traces))
	copy(out, b.traces)
	return out
}

func (b *TraceBuffer) trim() int {
	excess := len(b.traces) - b.capacity
	if excess <= 0 {
		return 0
	}
	// Compact instead of reslicing so the backing array does not grow forever.
	n := copy(b.traces, b.traces[excess:])
	clear(b.traces[n:])
	b.traces = b.traces[:n]
	return excess
}
