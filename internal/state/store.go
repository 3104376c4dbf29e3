package state

import (
	"sync"
	"time"

	"github.com/five82/logscope/internal/trace"
)

// Snapshot is the display state handed to the UI.
type Snapshot struct {
	Traces       []trace.Trace
	Removed      int    // evicted by the most recent update
	TotalRemoved int    // evicted since the last Clear
	Version      uint64 // bumps on every change
	LastUpdated  time.Time
}

// Store holds the latest window published by the presenter. It implements
// presenter.View and is safe to read from any goroutine.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// ShowTraces replaces the stored window.
func (s *Store) ShowTraces(traces []trace.Trace, removed int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Traces = cloneTraces(traces)
	s.snapshot.Removed = removed
	s.snapshot.TotalRemoved += removed
	s.touch()
}

// Clear empties the window and resets the eviction counters.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Traces = nil
	s.snapshot.Removed = 0
	s.snapshot.TotalRemoved = 0
	s.touch()
}

// Version returns the change counter without copying the window.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Version
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Traces = cloneTraces(s.snapshot.Traces)
	return snap
}

func (s *Store) touch() {
	s.snapshot.Version++
	s.snapshot.LastUpdated = time.Now()
}

func cloneTraces(items []trace.Trace) []trace.Trace {
	if len(items) == 0 {
		return nil
	}
	dup := make([]trace.Trace, len(items))
	copy(dup, items)
	return dup
}
