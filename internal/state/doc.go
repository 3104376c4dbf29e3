// Package state holds the display state shared between the presenter and the
// UI renderer.
//
// # Overview
//
// The presenter pushes the retained trace window into a Store through the
// presenter.View interface; the UI reads it back with Snapshot:
//
//	Producer (Presenter):          Consumer (UI):
//	┌────────────────────┐        ┌────────────────────┐
//	│ OnNewTraces()      │        │                    │
//	│      ↓             │        │                    │
//	│ store.ShowTraces() │───────→│ store.Snapshot()   │
//	│ store.Clear()      │(mutex) │      ↓             │
//	│                    │        │ render viewport    │
//	└────────────────────┘        └────────────────────┘
//
// # Concurrency Model
//
// Store uses a readers-writer lock. ShowTraces and Clear take the write lock;
// Snapshot and Version take the read lock. Both directions copy the trace
// slice, so neither side can observe the other's mutations.
//
// # Change Detection
//
// Every mutation increments Snapshot.Version. The UI compares versions and
// only re-renders the viewport when the window actually changed, which keeps
// large windows cheap on idle ticks.
//
// # Eviction Accounting
//
// Removed is the number of traces evicted by the most recent update and
// TotalRemoved the running sum since the last Clear. The status bar shows the
// latter so users know how much scrolled out of the window.
//
// # Testing Considerations
//
// The zero Store is ready to use:
//
//	var store state.Store
//	snap := store.Snapshot() // empty, Version 0
package state
