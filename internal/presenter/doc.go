// Package presenter keeps the bounded window of traces shown to the user.
//
// A Presenter is a reader.Listener: each batch is appended to a TraceBuffer,
// the oldest traces are evicted once the configured maximum is exceeded, and
// the whole window is pushed to the View together with the eviction count.
// Filter changes clear the window and restart the reader so only traces
// matching the new filter are shown.
package presenter
