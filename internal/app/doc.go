// Package app is the composition root for logscope.
//
// Run loads the config file and preferences, builds the logger and the
// stream source, and wires a reader to one of two front ends:
//
//	config.Load ──> resolveReaderConfig ──> reader.New
//	                                          │
//	          ┌───────────────────────────────┴───────────────┐
//	          │ TUI                                           │ plain
//	          │ ui.Dispatcher (executor)                      │ reader.Queue (executor)
//	          │ presenter ──> state.Store ──> ui.Run          │ printer ──> stdout
//	          └───────────────────────────────────────────────┘
//
// Both modes run RunFlusher next to the front end in an errgroup. The flusher
// re-checks the sampling gate at the sampling cadence so a quiet stream does
// not hold its last lines back.
//
// Settings are layered: config file, then preferences (TUI only), then
// command-line flags. Plain mode returns once the stream ends and its final
// batch is printed; the TUI returns when the user quits or ctx is cancelled.
//
// The TUI owns the terminal, so it logs JSON to the configured log_file (or
// nowhere when log_file is empty). Plain mode logs to stderr.
package app
