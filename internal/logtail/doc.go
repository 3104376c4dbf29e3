// Package logtail turns a log source into a stream of raw lines.
//
// # Overview
//
// A Source opens a Stream; a Tailer drives one Stream on its own goroutine
// and hands every line to a single LineFunc in arrival order. Two sources
// ship with the package:
//
//   - CommandSource runs a child process (by default `logcat -v time`) and
//     reads its stdout. Stderr is forwarded to the logger.
//   - FileSource follows a file with github.com/nxadm/tail, replaying the
//     last Backlog lines first.
//
// # Lifecycle
//
// A Tailer moves NotStarted -> Running -> Stopped exactly once:
//
//	t := logtail.New(log, logtail.CommandSource{Argv: argv, Log: log})
//	t.SetListener(func(line string) { ... })
//	t.Start()
//	...
//	t.Stop()
//	<-t.Done()
//
// Stop never waits for the read goroutine. It closes the stream so that a
// blocked ReadLine returns, and no listener call starts after the read loop
// observes the stop. Callers that hold locks inside their listener can
// therefore call Stop while holding the same lock.
//
// End of stream and read errors are logged and end the loop; they are not
// surfaced to the listener.
//
// # Reading a backlog
//
// Read returns the last N lines of a file with a ring buffer, so memory is
// O(N) regardless of file size. Missing files yield nil, nil.
package logtail
