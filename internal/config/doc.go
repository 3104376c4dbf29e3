// Package config loads the logscope configuration file and defines the
// ReaderConfig value that drives filtering, retention and sampling.
//
// # Overview
//
// Two kinds of configuration live here:
//
//   - Config: where lines come from (a command or a file) and where
//     logscope writes its own diagnostics. Read once at startup.
//   - ReaderConfig: the live reader settings. It is swapped at runtime when
//     the user edits the filter or level, so it is an immutable value with
//     With* builders instead of a struct with exported fields.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/logscope/config.toml (default)
//  3. If the config file doesn't exist, fall back to built-in defaults
//  4. If the file exists but fields are missing or empty, use defaults
//
// # Default Values
//
//   - Command: logcat -v time
//   - File: none (command mode)
//   - Backlog: 200 lines replayed when tailing a file
//   - Log file: ~/.local/state/logscope/logscope.log
//   - Max traces: 2500
//   - Sampling interval: 150ms
//   - Level: V (no level filter)
//   - Text size: 36
//
// # TOML Format
//
//	command = ["adb", "logcat", "-v", "time"]
//	file = ""
//	backlog = 200
//	poll = false
//	log_file = "~/.local/state/logscope/logscope.log"
//
//	[reader]
//	max_traces = 2500
//	filter = ""
//	level = "V"
//	sampling_ms = 150
//	text_size = 36.0
//
// An explicit empty log_file disables logscope's own log.
//
// # Error Handling
//
// Load returns errors for unreadable files, TOML syntax errors and invalid
// reader values. Invalid values wrap ErrInvalidMaxTraces or
// trace.ErrInvalidLevel so callers can use errors.Is. Missing files are not
// an error.
//
// ReaderConfig's With* methods that can fail return the unchanged receiver
// together with the error, so a rejected update never half-applies.
package config
