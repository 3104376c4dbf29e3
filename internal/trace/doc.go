// Package trace defines the parsed log record and its severity levels.
//
// # Line Layout
//
// Lines come from `logcat -v time` and look like:
//
//	02-07 17:45:33.014 D/Tag( 1234): debug message
//
// Parse works purely on byte offsets:
//
//   - the line must be at least 21 bytes long
//   - byte 20 must be the '/' separator
//   - byte 19 is the level code (V, D, I, W, E, A, F; anything else is Debug)
//   - the message is bytes [0,18) followed by a space and bytes [21,end)
//
// The offsets are kept exactly as the stream format dictates. Bytes 18..20
// (the space before the level, the level and the separator) never reach the
// message; the level is carried separately.
//
// # Errors
//
// Malformed lines return an error wrapping ErrMalformedLine. Callers on the
// ingestion path drop such lines and keep reading.
package trace
