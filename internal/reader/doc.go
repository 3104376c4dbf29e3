// Package reader coordinates a logtail.Tailer, the line filter and the
// listeners that consume parsed traces.
//
// Each accepted line is parsed and appended to a pending batch. The batch is
// handed to the Executor only when more than the configured sampling interval
// has passed since the previous batch, so bursts of log output become a few
// large updates instead of one update per line. Flush re-checks the gate
// without a new line; callers run it periodically so a quiet stream still
// delivers its tail.
//
// Listener calls always happen on the Executor. Every StartReading and
// Restart begins a new generation; lines and batches from an older
// generation are discarded, which keeps output from a replaced tailer out of
// a freshly cleared view.
package reader
