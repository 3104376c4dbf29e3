package app

import (
	"context"
	"time"

	"github.com/five82/logscope/internal/config"
)

const minFlushInterval = 50 * time.Millisecond

// Flusher releases buffered traces once their sampling window has passed.
type Flusher interface {
	Flush()
}

// RunFlusher flushes f at a fixed cadence until ctx is cancelled. A quiet
// stream would otherwise hold its last lines until the next one arrives.
func RunFlusher(ctx context.Context, f Flusher, interval time.Duration) error {
	if interval < minFlushInterval {
		interval = minFlushInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			f.Flush()
		}
	}
}

func flushInterval(cfg config.ReaderConfig) time.Duration {
	return max(cfg.SamplingInterval(), minFlushInterval)
}
