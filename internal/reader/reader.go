package reader

import (
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/five82/logscope/internal/config"
	"github.com/five82/logscope/internal/filter"
	"github.com/five82/logscope/internal/logtail"
	"github.com/five82/logscope/internal/trace"
)

// Listener receives batches of new traces on the executor. The batch is
// shared between listeners and must not be modified. The returned string is
// an acknowledgement that is only logged.
type Listener interface {
	OnNewTraces(traces []trace.Trace) string
}

// TailerFactory returns a fresh, unstarted tailer.
type TailerFactory func() *logtail.Tailer

// Option configures a Reader.
type Option func(*Reader)

// WithClock replaces time.Now for the sampling gate.
func WithClock(now func() time.Time) Option {
	return func(r *Reader) {
		if now != nil {
			r.now = now
		}
	}
}

// WithConfig sets the initial configuration. Invalid values are ignored.
func WithConfig(cfg config.ReaderConfig) Option {
	return func(r *Reader) {
		if err := cfg.Validate(); err != nil {
			r.log.Warn("ignoring invalid reader config", zap.Error(err))
			return
		}
		r.cfg = cfg
	}
}

// Reader turns tailer lines into sampled trace batches.
//
// Lines are filtered, parsed and accumulated; a batch is posted to the
// executor only when more than SamplingInterval has elapsed since the last
// batch. Lines arriving inside the interval wait for the next one (or for
// Flush).
type Reader struct {
	log     *zap.Logger
	exec    Executor
	factory TailerFactory
	now     func() time.Time

	// Serializes snapshot and Post so batches reach the executor in the
	// order they were formed. Always taken before mu.
	dispatchMu sync.Mutex

	mu        sync.Mutex
	cfg       config.ReaderConfig
	filter    *filter.Filter
	pending   []trace.Trace
	last      time.Time
	gen       uint64
	reading   bool
	tailer    *logtail.Tailer
	listeners []Listener
}

// New returns an idle reader. Nothing is read until StartReading.
func New(log *zap.Logger, exec Executor, factory TailerFactory, opts ...Option) *Reader {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Reader{
		log:     log,
		exec:    exec,
		factory: factory,
		now:     time.Now,
		cfg:     config.NewReaderConfig(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.filter = filter.New(r.cfg, log.Named("filter"))
	return r
}

// SetConfig applies cfg to subsequent lines. Invalid configurations are
// rejected and leave the reader unchanged.
func (r *Reader) SetConfig(cfg config.ReaderConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = cfg
	r.filter.Update(cfg)
	r.log.Debug("config updated", zap.Stringer("config", cfg))
	return nil
}

// Config returns the active configuration.
func (r *Reader) Config() config.ReaderConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg.Clone()
}

// StartReading starts the tailer. It is a no-op while already reading. A
// tailer that was stopped is replaced with a new one.
func (r *Reader) StartReading() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reading {
		return
	}
	if r.tailer == nil || r.tailer.State() == logtail.Stopped {
		r.tailer = r.newTailer()
	}
	r.startLocked()
}

// StopReading stops the tailer. Pending traces are kept, but no batch is
// delivered until reading starts again.
func (r *Reader) StopReading() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tailer != nil {
		r.tailer.Stop()
	}
	if r.reading {
		r.gen++
	}
	r.reading = false
}

// Restart discards the current tailer and pending traces and starts over with
// a fresh tailer. The sampling gate is reset so the next line is delivered
// immediately.
func (r *Reader) Restart() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tailer != nil {
		r.tailer.Stop()
	}
	r.tailer = r.newTailer()
	r.pending = nil
	r.last = time.Time{}
	r.reading = false
	r.startLocked()
	r.log.Debug("reader restarted", zap.Uint64("generation", r.gen))
}

// Register adds l. Registering the same listener twice has no effect.
// Listeners are compared by identity and must be comparable.
func (r *Reader) Register(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if slices.Contains(r.listeners, l) {
		return
	}
	r.listeners = append(r.listeners, l)
}

// Unregister removes l. Batches already being delivered may still reach it.
func (r *Reader) Unregister(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = slices.DeleteFunc(r.listeners, func(x Listener) bool { return x == l })
}

// Flush re-evaluates the sampling gate without a new line, so traces held
// back by the interval go out once it has elapsed.
func (r *Reader) Flush() {
	r.dispatch()
}

// Reading reports whether a tailer is running.
func (r *Reader) Reading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reading
}

// Pending returns the number of traces waiting for the next batch.
func (r *Reader) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

func (r *Reader) newTailer() *logtail.Tailer {
	if r.factory == nil {
		return nil
	}
	return r.factory()
}

// startLocked begins a new generation on r.tailer. Callers hold mu.
func (r *Reader) startLocked() {
	if r.tailer == nil {
		r.log.Error("no tailer available")
		return
	}
	r.gen++
	gen := r.gen
	r.tailer.SetListener(func(line string) { r.handleLine(gen, line) })
	r.reading = true
	r.tailer.Start()
}

func (r *Reader) handleLine(gen uint64, line string) {
	r.mu.Lock()
	if gen != r.gen || !r.reading {
		r.mu.Unlock()
		return
	}
	if !r.filter.Retain(line) {
		r.mu.Unlock()
		return
	}
	t, err := trace.Parse(line)
	if err != nil {
		r.mu.Unlock()
		return
	}
	r.pending = append(r.pending, t)
	r.mu.Unlock()

	r.dispatch()
}

// dispatch posts the pending traces when the sampling gate is open.
func (r *Reader) dispatch() {
	r.dispatchMu.Lock()
	defer r.dispatchMu.Unlock()

	r.mu.Lock()
	if !r.reading || len(r.pending) == 0 {
		r.mu.Unlock()
		return
	}
	now := r.now()
	if !r.last.IsZero() && now.Sub(r.last) <= r.cfg.SamplingInterval() {
		r.mu.Unlock()
		return
	}
	batch := r.pending
	r.pending = nil
	r.last = now
	gen := r.gen
	r.mu.Unlock()

	r.exec.Post(func() { r.deliver(gen, batch) })
}

func (r *Reader) deliver(gen uint64, batch []trace.Trace) {
	r.mu.Lock()
	if gen != r.gen || !r.reading {
		r.mu.Unlock()
		r.log.Debug("dropping stale batch", zap.Int("traces", len(batch)))
		return
	}
	listeners := slices.Clone(r.listeners)
	r.mu.Unlock()

	for _, l := range listeners {
		ack := l.OnNewTraces(batch)
		r.log.Debug("batch delivered", zap.Int("traces", len(batch)), zap.String("ack", ack))
	}
}
