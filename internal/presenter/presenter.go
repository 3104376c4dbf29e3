package presenter

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/five82/logscope/internal/config"
	"github.com/five82/logscope/internal/reader"
	"github.com/five82/logscope/internal/trace"
)

// View renders the retained window.
type View interface {
	// ShowTraces replaces the displayed traces. removed is how many traces
	// were evicted from the front since the previous call.
	ShowTraces(traces []trace.Trace, removed int)
	Clear()
}

// Reader is the part of reader.Reader the presenter drives.
type Reader interface {
	Config() config.ReaderConfig
	SetConfig(cfg config.ReaderConfig) error
	Register(l reader.Listener)
	Unregister(l reader.Listener)
	StartReading()
	StopReading()
	Restart()
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(p *Presenter) {
		if log != nil {
			p.log = log
		}
	}
}

// Presenter keeps the bounded window of traces for a view and forwards
// filter changes to the reader.
type Presenter struct {
	log    *zap.Logger
	reader Reader
	view   View

	mu     sync.Mutex
	buffer *TraceBuffer
	active bool
}

var _ reader.Listener = (*Presenter)(nil)

// New returns an inactive presenter retaining at most maxTraces traces.
func New(r Reader, v View, maxTraces int, opts ...Option) (*Presenter, error) {
	buf, err := NewTraceBuffer(maxTraces)
	if err != nil {
		return nil, fmt.Errorf("presenter: %w", err)
	}
	p := &Presenter{
		log:    zap.NewNop(),
		reader: r,
		view:   v,
		buffer: buf,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Resume subscribes to the reader and starts reading.
func (p *Presenter) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active {
		return
	}
	p.reader.Register(p)
	p.reader.StartReading()
	p.active = true
	p.log.Debug("resumed")
}

// Pause stops reading and unsubscribes. The buffer is kept.
func (p *Presenter) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active {
		return
	}
	p.reader.StopReading()
	p.reader.Unregister(p)
	p.active = false
	p.log.Debug("paused", zap.Int("retained", p.buffer.Len()))
}

// Active reports whether the presenter is resumed.
func (p *Presenter) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// OnNewTraces adds the batch to the window and shows it. It returns the
// plain form of the newest trace.
func (p *Presenter) OnNewTraces(traces []trace.Trace) string {
	if len(traces) == 0 {
		return ""
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	removed := p.buffer.Add(traces)
	p.view.ShowTraces(p.buffer.Traces(), removed)
	return traces[len(traces)-1].Plain()
}

// SetConfig resizes the window and passes cfg on to the reader.
func (p *Presenter) SetConfig(cfg config.ReaderConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	before := p.buffer.Len()
	if err := p.buffer.SetCapacity(cfg.MaxTraces()); err != nil {
		return err
	}
	p.view.ShowTraces(p.buffer.Traces(), before-p.buffer.Len())
	return p.reader.SetConfig(cfg)
}

// UpdateFilter sets the filter text and restarts reading from scratch.
// It does nothing while paused.
func (p *Presenter) UpdateFilter(filter string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active {
		return nil
	}
	return p.applyLocked(p.reader.Config().WithFilter(filter))
}

// UpdateFilterLevel sets the minimum level and restarts reading from scratch.
// It does nothing while paused.
func (p *Presenter) UpdateFilterLevel(level trace.Level) error {
	cfg, err := p.reader.Config().WithLevel(level)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active {
		return nil
	}
	return p.applyLocked(cfg)
}

func (p *Presenter) applyLocked(cfg config.ReaderConfig) error {
	if err := p.reader.SetConfig(cfg); err != nil {
		return err
	}
	p.buffer.Clear()
	p.view.Clear()
	p.reader.Restart()
	p.log.Debug("filter applied", zap.String("filter", cfg.Filter()), zap.Stringer("level", cfg.Level()))
	return nil
}

// Share renders the window as newline-separated "<code>/ <message>" lines.
func (p *Presenter) Share() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var sb strings.Builder
	for i, t := range p.buffer.traces {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(t.Plain())
	}
	return sb.String()
}

// Traces returns a copy of the window.
func (p *Presenter) Traces() []trace.Trace {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buffer.Traces()
}
