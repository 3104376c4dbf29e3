package logtail

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Stream yields raw lines until the underlying source ends or is closed.
//
// ReadLine blocks until a line is available and returns io.EOF at the end of
// the stream. Close must unblock a pending ReadLine.
type Stream interface {
	ReadLine() (string, error)
	Close() error
}

// Source opens a fresh Stream. Every Tailer opens its own.
type Source interface {
	Open() (Stream, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() (Stream, error)

func (f SourceFunc) Open() (Stream, error) { return f() }

// LineFunc receives each raw line on the tailer goroutine.
type LineFunc func(line string)

// State is the tailer lifecycle stage.
type State int32

const (
	NotStarted State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Tailer reads lines from a Source on its own goroutine and hands them to a
// single listener in arrival order. A Tailer runs at most once; restarting
// means constructing a new one.
type Tailer struct {
	log *zap.Logger
	src Source

	listener atomic.Pointer[LineFunc]
	state    atomic.Int32
	stopping atomic.Bool

	// Guards stream hand-off between the read goroutine and Stop.
	mu     sync.Mutex
	stream Stream

	done chan struct{}
}

// New returns a tailer that will read from src once started.
func New(log *zap.Logger, src Source) *Tailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tailer{
		log:  log,
		src:  src,
		done: make(chan struct{}),
	}
}

// SetListener installs the line callback. It may be called before or after
// Start; lines read while no listener is set are dropped.
func (t *Tailer) SetListener(fn LineFunc) {
	if fn == nil {
		t.listener.Store(nil)
		return
	}
	t.listener.Store(&fn)
}

// Listener returns the installed callback, or nil.
func (t *Tailer) Listener() LineFunc {
	if fn := t.listener.Load(); fn != nil {
		return *fn
	}
	return nil
}

// State reports the lifecycle stage.
func (t *Tailer) State() State {
	return State(t.state.Load())
}

// Start launches the read loop. It returns false when the tailer was already
// started or stopped.
func (t *Tailer) Start() bool {
	if !t.state.CompareAndSwap(int32(NotStarted), int32(Running)) {
		return false
	}
	go t.run()
	return true
}

// Stop asks the read loop to exit and closes the stream to unblock it.
// It does not wait; use Done for that.
func (t *Tailer) Stop() {
	t.stopping.Store(true)
	prev := State(t.state.Swap(int32(Stopped)))
	if prev == NotStarted {
		// Never started: nothing will close done otherwise.
		close(t.done)
		return
	}

	t.mu.Lock()
	stream := t.stream
	t.stream = nil
	t.mu.Unlock()

	if stream != nil {
		if err := stream.Close(); err != nil {
			t.log.Debug("stream close failed", zap.Error(err))
		}
	}
}

// Done is closed once the read loop has exited.
func (t *Tailer) Done() <-chan struct{} {
	return t.done
}

func (t *Tailer) run() {
	defer func() {
		t.state.Store(int32(Stopped))
		close(t.done)
	}()

	stream, err := t.src.Open()
	if err != nil {
		t.log.Error("failed to open log stream", zap.Error(err))
		return
	}

	t.mu.Lock()
	if t.stopping.Load() {
		t.mu.Unlock()
		_ = stream.Close()
		return
	}
	t.stream = stream
	t.mu.Unlock()

	defer t.closeStream()

	t.log.Debug("tailer started")
	lines := 0
	for {
		line, err := stream.ReadLine()
		if t.stopping.Load() {
			t.log.Debug("tailer stopped", zap.Int("lines", lines))
			return
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				t.log.Info("log stream ended", zap.Int("lines", lines))
			} else {
				t.log.Error("log stream read failure", zap.Error(err), zap.Int("lines", lines))
			}
			return
		}
		lines++
		if fn := t.Listener(); fn != nil {
			fn(line)
		}
	}
}

func (t *Tailer) closeStream() {
	t.mu.Lock()
	stream := t.stream
	t.stream = nil
	t.mu.Unlock()
	if stream != nil {
		_ = stream.Close()
	}
}
