package reader

import (
	"sync"

	"go.uber.org/zap"
)

// Executor runs posted work on the host's delivery context. Work posted by
// one goroutine must run in posting order. Post must not wait for the work
// to run.
type Executor interface {
	Post(fn func())
}

// ExecutorFunc adapts a function to Executor. ExecutorFunc(func(fn func()) { fn() })
// runs work inline, which is only suitable for tests.
type ExecutorFunc func(fn func())

func (f ExecutorFunc) Post(fn func()) { f(fn) }

// Queue is an Executor backed by one goroutine and an unbounded FIFO.
type Queue struct {
	log *zap.Logger

	mu     sync.Mutex
	items  []func()
	closed bool

	wake      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewQueue starts the worker goroutine.
func NewQueue(log *zap.Logger) *Queue {
	if log == nil {
		log = zap.NewNop()
	}
	q := &Queue{
		log:  log,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go q.run()
	return q
}

// Post enqueues fn. Work posted after Close is dropped.
func (q *Queue) Post(fn func()) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.items = append(q.items, fn)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Close runs what is already queued and stops the worker. It must not be
// called from posted work.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		q.mu.Lock()
		q.closed = true
		q.mu.Unlock()
		select {
		case q.wake <- struct{}{}:
		default:
		}
	})
	<-q.done
}

// Done is closed when the worker has exited.
func (q *Queue) Done() <-chan struct{} {
	return q.done
}

func (q *Queue) run() {
	defer close(q.done)
	for {
		q.mu.Lock()
		items := q.items
		q.items = nil
		closed := q.closed
		q.mu.Unlock()

		for _, fn := range items {
			q.invoke(fn)
		}
		if len(items) > 0 {
			continue
		}
		if closed {
			return
		}
		<-q.wake
	}
}

func (q *Queue) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			q.log.Error("posted work panicked", zap.Any("panic", r))
		}
	}()
	fn()
}
