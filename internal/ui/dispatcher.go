package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/logscope/internal/reader"
)

// runMsg carries work posted through the Dispatcher into Update.
type runMsg func()

// sender is the part of *tea.Program the dispatcher needs.
type sender interface {
	Send(msg tea.Msg)
}

// Dispatcher is a reader.Executor that runs posted work inside the Bubble
// Tea update loop, so listeners touch UI state from the same goroutine as
// key handling. Work posted before Attach waits until the program exists.
type Dispatcher struct {
	queue *reader.Queue

	program   sender
	ready     chan struct{}
	readyOnce sync.Once

	done      chan struct{}
	closeOnce sync.Once
}

var _ reader.Executor = (*Dispatcher)(nil)

// NewDispatcher returns a dispatcher that is not yet attached.
func NewDispatcher(log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		queue: reader.NewQueue(log),
		ready: make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Attach connects the dispatcher to the running program.
func (d *Dispatcher) Attach(p sender) {
	d.readyOnce.Do(func() {
		d.program = p
		close(d.ready)
	})
}

// Post forwards fn to the update loop in posting order.
func (d *Dispatcher) Post(fn func()) {
	d.queue.Post(func() {
		select {
		case <-d.ready:
		case <-d.done:
			return
		}
		select {
		case <-d.done:
			return
		default:
		}
		d.program.Send(runMsg(fn))
	})
}

// Close drops undelivered work and stops the forwarding goroutine.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() { close(d.done) })
	d.queue.Close()
}
