// Package queue holds the round-robin queue of pending worker handles.
//
// The scheduler pops the head, checks it, and pushes it back to the tail when
// it is not ready yet, so every pending worker is visited once per sweep.
package queue

import (
	fifo "github.com/golang-collections/collections/queue"

	"github.com/okian/arena/pkg/metrics"
)

// Pending is a FIFO of items awaiting a result. It is owned by a single
// goroutine and is not safe for concurrent use.
type Pending[T any] struct {
	items    *fifo.Queue
	capacity int
	report   func(n int)
}

// New creates an empty pending queue.
func New[T any](opts ...Option) *Pending[T] {
	cfg := options{report: metrics.UpdatePendingQueueLength}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Pending[T]{
		items:    fifo.New(),
		capacity: cfg.capacity,
		report:   cfg.report,
	}
}

// Push appends item to the tail. It returns ErrFull when a capacity is set
// and reached.
func (p *Pending[T]) Push(item T) error {
	if p.capacity > 0 && p.items.Len() >= p.capacity {
		return ErrFull
	}
	p.items.Enqueue(item)
	p.report(p.items.Len())
	return nil
}

// Pop removes and returns the head. ok is false when the queue is empty.
func (p *Pending[T]) Pop() (item T, ok bool) {
	if p.items.Len() == 0 {
		return item, false
	}
	item = p.items.Dequeue().(T) //nolint:forcetypeassert // only Push enqueues
	p.report(p.items.Len())
	return item, true
}

// Len returns the number of pending items.
func (p *Pending[T]) Len() int {
	return p.items.Len()
}

// Drain removes and returns every pending item in FIFO order.
func (p *Pending[T]) Drain() []T {
	out := make([]T, 0, p.items.Len())
	for {
		item, ok := p.Pop()
		if !ok {
			return out
		}
		out = append(out, item)
	}
}
