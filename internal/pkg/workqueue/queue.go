// Package workqueue provides an in-memory FIFO queue whose consumers block until
// work arrives or their context ends.
package workqueue

import (
	"context"
	"errors"
	"sync"
)

// ErrQueueFull is returned by Enqueue when a bounded queue is at capacity.
var ErrQueueFull = errors.New("queue is full")

// Queue is a FIFO of T. Enqueue never blocks; Dequeue blocks while the queue is empty.
// The zero value is not usable, create queues with New.
type Queue[T any] struct {
	mu       sync.Mutex
	items    []T
	capacity int

	// ready holds a token while items may be available.
	ready chan struct{}
}

// New creates a queue. A capacity of zero or less means unbounded.
func New[T any](capacity int) *Queue[T] {
	return &Queue[T]{
		capacity: capacity,
		ready:    make(chan struct{}, 1),
	}
}

// Enqueue appends item to the tail of the queue.
func (q *Queue[T]) Enqueue(item T) error {
	q.mu.Lock()
	if q.capacity > 0 && len(q.items) >= q.capacity {
		q.mu.Unlock()
		return ErrQueueFull
	}
	q.items = append(q.items, item)
	q.mu.Unlock()

	q.signal()
	return nil
}

// Dequeue removes and returns the head of the queue, waiting until an item is
// available or ctx is done.
func (q *Queue[T]) Dequeue(ctx context.Context) (T, error) {
	for {
		if item, ok := q.TryDequeue(); ok {
			return item, nil
		}

		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-q.ready:
		}
	}
}

// TryDequeue removes and returns the head of the queue without waiting.
func (q *Queue[T]) TryDequeue() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if len(q.items) == 0 {
		return zero, false
	}

	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]

	if len(q.items) > 0 {
		q.signal()
	}

	return item, true
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue[T]) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
