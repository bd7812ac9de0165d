package ports

import "errors"

var (
	// ErrAlreadyEnqueued is returned when an order is already queued or being processed.
	ErrAlreadyEnqueued = errors.New("order is already enqueued")

	// ErrQueueFull is returned by a bounded queue that has reached its capacity.
	ErrQueueFull = errors.New("processing queue is full")
)

// OrderQueue accepts orders for asynchronous processing. Enqueue never blocks.
type OrderQueue interface {
	Enqueue(id int64) error
}
