// Package ports defines the contracts between the order processing core and its
// infrastructure: persistence, the processing queue and event publishing.
package ports

import (
	"context"

	"orderflow/internal/core/domain/model/order"
)

// OrderReader is the read side of the order store. Query handlers depend on it
// directly so that reads never open a transaction.
type OrderReader interface {
	// GetByOrderID retrieves an order by its external identifier.
	// Returns errs.ObjectNotFoundError when no order matches.
	GetByOrderID(ctx context.Context, orderID string) (*order.Order, error)

	// CountAll returns the number of stored orders.
	CountAll(ctx context.Context) (int64, error)

	// CountByStatus returns the number of orders currently in status.
	CountByStatus(ctx context.Context, status order.Status) (int64, error)

	// GetAllByStatus returns every order currently in status, ordered by id.
	GetAllByStatus(ctx context.Context, status order.Status) ([]*order.Order, error)

	// ExistsWithOrderIDPrefix reports whether any order id starts with prefix.
	// The prefix is matched literally.
	ExistsWithOrderIDPrefix(ctx context.Context, prefix string) (bool, error)
}

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	OrderReader

	// Add persists a new order aggregate and assigns its surrogate id.
	// Returns order.ErrDuplicateOrderID when the external order id is taken.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists lifecycle changes of an existing order.
	// Returns errs.ObjectNotFoundError when the order no longer exists.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its surrogate id.
	Get(ctx context.Context, id int64) (*order.Order, error)
}
