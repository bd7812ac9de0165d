package ports

import (
	"context"

	"orderflow/internal/core/domain/model/order"
)

// OrderEventPublisher delivers order status changes to interested parties.
// Publishing is best effort: implementations log their own failures so that a
// broker outage never fails an order transition.
type OrderEventPublisher interface {
	Publish(ctx context.Context, event order.StatusChanged)
}
