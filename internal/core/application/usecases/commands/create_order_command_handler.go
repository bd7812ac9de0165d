package commands

import (
	"context"
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// CreateOrderCommandHandler stores a new Pending order and hands it to the processing queue.
//
// The order is committed before it is enqueued, so a worker never sees an id that
// is not yet visible in the store.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, engine, publisher, kernel.SystemClock{})
//	cmd, _ := NewCreateOrderCommand("ORD-1", 1, []int64{101}, amount)
//
//	o, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, order.ErrDuplicateOrderID) {
//	    // order_id already taken, nothing was stored
//	}
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	queue      ports.OrderQueue
	publisher  ports.OrderEventPublisher
	clock      kernel.Clock
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
// A nil publisher disables status events.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	queue ports.OrderQueue,
	publisher ports.OrderEventPublisher,
	clock kernel.Clock,
) CreateOrderCommandHandler {
	if publisher == nil {
		publisher = noopPublisher{}
	}

	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		queue:      queue,
		publisher:  publisher,
		clock:      clock,
	}
}

// Handle processes the order creation command.
//
// Duplicate order ids fail with order.ErrDuplicateOrderID and leave the store unchanged.
// If the order is stored but the queue rejects it, the stored order is returned
// together with the queue error; it stays Pending until recovered. An order that was
// already enqueued by a concurrent recovery pass counts as enqueued.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	o, err := order.NewOrder(cmd.OrderID(), cmd.UserID(), cmd.ItemIDs(), cmd.TotalAmount(), h.clock.Now())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.publisher.Publish(ctx, order.NewStatusChanged(o))

	// A recovery pass may enqueue the committed order before we do.
	if err = h.queue.Enqueue(o.ID()); err != nil && !errors.Is(err, ports.ErrAlreadyEnqueued) {
		return o, fmt.Errorf("enqueue order %s: %w", o.OrderID(), err)
	}

	return o, nil
}
