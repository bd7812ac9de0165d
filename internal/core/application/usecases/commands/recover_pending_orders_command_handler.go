package commands

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// RecoverPendingOrdersCommandHandler enqueues every Pending order that is not
// already queued or in flight. Orders stuck in Processing are left alone.
type RecoverPendingOrdersCommandHandler struct {
	reader ports.OrderReader
	queue  ports.OrderQueue
}

func NewRecoverPendingOrdersCommandHandler(reader ports.OrderReader, queue ports.OrderQueue) RecoverPendingOrdersCommandHandler {
	return RecoverPendingOrdersCommandHandler{
		reader: reader,
		queue:  queue,
	}
}

// Handle returns the number of orders that were enqueued. It stops at the first
// queue error other than ports.ErrAlreadyEnqueued.
func (h *RecoverPendingOrdersCommandHandler) Handle(ctx context.Context, cmd RecoverPendingOrdersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	pending, err := h.reader.GetAllByStatus(ctx, order.Pending)
	if err != nil {
		return 0, err
	}

	recovered := 0
	for _, o := range pending {
		if err = h.queue.Enqueue(o.ID()); err != nil {
			if errors.Is(err, ports.ErrAlreadyEnqueued) {
				continue
			}
			return recovered, err
		}
		recovered++
	}

	return recovered, nil
}
