package queries

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// StatusCache keeps status views of Completed orders, which never change again.
// Implementations swallow and log their own failures; a failing cache behaves as a miss.
type StatusCache interface {
	Get(ctx context.Context, orderID string) (GetOrderStatusQueryResponse, bool)
	Set(ctx context.Context, resp GetOrderStatusQueryResponse)
}

// GetOrderStatusQueryHandler reads order status from the store, consulting the
// optional cache first.
type GetOrderStatusQueryHandler struct {
	reader ports.OrderReader
	cache  StatusCache
}

// NewGetOrderStatusQueryHandler creates the handler. cache may be nil.
func NewGetOrderStatusQueryHandler(reader ports.OrderReader, cache StatusCache) GetOrderStatusQueryHandler {
	return GetOrderStatusQueryHandler{
		reader: reader,
		cache:  cache,
	}
}

// Handle returns the status view or an errs.ObjectNotFoundError.
func (h GetOrderStatusQueryHandler) Handle(ctx context.Context, query GetOrderStatusQuery) (GetOrderStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderStatusQueryResponse{}, err
	}

	if h.cache != nil {
		if resp, ok := h.cache.Get(ctx, query.OrderID()); ok {
			return resp, nil
		}
	}

	o, err := h.reader.GetByOrderID(ctx, query.OrderID())
	if err != nil {
		return GetOrderStatusQueryResponse{}, err
	}

	resp := toStatusResponse(o)
	if h.cache != nil && o.Status() == order.Completed {
		h.cache.Set(ctx, resp)
	}

	return resp, nil
}

func toStatusResponse(o *order.Order) GetOrderStatusQueryResponse {
	resp := GetOrderStatusQueryResponse{
		OrderID:             o.OrderID(),
		UserID:              o.UserID(),
		ItemIDs:             o.ItemIDs(),
		TotalAmount:         o.TotalAmount().Decimal(),
		Status:              o.Status().String(),
		CreatedAt:           o.CreatedAt(),
		ProcessingStartedAt: o.ProcessingStartedAt(),
		CompletedAt:         o.CompletedAt(),
	}

	resp.PendingDuration = durationPtr(o.PendingDuration())
	resp.ProcessingDuration = durationPtr(o.ProcessingDuration())
	resp.TotalDuration = durationPtr(o.TotalDuration())

	return resp
}

func durationPtr(d time.Duration, ok bool) *time.Duration {
	if !ok {
		return nil
	}
	return &d
}
