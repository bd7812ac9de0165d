package queries

import (
	"context"
	"fmt"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// GetMetricsQueryHandler aggregates counts and durations across the order store.
// It reads without a transaction, so concurrent worker updates may make the
// buckets disagree slightly with TotalOrders.
type GetMetricsQueryHandler struct {
	reader ports.OrderReader
}

func NewGetMetricsQueryHandler(reader ports.OrderReader) GetMetricsQueryHandler {
	return GetMetricsQueryHandler{reader: reader}
}

// Handle computes the metrics. Store failures and panics are reported as
// ErrAggregationFault.
func (h GetMetricsQueryHandler) Handle(ctx context.Context, query GetMetricsQuery) (resp GetMetricsQueryResponse, err error) {
	if err = query.Validate(); err != nil {
		return GetMetricsQueryResponse{}, err
	}

	defer func() {
		if r := recover(); r != nil {
			resp = GetMetricsQueryResponse{}
			err = fmt.Errorf("%w: panic: %v", ErrAggregationFault, r)
		}
	}()

	resp, err = h.aggregate(ctx, query.IncludeOrderIDs())
	if err != nil {
		return GetMetricsQueryResponse{}, fmt.Errorf("%w: %w", ErrAggregationFault, err)
	}

	return resp, nil
}

func (h GetMetricsQueryHandler) aggregate(ctx context.Context, includeOrderIDs bool) (GetMetricsQueryResponse, error) {
	var resp GetMetricsQueryResponse

	total, err := h.reader.CountAll(ctx)
	if err != nil {
		return resp, err
	}
	resp.TotalOrders = total

	completed, err := h.reader.GetAllByStatus(ctx, order.Completed)
	if err != nil {
		return resp, err
	}

	if resp.Pending, err = h.bucket(ctx, order.Pending, includeOrderIDs); err != nil {
		return resp, err
	}

	if resp.Processing, err = h.bucket(ctx, order.Processing, includeOrderIDs); err != nil {
		return resp, err
	}

	resp.Completed = bucketOf(completed, includeOrderIDs)
	resp.AverageProcessingTime, resp.AverageProcessingTimeFromCreation = averages(completed)

	return resp, nil
}

func (h GetMetricsQueryHandler) bucket(ctx context.Context, status order.Status, includeOrderIDs bool) (StatusBucket, error) {
	if includeOrderIDs {
		orders, err := h.reader.GetAllByStatus(ctx, status)
		if err != nil {
			return StatusBucket{}, err
		}
		return bucketOf(orders, true), nil
	}

	count, err := h.reader.CountByStatus(ctx, status)
	if err != nil {
		return StatusBucket{}, err
	}

	return StatusBucket{Count: count, OrderIDs: make([]string, 0)}, nil
}

func bucketOf(orders []*order.Order, includeOrderIDs bool) StatusBucket {
	b := StatusBucket{
		Count:    int64(len(orders)),
		OrderIDs: make([]string, 0),
	}

	if includeOrderIDs {
		for _, o := range orders {
			b.OrderIDs = append(b.OrderIDs, o.OrderID())
		}
	}

	return b
}

// averages returns the mean processing and total durations in seconds over the
// orders that carry both timestamps.
func averages(completed []*order.Order) (processing, total float64) {
	var n int
	var sumProcessing, sumTotal float64

	for _, o := range completed {
		p, ok := o.ProcessingDuration()
		if !ok {
			continue
		}
		t, _ := o.TotalDuration()

		sumProcessing += p.Seconds()
		sumTotal += t.Seconds()
		n++
	}

	if n == 0 {
		return 0, 0
	}

	return sumProcessing / float64(n), sumTotal / float64(n)
}
