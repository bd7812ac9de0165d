// Package queries contains read-only operations over the order store.
package queries

import (
	"errors"

	"orderflow/internal/pkg/guard"
)

var (
	ErrGetMetricsQueryIsNotConstructed = errors.New(
		"GetMetricsQuery must be created via NewGetMetricsQuery constructor",
	)

	// ErrAggregationFault wraps any failure that happened while computing metrics.
	ErrAggregationFault = errors.New("metrics aggregation failed")
)

// GetMetricsQuery requests the order processing metrics.
// With includeOrderIDs set, every status bucket also lists its order ids.
type GetMetricsQuery struct {
	includeOrderIDs bool

	guard guard.ConstructorGuard
}

func NewGetMetricsQuery(includeOrderIDs bool) GetMetricsQuery {
	return GetMetricsQuery{
		includeOrderIDs: includeOrderIDs,
		guard:           guard.NewConstructorGuard(),
	}
}

func (q GetMetricsQuery) Validate() error {
	return q.guard.Validate(ErrGetMetricsQueryIsNotConstructed)
}

func (q GetMetricsQuery) IncludeOrderIDs() bool {
	return q.includeOrderIDs
}

// StatusBucket counts the orders in one status. OrderIDs is never nil and is
// empty unless ids were requested.
type StatusBucket struct {
	Count    int64
	OrderIDs []string
}

// GetMetricsQueryResponse holds aggregate counts and average durations in seconds.
// Averages are zero when no completed order carries both timestamps.
type GetMetricsQueryResponse struct {
	TotalOrders                       int64
	AverageProcessingTime             float64
	AverageProcessingTimeFromCreation float64

	Pending    StatusBucket
	Processing StatusBucket
	Completed  StatusBucket
}
