package queries

import (
	"errors"
	"time"

	"orderflow/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrGetOrderStatusQueryIsNotConstructed = errors.New(
		"GetOrderStatusQuery must be created via NewGetOrderStatusQuery constructor",
	)
	ErrOrderIDIsRequired = errors.New("order_id is required")
)

// GetOrderStatusQuery looks up a single order by its external order id.
//
// Example:
//
//	query, _ := NewGetOrderStatusQuery("ORD-1")
//	details, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // unknown order
//	}
type GetOrderStatusQuery struct {
	orderID string

	guard guard.ConstructorGuard
}

func NewGetOrderStatusQuery(orderID string) (GetOrderStatusQuery, error) {
	if orderID == "" {
		return GetOrderStatusQuery{}, ErrOrderIDIsRequired
	}

	return GetOrderStatusQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderStatusQueryIsNotConstructed)
}

func (q GetOrderStatusQuery) OrderID() string {
	return q.orderID
}

// GetOrderStatusQueryResponse is the full status view of one order.
// Durations are present only once the timestamps they depend on are set.
type GetOrderStatusQueryResponse struct {
	OrderID             string
	UserID              int64
	ItemIDs             []int64
	TotalAmount         decimal.Decimal
	Status              string
	CreatedAt           time.Time
	ProcessingStartedAt *time.Time
	CompletedAt         *time.Time

	PendingDuration    *time.Duration
	ProcessingDuration *time.Duration
	TotalDuration      *time.Duration
}
