package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// MaxOrderIDLength is the longest external order identifier accepted, in characters.
const MaxOrderIDLength = 64

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factories.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrDuplicateOrderID is returned by repositories when an order with the same
	// external order id is already stored.
	ErrDuplicateOrderID = errors.New("order with this order_id already exists")

	// ErrIDAlreadyAssigned is returned when a store tries to assign a surrogate id twice.
	ErrIDAlreadyAssigned = errors.New("order id is already assigned")
)

// Order is the aggregate root for a single customer purchase request. It owns its
// lifecycle timestamps and only moves forward through Pending, Processing and Completed.
//
// Order follows these invariants:
//   - order id is non-empty, at most MaxOrderIDLength characters, unique per store
//   - item ids contain at least one positive identifier
//   - total amount is non-negative
//   - processing start is set exactly when status is Processing or Completed
//   - completion time is set exactly when status is Completed
//   - created_at <= processing start <= completion time
type Order struct {
	// id is the store assigned surrogate key, zero until the order is persisted
	id int64

	// orderID is the externally supplied identifier
	orderID string

	userID      int64
	itemIDs     []int64
	totalAmount kernel.Amount
	status      Status

	createdAt           time.Time
	processingStartedAt *time.Time
	completedAt         *time.Time

	guard guard.ConstructorGuard
}

// NewOrder creates a Pending order stamped with createdAt.
//
// All parameters are validated and every failure is reported together:
//
//	amount, _ := kernel.NewAmountFromFloat(50.75)
//	o, err := order.NewOrder("ORD-1", 1, []int64{101, 102}, amount, clock.Now())
//	if err != nil {
//	    // err joins every invalid field
//	}
func NewOrder(orderID string, userID int64, itemIDs []int64, totalAmount kernel.Amount, createdAt time.Time) (*Order, error) {
	o := &Order{
		status: Pending,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setOrderID(orderID),
		o.setUserID(userID),
		o.setItemIDs(itemIDs),
		o.setTotalAmount(totalAmount),
		o.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order from persisted state. It applies the same field
// validation as NewOrder and additionally checks that the status agrees with the
// lifecycle timestamps.
func RestoreOrder(
	id int64,
	orderID string,
	userID int64,
	itemIDs []int64,
	totalAmount kernel.Amount,
	status Status,
	createdAt time.Time,
	processingStartedAt *time.Time,
	completedAt *time.Time,
) (*Order, error) {
	o := &Order{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderID(orderID),
		o.setUserID(userID),
		o.setItemIDs(itemIDs),
		o.setTotalAmount(totalAmount),
		o.setCreatedAt(createdAt),
		o.setLifecycle(status, processingStartedAt, completedAt),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}

	if err := o.guard.Validate(ErrOrderIsNotConstructed); err != nil {
		return err
	}

	return nil
}

// IsEqual compares two orders by their external order id.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.orderID == other.orderID
}

// ID returns the store assigned surrogate key, zero if the order was never stored.
func (o *Order) ID() int64 {
	return o.id
}

// OrderID returns the external order identifier.
func (o *Order) OrderID() string {
	return o.orderID
}

func (o *Order) UserID() int64 {
	return o.userID
}

// ItemIDs returns a copy of the item identifiers.
func (o *Order) ItemIDs() []int64 {
	return slices.Clone(o.itemIDs)
}

func (o *Order) TotalAmount() kernel.Amount {
	return o.totalAmount
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// ProcessingStartedAt returns nil while the order is Pending.
func (o *Order) ProcessingStartedAt() *time.Time {
	return copyTime(o.processingStartedAt)
}

// CompletedAt returns nil until the order is Completed.
func (o *Order) CompletedAt() *time.Time {
	return copyTime(o.completedAt)
}

// AssignID sets the surrogate key. Stores call it exactly once when the order is first added.
func (o *Order) AssignID(id int64) error {
	if o.id != 0 {
		return ErrIDAlreadyAssigned
	}

	if id == 0 {
		return errs.NewValueIsRequiredError("id")
	}

	return o.setID(id)
}

// StartProcessing moves a Pending order to Processing and stamps the start time.
// A now earlier than the creation time is clamped so timestamps stay ordered.
func (o *Order) StartProcessing(now time.Time) error {
	newStatus, err := o.status.StartProcessing()
	if err != nil {
		return err
	}

	startedAt := latest(now, o.createdAt)
	o.status = newStatus
	o.processingStartedAt = &startedAt
	return nil
}

// Complete moves a Processing order to Completed and stamps the completion time.
func (o *Order) Complete(now time.Time) error {
	newStatus, err := o.status.Complete()
	if err != nil {
		return err
	}

	completedAt := latest(now, *o.processingStartedAt)
	o.status = newStatus
	o.completedAt = &completedAt
	return nil
}

// PendingDuration is the time spent waiting before a worker picked the order up.
// The second result is false while the order is still Pending.
func (o *Order) PendingDuration() (time.Duration, bool) {
	if o.processingStartedAt == nil {
		return 0, false
	}
	return o.processingStartedAt.Sub(o.createdAt), true
}

// ProcessingDuration is the time between acquisition and completion.
func (o *Order) ProcessingDuration() (time.Duration, bool) {
	if o.processingStartedAt == nil || o.completedAt == nil {
		return 0, false
	}
	return o.completedAt.Sub(*o.processingStartedAt), true
}

// TotalDuration is the time between creation and completion.
func (o *Order) TotalDuration() (time.Duration, bool) {
	if o.completedAt == nil {
		return 0, false
	}
	return o.completedAt.Sub(o.createdAt), true
}

func (o *Order) setID(id int64) error {
	if id < 0 {
		return errs.NewValueIsInvalidErrorWithCause("id is invalid", fmt.Errorf("%d is negative", id))
	}
	o.id = id
	return nil
}

func (o *Order) setOrderID(orderID string) error {
	if strings.TrimSpace(orderID) == "" {
		return errs.NewValueIsRequiredError("order_id")
	}

	if n := utf8.RuneCountInString(orderID); n > MaxOrderIDLength {
		return errs.NewValueIsOutOfRangeError("order_id length", n, 1, MaxOrderIDLength)
	}

	o.orderID = orderID
	return nil
}

func (o *Order) setUserID(userID int64) error {
	if userID < 0 {
		return errs.NewValueIsInvalidErrorWithCause("user_id is invalid", fmt.Errorf("%d is negative", userID))
	}
	o.userID = userID
	return nil
}

func (o *Order) setItemIDs(itemIDs []int64) error {
	if len(itemIDs) == 0 {
		return errs.NewValueIsRequiredError("item_ids")
	}

	for _, id := range itemIDs {
		if id <= 0 {
			return errs.NewValueIsInvalidErrorWithCause("item_ids is invalid", fmt.Errorf("%d is not greater than 0", id))
		}
	}

	o.itemIDs = slices.Clone(itemIDs)
	return nil
}

func (o *Order) setTotalAmount(amount kernel.Amount) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	o.totalAmount = amount
	return nil
}

func (o *Order) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("created_at")
	}
	o.createdAt = createdAt
	return nil
}

// setLifecycle checks that restored timestamps match the status.
func (o *Order) setLifecycle(status Status, processingStartedAt, completedAt *time.Time) error {
	if err := status.Validate(); err != nil {
		return err
	}

	hasStart := processingStartedAt != nil
	hasEnd := completedAt != nil

	switch {
	case status == Pending && (hasStart || hasEnd),
		status == Processing && (!hasStart || hasEnd),
		status == Completed && (!hasStart || !hasEnd):
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s does not match lifecycle timestamps", status),
		)
	}

	if hasStart && processingStartedAt.Before(o.createdAt) {
		return errs.NewValueIsInvalidErrorWithCause(
			"processing_started_at is invalid",
			errors.New("processing started before the order was created"),
		)
	}

	if hasEnd && completedAt.Before(*processingStartedAt) {
		return errs.NewValueIsInvalidErrorWithCause(
			"completed_at is invalid",
			errors.New("order completed before processing started"),
		)
	}

	o.status = status
	o.processingStartedAt = copyTime(processingStartedAt)
	o.completedAt = copyTime(completedAt)
	return nil
}

func latest(a, b time.Time) time.Time {
	if a.Before(b) {
		return b
	}
	return a
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
