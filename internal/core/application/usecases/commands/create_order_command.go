package commands

import (
	"errors"
	"slices"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrOrderIDIsRequired  = errors.New("order_id is required")
	ErrItemIDsAreRequired = errors.New("item_ids must contain at least one item")
	ErrUserIDIsInvalid    = errors.New("user_id must not be negative")
)

// CreateOrderCommand represents a request to accept a new order for processing.
//
// Example:
//
//	amount, _ := kernel.NewAmountFromFloat(50.75)
//	cmd, err := NewCreateOrderCommand("ORD-1", 1, []int64{101, 102}, amount)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	o, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
//	fmt.Printf("Order %s is %s", o.OrderID(), o.Status())
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     string
	userID      int64
	itemIDs     []int64
	totalAmount kernel.Amount

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// Field level rules beyond presence are enforced by the order aggregate.
func NewCreateOrderCommand(
	orderID string,
	userID int64,
	itemIDs []int64,
	totalAmount kernel.Amount,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setUserID(userID),
		cmd.setItemIDs(itemIDs),
		cmd.setTotalAmount(totalAmount),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() string {
	return c.orderID
}

func (c CreateOrderCommand) UserID() int64 {
	return c.userID
}

func (c CreateOrderCommand) ItemIDs() []int64 {
	return slices.Clone(c.itemIDs)
}

func (c CreateOrderCommand) TotalAmount() kernel.Amount {
	return c.totalAmount
}

func (c *CreateOrderCommand) setOrderID(orderID string) error {
	if orderID == "" {
		return ErrOrderIDIsRequired
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setUserID(userID int64) error {
	if userID < 0 {
		return ErrUserIDIsInvalid
	}

	c.userID = userID
	return nil
}

func (c *CreateOrderCommand) setItemIDs(itemIDs []int64) error {
	if len(itemIDs) == 0 {
		return ErrItemIDsAreRequired
	}

	c.itemIDs = slices.Clone(itemIDs)
	return nil
}

func (c *CreateOrderCommand) setTotalAmount(amount kernel.Amount) error {
	if err := amount.Validate(); err != nil {
		return err
	}

	c.totalAmount = amount
	return nil
}
