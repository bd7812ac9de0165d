package commands

import (
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var (
	ErrPopulateOrdersCommandIsNotConstructed = errors.New(
		"PopulateOrdersCommand must be created via NewPopulateOrdersCommand constructor",
	)
	ErrInvalidBatchSize = errors.New("total_entries must be greater than 0")
	ErrBatchCollision   = errors.New("batch already exists")
)

// PopulateOrdersCommand asks for a batch of synthetic orders named sim_<batch_id>_<n>.
//
// Example:
//
//	cmd, err := NewPopulateOrdersCommand(10, "B1")
//	if errors.Is(err, ErrInvalidBatchSize) {
//	    // total_entries was not positive
//	}
//	result, err := handler.Handle(ctx, cmd)
type PopulateOrdersCommand struct { //nolint:recvcheck //using for validation
	totalEntries int
	batchID      kernel.BatchID

	guard guard.ConstructorGuard
}

// NewPopulateOrdersCommand validates the batch size and the optional batch id.
// An empty batchID is replaced with a generated one.
func NewPopulateOrdersCommand(totalEntries int, batchID string) (PopulateOrdersCommand, error) {
	cmd := PopulateOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setTotalEntries(totalEntries),
		cmd.setBatchID(batchID),
	); err != nil {
		return PopulateOrdersCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PopulateOrdersCommand) Validate() error {
	return c.guard.Validate(ErrPopulateOrdersCommandIsNotConstructed)
}

func (c PopulateOrdersCommand) TotalEntries() int {
	return c.totalEntries
}

func (c PopulateOrdersCommand) BatchID() kernel.BatchID {
	return c.batchID
}

func (c *PopulateOrdersCommand) setTotalEntries(totalEntries int) error {
	if totalEntries <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidBatchSize, totalEntries)
	}

	c.totalEntries = totalEntries
	return nil
}

func (c *PopulateOrdersCommand) setBatchID(batchID string) error {
	if batchID == "" {
		c.batchID = kernel.NewBatchID()
		return nil
	}

	id, err := kernel.BatchIDFromString(batchID)
	if err != nil {
		return err
	}

	c.batchID = id
	return nil
}

// PopulateOrdersResult summarises a populate run. Errors is never nil.
type PopulateOrdersResult struct {
	BatchID      string
	TotalEntries int
	SuccessCount int
	FailureCount int
	Errors       []string
}
