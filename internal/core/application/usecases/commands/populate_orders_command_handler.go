package commands

import (
	"context"
	"fmt"
	"math/rand/v2"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

const (
	syntheticUserID   = 0
	syntheticMaxItems = 3
	syntheticMaxItem  = 100
	syntheticMinTotal = 10.0
	syntheticMaxTotal = 100.0
)

// Rand is the randomness used for synthetic data and processing delays.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

type globalRand struct{}

func (globalRand) IntN(n int) int   { return rand.IntN(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

type orderCreator interface {
	Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error)
}

// PopulateOrdersCommandHandler creates a batch of synthetic orders through the
// regular creation path, so every order is unique-checked and enqueued.
type PopulateOrdersCommandHandler struct {
	reader  ports.OrderReader
	creator orderCreator
	rand    Rand
}

// NewPopulateOrdersCommandHandler creates a populate handler. A nil rnd uses the
// process wide generator.
func NewPopulateOrdersCommandHandler(reader ports.OrderReader, creator orderCreator, rnd Rand) PopulateOrdersCommandHandler {
	if rnd == nil {
		rnd = globalRand{}
	}

	return PopulateOrdersCommandHandler{
		reader:  reader,
		creator: creator,
		rand:    rnd,
	}
}

// Handle creates cmd.TotalEntries() orders named sim_<batch>_1..N.
//
// A batch whose prefix is already used fails with ErrBatchCollision before anything
// is created. Individual failures after that are recorded and do not stop the run.
func (h *PopulateOrdersCommandHandler) Handle(ctx context.Context, cmd PopulateOrdersCommand) (PopulateOrdersResult, error) {
	if err := cmd.Validate(); err != nil {
		return PopulateOrdersResult{}, err
	}

	batchID := cmd.BatchID()
	exists, err := h.reader.ExistsWithOrderIDPrefix(ctx, batchID.Prefix())
	if err != nil {
		return PopulateOrdersResult{}, err
	}

	if exists {
		return PopulateOrdersResult{}, fmt.Errorf("%w: %s", ErrBatchCollision, batchID)
	}

	result := PopulateOrdersResult{
		BatchID:      batchID.String(),
		TotalEntries: cmd.TotalEntries(),
		Errors:       make([]string, 0),
	}

	for i := 1; i <= cmd.TotalEntries(); i++ {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		orderID := batchID.OrderID(i)
		if err = h.createOne(ctx, orderID); err != nil {
			result.FailureCount++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", orderID, err))
			continue
		}

		result.SuccessCount++
	}

	return result, nil
}

func (h *PopulateOrdersCommandHandler) createOne(ctx context.Context, orderID string) error {
	itemIDs := make([]int64, 1+h.rand.IntN(syntheticMaxItems))
	for i := range itemIDs {
		itemIDs[i] = int64(1 + h.rand.IntN(syntheticMaxItem))
	}

	total, err := kernel.NewAmountFromFloat(syntheticMinTotal + h.rand.Float64()*(syntheticMaxTotal-syntheticMinTotal))
	if err != nil {
		return err
	}

	cmd, err := NewCreateOrderCommand(orderID, syntheticUserID, itemIDs, total.Round(kernel.AmountPrecision))
	if err != nil {
		return err
	}

	_, err = h.creator.Handle(ctx, cmd)
	return err
}
