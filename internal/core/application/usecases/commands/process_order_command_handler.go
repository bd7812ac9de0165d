package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// ProcessOrderCommandHandler is the per-order task executed by the worker pool.
//
// It waits the acquisition delay, moves the order to Processing, waits a random
// processing delay and moves it to Completed. Each transition is committed in its
// own transaction so status queries observe Processing while the work is running.
//
// An order that disappeared, or is no longer in the expected status, ends the task
// with an error; nothing is retried. An order that is no longer Pending when the
// task starts was already acquired and yields ErrOrderAlreadyAcquired.
type ProcessOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.OrderEventPublisher
	clock      kernel.Clock
	delays     Delays
	rand       Rand
}

// ErrOrderAlreadyAcquired is returned when the order left Pending before this task
// could acquire it, e.g. after a duplicate enqueue by a recovery pass.
var ErrOrderAlreadyAcquired = errors.New("order was already acquired")

// NewProcessOrderCommandHandler creates the processing task handler.
// A nil publisher disables status events and a nil rnd uses the process wide generator.
func NewProcessOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.OrderEventPublisher,
	clock kernel.Clock,
	delays Delays,
	rnd Rand,
) ProcessOrderCommandHandler {
	if publisher == nil {
		publisher = noopPublisher{}
	}

	if rnd == nil {
		rnd = globalRand{}
	}

	return ProcessOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		clock:      clock,
		delays:     delays,
		rand:       rnd,
	}
}

// Handle runs both transitions for the order. Cancelling ctx aborts the task at
// the next delay, leaving the order in whatever status was last committed.
func (h *ProcessOrderCommandHandler) Handle(ctx context.Context, cmd ProcessOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := sleepContext(ctx, h.delays.Acquisition); err != nil {
		return err
	}

	o, err := h.transition(ctx, cmd.ID(), func(o *order.Order) error {
		if o.Status() != order.Pending {
			return fmt.Errorf("%w: %s is %s", ErrOrderAlreadyAcquired, o.OrderID(), o.Status())
		}
		return o.StartProcessing(h.clock.Now())
	})
	if err != nil {
		return err
	}
	h.publisher.Publish(ctx, order.NewStatusChanged(o))

	if err = sleepContext(ctx, h.processingDelay()); err != nil {
		return err
	}

	o, err = h.transition(ctx, cmd.ID(), func(o *order.Order) error {
		return o.Complete(h.clock.Now())
	})
	if err != nil {
		return err
	}
	h.publisher.Publish(ctx, order.NewStatusChanged(o))

	return nil
}

func (h *ProcessOrderCommandHandler) transition(
	ctx context.Context,
	id int64,
	apply func(o *order.Order) error,
) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = apply(o); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}

func (h *ProcessOrderCommandHandler) processingDelay() time.Duration {
	spread := h.delays.ProcessingMax - h.delays.ProcessingMin
	if spread <= 0 {
		return h.delays.ProcessingMin
	}

	return h.delays.ProcessingMin + time.Duration(h.rand.Float64()*float64(spread))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
