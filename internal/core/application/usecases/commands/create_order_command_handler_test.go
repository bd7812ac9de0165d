package commands_test

import (
	"errors"
	"fmt"
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func assignID(id int64) func(mock.Arguments) {
	return func(args mock.Arguments) {
		_ = args.Get(1).(*order.Order).AssignID(id)
	}
}

func newCreateCommand(t *testing.T) commands.CreateOrderCommand {
	t.Helper()
	cmd, err := commands.NewCreateOrderCommand("ORD-1", 1, []int64{101, 102}, mustAmount(50.75))
	require.NoError(t, err)
	return cmd
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCommand(t)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	queue := new(MockOrderQueue)
	publisher := new(MockPublisher)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Run(assignID(1)).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		publisher.On("Publish", ctx, mock.MatchedBy(func(e order.StatusChanged) bool {
			return e.ID == 1 && e.Status == order.Pending && e.OccurredAt.Equal(fixedNow)
		})).Return().Once(),
		queue.On("Enqueue", int64(1)).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, queue, publisher, fixedClock())
	o, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, int64(1), o.ID())
	assert.Equal(t, order.Pending, o.Status())
	assert.Equal(t, fixedNow, o.CreatedAt())
	assert.Nil(t, o.ProcessingStartedAt())
	assert.Nil(t, o.CompletedAt())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	queue.AssertExpectations(t)
	publisher.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.CreateOrderCommand{} // not constructed properly
	factory := new(MockOrderUoWFactory)
	h := commands.NewCreateOrderCommandHandler(factory, new(MockOrderQueue), nil, fixedClock())
	_, err := h.Handle(ctx, cmd)
	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCommand(t)

	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	h := commands.NewCreateOrderCommandHandler(factory, new(MockOrderQueue), nil, fixedClock())
	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
}

func TestCreateOrderCommandHandler_Handle_DuplicateOrderID(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCommand(t)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	queue := new(MockOrderQueue)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(order.ErrDuplicateOrderID).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, queue, nil, fixedClock())
	o, err := h.Handle(ctx, cmd)
	require.ErrorIs(t, err, order.ErrDuplicateOrderID)
	assert.Nil(t, o)
	queue.AssertNotCalled(t, "Enqueue", mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCommand(t)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	queue := new(MockOrderQueue)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Run(assignID(1)).Return(nil).Once(),
		uow.On("Commit", ctx).Return(errors.New("commit error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, queue, nil, fixedClock())
	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
	queue.AssertNotCalled(t, "Enqueue", mock.Anything)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_QueueFull(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCommand(t)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	queue := new(MockOrderQueue)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Run(assignID(4)).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		queue.On("Enqueue", int64(4)).Return(ports.ErrQueueFull).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, queue, nil, fixedClock())
	o, err := h.Handle(ctx, cmd)
	require.ErrorIs(t, err, ports.ErrQueueFull)
	require.NotNil(t, o)
	assert.Equal(t, order.Pending, o.Status())
	queue.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_AlreadyEnqueuedByRecovery(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCommand(t)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	queue := new(MockOrderQueue)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Run(assignID(5)).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		queue.On("Enqueue", int64(5)).Return(fmt.Errorf("%w: %d", ports.ErrAlreadyEnqueued, 5)).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, queue, nil, fixedClock())
	o, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, int64(5), o.ID())
	queue.AssertExpectations(t)
}
