package queries_test

import (
	"errors"
	"testing"
	"time"

	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMetricsQuery(t *testing.T) {
	t.Run("should carry the ids flag", func(t *testing.T) {
		q := queries.NewGetMetricsQuery(true)

		require.NoError(t, q.Validate())
		assert.True(t, q.IncludeOrderIDs())
	})

	t.Run("should reject zero value", func(t *testing.T) {
		assert.ErrorIs(t, queries.GetMetricsQuery{}.Validate(), queries.ErrGetMetricsQueryIsNotConstructed)
	})
}

func TestGetMetricsQueryHandler_Handle(t *testing.T) {
	t.Run("should default averages to zero without completed orders", func(t *testing.T) {
		ctx := t.Context()
		reader := new(MockOrderReader)
		reader.On("CountAll", ctx).Return(int64(2), nil).Once()
		reader.On("GetAllByStatus", ctx, order.Completed).Return([]*order.Order{}, nil).Once()
		reader.On("CountByStatus", ctx, order.Pending).Return(int64(2), nil).Once()
		reader.On("CountByStatus", ctx, order.Processing).Return(int64(0), nil).Once()

		resp, err := queries.NewGetMetricsQueryHandler(reader).Handle(ctx, queries.NewGetMetricsQuery(false))

		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.TotalOrders)
		assert.Zero(t, resp.AverageProcessingTime)
		assert.Zero(t, resp.AverageProcessingTimeFromCreation)
		assert.Equal(t, int64(2), resp.Pending.Count)
		assert.Equal(t, int64(0), resp.Completed.Count)
		assert.NotNil(t, resp.Pending.OrderIDs)
		assert.Empty(t, resp.Pending.OrderIDs)
		assert.NotNil(t, resp.Completed.OrderIDs)
		reader.AssertExpectations(t)
	})

	t.Run("should average durations over completed orders", func(t *testing.T) {
		ctx := t.Context()
		completed := []*order.Order{
			completedOrder(t, "A", 2*time.Second, 4*time.Second),
			completedOrder(t, "B", 2*time.Second, 6*time.Second),
		}
		reader := new(MockOrderReader)
		reader.On("CountAll", ctx).Return(int64(3), nil).Once()
		reader.On("GetAllByStatus", ctx, order.Completed).Return(completed, nil).Once()
		reader.On("CountByStatus", ctx, order.Pending).Return(int64(1), nil).Once()
		reader.On("CountByStatus", ctx, order.Processing).Return(int64(0), nil).Once()

		resp, err := queries.NewGetMetricsQueryHandler(reader).Handle(ctx, queries.NewGetMetricsQuery(false))

		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Completed.Count)
		assert.InDelta(t, 5.0, resp.AverageProcessingTime, 1e-9)
		assert.InDelta(t, 7.0, resp.AverageProcessingTimeFromCreation, 1e-9)
		assert.Empty(t, resp.Completed.OrderIDs)
	})

	t.Run("should list order ids when requested", func(t *testing.T) {
		ctx := t.Context()
		reader := new(MockOrderReader)
		reader.On("CountAll", ctx).Return(int64(3), nil).Once()
		reader.On("GetAllByStatus", ctx, order.Completed).Return([]*order.Order{completedOrder(t, "C1", time.Second, time.Second)}, nil).Once()
		reader.On("GetAllByStatus", ctx, order.Pending).Return([]*order.Order{pendingOrder(t, "P1")}, nil).Once()
		reader.On("GetAllByStatus", ctx, order.Processing).Return([]*order.Order{processingOrder(t, "R1", time.Second)}, nil).Once()

		resp, err := queries.NewGetMetricsQueryHandler(reader).Handle(ctx, queries.NewGetMetricsQuery(true))

		require.NoError(t, err)
		assert.Equal(t, queries.StatusBucket{Count: 1, OrderIDs: []string{"P1"}}, resp.Pending)
		assert.Equal(t, queries.StatusBucket{Count: 1, OrderIDs: []string{"R1"}}, resp.Processing)
		assert.Equal(t, queries.StatusBucket{Count: 1, OrderIDs: []string{"C1"}}, resp.Completed)
	})

	t.Run("should report store failures as aggregation faults", func(t *testing.T) {
		ctx := t.Context()
		reader := new(MockOrderReader)
		reader.On("CountAll", ctx).Return(int64(0), errors.New("connection refused")).Once()

		_, err := queries.NewGetMetricsQueryHandler(reader).Handle(ctx, queries.NewGetMetricsQuery(false))

		require.ErrorIs(t, err, queries.ErrAggregationFault)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("should convert panics into aggregation faults", func(t *testing.T) {
		ctx := t.Context()
		reader := new(MockOrderReader)
		reader.On("CountAll", ctx).Return(int64(1), nil).Once()
		reader.On("GetAllByStatus", ctx, order.Completed).Return([]*order.Order{nil}, nil).Once()
		reader.On("CountByStatus", ctx, order.Pending).Return(int64(0), nil).Once()
		reader.On("CountByStatus", ctx, order.Processing).Return(int64(0), nil).Once()

		_, err := queries.NewGetMetricsQueryHandler(reader).Handle(ctx, queries.NewGetMetricsQuery(false))

		require.ErrorIs(t, err, queries.ErrAggregationFault)
	})
}
