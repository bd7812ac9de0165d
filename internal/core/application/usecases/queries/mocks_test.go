package queries_test

import (
	"context"
	"testing"
	"time"

	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 5, 6, 8, 0, 0, 0, time.UTC)

type MockOrderReader struct{ mock.Mock }

func (m *MockOrderReader) GetByOrderID(ctx context.Context, orderID string) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderReader) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderReader) CountByStatus(ctx context.Context, status order.Status) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderReader) GetAllByStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, status)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderReader) ExistsWithOrderIDPrefix(ctx context.Context, prefix string) (bool, error) {
	args := m.Called(ctx, prefix)
	return args.Bool(0), args.Error(1)
}

type MockStatusCache struct{ mock.Mock }

func (m *MockStatusCache) Get(ctx context.Context, orderID string) (queries.GetOrderStatusQueryResponse, bool) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(queries.GetOrderStatusQueryResponse), args.Bool(1)
}

func (m *MockStatusCache) Set(ctx context.Context, resp queries.GetOrderStatusQueryResponse) {
	m.Called(ctx, resp)
}

func pendingOrder(t *testing.T, orderID string) *order.Order {
	t.Helper()
	amount, _ := kernel.NewAmountFromFloat(10)
	o, err := order.RestoreOrder(1, orderID, 1, []int64{1}, amount, order.Pending, t0, nil, nil)
	require.NoError(t, err)
	return o
}

func processingOrder(t *testing.T, orderID string, pending time.Duration) *order.Order {
	t.Helper()
	amount, _ := kernel.NewAmountFromFloat(10)
	started := t0.Add(pending)
	o, err := order.RestoreOrder(2, orderID, 1, []int64{1}, amount, order.Processing, t0, &started, nil)
	require.NoError(t, err)
	return o
}

func completedOrder(t *testing.T, orderID string, pending, processing time.Duration) *order.Order {
	t.Helper()
	amount, _ := kernel.NewAmountFromFloat(50.75)
	started := t0.Add(pending)
	completed := started.Add(processing)
	o, err := order.RestoreOrder(3, orderID, 1, []int64{101, 102}, amount, order.Completed, t0, &started, &completed)
	require.NoError(t, err)
	return o
}
