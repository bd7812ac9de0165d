// Package memory provides an in-process order store used for local runs and tests.
//
// Writes are applied immediately and recorded in an undo log owned by the unit of
// work; Rollback replays the log backwards. Readers outside a unit of work see
// uncommitted writes, which is acceptable for a single-process development store.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

var _ ports.OrderReader = (*Store)(nil)

// record is an immutable snapshot of an order.
type record struct {
	id                  int64
	orderID             string
	userID              int64
	itemIDs             []int64
	totalAmount         kernel.Amount
	status              order.Status
	createdAt           time.Time
	processingStartedAt *time.Time
	completedAt         *time.Time
}

func fromDomain(o *order.Order) record {
	return record{
		id:                  o.ID(),
		orderID:             o.OrderID(),
		userID:              o.UserID(),
		itemIDs:             o.ItemIDs(),
		totalAmount:         o.TotalAmount(),
		status:              o.Status(),
		createdAt:           o.CreatedAt(),
		processingStartedAt: o.ProcessingStartedAt(),
		completedAt:         o.CompletedAt(),
	}
}

func (r record) toDomain() (*order.Order, error) {
	return order.RestoreOrder(
		r.id,
		r.orderID,
		r.userID,
		r.itemIDs,
		r.totalAmount,
		r.status,
		r.createdAt,
		r.processingStartedAt,
		r.completedAt,
	)
}

// Store keeps orders in memory. Ids are assigned sequentially and never reused.
type Store struct {
	mu        sync.RWMutex
	records   map[int64]record
	byOrderID map[string]int64
	lastID    int64
}

func NewStore() *Store {
	return &Store{
		records:   make(map[int64]record),
		byOrderID: make(map[string]int64),
	}
}

func (s *Store) add(o *order.Order) (undo func(), err error) {
	if err = o.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byOrderID[o.OrderID()]; ok {
		return nil, order.ErrDuplicateOrderID
	}

	id := s.lastID + 1
	if err = o.AssignID(id); err != nil {
		return nil, err
	}
	s.lastID = id

	s.records[id] = fromDomain(o)
	s.byOrderID[o.OrderID()] = id

	return func() {
		delete(s.records, id)
		delete(s.byOrderID, o.OrderID())
	}, nil
}

func (s *Store) update(o *order.Order) (undo func(), err error) {
	if err = o.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.records[o.ID()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", o.ID())
	}

	s.records[o.ID()] = fromDomain(o)

	return func() {
		s.records[prev.id] = prev
	}, nil
}

// Get retrieves an order by its surrogate id.
func (s *Store) Get(_ context.Context, id int64) (*order.Order, error) {
	s.mu.RLock()
	r, ok := s.records[id]
	s.mu.RUnlock()

	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id)
	}

	return r.toDomain()
}

func (s *Store) GetByOrderID(ctx context.Context, orderID string) (*order.Order, error) {
	s.mu.RLock()
	id, ok := s.byOrderID[orderID]
	s.mu.RUnlock()

	if !ok {
		return nil, errs.NewObjectNotFoundError("order", orderID)
	}

	return s.Get(ctx, id)
}

func (s *Store) CountAll(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.records)), nil
}

func (s *Store) CountByStatus(_ context.Context, status order.Status) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, r := range s.records {
		if r.status == status {
			n++
		}
	}
	return n, nil
}

func (s *Store) GetAllByStatus(_ context.Context, status order.Status) ([]*order.Order, error) {
	s.mu.RLock()
	matched := make([]record, 0)
	for _, r := range s.records {
		if r.status == status {
			matched = append(matched, r)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, func(a, b record) int { return cmp.Compare(a.id, b.id) })

	orders := make([]*order.Order, 0, len(matched))
	for _, r := range matched {
		o, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func (s *Store) ExistsWithOrderIDPrefix(_ context.Context, prefix string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for orderID := range s.byOrderID {
		if strings.HasPrefix(orderID, prefix) {
			return true, nil
		}
	}
	return false, nil
}
