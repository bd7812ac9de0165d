package memory

import (
	"context"
	"errors"
	"sync"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// ErrNoActiveTransaction mirrors gorm.ErrInvalidTransaction for the memory store.
var ErrNoActiveTransaction = errors.New("no active transaction")

// UnitOfWorkFactory creates units of work over a shared Store.
type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork collects undo actions between Begin and Commit.
// Without Begin, repository writes are applied and kept immediately.
type UnitOfWork struct {
	store *Store

	mu     sync.Mutex
	active bool
	undo   []func()
}

func (u *UnitOfWork) Begin(_ context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.active = true
	return nil
}

func (u *UnitOfWork) Commit(_ context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if !u.active {
		return ErrNoActiveTransaction
	}

	u.active = false
	u.undo = nil
	return nil
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if !u.active {
		return ErrNoActiveTransaction
	}

	u.store.mu.Lock()
	for i := len(u.undo) - 1; i >= 0; i-- {
		u.undo[i]()
	}
	u.store.mu.Unlock()

	u.active = false
	u.undo = nil
	return nil
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &OrderRepository{Store: u.store, uow: u}
}

func (u *UnitOfWork) record(undo func()) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.active {
		u.undo = append(u.undo, undo)
	}
}

// OrderRepository is the transactional view of a Store.
type OrderRepository struct {
	*Store
	uow *UnitOfWork
}

func (r *OrderRepository) Add(_ context.Context, o *order.Order) error {
	undo, err := r.add(o)
	if err != nil {
		return err
	}

	r.uow.record(undo)
	return nil
}

func (r *OrderRepository) Update(_ context.Context, o *order.Order) error {
	undo, err := r.update(o)
	if err != nil {
		return err
	}

	r.uow.record(undo)
	return nil
}
