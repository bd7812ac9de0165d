// Package commands holds the write side of the order lifecycle: order intake,
// synthetic batch generation, background processing and startup recovery.
//
// Each command is built by a validating constructor and executed by a handler that
// owns one unit of work per invocation.
package commands

import (
	"context"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

type (
	// TxManager opens and closes the write scope of a handler.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory exposes the repository bound to the open scope.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OrderUoW is the unit of work every order handler runs in:
	//
	//	uow := factory.Create()
	//	if err := uow.Begin(ctx); err != nil { ... }
	//	defer uow.Rollback(ctx)
	//	o, err := uow.OrderRepository().Get(ctx, id)
	//	...
	//	return uow.Commit(ctx)
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory is satisfied by adapters wrapping ports.UnitOfWorkFactory.
	OrderUoWFactory interface {
		Create() OrderUoW
	}
)

// noopPublisher stands in when a handler is built without an event publisher.
type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, order.StatusChanged) {}
