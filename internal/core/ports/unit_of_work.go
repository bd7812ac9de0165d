package ports

import (
	"context"
)

// UnitOfWorkFactory hands out one UnitOfWork per command invocation.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork groups order writes so they become visible together or not at all.
// A UnitOfWork is not safe for use by more than one command at a time.
type UnitOfWork interface {
	// Begin opens the write scope. Calling it twice keeps the first scope.
	Begin(ctx context.Context) error

	// Commit makes every write since Begin visible and closes the scope.
	Commit(ctx context.Context) error

	// Rollback discards every write since Begin. After a successful Commit it
	// reports that no scope is open, which callers deferring it may ignore.
	Rollback(ctx context.Context) error

	// OrderRepository returns a repository whose writes join the open scope.
	OrderRepository() OrderRepository
}
