package commands

import (
	"errors"

	"orderflow/internal/pkg/guard"
)

var (
	ErrRecoverPendingOrdersCommandIsNotConstructed = errors.New(
		"RecoverPendingOrdersCommand must be created via NewRecoverPendingOrdersCommand constructor",
	)
)

// RecoverPendingOrdersCommand re-enqueues stored Pending orders, typically after a
// restart lost the in-memory queue.
type RecoverPendingOrdersCommand struct {
	guard guard.ConstructorGuard
}

func NewRecoverPendingOrdersCommand() RecoverPendingOrdersCommand {
	return RecoverPendingOrdersCommand{guard: guard.NewConstructorGuard()}
}

func (c RecoverPendingOrdersCommand) Validate() error {
	return c.guard.Validate(ErrRecoverPendingOrdersCommandIsNotConstructed)
}
