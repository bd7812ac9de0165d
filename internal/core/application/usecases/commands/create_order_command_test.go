package commands_test

import (
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	cmd, err := commands.NewCreateOrderCommand("ORD-1", 1, []int64{101, 102}, mustAmount(50.75))
	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, "ORD-1", cmd.OrderID())
	assert.Equal(t, int64(1), cmd.UserID())
	assert.Equal(t, []int64{101, 102}, cmd.ItemIDs())
	assert.Equal(t, "50.75", cmd.TotalAmount().String())
}

func TestNewCreateOrderCommand_EmptyOrderID(t *testing.T) {
	_, err := commands.NewCreateOrderCommand("", 1, []int64{1}, mustAmount(1))
	require.ErrorIs(t, err, commands.ErrOrderIDIsRequired)
}

func TestNewCreateOrderCommand_NegativeUserID(t *testing.T) {
	_, err := commands.NewCreateOrderCommand("ORD-1", -1, []int64{1}, mustAmount(1))
	require.ErrorIs(t, err, commands.ErrUserIDIsInvalid)
}

func TestNewCreateOrderCommand_NoItems(t *testing.T) {
	_, err := commands.NewCreateOrderCommand("ORD-1", 1, []int64{}, mustAmount(1))
	require.ErrorIs(t, err, commands.ErrItemIDsAreRequired)
}

func TestNewCreateOrderCommand_InvalidAmount(t *testing.T) {
	_, err := commands.NewCreateOrderCommand("ORD-1", 1, []int64{1}, kernel.Amount{})
	require.ErrorIs(t, err, kernel.ErrAmountIsNotConstructed)
}

func TestNewCreateOrderCommand_MultipleErrors(t *testing.T) {
	_, err := commands.NewCreateOrderCommand("", -1, nil, mustAmount(1))
	require.ErrorIs(t, err, commands.ErrOrderIDIsRequired)
	require.ErrorIs(t, err, commands.ErrUserIDIsInvalid)
	require.ErrorIs(t, err, commands.ErrItemIDsAreRequired)
}
