package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("order", "ORD-1")

		assert.Equal(t, "order", err.ParamName)
		assert.Equal(t, "ORD-1", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: order ORD-1", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("order", int64(42), cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "object not found: order 42 (cause: database connection failed)", err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("item_ids")

		assert.Equal(t, "item_ids", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: item_ids", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("must not be empty")
		err := errs.NewValueIsInvalidErrorWithCause("item_ids", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: item_ids (cause: must not be empty)", err.Error())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("NewValueIsOutOfRangeError", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("total_entries", 0, 1, 10000)

		assert.Equal(t, "total_entries", err.ParamName)
		assert.Equal(t, 0, err.Value)
		assert.Equal(t,
			"value is out of range: 0 is total_entries, min value is 1, max value is 10000",
			err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("NewValueIsOutOfRangeErrorWithCause", func(t *testing.T) {
		cause := errors.New("validation failed")
		err := errs.NewValueIsOutOfRangeErrorWithCause("score", -5, 0, 100, cause)

		assert.Equal(t, cause, err.Cause)
		assert.Contains(t, err.Error(), "(cause: validation failed)")
	})

	t.Run("should keep values on a single line", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)

		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	t.Run("NewValueIsRequiredError", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("order_id")

		assert.Equal(t, "value is required: order_id", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})

	t.Run("NewValueIsRequiredErrorWithCause", func(t *testing.T) {
		err := errs.NewValueIsRequiredErrorWithCause("order_id", errors.New("blank"))

		assert.Equal(t, "value is required: order_id (cause: blank)", err.Error())
	})
}

func TestErrorsCanBeUnwrapped(t *testing.T) {
	t.Run("errors.Is works through fmt wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("get order: %w", errs.NewObjectNotFoundError("order", "x"))
		require.ErrorIs(t, wrapped, errs.ErrObjectNotFound)

		var notFound *errs.ObjectNotFoundError
		require.ErrorAs(t, wrapped, &notFound)
		assert.Equal(t, "x", notFound.ID)
	})

	t.Run("errors.Is works inside joined errors", func(t *testing.T) {
		joined := errors.Join(
			errs.NewValueIsRequiredError("order_id"),
			errs.NewValueIsInvalidError("item_ids"),
		)

		require.ErrorIs(t, joined, errs.ErrValueIsRequired)
		require.ErrorIs(t, joined, errs.ErrValueIsInvalid)
		assert.NotErrorIs(t, joined, errs.ErrObjectNotFound)
	})
}
