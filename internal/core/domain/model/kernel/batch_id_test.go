package kernel_test

import (
	"strings"
	"testing"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBatchID(t *testing.T) {
	t.Run("should generate eight character identifiers", func(t *testing.T) {
		b := kernel.NewBatchID()

		require.NoError(t, b.Validate())
		assert.Len(t, b.String(), kernel.GeneratedBatchIDLength)
	})

	t.Run("should generate distinct identifiers", func(t *testing.T) {
		seen := make(map[string]struct{})
		for range 100 {
			seen[kernel.NewBatchID().String()] = struct{}{}
		}

		assert.Len(t, seen, 100)
	})
}

func TestBatchIDFromString(t *testing.T) {
	t.Run("should accept caller supplied identifier", func(t *testing.T) {
		b, err := kernel.BatchIDFromString("B1")

		require.NoError(t, err)
		assert.Equal(t, "B1", b.String())
		assert.Equal(t, "sim_B1_", b.Prefix())
		assert.Equal(t, "sim_B1_10", b.OrderID(10))
	})

	t.Run("should reject blank identifiers", func(t *testing.T) {
		for _, s := range []string{"", "   "} {
			_, err := kernel.BatchIDFromString(s)

			require.ErrorIs(t, err, errs.ErrValueIsRequired)
		}
	})

	t.Run("should reject identifiers with whitespace", func(t *testing.T) {
		_, err := kernel.BatchIDFromString("B 1")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject overly long identifiers", func(t *testing.T) {
		_, err := kernel.BatchIDFromString(strings.Repeat("x", kernel.MaxBatchIDLength+1))

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should compare by value", func(t *testing.T) {
		a, _ := kernel.BatchIDFromString("B1")
		b, _ := kernel.BatchIDFromString("B1")
		c, _ := kernel.BatchIDFromString("B2")

		assert.True(t, a.IsEqual(b))
		assert.False(t, a.IsEqual(c))
	})
}

func TestBatchID_Validate(t *testing.T) {
	var b kernel.BatchID

	assert.Equal(t, kernel.ErrBatchIDIsNotConstructed, b.Validate())
}
