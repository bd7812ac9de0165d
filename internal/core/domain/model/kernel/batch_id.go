package kernel

import (
	"fmt"
	"strings"
	"unicode"

	"orderflow/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	// GeneratedBatchIDLength is the length of batch identifiers produced by NewBatchID.
	GeneratedBatchIDLength = 8

	// MaxBatchIDLength keeps every synthetic order id inside the order id length limit.
	MaxBatchIDLength = 32

	batchOrderIDPrefix = "sim_"
)

// ErrBatchIDIsNotConstructed indicates a zero-value BatchID.
var ErrBatchIDIsNotConstructed = errs.NewValueIsRequiredError(
	"batch id must be created via NewBatchID or BatchIDFromString")

// BatchID names a group of synthetic orders. A batch is not stored anywhere: it is the set
// of orders whose order id starts with Prefix().
//
// Example:
//
//	batch := kernel.NewBatchID()         // e.g. "1f0c9a2e"
//	batch.Prefix()                       // "sim_1f0c9a2e_"
//	batch.OrderID(3)                     // "sim_1f0c9a2e_3"
type BatchID struct {
	value string
}

// NewBatchID generates a random batch identifier from the first characters of a UUIDv4.
func NewBatchID() BatchID {
	return BatchID{value: uuid.NewString()[:GeneratedBatchIDLength]}
}

// BatchIDFromString validates a caller supplied batch identifier.
// The value must be non-blank, at most MaxBatchIDLength characters and free of whitespace.
func BatchIDFromString(s string) (BatchID, error) {
	if strings.TrimSpace(s) == "" {
		return BatchID{}, errs.NewValueIsRequiredError("batch_id")
	}

	if n := len([]rune(s)); n > MaxBatchIDLength {
		return BatchID{}, errs.NewValueIsOutOfRangeError("batch_id length", n, 1, MaxBatchIDLength)
	}

	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return BatchID{}, errs.NewValueIsInvalidErrorWithCause(
			"batch_id",
			fmt.Errorf("%q contains whitespace", s),
		)
	}

	return BatchID{value: s}, nil
}

// Validate checks that the BatchID was constructed.
func (b BatchID) Validate() error {
	if b.value == "" {
		return ErrBatchIDIsNotConstructed
	}
	return nil
}

// Prefix returns the order id prefix shared by every order of the batch.
func (b BatchID) Prefix() string {
	return batchOrderIDPrefix + b.value + "_"
}

// OrderID returns the order id of the n-th (1-based) synthetic order of the batch.
func (b BatchID) OrderID(n int) string {
	return fmt.Sprintf("%s%d", b.Prefix(), n)
}

// IsEqual compares two batch identifiers.
func (b BatchID) IsEqual(other BatchID) bool {
	return b.value == other.value
}

func (b BatchID) String() string {
	return b.value
}
