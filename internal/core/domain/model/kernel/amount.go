package kernel

import (
	"fmt"
	"math"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// AmountPrecision is the number of decimal places used when rounding generated amounts.
const AmountPrecision int32 = 2

// ErrAmountIsNotConstructed is returned when validating a zero-value Amount.
var ErrAmountIsNotConstructed = errs.NewValueIsRequiredError(
	"amount must be created via NewAmount or NewAmountFromFloat constructors")

// Amount is an immutable, non-negative monetary value backed by shopspring/decimal.
// The zero value is invalid; a constructed zero amount is valid.
//
// Example:
//
//	total, err := kernel.NewAmountFromFloat(50.75)
//	if err != nil {
//	    // negative, NaN or infinite input
//	}
//	fmt.Println(total) // 50.75
type Amount struct { //nolint:recvcheck //using for validation
	value decimal.Decimal
	guard guard.ConstructorGuard
}

// NewAmount creates an Amount from a decimal value. Negative values are rejected.
func NewAmount(value decimal.Decimal) (Amount, error) {
	if value.IsNegative() {
		return Amount{}, errs.NewValueIsInvalidErrorWithCause(
			"total_amount",
			fmt.Errorf("%s is negative", value.String()),
		)
	}

	return Amount{
		value: value,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// NewAmountFromFloat creates an Amount from a float64 as received from JSON payloads.
// NaN and infinities are rejected before conversion because decimal cannot represent them.
func NewAmountFromFloat(value float64) (Amount, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Amount{}, errs.NewValueIsInvalidErrorWithCause(
			"total_amount",
			fmt.Errorf("%v is not a finite number", value),
		)
	}

	return NewAmount(decimal.NewFromFloat(value))
}

// Validate ensures the Amount was created through a constructor.
func (a Amount) Validate() error {
	return a.guard.Validate(ErrAmountIsNotConstructed)
}

// Decimal returns the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal {
	return a.value
}

// Float64 returns the nearest float64, used for JSON responses.
func (a Amount) Float64() float64 {
	return a.value.InexactFloat64()
}

// Round returns a copy rounded half away from zero to the given number of places.
func (a Amount) Round(places int32) Amount {
	return Amount{
		value: a.value.Round(places),
		guard: a.guard,
	}
}

// IsEqual compares two amounts numerically, so 10.5 equals 10.50.
func (a Amount) IsEqual(other Amount) bool {
	return a.value.Equal(other.value)
}

func (a Amount) String() string {
	return a.value.String()
}
