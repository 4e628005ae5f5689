package kernel

import (
	"fmt"
	"math"

	"grocery/internal/pkg/errs"
	"grocery/internal/pkg/guard"
)

// ErrMoneyIsNotConstructed is returned when a Money instance was not created
// through one of the factory functions. This ensures all amounts carry a
// consciously chosen rounding behavior.
var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError(
	"Money must be created via MoneyFromDisplay or MoneyFromMinor",
)

// minorPerDisplay is the number of minor units in one display unit
// (e.g. 100 sen per yen). All arithmetic in the system happens in minor
// units to avoid floating-point drift.
const minorPerDisplay = 100

// Money is a value object representing a monetary amount in integer minor
// units. Conversion from the display unit rounds half-up; conversion back to
// the display unit is exact. The pair of conversions round-trips for every
// amount that carries no sub-minor precision:
//
//	m, _ := kernel.MoneyFromDisplay(1500)
//	m.Minor()   // 150000
//	m.Display() // 1500
//
// Amounts are never negative in this domain: estimates, receipt totals and
// item prices are all non-negative quantities.
//
// Money is immutable and safe for concurrent use.
type Money struct {
	minor int64

	guard guard.ConstructorGuard
}

// MoneyFromDisplay converts an amount expressed in the display currency unit
// into Money, rounding half-up to the nearest minor unit. Rejects negative,
// NaN and infinite amounts.
//
// Example:
//
//	estimate, err := kernel.MoneyFromDisplay(1299.5)
//	if err != nil {
//	    return err
//	}
//	estimate.Minor() // 129950
func MoneyFromDisplay(amount float64) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%v is not a finite number", amount))
	}
	if amount < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%v is negative", amount))
	}

	// Round-half-up policy: x.5 minor units always round away from zero.
	minor := int64(math.Floor(amount*minorPerDisplay + 0.5))
	return Money{minor: minor, guard: guard.NewConstructorGuard()}, nil
}

// MoneyFromMinor creates Money directly from an amount in minor units.
// Rejects negative amounts.
func MoneyFromMinor(minor int64) (Money, error) {
	if minor < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("minor amount",
			fmt.Errorf("%d is negative", minor))
	}
	return Money{minor: minor, guard: guard.NewConstructorGuard()}, nil
}

// Minor returns the amount in integer minor units.
func (m Money) Minor() int64 {
	return m.minor
}

// Display returns the amount in the display currency unit.
// The conversion from minor units is exact.
func (m Money) Display() float64 {
	return float64(m.minor) / minorPerDisplay
}

// IsEqual compares two amounts by their minor-unit value.
func (m Money) IsEqual(other Money) bool {
	return m.minor == other.minor
}

// String formats the amount in display units with minor-unit precision.
func (m Money) String() string {
	return fmt.Sprintf("%.2f", m.Display())
}

// Validate checks that the Money value was created through a factory function.
// Returns ErrMoneyIsNotConstructed for zero-value instances.
func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}
