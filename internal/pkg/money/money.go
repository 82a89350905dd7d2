package money

import (
	"errors"
	"fmt"
)

// Cents is a non-negative money amount in integer cents. Split math must never
// touch floating point, so every operation that could produce a negative or
// fractional result goes through a checked constructor or method instead of
// raw arithmetic.
type Cents int64

// MaxAmount caps accepted amounts at one trillion dollars in cents. Anything
// larger is a corrupt payload, and the cap keeps percentage products well
// inside int64 range.
const MaxAmount Cents = 100_000_000_000_000

var (
	ErrNegativeAmount = errors.New("money: amount must not be negative")
	ErrAmountTooLarge = errors.New("money: amount exceeds supported range")
)

// FromInt64 validates a raw cent amount coming from an external payload.
func FromInt64(v int64) (Cents, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeAmount, v)
	}
	if v > int64(MaxAmount) {
		return 0, fmt.Errorf("%w: %d", ErrAmountTooLarge, v)
	}
	return Cents(v), nil
}

// Int64 returns the raw cent amount.
func (c Cents) Int64() int64 {
	return int64(c)
}

// Add sums two amounts. Both operands are non-negative by construction, so
// the result cannot go negative.
func (c Cents) Add(o Cents) Cents {
	return c + o
}

// Sub subtracts o from c and errors instead of producing a negative amount.
func (c Cents) Sub(o Cents) (Cents, error) {
	if o > c {
		return 0, fmt.Errorf("%w: %d - %d", ErrNegativeAmount, c, o)
	}
	return c - o, nil
}

// PercentFloor returns floor(c * pct / 100). Amounts built through FromInt64
// stay at or below MaxAmount, so the product fits in int64. Percentages above
// 100 are the caller's configuration error and are intentionally not clamped
// here.
func (c Cents) PercentFloor(pct int) Cents {
	if pct <= 0 {
		return 0
	}
	return Cents(int64(c) * int64(pct) / 100)
}

// String renders the amount as a decimal without currency, e.g. "9.99".
func (c Cents) String() string {
	return fmt.Sprintf("%d.%02d", c/100, c%100)
}
