package types

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// WinstonPerAR is the fixed scale between the ledger-native winston unit
// and the AR display denomination: 1 AR = 10^12 winston.
const WinstonPerAR = 1_000_000_000_000

var (
	ErrInvalidWinston  = errors.New("invalid winston amount")
	ErrNegativeWinston = errors.New("winston amount cannot be negative")
	ErrDivideByZero    = errors.New("division by zero winston amount")
)

// Winston is a non-negative, arbitrary-precision integer amount of the
// ledger-native currency unit.
type Winston struct {
	amount decimal.Decimal
}

// NewWinston returns a Winston amount of v units. v must be non-negative.
func NewWinston(v int64) Winston {
	if v < 0 {
		v = 0
	}
	return Winston{amount: decimal.NewFromInt(v)}
}

// WinstonFromString parses a decimal string into a Winston amount.
// Fractional or negative values are rejected.
func WinstonFromString(s string) (Winston, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Winston{}, fmt.Errorf("%w: %q", ErrInvalidWinston, s)
	}
	if d.IsNegative() || !d.IsInteger() {
		return Winston{}, fmt.Errorf("%w: %q", ErrInvalidWinston, s)
	}
	return Winston{amount: d}, nil
}

// Plus returns w+other.
func (w Winston) Plus(other Winston) Winston {
	return Winston{amount: w.amount.Add(other.amount)}
}

// Minus returns w-other, failing if the result would be negative.
func (w Winston) Minus(other Winston) (Winston, error) {
	d := w.amount.Sub(other.amount)
	if d.IsNegative() {
		return Winston{}, ErrNegativeWinston
	}
	return Winston{amount: d}, nil
}

// Cmp returns -1, 0 or 1 as w is less than, equal to or greater than other.
func (w Winston) Cmp(other Winston) int {
	return w.amount.Cmp(other.amount)
}

func (w Winston) IsZero() bool {
	return w.amount.IsZero()
}

// DividedBy returns floor(w / other) as a plain integer count. The
// rounding mode is always down; callers needing anything else divide on
// their own terms.
func (w Winston) DividedBy(other Winston) (int64, error) {
	if other.amount.IsZero() {
		return 0, ErrDivideByZero
	}
	q, _ := w.amount.QuoRem(other.amount, 0)
	return q.IntPart(), nil
}

// AR converts w to the display denomination at the fixed 10^12 scale.
func (w Winston) AR() decimal.Decimal {
	return w.amount.Shift(-12)
}

func (w Winston) String() string {
	return w.amount.String()
}
