// Package types provides the money and quantity types shared across
// the domain.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount. Costs and averages keep full
// precision internally; only presentation values are rounded.
type Money = decimal.Decimal

// NewMoneyFromString parses a Money value. Preferred over float
// construction for anything that ends up persisted.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney parses a Money value, panicking on bad input. For
// constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns the zero amount.
func Zero() Money {
	return decimal.Zero
}

// Round2 rounds to 2 decimal places, the presentation precision for
// document totals and payment amounts.
func Round2(m Money) Money {
	return m.Round(2)
}

// moneyTolerance is the acceptable gap when comparing settled
// amounts: one cent.
var moneyTolerance = decimal.New(1, -2)

// MoneyEqual reports whether two amounts agree within one cent.
func MoneyEqual(a, b Money) bool {
	return a.Sub(b).Abs().LessThanOrEqual(moneyTolerance)
}

// QuantityScale is the fixed-point scale of Quantity: 4 decimal
// places, matching NUMERIC(15,4) column semantics as a plain BIGINT.
const QuantityScale int64 = 10_000

// Quantity is a fixed-point stock quantity. Arithmetic on the scaled
// integer is exact; no float drift accumulates across thousands of
// movements.
type Quantity int64

// NewQuantityFromFloat64 converts, rounding to the fixed-point scale.
func NewQuantityFromFloat64(v float64) Quantity {
	return Quantity(math.Round(v * float64(QuantityScale)))
}

// NewQuantityFromInt64Scaled wraps an already-scaled integer, as read
// from a BIGINT column.
func NewQuantityFromInt64Scaled(v int64) Quantity { return Quantity(v) }

// Int64Scaled returns the scaled integer for storage.
func (q Quantity) Int64Scaled() int64 { return int64(q) }

// Decimal converts to an exact decimal, for math against Money.
func (q Quantity) Decimal() decimal.Decimal {
	return decimal.New(int64(q), 0).Div(decimal.New(QuantityScale, 0))
}

func (q Quantity) IsZero() bool     { return q == 0 }
func (q Quantity) IsPositive() bool { return q > 0 }
func (q Quantity) IsNegative() bool { return q < 0 }
func (q Quantity) Neg() Quantity    { return -q }

// String formats with the full 4 fractional digits.
func (q Quantity) String() string {
	v := q
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%04d", sign, int64(v)/QuantityScale, int64(v)%QuantityScale)
}

// MarshalJSON encodes as a JSON number with 4 decimals.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*q = 0
		return nil
	}

	raw := string(data)
	if len(data) >= 2 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}

	parsed, err := parseQuantity(raw)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

func parseQuantity(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty quantity")
	}

	// Exponent form only shows up from float-producing clients; parse
	// it loosely and round.
	if strings.ContainsAny(s, "eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("parse quantity: %w", err)
		}
		return NewQuantityFromFloat64(f), nil
	}

	sign := int64(1)
	switch {
	case strings.HasPrefix(s, "-"):
		sign = -1
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	intStr, fracStr, _ := strings.Cut(s, ".")
	if intStr == "" {
		intStr = "0"
	}
	intPart, err := strconv.ParseInt(intStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse quantity integer part: %w", err)
	}

	// Truncate past the 4th fractional digit, pad short input.
	if len(fracStr) > 4 {
		fracStr = fracStr[:4]
	}
	for len(fracStr) < 4 {
		fracStr += "0"
	}
	frac, err := strconv.ParseInt(fracStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse quantity fractional part: %w", err)
	}

	return Quantity(sign * (intPart*QuantityScale + frac)), nil
}
