// Package tax computes line and document taxes for the two pricing
// modes a selling context can run in: tax-exclusive (unit prices are
// net) and tax-inclusive (unit prices already contain tax).
package tax

import (
	"github.com/Jcrispin99/gym-app-sub000/internal/core/apperror"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
)

// Mode selects how unit prices relate to tax.
type Mode string

const (
	// ModeExclusive: unit price excludes tax; tax = net * rate/100.
	ModeExclusive Mode = "exclusive"
	// ModeInclusive: unit price is gross; net = gross / (1 + rate/100).
	ModeInclusive Mode = "inclusive"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeExclusive || m == ModeInclusive
}

// Breakdown is the result of a tax computation, rounded to 2 decimals.
// Gross = Net + Tax holds exactly: tax is derived as the difference
// after rounding so the three never drift apart by a cent.
type Breakdown struct {
	Net   types.Money `json:"net"`
	Tax   types.Money `json:"tax"`
	Gross types.Money `json:"gross"`
}

// Compute breaks an amount into net/tax/gross for the given rate
// (percent, e.g. 18 for 18%) and mode. In exclusive mode the amount is
// net; in inclusive mode it is gross.
func Compute(amount types.Money, rate types.Money, mode Mode) (Breakdown, error) {
	if !mode.Valid() {
		return Breakdown{}, apperror.NewValidation("unknown tax mode").
			WithDetail("mode", string(mode))
	}
	if rate.IsNegative() {
		return Breakdown{}, apperror.NewValidation("tax rate cannot be negative").
			WithDetail("rate", rate.String())
	}

	divisor := types.MustMoney("1").Add(rate.Div(types.MustMoney("100")))

	var net, gross types.Money
	switch mode {
	case ModeExclusive:
		net = types.Round2(amount)
		gross = types.Round2(amount.Mul(divisor))
	case ModeInclusive:
		gross = types.Round2(amount)
		net = types.Round2(amount.Div(divisor))
	}

	return Breakdown{
		Net:   net,
		Tax:   gross.Sub(net),
		Gross: gross,
	}, nil
}

// LineTotal computes the breakdown for quantity * unitPrice.
func LineTotal(quantity types.Quantity, unitPrice types.Money, rate types.Money, mode Mode) (Breakdown, error) {
	return Compute(unitPrice.Mul(quantity.Decimal()), rate, mode)
}
