// Package pos implements the point-of-sale exchange flow: one credit
// note composed with an optional replacement sale, settled through the
// payment split calculator.
package pos

import (
	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
)

// Split partitions the money of a return+exchange into three amounts.
// Exactly one of AmountOwed/AmountRefunded is non-zero, unless the
// exchange is even and both are zero.
type Split struct {
	ReturnTotal    types.Money `json:"returnTotal"`
	SaleTotal      types.Money `json:"saleTotal"`
	AppliedCredit  types.Money `json:"appliedCredit"`
	AmountOwed     types.Money `json:"amountOwed"`
	AmountRefunded types.Money `json:"amountRefunded"`
}

// ComputeSplit derives the settlement amounts from the tax-inclusive
// return and sale totals:
//
//	appliedCredit  = min(returnTotal, saleTotal)
//	amountOwed     = max(0, saleTotal - returnTotal)
//	amountRefunded = max(0, returnTotal - saleTotal)
func ComputeSplit(returnTotal, saleTotal types.Money) Split {
	applied := returnTotal
	if saleTotal.LessThan(returnTotal) {
		applied = saleTotal
	}

	owed := types.Round2(saleTotal.Sub(returnTotal))
	refunded := types.Round2(returnTotal.Sub(saleTotal))
	if owed.IsNegative() {
		owed = types.Zero()
	}
	if refunded.IsNegative() {
		refunded = types.Zero()
	}

	return Split{
		ReturnTotal:    types.Round2(returnTotal),
		SaleTotal:      types.Round2(saleTotal),
		AppliedCredit:  types.Round2(applied),
		AmountOwed:     owed,
		AmountRefunded: refunded,
	}
}
