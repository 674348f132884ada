// Package ledger provides the perpetual inventory ledger: append-only
// movements valued at weighted average cost, with materialized balances
// per (product, location).
package ledger

import (
	"github.com/Jcrispin99/gym-app-sub000/internal/core/entity"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
)

// CostState is the running valuation for one (product, location) pair.
// It is a pure value: Apply* methods return the next state without
// touching storage, which keeps the arithmetic unit-testable.
type CostState struct {
	Quantity  types.Quantity
	TotalCost types.Money
}

// NewCostState builds a state from a stored balance row.
func NewCostState(b entity.InventoryBalance) CostState {
	return CostState{
		Quantity:  b.Quantity,
		TotalCost: b.TotalCost,
	}
}

// AverageCost returns TotalCost / Quantity, or zero when on-hand
// quantity is exactly zero. Never panics on division by zero. A
// negative balance keeps a meaningful average: total cost is carried
// as quantity*average, so the division recovers the unit cost the
// oversold stock left at.
func (s CostState) AverageCost() types.Money {
	if s.Quantity == 0 {
		return types.Zero()
	}
	return s.TotalCost.Div(s.Quantity.Decimal())
}

// ApplyEntry absorbs an incoming quantity at the given acquisition cost
// and returns the next state. The entry shifts the average:
//
//	avg' = (totalCost + qty*unitCost) / (quantity + qty)
func (s CostState) ApplyEntry(qty types.Quantity, unitCost types.Money) CostState {
	return CostState{
		Quantity:  s.Quantity + qty,
		TotalCost: s.TotalCost.Add(unitCost.Mul(qty.Decimal())),
	}
}

// ApplyExit removes an outgoing quantity valued at the current average
// cost and returns the cost used plus the next state. An exit never
// changes the average of what remains; it only scales the total down.
//
// Overselling is allowed: quantity may go negative and total cost goes
// negative with it, staying equal to quantity*average. A later entry
// blends against that negative carry, pulling the average between the
// carried cost and the incoming cost.
func (s CostState) ApplyExit(qty types.Quantity) (types.Money, CostState) {
	avg := s.AverageCost()
	nextQty := s.Quantity - qty
	return avg, CostState{
		Quantity:  nextQty,
		TotalCost: avg.Mul(nextQty.Decimal()),
	}
}

// Apply routes a movement through the state machine, filling in the
// movement's valuation and running-balance fields, and returns the
// completed row together with the next state.
//
// Entry movements must arrive with UnitCost set (acquisition cost).
// Exit movements get their UnitCost assigned here: the average at the
// moment of the movement, never anything supplied by the caller.
func (s CostState) Apply(m entity.Movement) (entity.Movement, CostState) {
	var next CostState
	switch m.MovementType {
	case entity.MovementTypeEntry:
		if m.ValueAtAverage {
			// Stock coming back in (credit note, cancellation)
			// re-enters at the average current now, not at any
			// historic or refunded price.
			m.UnitCost = s.AverageCost()
		}
		next = s.ApplyEntry(m.Quantity, m.UnitCost)
	case entity.MovementTypeExit:
		m.UnitCost, next = s.ApplyExit(m.Quantity)
	default:
		// Unknown types pass through without effect; validation
		// upstream rejects them before they reach here.
		next = s
	}

	m.TotalCost = types.Round2(m.UnitCost.Mul(m.Quantity.Decimal()))
	m.BalanceQty = next.Quantity
	m.BalanceCost = types.Round2(next.TotalCost)
	m.AverageCost = types.Round2(next.AverageCost())
	return m, next
}
