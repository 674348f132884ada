package dto

import (
	"time"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/entity"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
)

// BalanceResponse is one (product, location) ledger state.
type BalanceResponse struct {
	ProductID      string         `json:"productId"`
	LocationID     string         `json:"locationId"`
	Quantity       types.Quantity `json:"quantity"`
	TotalCost      types.Money    `json:"totalCost"`
	AverageCost    types.Money    `json:"averageCost"`
	LastMovementAt time.Time      `json:"lastMovementAt"`
}

// FromBalance maps an inventory balance.
func FromBalance(b entity.InventoryBalance) BalanceResponse {
	return BalanceResponse{
		ProductID:      b.ProductID.String(),
		LocationID:     b.LocationID.String(),
		Quantity:       b.Quantity,
		TotalCost:      b.TotalCost,
		AverageCost:    b.AverageCost,
		LastMovementAt: b.LastMovementAt,
	}
}

// FromBalances maps a slice of balances.
func FromBalances(balances []entity.InventoryBalance) []BalanceResponse {
	out := make([]BalanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, FromBalance(b))
	}
	return out
}

// MovementResponse is one ledger row.
type MovementResponse struct {
	LineID       string         `json:"lineId"`
	DocumentID   string         `json:"documentId"`
	DocumentType string         `json:"documentType"`
	Compensation bool           `json:"compensation"`
	Period       time.Time      `json:"period"`
	MovementType string         `json:"movementType"`
	ProductID    string         `json:"productId"`
	LocationID   string         `json:"locationId"`
	Quantity     types.Quantity `json:"quantity"`
	UnitCost     types.Money    `json:"unitCost"`
	TotalCost    types.Money    `json:"totalCost"`
	BalanceQty   types.Quantity `json:"balanceQty"`
	BalanceCost  types.Money    `json:"balanceCost"`
	AverageCost  types.Money    `json:"averageCost"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// FromMovement maps a ledger row.
func FromMovement(m entity.Movement) MovementResponse {
	return MovementResponse{
		LineID:       m.LineID.String(),
		DocumentID:   m.DocumentID.String(),
		DocumentType: m.DocumentType,
		Compensation: m.Compensation,
		Period:       m.Period,
		MovementType: string(m.MovementType),
		ProductID:    m.ProductID.String(),
		LocationID:   m.LocationID.String(),
		Quantity:     m.Quantity,
		UnitCost:     m.UnitCost,
		TotalCost:    m.TotalCost,
		BalanceQty:   m.BalanceQty,
		BalanceCost:  m.BalanceCost,
		AverageCost:  m.AverageCost,
		CreatedAt:    m.CreatedAt,
	}
}

// FromMovements maps a slice of ledger rows.
func FromMovements(movements []entity.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, FromMovement(m))
	}
	return out
}
