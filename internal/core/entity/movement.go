// Package entity provides core domain entities.
package entity

import (
	"time"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
)

// MovementType defines the direction of an inventory movement.
type MovementType string

const (
	// MovementTypeEntry increases on-hand stock (purchase, credit note return)
	MovementTypeEntry MovementType = "entry"
	// MovementTypeExit decreases on-hand stock (sale, purchase cancellation)
	MovementTypeExit MovementType = "exit"
)

// Movement is a row in the inventory ledger.
// The ledger is append-only: movements are never updated or deleted.
// Cancellation writes new compensating rows instead.
type Movement struct {
	// LineID is unique identifier for this ledger row (UUIDv7)
	LineID id.ID `db:"line_id" json:"lineId"`

	// DocumentID is the document that produced this movement
	DocumentID id.ID `db:"document_id" json:"documentId"`

	// DocumentType is the producing document type (e.g. "Sale", "Purchase")
	DocumentType string `db:"document_type" json:"documentType"`

	// Compensation marks rows written by cancellation rather than posting
	Compensation bool `db:"compensation" json:"compensation"`

	// ValueAtAverage instructs the costing engine to price this entry
	// at the average cost current when it is appended. Set for stock
	// coming back in (credit notes, sale cancellations), where the
	// refunded price must not leak into the ledger. Not persisted.
	ValueAtAverage bool `db:"-" json:"-"`

	// Period is the business date of the movement
	Period time.Time `db:"period" json:"period"`

	// MovementType: entry or exit
	MovementType MovementType `db:"movement_type" json:"movementType"`

	// Dimensions
	ProductID  id.ID `db:"product_id" json:"productId"`
	LocationID id.ID `db:"location_id" json:"locationId"`

	// Quantity moved (always positive; direction comes from MovementType)
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// UnitCost is the valuation of this movement.
	// Entries carry the acquisition cost; exits carry the weighted
	// average cost at the time of the movement, never the sale price.
	UnitCost types.Money `db:"unit_cost" json:"unitCost"`

	// TotalCost = Quantity * UnitCost, rounded to 2 decimals
	TotalCost types.Money `db:"total_cost" json:"totalCost"`

	// Running state after this movement for (product, location).
	// Stored on the row so any point-in-time balance is a single read.
	BalanceQty  types.Quantity `db:"balance_qty" json:"balanceQty"`
	BalanceCost types.Money    `db:"balance_cost" json:"balanceCost"`
	AverageCost types.Money    `db:"average_cost" json:"averageCost"`

	// CreatedAt is when the row was recorded
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewMovement creates a ledger row for a document line.
// Running balance fields are filled in by the ledger service under lock.
func NewMovement(
	documentID id.ID,
	documentType string,
	period time.Time,
	movementType MovementType,
	productID, locationID id.ID,
	quantity types.Quantity,
	unitCost types.Money,
) Movement {
	return Movement{
		LineID:       id.New(),
		DocumentID:   documentID,
		DocumentType: documentType,
		Period:       period,
		MovementType: movementType,
		ProductID:    productID,
		LocationID:   locationID,
		Quantity:     quantity,
		UnitCost:     unitCost,
		CreatedAt:    time.Now().UTC(),
	}
}

// Inverse returns the compensating counterpart of this movement:
// same dimensions and quantity, opposite direction, fresh LineID.
// Unit cost is left zero; the ledger revalues compensations at the
// average cost current when they are appended.
func (m *Movement) Inverse() Movement {
	inv := *m
	inv.LineID = id.New()
	inv.Compensation = true
	if m.MovementType == MovementTypeEntry {
		inv.MovementType = MovementTypeExit
	} else {
		inv.MovementType = MovementTypeEntry
		inv.ValueAtAverage = true
	}
	inv.UnitCost = types.Zero()
	inv.TotalCost = types.Zero()
	inv.BalanceQty = 0
	inv.BalanceCost = types.Zero()
	inv.AverageCost = types.Zero()
	inv.CreatedAt = time.Now().UTC()
	return inv
}

// InventoryBalance is the current state for one (product, location) pair.
// Materialized row that also serves as the serialization anchor:
// every posting locks it FOR UPDATE before appending movements.
type InventoryBalance struct {
	// Dimensions
	ProductID  id.ID `db:"product_id" json:"productId"`
	LocationID id.ID `db:"location_id" json:"locationId"`

	// State
	Quantity    types.Quantity `db:"quantity" json:"quantity"`
	TotalCost   types.Money    `db:"total_cost" json:"totalCost"`
	AverageCost types.Money    `db:"average_cost" json:"averageCost"`

	// Metadata
	LastMovementAt time.Time `db:"last_movement_at" json:"lastMovementAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}
