// Package purchase provides the Purchase document: incoming stock
// valued at acquisition cost.
package purchase

import (
	"context"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/apperror"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/entity"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/posting"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/tax"
)

// Purchase represents a purchase document.
type Purchase struct {
	entity.Document

	// SupplierID is the counterparty delivering the goods
	SupplierID id.ID `db:"supplier_id" json:"supplierId"`

	// Supplier's own document reference
	SupplierReference string `db:"supplier_reference" json:"supplierReference,omitempty"`

	// Tax configuration
	TaxRate types.Money `db:"tax_rate" json:"taxRate"`
	TaxMode tax.Mode    `db:"tax_mode" json:"taxMode"`

	// Totals (calculated from lines)
	TotalQuantity types.Quantity `db:"total_quantity" json:"totalQuantity"`
	TotalNet      types.Money    `db:"total_net" json:"totalNet"`
	TotalTax      types.Money    `db:"total_tax" json:"totalTax"`
	TotalGross    types.Money    `db:"total_gross" json:"totalGross"`

	// Table part: received goods
	Lines []Line `db:"-" json:"lines"`
}

// Line represents a line in a purchase.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID          `db:"product_id" json:"productId"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`

	// UnitCost is the acquisition cost per unit (net of tax). This is
	// what enters the ledger and shifts the weighted average.
	UnitCost types.Money `db:"unit_cost" json:"unitCost"`

	Net   types.Money `db:"net" json:"net"`
	Tax   types.Money `db:"tax" json:"tax"`
	Gross types.Money `db:"gross" json:"gross"`
}

// NewPurchase creates a new draft purchase.
func NewPurchase(locationID, supplierID id.ID, taxRate types.Money, taxMode tax.Mode) *Purchase {
	return &Purchase{
		Document:   entity.NewDocument(locationID),
		SupplierID: supplierID,
		TaxRate:    taxRate,
		TaxMode:    taxMode,
		Lines:      make([]Line, 0),
	}
}

// AddLine adds a line and recalculates totals.
func (p *Purchase) AddLine(productID id.ID, quantity types.Quantity, unitCost types.Money) error {
	breakdown, err := tax.LineTotal(quantity, unitCost, p.TaxRate, p.TaxMode)
	if err != nil {
		return err
	}

	p.Lines = append(p.Lines, Line{
		LineID:    id.New(),
		LineNo:    len(p.Lines) + 1,
		ProductID: productID,
		Quantity:  quantity,
		UnitCost:  unitCost,
		Net:       breakdown.Net,
		Tax:       breakdown.Tax,
		Gross:     breakdown.Gross,
	})
	p.recalculateTotals()
	return nil
}

func (p *Purchase) recalculateTotals() {
	p.TotalQuantity = 0
	p.TotalNet = types.Zero()
	p.TotalTax = types.Zero()
	p.TotalGross = types.Zero()

	for _, line := range p.Lines {
		p.TotalQuantity += line.Quantity
		p.TotalNet = p.TotalNet.Add(line.Net)
		p.TotalTax = p.TotalTax.Add(line.Tax)
		p.TotalGross = p.TotalGross.Add(line.Gross)
	}
}

// Validate implements entity.Validatable.
func (p *Purchase) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(p.SupplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}

	if !p.TaxMode.Valid() {
		return apperror.NewValidation("unknown tax mode").
			WithDetail("field", "taxMode")
	}

	if len(p.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range p.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.UnitCost.IsNegative() {
			return apperror.NewValidation("unit cost cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// --- Postable interface implementation ---

func (p *Purchase) GetDocumentType() string { return "Purchase" }

// GenerateMovements creates entry movements at acquisition cost.
// The net unit cost enters the ledger regardless of tax mode, so the
// average never absorbs recoverable tax.
func (p *Purchase) GenerateMovements(ctx context.Context) (*posting.MovementSet, error) {
	movements := posting.NewMovementSet()

	for _, line := range p.Lines {
		unitCost := line.UnitCost
		if p.TaxMode == tax.ModeInclusive && line.Quantity > 0 {
			unitCost = line.Net.Div(line.Quantity.Decimal())
		}

		movements.AddInventory(entity.NewMovement(
			p.ID, p.GetDocumentType(), p.Date,
			entity.MovementTypeEntry,
			line.ProductID, p.LocationID,
			line.Quantity, unitCost,
		))
	}

	return movements, nil
}

var _ posting.Postable = (*Purchase)(nil)
