// Package sale provides the Sale document and its credit-note variant.
// A credit note is a Sale carrying OriginID: it reverses part of an
// earlier posted sale and restocks the returned goods.
package sale

import (
	"context"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/apperror"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/entity"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/posting"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/tax"
)

// Sale represents a sale document. With OriginID set it is a credit
// note against that sale.
type Sale struct {
	entity.Document

	// Customer reference (optional for walk-in sales)
	CustomerID *id.ID `db:"customer_id" json:"customerId,omitempty"`

	// OriginID marks this document as a credit note against an
	// earlier posted sale. Nil for ordinary sales.
	OriginID *id.ID `db:"origin_id" json:"originId,omitempty"`

	// Tax configuration. TaxRate is the document default, applied to
	// lines that do not name their own rate. Credit notes inherit both
	// from the origin sale so a return undoes exactly what was charged.
	TaxRate types.Money `db:"tax_rate" json:"taxRate"`
	TaxMode tax.Mode    `db:"tax_mode" json:"taxMode"`

	// Totals (calculated from lines)
	TotalQuantity types.Quantity `db:"total_quantity" json:"totalQuantity"`
	TotalNet      types.Money    `db:"total_net" json:"totalNet"`
	TotalTax      types.Money    `db:"total_tax" json:"totalTax"`
	TotalGross    types.Money    `db:"total_gross" json:"totalGross"`

	// Table part: sold (or returned) goods
	Lines []Line `db:"-" json:"lines"`
}

// Line represents a line in a sale or credit note.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID          `db:"product_id" json:"productId"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`

	// UnitPrice follows the document's tax mode: gross when
	// inclusive, net when exclusive.
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`

	// TaxRate is this line's percent rate. Lines on one document may
	// carry different rates; credit-note lines copy the rate the
	// origin line was charged at.
	TaxRate types.Money `db:"tax_rate" json:"taxRate"`

	Net   types.Money `db:"net" json:"net"`
	Tax   types.Money `db:"tax" json:"tax"`
	Gross types.Money `db:"gross" json:"gross"`
}

// NewSale creates a new draft sale.
func NewSale(locationID id.ID, taxRate types.Money, taxMode tax.Mode) *Sale {
	return &Sale{
		Document: entity.NewDocument(locationID),
		TaxRate:  taxRate,
		TaxMode:  taxMode,
		Lines:    make([]Line, 0),
	}
}

// NewCreditNote creates a draft credit note against an origin sale,
// inheriting its location, tax rate, and tax mode.
func NewCreditNote(origin *Sale) *Sale {
	originID := origin.ID
	return &Sale{
		Document:   entity.NewDocument(origin.LocationID),
		CustomerID: origin.CustomerID,
		OriginID:   &originID,
		TaxRate:    origin.TaxRate,
		TaxMode:    origin.TaxMode,
		Lines:      make([]Line, 0),
	}
}

// IsCreditNote reports whether this sale reverses another one.
func (s *Sale) IsCreditNote() bool {
	return s.OriginID != nil
}

// AddLine adds a line at the document's default tax rate and
// recalculates totals.
func (s *Sale) AddLine(productID id.ID, quantity types.Quantity, unitPrice types.Money) error {
	return s.AddRatedLine(productID, quantity, unitPrice, s.TaxRate)
}

// AddRatedLine adds a line carrying its own tax rate. Credit notes use
// this to charge each returned line at the rate of the origin line.
func (s *Sale) AddRatedLine(productID id.ID, quantity types.Quantity, unitPrice, taxRate types.Money) error {
	breakdown, err := tax.LineTotal(quantity, unitPrice, taxRate, s.TaxMode)
	if err != nil {
		return err
	}

	s.Lines = append(s.Lines, Line{
		LineID:    id.New(),
		LineNo:    len(s.Lines) + 1,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		TaxRate:   taxRate,
		Net:       breakdown.Net,
		Tax:       breakdown.Tax,
		Gross:     breakdown.Gross,
	})
	s.recalculateTotals()
	return nil
}

func (s *Sale) recalculateTotals() {
	s.TotalQuantity = 0
	s.TotalNet = types.Zero()
	s.TotalTax = types.Zero()
	s.TotalGross = types.Zero()

	for _, line := range s.Lines {
		s.TotalQuantity += line.Quantity
		s.TotalNet = s.TotalNet.Add(line.Net)
		s.TotalTax = s.TotalTax.Add(line.Tax)
		s.TotalGross = s.TotalGross.Add(line.Gross)
	}
}

// QuantitiesByProduct aggregates line quantities per product.
// Used by the return reconciliation check.
func (s *Sale) QuantitiesByProduct() map[id.ID]types.Quantity {
	out := make(map[id.ID]types.Quantity, len(s.Lines))
	for _, line := range s.Lines {
		out[line.ProductID] += line.Quantity
	}
	return out
}

// Validate implements entity.Validatable.
func (s *Sale) Validate(ctx context.Context) error {
	if err := s.Document.Validate(ctx); err != nil {
		return err
	}

	if !s.TaxMode.Valid() {
		return apperror.NewValidation("unknown tax mode").
			WithDetail("field", "taxMode")
	}

	if s.TaxRate.IsNegative() {
		return apperror.NewValidation("tax rate cannot be negative").
			WithDetail("field", "taxRate")
	}

	if len(s.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range s.Lines {
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
		if line.UnitPrice.IsNegative() {
			return apperror.NewValidation("unit price cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.TaxRate.IsNegative() {
			return apperror.NewValidation("tax rate cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// --- Postable interface implementation ---
// GetID, GetLocationID, GetStatus, CanPost, MarkPosted, MarkCancelled
// are inherited from entity.Document.

func (s *Sale) GetDocumentType() string {
	if s.IsCreditNote() {
		return "CreditNote"
	}
	return "Sale"
}

// GenerateMovements creates ledger movements for this document.
// An ordinary sale exits stock; a credit note re-enters it, valued at
// the current average cost rather than the refunded price.
func (s *Sale) GenerateMovements(ctx context.Context) (*posting.MovementSet, error) {
	movements := posting.NewMovementSet()

	for _, line := range s.Lines {
		if s.IsCreditNote() {
			m := entity.NewMovement(
				s.ID, s.GetDocumentType(), s.Date,
				entity.MovementTypeEntry,
				line.ProductID, s.LocationID,
				line.Quantity, types.Zero(),
			)
			m.ValueAtAverage = true
			movements.AddInventory(m)
			continue
		}

		movements.AddInventory(entity.NewMovement(
			s.ID, s.GetDocumentType(), s.Date,
			entity.MovementTypeExit,
			line.ProductID, s.LocationID,
			line.Quantity, types.Zero(),
		))
	}

	return movements, nil
}

var _ posting.Postable = (*Sale)(nil)
