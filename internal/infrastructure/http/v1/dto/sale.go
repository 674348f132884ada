package dto

import (
	"context"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/documents/sale"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/returns"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/tax"
)

// --- Requests ---

// SaleLineRequest is one line of a sale or credit note. TaxID
// overrides the document's tax code for this line; empty means the
// document default applies.
type SaleLineRequest struct {
	ProductID string         `json:"productId" binding:"required,uuid"`
	Quantity  types.Quantity `json:"quantity" binding:"required"`
	UnitPrice types.Money    `json:"unitPrice" binding:"required"`
	TaxID     string         `json:"taxId"`
}

// CreateSaleRequest creates a draft sale. Requests name tax codes, not
// rates; the percent comes from the configured rate table.
type CreateSaleRequest struct {
	LocationID string            `json:"locationId" binding:"required,uuid"`
	CustomerID *string           `json:"customerId" binding:"omitempty,uuid"`
	TaxID      string            `json:"taxId" binding:"required"`
	TaxMode    string            `json:"taxMode" binding:"required,oneof=inclusive exclusive"`
	Comment    string            `json:"comment"`
	Lines      []SaleLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToSale builds a draft sale from the request, resolving tax codes
// through the rate table.
func (r *CreateSaleRequest) ToSale(ctx context.Context, rates tax.RateTable) (*sale.Sale, error) {
	locationID, err := id.Parse(r.LocationID)
	if err != nil {
		return nil, err
	}

	defaultRate, err := rates.TaxRate(ctx, r.TaxID)
	if err != nil {
		return nil, err
	}

	doc := sale.NewSale(locationID, defaultRate, tax.Mode(r.TaxMode))
	doc.Comment = r.Comment

	if r.CustomerID != nil {
		customerID, err := id.Parse(*r.CustomerID)
		if err != nil {
			return nil, err
		}
		doc.CustomerID = &customerID
	}

	if err := addSaleLines(ctx, rates, doc, r.Lines); err != nil {
		return nil, err
	}

	return doc, nil
}

func addSaleLines(ctx context.Context, rates tax.RateTable, doc *sale.Sale, lines []SaleLineRequest) error {
	for _, line := range lines {
		productID, err := id.Parse(line.ProductID)
		if err != nil {
			return err
		}
		if line.TaxID == "" {
			if err := doc.AddLine(productID, line.Quantity, line.UnitPrice); err != nil {
				return err
			}
			continue
		}
		rate, err := rates.TaxRate(ctx, line.TaxID)
		if err != nil {
			return err
		}
		if err := doc.AddRatedLine(productID, line.Quantity, line.UnitPrice, rate); err != nil {
			return err
		}
	}
	return nil
}

// CreditNoteLineRequest is one returned line. Unit price is inherited
// from the origin sale, so only product and quantity are accepted.
type CreditNoteLineRequest struct {
	ProductID string         `json:"productId" binding:"required,uuid"`
	Quantity  types.Quantity `json:"quantity" binding:"required"`
}

// CreateCreditNoteRequest creates a credit note against a posted sale.
type CreateCreditNoteRequest struct {
	OriginID string                  `json:"originId" binding:"required,uuid"`
	Comment  string                  `json:"comment"`
	Lines    []CreditNoteLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToLines converts request lines to service input. Only product and
// quantity carry through; the service fills prices from the origin.
func (r *CreateCreditNoteRequest) ToLines() ([]sale.Line, error) {
	lines := make([]sale.Line, 0, len(r.Lines))
	for _, line := range r.Lines {
		productID, err := id.Parse(line.ProductID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, sale.Line{
			ProductID: productID,
			Quantity:  line.Quantity,
		})
	}
	return lines, nil
}

// UpdateSaleRequest replaces the content of a draft sale.
type UpdateSaleRequest struct {
	CustomerID *string           `json:"customerId" binding:"omitempty,uuid"`
	TaxID      string            `json:"taxId" binding:"required"`
	TaxMode    string            `json:"taxMode" binding:"required,oneof=inclusive exclusive"`
	Comment    string            `json:"comment"`
	Lines      []SaleLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// Apply rewrites the draft in place from the request.
func (r *UpdateSaleRequest) Apply(ctx context.Context, rates tax.RateTable, doc *sale.Sale) error {
	defaultRate, err := rates.TaxRate(ctx, r.TaxID)
	if err != nil {
		return err
	}

	doc.TaxRate = defaultRate
	doc.TaxMode = tax.Mode(r.TaxMode)
	doc.Comment = r.Comment
	doc.CustomerID = nil

	if r.CustomerID != nil {
		customerID, err := id.Parse(*r.CustomerID)
		if err != nil {
			return err
		}
		doc.CustomerID = &customerID
	}

	doc.Lines = doc.Lines[:0]
	return addSaleLines(ctx, rates, doc, r.Lines)
}

// SaleListQuery filters the sale list.
type SaleListQuery struct {
	ListQuery

	CustomerID string `form:"customerId" binding:"omitempty,uuid"`
	OriginID   string `form:"originId" binding:"omitempty,uuid"`
	CreditNote *bool  `form:"creditNote"`
}

// ToFilter converts query parameters to a sale filter.
func (q *SaleListQuery) ToFilter() (sale.ListFilter, error) {
	base, err := q.ListQuery.ToFilter()
	if err != nil {
		return sale.ListFilter{}, err
	}

	filter := sale.ListFilter{ListFilter: base, CreditNote: q.CreditNote}

	if q.CustomerID != "" {
		customerID, err := id.Parse(q.CustomerID)
		if err != nil {
			return filter, err
		}
		filter.CustomerID = &customerID
	}

	if q.OriginID != "" {
		originID, err := id.Parse(q.OriginID)
		if err != nil {
			return filter, err
		}
		filter.OriginID = &originID
	}

	return filter, nil
}

// --- Responses ---

// SaleLineResponse is one line of a sale.
type SaleLineResponse struct {
	LineID    string         `json:"lineId"`
	LineNo    int            `json:"lineNo"`
	ProductID string         `json:"productId"`
	Quantity  types.Quantity `json:"quantity"`
	UnitPrice types.Money    `json:"unitPrice"`
	TaxRate   types.Money    `json:"taxRate"`
	Net       types.Money    `json:"net"`
	Tax       types.Money    `json:"tax"`
	Gross     types.Money    `json:"gross"`
}

// SaleResponse is the full sale document.
type SaleResponse struct {
	DocumentResponse

	CustomerID    *string            `json:"customerId,omitempty"`
	OriginID      *string            `json:"originId,omitempty"`
	CreditNote    bool               `json:"creditNote"`
	TaxRate       types.Money        `json:"taxRate"`
	TaxMode       string             `json:"taxMode"`
	TotalQuantity types.Quantity     `json:"totalQuantity"`
	TotalNet      types.Money        `json:"totalNet"`
	TotalTax      types.Money        `json:"totalTax"`
	TotalGross    types.Money        `json:"totalGross"`
	Lines         []SaleLineResponse `json:"lines"`
}

// FromSale maps a sale document to its response.
func FromSale(doc *sale.Sale) SaleResponse {
	resp := SaleResponse{
		DocumentResponse: FromDocument(doc.Document),
		CreditNote:       doc.IsCreditNote(),
		TaxRate:          doc.TaxRate,
		TaxMode:          string(doc.TaxMode),
		TotalQuantity:    doc.TotalQuantity,
		TotalNet:         doc.TotalNet,
		TotalTax:         doc.TotalTax,
		TotalGross:       doc.TotalGross,
		Lines:            make([]SaleLineResponse, 0, len(doc.Lines)),
	}

	if doc.CustomerID != nil {
		s := doc.CustomerID.String()
		resp.CustomerID = &s
	}
	if doc.OriginID != nil {
		s := doc.OriginID.String()
		resp.OriginID = &s
	}

	for _, line := range doc.Lines {
		resp.Lines = append(resp.Lines, SaleLineResponse{
			LineID:    line.LineID.String(),
			LineNo:    line.LineNo,
			ProductID: line.ProductID.String(),
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			TaxRate:   line.TaxRate,
			Net:       line.Net,
			Tax:       line.Tax,
			Gross:     line.Gross,
		})
	}

	return resp
}

// AvailabilityResponse is the per-product return availability of a sale.
type AvailabilityResponse struct {
	ProductID string         `json:"productId"`
	Sold      types.Quantity `json:"sold"`
	Credited  types.Quantity `json:"credited"`
	Available types.Quantity `json:"available"`
}

// FromAvailability maps reconciliation output.
func FromAvailability(items []returns.Availability) []AvailabilityResponse {
	out := make([]AvailabilityResponse, 0, len(items))
	for _, item := range items {
		out = append(out, AvailabilityResponse{
			ProductID: item.ProductID.String(),
			Sold:      item.Sold,
			Credited:  item.Credited,
			Available: item.Available,
		})
	}
	return out
}
