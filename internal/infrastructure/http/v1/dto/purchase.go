package dto

import (
	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/documents/purchase"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/tax"
)

// --- Requests ---

// PurchaseLineRequest is one line of a purchase.
type PurchaseLineRequest struct {
	ProductID string         `json:"productId" binding:"required,uuid"`
	Quantity  types.Quantity `json:"quantity" binding:"required"`
	UnitCost  types.Money    `json:"unitCost" binding:"required"`
}

// CreatePurchaseRequest creates a draft purchase.
type CreatePurchaseRequest struct {
	LocationID        string                `json:"locationId" binding:"required,uuid"`
	SupplierID        string                `json:"supplierId" binding:"required,uuid"`
	SupplierReference string                `json:"supplierReference"`
	TaxRate           types.Money           `json:"taxRate"`
	TaxMode           string                `json:"taxMode" binding:"required,oneof=inclusive exclusive"`
	Comment           string                `json:"comment"`
	Lines             []PurchaseLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToPurchase builds a draft purchase from the request.
func (r *CreatePurchaseRequest) ToPurchase() (*purchase.Purchase, error) {
	locationID, err := id.Parse(r.LocationID)
	if err != nil {
		return nil, err
	}
	supplierID, err := id.Parse(r.SupplierID)
	if err != nil {
		return nil, err
	}

	doc := purchase.NewPurchase(locationID, supplierID, r.TaxRate, tax.Mode(r.TaxMode))
	doc.SupplierReference = r.SupplierReference
	doc.Comment = r.Comment

	for _, line := range r.Lines {
		productID, err := id.Parse(line.ProductID)
		if err != nil {
			return nil, err
		}
		if err := doc.AddLine(productID, line.Quantity, line.UnitCost); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// UpdatePurchaseRequest replaces the content of a draft purchase.
type UpdatePurchaseRequest struct {
	SupplierReference string                `json:"supplierReference"`
	TaxRate           types.Money           `json:"taxRate"`
	TaxMode           string                `json:"taxMode" binding:"required,oneof=inclusive exclusive"`
	Comment           string                `json:"comment"`
	Lines             []PurchaseLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// Apply rewrites the draft in place from the request.
func (r *UpdatePurchaseRequest) Apply(doc *purchase.Purchase) error {
	doc.SupplierReference = r.SupplierReference
	doc.TaxRate = r.TaxRate
	doc.TaxMode = tax.Mode(r.TaxMode)
	doc.Comment = r.Comment

	doc.Lines = doc.Lines[:0]
	for _, line := range r.Lines {
		productID, err := id.Parse(line.ProductID)
		if err != nil {
			return err
		}
		if err := doc.AddLine(productID, line.Quantity, line.UnitCost); err != nil {
			return err
		}
	}
	return nil
}

// PurchaseListQuery filters the purchase list.
type PurchaseListQuery struct {
	ListQuery

	SupplierID string `form:"supplierId" binding:"omitempty,uuid"`
}

// ToFilter converts query parameters to a purchase filter.
func (q *PurchaseListQuery) ToFilter() (purchase.ListFilter, error) {
	base, err := q.ListQuery.ToFilter()
	if err != nil {
		return purchase.ListFilter{}, err
	}

	filter := purchase.ListFilter{ListFilter: base}

	if q.SupplierID != "" {
		supplierID, err := id.Parse(q.SupplierID)
		if err != nil {
			return filter, err
		}
		filter.SupplierID = &supplierID
	}

	return filter, nil
}

// --- Responses ---

// PurchaseLineResponse is one line of a purchase.
type PurchaseLineResponse struct {
	LineID    string         `json:"lineId"`
	LineNo    int            `json:"lineNo"`
	ProductID string         `json:"productId"`
	Quantity  types.Quantity `json:"quantity"`
	UnitCost  types.Money    `json:"unitCost"`
	Net       types.Money    `json:"net"`
	Tax       types.Money    `json:"tax"`
	Gross     types.Money    `json:"gross"`
}

// PurchaseResponse is the full purchase document.
type PurchaseResponse struct {
	DocumentResponse

	SupplierID        string                 `json:"supplierId"`
	SupplierReference string                 `json:"supplierReference,omitempty"`
	TaxRate           types.Money            `json:"taxRate"`
	TaxMode           string                 `json:"taxMode"`
	TotalQuantity     types.Quantity         `json:"totalQuantity"`
	TotalNet          types.Money            `json:"totalNet"`
	TotalTax          types.Money            `json:"totalTax"`
	TotalGross        types.Money            `json:"totalGross"`
	Lines             []PurchaseLineResponse `json:"lines"`
}

// FromPurchase maps a purchase document to its response.
func FromPurchase(doc *purchase.Purchase) PurchaseResponse {
	resp := PurchaseResponse{
		DocumentResponse:  FromDocument(doc.Document),
		SupplierID:        doc.SupplierID.String(),
		SupplierReference: doc.SupplierReference,
		TaxRate:           doc.TaxRate,
		TaxMode:           string(doc.TaxMode),
		TotalQuantity:     doc.TotalQuantity,
		TotalNet:          doc.TotalNet,
		TotalTax:          doc.TotalTax,
		TotalGross:        doc.TotalGross,
		Lines:             make([]PurchaseLineResponse, 0, len(doc.Lines)),
	}

	for _, line := range doc.Lines {
		resp.Lines = append(resp.Lines, PurchaseLineResponse{
			LineID:    line.LineID.String(),
			LineNo:    line.LineNo,
			ProductID: line.ProductID.String(),
			Quantity:  line.Quantity,
			UnitCost:  line.UnitCost,
			Net:       line.Net,
			Tax:       line.Tax,
			Gross:     line.Gross,
		})
	}

	return resp
}
