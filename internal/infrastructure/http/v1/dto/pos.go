package dto

import (
	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/payments"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/pos"
)

// --- Requests ---

// ReturnLineRequest identifies a product and quantity coming back.
type ReturnLineRequest struct {
	ProductID string         `json:"productId" binding:"required,uuid"`
	Quantity  types.Quantity `json:"quantity" binding:"required"`
}

// ExchangeLineRequest is a line of the replacement sale.
type ExchangeLineRequest struct {
	ProductID string         `json:"productId" binding:"required,uuid"`
	Quantity  types.Quantity `json:"quantity" binding:"required"`
	UnitPrice types.Money    `json:"unitPrice" binding:"required"`
}

// PreviewExchangeRequest computes a settlement split without posting.
type PreviewExchangeRequest struct {
	OriginID      string                `json:"originId" binding:"required,uuid"`
	ReturnLines   []ReturnLineRequest   `json:"returnLines" binding:"required,min=1,dive"`
	ExchangeLines []ExchangeLineRequest `json:"exchangeLines" binding:"omitempty,dive"`
}

// ExchangeRequest drives the full return+exchange transaction.
type ExchangeRequest struct {
	PreviewExchangeRequest

	PaymentMethod string      `json:"paymentMethod" binding:"omitempty,oneof=cash card transfer"`
	PaymentAmount types.Money `json:"paymentAmount"`
	RefundMethod  string      `json:"refundMethod" binding:"omitempty,oneof=cash card transfer"`
}

func parseReturnLines(lines []ReturnLineRequest) ([]pos.ReturnLine, error) {
	out := make([]pos.ReturnLine, 0, len(lines))
	for _, line := range lines {
		productID, err := id.Parse(line.ProductID)
		if err != nil {
			return nil, err
		}
		out = append(out, pos.ReturnLine{ProductID: productID, Quantity: line.Quantity})
	}
	return out, nil
}

func parseExchangeLines(lines []ExchangeLineRequest) ([]pos.ExchangeLine, error) {
	out := make([]pos.ExchangeLine, 0, len(lines))
	for _, line := range lines {
		productID, err := id.Parse(line.ProductID)
		if err != nil {
			return nil, err
		}
		out = append(out, pos.ExchangeLine{
			ProductID: productID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return out, nil
}

// ToPreview converts the request to domain input.
func (r *PreviewExchangeRequest) ToPreview() (id.ID, []pos.ReturnLine, []pos.ExchangeLine, error) {
	originID, err := id.Parse(r.OriginID)
	if err != nil {
		return id.Nil(), nil, nil, err
	}
	returnLines, err := parseReturnLines(r.ReturnLines)
	if err != nil {
		return id.Nil(), nil, nil, err
	}
	exchangeLines, err := parseExchangeLines(r.ExchangeLines)
	if err != nil {
		return id.Nil(), nil, nil, err
	}
	return originID, returnLines, exchangeLines, nil
}

// ToExchange converts the request to the domain exchange request.
func (r *ExchangeRequest) ToExchange() (pos.ExchangeRequest, error) {
	originID, returnLines, exchangeLines, err := r.ToPreview()
	if err != nil {
		return pos.ExchangeRequest{}, err
	}

	return pos.ExchangeRequest{
		OriginID:      originID,
		ReturnLines:   returnLines,
		ExchangeLines: exchangeLines,
		PaymentMethod: payments.Method(r.PaymentMethod),
		PaymentAmount: r.PaymentAmount,
		RefundMethod:  payments.Method(r.RefundMethod),
	}, nil
}

// --- Responses ---

// SplitResponse is the computed settlement split.
type SplitResponse struct {
	ReturnTotal    types.Money `json:"returnTotal"`
	SaleTotal      types.Money `json:"saleTotal"`
	AppliedCredit  types.Money `json:"appliedCredit"`
	AmountOwed     types.Money `json:"amountOwed"`
	AmountRefunded types.Money `json:"amountRefunded"`
}

// FromSplit maps a computed split.
func FromSplit(s pos.Split) SplitResponse {
	return SplitResponse{
		ReturnTotal:    s.ReturnTotal,
		SaleTotal:      s.SaleTotal,
		AppliedCredit:  s.AppliedCredit,
		AmountOwed:     s.AmountOwed,
		AmountRefunded: s.AmountRefunded,
	}
}

// ExchangeResponse reports what the exchange produced.
type ExchangeResponse struct {
	CreditNote SaleResponse  `json:"creditNote"`
	NewSale    *SaleResponse `json:"newSale,omitempty"`
	Split      SplitResponse `json:"split"`
}

// FromExchangeResult maps the exchange result.
func FromExchangeResult(result *pos.ExchangeResult) ExchangeResponse {
	resp := ExchangeResponse{
		CreditNote: FromSale(result.CreditNote),
		Split:      FromSplit(result.Split),
	}
	if result.NewSale != nil {
		s := FromSale(result.NewSale)
		resp.NewSale = &s
	}
	return resp
}
