// Package payments records payment allocations against documents.
// Negative amounts represent refunds.
package payments

import (
	"context"
	"time"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/apperror"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
)

// Method identifies how a payment was tendered.
type Method string

const (
	MethodCash       Method = "cash"
	MethodCard       Method = "card"
	MethodTransfer   Method = "transfer"
	MethodCreditNote Method = "credit_note"
)

// Valid reports whether m is a known payment method.
func (m Method) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodTransfer, MethodCreditNote:
		return true
	}
	return false
}

// Allocation ties an amount to a document via a payment method.
// Amounts against a sale are positive; refunds against a credit note
// are negative.
type Allocation struct {
	ID         id.ID       `db:"id" json:"id"`
	DocumentID id.ID       `db:"document_id" json:"documentId"`
	Method     Method      `db:"method" json:"method"`
	Amount     types.Money `db:"amount" json:"amount"`
	Reference  string      `db:"reference" json:"reference,omitempty"`
	SessionID  string      `db:"session_id" json:"sessionId,omitempty"`
	UserID     string      `db:"user_id" json:"userId,omitempty"`
	CreatedAt  time.Time   `db:"created_at" json:"createdAt"`
}

// NewAllocation creates a payment allocation.
func NewAllocation(documentID id.ID, method Method, amount types.Money) Allocation {
	return Allocation{
		ID:         id.New(),
		DocumentID: documentID,
		Method:     method,
		Amount:     amount,
		CreatedAt:  time.Now().UTC(),
	}
}

// Validate checks allocation invariants.
func (a *Allocation) Validate(_ context.Context) error {
	if id.IsNil(a.DocumentID) {
		return apperror.NewValidation("document is required").
			WithDetail("field", "documentId")
	}
	if !a.Method.Valid() {
		return apperror.NewValidation("unknown payment method").
			WithDetail("method", string(a.Method))
	}
	if a.Amount.IsZero() {
		return apperror.NewValidation("amount cannot be zero").
			WithDetail("field", "amount")
	}
	return nil
}
