package pos

import (
	"context"
	"fmt"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/apperror"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/tx"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/documents/sale"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/payments"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/tax"
	"github.com/Jcrispin99/gym-app-sub000/pkg/logger"
)

// ReturnLine identifies a product and quantity coming back. The unit
// price is always taken from the origin sale line, never supplied.
type ReturnLine struct {
	ProductID id.ID          `json:"productId"`
	Quantity  types.Quantity `json:"quantity"`
}

// ExchangeLine is a line of the replacement sale.
type ExchangeLine struct {
	ProductID id.ID          `json:"productId"`
	Quantity  types.Quantity `json:"quantity"`
	UnitPrice types.Money    `json:"unitPrice"`
}

// ExchangeRequest drives a combined return+exchange transaction.
type ExchangeRequest struct {
	OriginID      id.ID          `json:"originId"`
	ReturnLines   []ReturnLine   `json:"returnLines"`
	ExchangeLines []ExchangeLine `json:"exchangeLines,omitempty"`

	// PaymentMethod/PaymentAmount settle AmountOwed; the amount must
	// match the computed split within 0.01.
	PaymentMethod payments.Method `json:"paymentMethod,omitempty"`
	PaymentAmount types.Money     `json:"paymentAmount"`

	// RefundMethod settles AmountRefunded.
	RefundMethod payments.Method `json:"refundMethod,omitempty"`
}

// ExchangeResult reports what the exchange produced.
type ExchangeResult struct {
	CreditNote *sale.Sale `json:"creditNote"`
	NewSale    *sale.Sale `json:"newSale,omitempty"`
	Split      Split      `json:"split"`
}

// Service composes credit-note and sale postings into the POS
// exchange flow. New-sale lines are priced under the configured
// selling context; return lines always undo the origin's pricing.
type Service struct {
	sales     *sale.Service
	payments  *payments.Service
	txManager tx.Manager

	// Selling context for replacement sales. Rates are resolved
	// through the table at build time; return lines never touch it.
	rates   tax.RateTable
	taxID   string
	taxMode tax.Mode
}

// NewService creates a POS service.
func NewService(
	sales *sale.Service,
	paymentsService *payments.Service,
	txManager tx.Manager,
	rates tax.RateTable,
	taxID string,
	taxMode tax.Mode,
) *Service {
	return &Service{
		sales:     sales,
		payments:  paymentsService,
		txManager: txManager,
		rates:     rates,
		taxID:     taxID,
		taxMode:   taxMode,
	}
}

// PreviewReturnExchange computes the settlement split without touching
// any state. Advisory only: posting re-validates everything.
func (s *Service) PreviewReturnExchange(ctx context.Context, originID id.ID, returnLines []ReturnLine, exchangeLines []ExchangeLine) (Split, error) {
	note, err := s.buildCreditNote(ctx, originID, returnLines)
	if err != nil {
		return Split{}, err
	}

	saleTotal := types.Zero()
	if len(exchangeLines) > 0 {
		replacement, err := s.buildReplacementSale(ctx, note, exchangeLines)
		if err != nil {
			return Split{}, err
		}
		saleTotal = replacement.TotalGross
	}

	return ComputeSplit(note.TotalGross, saleTotal), nil
}

// Exchange executes the full flow: posts the credit note, posts the
// optional replacement sale, validates the caller's settlement against
// the computed split, and records the payment allocations. Everything
// runs in one transaction.
func (s *Service) Exchange(ctx context.Context, req ExchangeRequest) (*ExchangeResult, error) {
	if len(req.ReturnLines) == 0 {
		return nil, apperror.NewValidation("at least one return line is required").
			WithDetail("field", "returnLines")
	}

	var result *ExchangeResult
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		note, err := s.buildCreditNote(ctx, req.OriginID, req.ReturnLines)
		if err != nil {
			return err
		}
		if err := s.sales.Create(ctx, note); err != nil {
			return err
		}
		if err := s.sales.Post(ctx, note.ID); err != nil {
			return err
		}

		var newSale *sale.Sale
		saleTotal := types.Zero()
		if len(req.ExchangeLines) > 0 {
			newSale, err = s.buildReplacementSale(ctx, note, req.ExchangeLines)
			if err != nil {
				return err
			}
			if err := s.sales.Create(ctx, newSale); err != nil {
				return err
			}
			if err := s.sales.Post(ctx, newSale.ID); err != nil {
				return err
			}
			saleTotal = newSale.TotalGross
		}

		split := ComputeSplit(note.TotalGross, saleTotal)

		allocs, err := s.settlementAllocations(req, split, note, newSale)
		if err != nil {
			return err
		}
		if err := s.payments.RecordBatch(ctx, allocs); err != nil {
			return fmt.Errorf("record allocations: %w", err)
		}

		result = &ExchangeResult{CreditNote: note, NewSale: newSale, Split: split}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "exchange completed",
		"origin_id", req.OriginID,
		"credit_note_id", result.CreditNote.ID,
		"applied_credit", result.Split.AppliedCredit,
		"amount_owed", result.Split.AmountOwed,
		"amount_refunded", result.Split.AmountRefunded,
	)
	return result, nil
}

// buildCreditNote loads the origin and assembles a draft credit note
// with origin-priced lines. It does not persist anything.
func (s *Service) buildCreditNote(ctx context.Context, originID id.ID, returnLines []ReturnLine) (*sale.Sale, error) {
	origin, err := s.sales.GetByID(ctx, originID)
	if err != nil {
		return nil, err
	}
	if origin.IsCreditNote() {
		return nil, apperror.NewOriginNotReturnable(originID.String(), "origin is itself a credit note")
	}

	lineByProduct := make(map[id.ID]sale.Line, len(origin.Lines))
	for _, line := range origin.Lines {
		lineByProduct[line.ProductID] = line
	}

	note := sale.NewCreditNote(origin)
	for _, line := range returnLines {
		originLine, ok := lineByProduct[line.ProductID]
		if !ok {
			return nil, apperror.NewOriginNotReturnable(originID.String(),
				fmt.Sprintf("product %s was not sold on the origin document", line.ProductID))
		}
		if err := note.AddRatedLine(line.ProductID, line.Quantity, originLine.UnitPrice, originLine.TaxRate); err != nil {
			return nil, err
		}
	}
	return note, nil
}

// buildReplacementSale assembles the new sale under the current
// selling context, keeping the customer and location of the return.
func (s *Service) buildReplacementSale(ctx context.Context, note *sale.Sale, exchangeLines []ExchangeLine) (*sale.Sale, error) {
	rate, err := s.rates.TaxRate(ctx, s.taxID)
	if err != nil {
		return nil, err
	}

	replacement := sale.NewSale(note.LocationID, rate, s.taxMode)
	replacement.CustomerID = note.CustomerID
	for _, line := range exchangeLines {
		if err := replacement.AddLine(line.ProductID, line.Quantity, line.UnitPrice); err != nil {
			return nil, err
		}
	}
	return replacement, nil
}

// settlementAllocations validates the caller's tendered amounts
// against the split and produces the allocation rows.
func (s *Service) settlementAllocations(req ExchangeRequest, split Split, note, newSale *sale.Sale) ([]payments.Allocation, error) {
	var allocs []payments.Allocation

	if split.AppliedCredit.IsPositive() && newSale != nil {
		allocs = append(allocs,
			payments.NewAllocation(newSale.ID, payments.MethodCreditNote, split.AppliedCredit))
	}

	if split.AmountOwed.IsPositive() {
		if !req.PaymentMethod.Valid() {
			return nil, apperror.NewValidation("payment method is required to settle the amount owed").
				WithDetail("field", "paymentMethod")
		}
		if !types.MoneyEqual(req.PaymentAmount, split.AmountOwed) {
			return nil, apperror.NewPaymentMismatch(split.AmountOwed.String(), req.PaymentAmount.String())
		}
		allocs = append(allocs,
			payments.NewAllocation(newSale.ID, req.PaymentMethod, split.AmountOwed))
	}

	if split.AmountRefunded.IsPositive() {
		if !req.RefundMethod.Valid() {
			return nil, apperror.NewValidation("refund method is required to settle the amount refunded").
				WithDetail("field", "refundMethod")
		}
		allocs = append(allocs,
			payments.NewAllocation(note.ID, req.RefundMethod, split.AmountRefunded.Neg()))
	}

	return allocs, nil
}

// Settlement is the payment history of one document.
type Settlement struct {
	Allocations []payments.Allocation `json:"allocations"`
	Settled     types.Money           `json:"settled"`
}

// Payments returns the allocations recorded against a document and
// their net total, for receipt reprints and till reconciliation.
func (s *Service) Payments(ctx context.Context, documentID id.ID) (*Settlement, error) {
	allocs, err := s.payments.ByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	settled, err := s.payments.Settled(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return &Settlement{Allocations: allocs, Settled: settled}, nil
}
