// Package fiscal submits posted documents to the tax authority.
// Submission is asynchronous: posting enqueues through the
// transactional outbox, a background relay delivers.
package fiscal

import (
	"context"
	"time"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/documents/sale"
	"github.com/Jcrispin99/gym-app-sub000/internal/infrastructure/storage/postgres"
)

// Event types written to the outbox.
const (
	EventSalePosted       = "SalePosted"
	EventCreditNotePosted = "CreditNotePosted"
)

// SubmissionPayload is the outbox payload for a fiscal submission.
type SubmissionPayload struct {
	DocumentID id.ID       `json:"documentId"`
	Number     string      `json:"number"`
	Date       time.Time   `json:"date"`
	CustomerID *id.ID      `json:"customerId,omitempty"`
	OriginID   *id.ID      `json:"originId,omitempty"`
	TotalNet   types.Money `json:"totalNet"`
	TotalTax   types.Money `json:"totalTax"`
	TotalGross types.Money `json:"totalGross"`
}

// OutboxQueue implements sale.FiscalQueue on top of the transactional
// outbox: the enqueue commits atomically with the posting.
type OutboxQueue struct {
	publisher *postgres.OutboxPublisher
}

// NewOutboxQueue creates a fiscal submission queue.
func NewOutboxQueue(publisher *postgres.OutboxPublisher) *OutboxQueue {
	return &OutboxQueue{publisher: publisher}
}

// Enqueue writes a submission event for a posted document.
// Must run inside the posting transaction.
func (q *OutboxQueue) Enqueue(ctx context.Context, doc *sale.Sale) error {
	eventType := EventSalePosted
	if doc.IsCreditNote() {
		eventType = EventCreditNotePosted
	}

	return q.publisher.Publish(ctx, postgres.DomainEvent{
		AggregateType: doc.GetDocumentType(),
		AggregateID:   doc.ID,
		EventType:     eventType,
		Payload: SubmissionPayload{
			DocumentID: doc.ID,
			Number:     doc.Number(),
			Date:       doc.Date,
			CustomerID: doc.CustomerID,
			OriginID:   doc.OriginID,
			TotalNet:   doc.TotalNet,
			TotalTax:   doc.TotalTax,
			TotalGross: doc.TotalGross,
		},
	})
}

// Ensure interface compliance.
var _ sale.FiscalQueue = (*OutboxQueue)(nil)
