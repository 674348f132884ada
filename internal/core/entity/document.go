package entity

import (
	"context"
	"fmt"
	"time"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/apperror"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
)

// DocumentStatus is the lifecycle state of a document.
// Transitions are one-way: draft -> posted -> cancelled.
// There is no "unpost": cancellation compensates, it never erases.
type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "draft"
	StatusPosted    DocumentStatus = "posted"
	StatusCancelled DocumentStatus = "cancelled"
)

// Valid reports whether s is a known status value.
func (s DocumentStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPosted, StatusCancelled:
		return true
	}
	return false
}

// Document is the base type for business transactions.
// Examples: Sale, Purchase, CreditNote.
type Document struct {
	BaseDocument

	// Serie is the document series prefix (e.g. "F001", "B002")
	Serie string `db:"serie" json:"serie"`

	// Correlative is the sequential number within the series
	Correlative int64 `db:"correlative" json:"correlative"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	// Status is the lifecycle state (draft/posted/cancelled)
	Status DocumentStatus `db:"status" json:"status"`

	// PostedAt is when the document was posted (nil while draft)
	PostedAt *time.Time `db:"posted_at" json:"postedAt,omitempty"`

	// CancelledAt is when the document was cancelled (nil otherwise)
	CancelledAt *time.Time `db:"cancelled_at" json:"cancelledAt,omitempty"`

	// LocationID is the stock location the document operates on
	LocationID id.ID `db:"location_id" json:"locationId"`

	// Comment is an optional user comment
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a new draft Document with generated ID.
func NewDocument(locationID id.ID) Document {
	return Document{
		BaseDocument: NewBaseDocument(),
		Date:         time.Now().UTC(),
		Status:       StatusDraft,
		LocationID:   locationID,
	}
}

// Number returns the display number "SERIE-CORRELATIVE" once assigned.
func (d *Document) Number() string {
	if d.Serie == "" {
		return ""
	}
	return fmt.Sprintf("%s-%d", d.Serie, d.Correlative)
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if id.IsNil(d.LocationID) {
		return apperror.NewValidation("location is required").
			WithDetail("field", "locationId")
	}

	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}

	return nil
}

// CanModify checks if document content can be modified.
// Only drafts are editable; posted and cancelled documents are frozen.
func (d *Document) CanModify() error {
	if d.Status != StatusDraft {
		return apperror.NewDocumentNotDraft(d.ID.String(), string(d.Status))
	}
	return nil
}

// MarkPosted transitions draft -> posted.
// Version bookkeeping is left to the repository layer.
func (d *Document) MarkPosted() {
	now := time.Now().UTC()
	d.Status = StatusPosted
	d.PostedAt = &now
	d.SetUpdatedAt(now)
}

// MarkCancelled transitions posted -> cancelled.
func (d *Document) MarkCancelled() {
	now := time.Now().UTC()
	d.Status = StatusCancelled
	d.CancelledAt = &now
	d.SetUpdatedAt(now)
}

// --- Postable interface default implementations ---
// Document-specific types only need to implement GetDocumentType()
// and GenerateMovements().

// GetID returns the document ID (Postable interface).
func (d *Document) GetID() id.ID {
	return d.ID
}

// GetLocationID returns the stock location (Postable interface).
func (d *Document) GetLocationID() id.ID {
	return d.LocationID
}

// GetStatus returns the current lifecycle state (Postable interface).
func (d *Document) GetStatus() DocumentStatus {
	return d.Status
}

// CanPost validates if document can be posted (Postable interface default).
// Override in specific document types if additional validation is needed.
func (d *Document) CanPost(ctx context.Context) error {
	return d.Validate(ctx)
}
