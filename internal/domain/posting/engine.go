// Package posting provides the document lifecycle engine.
// Posting appends a document's movements to the inventory ledger and
// flips its status inside one transaction. Cancellation appends the
// compensating movements; ledger rows are never updated or deleted.
package posting

import (
	"context"
	"fmt"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/apperror"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/entity"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/tx"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/ledger"
	"github.com/Jcrispin99/gym-app-sub000/pkg/logger"
)

// Postable is implemented by document types that post to the ledger.
// entity.Document provides defaults for everything except
// GetDocumentType and GenerateMovements.
type Postable interface {
	GetID() id.ID
	GetLocationID() id.ID
	GetStatus() entity.DocumentStatus
	GetDocumentType() string

	// CanPost validates business rules before posting.
	CanPost(ctx context.Context) error

	// GenerateMovements produces the ledger plan for this document.
	// Quantities are positive; exits are valued later by the ledger.
	GenerateMovements(ctx context.Context) (*MovementSet, error)

	// State transitions (provided by entity.Document).
	MarkPosted()
	MarkCancelled()
}

// MovementSet collects the movements a document wants to record.
type MovementSet struct {
	Inventory []entity.Movement
}

// NewMovementSet creates an empty movement set.
func NewMovementSet() *MovementSet {
	return &MovementSet{}
}

// AddInventory appends a ledger movement to the set.
func (ms *MovementSet) AddInventory(m entity.Movement) {
	ms.Inventory = append(ms.Inventory, m)
}

// IsEmpty reports whether the set contains no movements.
func (ms *MovementSet) IsEmpty() bool {
	return len(ms.Inventory) == 0
}

// Guard is an in-transaction check that runs after the transaction
// opens but before any movement is appended. Used for validations that
// must hold at commit time, such as re-checking returnable quantity
// under the origin document's lock.
type Guard func(ctx context.Context) error

// Engine drives document state transitions.
type Engine struct {
	ledger    *ledger.Service
	txManager tx.Manager
}

// NewEngine creates a posting engine.
func NewEngine(ledgerService *ledger.Service, txManager tx.Manager) *Engine {
	return &Engine{
		ledger:    ledgerService,
		txManager: txManager,
	}
}

// Post transitions a draft document to posted: runs guards, validates,
// appends the generated movements, and persists the document via
// updateDoc, all in one transaction.
//
// Only drafts can post. A repeated post, or a post on a cancelled
// document, is rejected before any work happens: the ledger already
// carries the rows a posted document produced, and a silent second
// pass would hide a caller bug.
func (e *Engine) Post(ctx context.Context, doc Postable, updateDoc func(ctx context.Context) error, guards ...Guard) error {
	if doc.GetStatus() != entity.StatusDraft {
		return apperrDocumentNotDraft(doc)
	}

	if err := doc.CanPost(ctx); err != nil {
		return err
	}

	return e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, guard := range guards {
			if err := guard(ctx); err != nil {
				return err
			}
		}

		movements, err := doc.GenerateMovements(ctx)
		if err != nil {
			return fmt.Errorf("generate movements: %w", err)
		}

		if err := e.ledger.Append(ctx, movements.Inventory); err != nil {
			return fmt.Errorf("append movements: %w", err)
		}

		doc.MarkPosted()
		if err := updateDoc(ctx); err != nil {
			return fmt.Errorf("update document: %w", err)
		}

		logger.Info(ctx, "document posted",
			"document_id", doc.GetID(),
			"document_type", doc.GetDocumentType(),
			"movements", len(movements.Inventory),
		)
		return nil
	})
}

// Cancel transitions a posted document to cancelled. The document's
// original ledger rows are read back, inverted, and appended as
// compensations valued at the average cost current at cancellation
// time. History stays intact; only new rows are written.
//
// Cancelling an already-cancelled document is rejected: its
// compensations were already written, and a second pass would double
// them. Cancelling a draft is rejected too, since a draft has no
// movements to compensate.
func (e *Engine) Cancel(ctx context.Context, doc Postable, updateDoc func(ctx context.Context) error) error {
	if doc.GetStatus() != entity.StatusPosted {
		return apperrDocumentNotPosted(doc)
	}

	return e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		recorded, err := e.ledger.DocumentMovements(ctx, doc.GetID())
		if err != nil {
			return fmt.Errorf("load movements: %w", err)
		}

		compensations := make([]entity.Movement, 0, len(recorded))
		for _, m := range recorded {
			if m.Compensation {
				continue
			}
			compensations = append(compensations, m.Inverse())
		}

		if err := e.ledger.Append(ctx, compensations); err != nil {
			return fmt.Errorf("append compensations: %w", err)
		}

		doc.MarkCancelled()
		if err := updateDoc(ctx); err != nil {
			return fmt.Errorf("update document: %w", err)
		}

		logger.Info(ctx, "document cancelled",
			"document_id", doc.GetID(),
			"document_type", doc.GetDocumentType(),
			"compensations", len(compensations),
		)
		return nil
	})
}

func apperrDocumentNotDraft(doc Postable) error {
	return apperror.NewDocumentNotDraft(doc.GetID().String(), string(doc.GetStatus()))
}

func apperrDocumentNotPosted(doc Postable) error {
	return apperror.NewDocumentNotPosted(doc.GetID().String(), string(doc.GetStatus()))
}
