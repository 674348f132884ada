package sale

import (
	"context"
	"fmt"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/apperror"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/tx"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/posting"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/returns"
	"github.com/Jcrispin99/gym-app-sub000/pkg/logger"
	"github.com/Jcrispin99/gym-app-sub000/pkg/sequencer"
)

// FiscalQueue enqueues documents for fiscal submission after they
// post. Implementations write through the transactional outbox so the
// enqueue commits atomically with the posting.
type FiscalQueue interface {
	Enqueue(ctx context.Context, doc *Sale) error
}

// SerieSale and SerieCreditNote are the default document series.
const (
	SerieSale       = "F001"
	SerieCreditNote = "NC01"
)

// Service provides business operations for sale documents and their
// credit-note variant.
type Service struct {
	repo          Repository
	postingEngine *posting.Engine
	sequencer     *sequencer.Service
	returns       *returns.Service
	fiscal        FiscalQueue // Optional. Nil disables fiscal submission.
	txManager     tx.Manager
}

// NewService creates a new sale service.
func NewService(
	repo Repository,
	postingEngine *posting.Engine,
	seq *sequencer.Service,
	returnsService *returns.Service,
	fiscal FiscalQueue,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:          repo,
		postingEngine: postingEngine,
		sequencer:     seq,
		returns:       returnsService,
		fiscal:        fiscal,
		txManager:     txManager,
	}
}

// Create creates a new draft sale, assigning its number once.
func (s *Service) Create(ctx context.Context, doc *Sale) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if doc.Serie == "" {
		serie := SerieSale
		if doc.IsCreditNote() {
			serie = SerieCreditNote
		}
		correlative, err := s.sequencer.Next(ctx, serie, nil)
		if err != nil {
			return fmt.Errorf("assign number: %w", err)
		}
		doc.Serie = serie
		doc.Correlative = correlative
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "sale created",
		"id", doc.ID, "number", doc.Number(), "credit_note", doc.IsCreditNote())
	return nil
}

// CreateCreditNote builds and persists a draft credit note against a
// posted origin sale. Lines inherit the origin's unit price for the
// returned product; quantities are advisory-checked here and
// authoritatively re-checked at posting.
func (s *Service) CreateCreditNote(ctx context.Context, originID id.ID, lines []Line) (*Sale, error) {
	origin, err := s.GetByID(ctx, originID)
	if err != nil {
		return nil, err
	}
	if origin.IsCreditNote() {
		return nil, apperror.NewOriginNotReturnable(originID.String(), "origin is itself a credit note")
	}

	note := NewCreditNote(origin)
	priceByProduct := make(map[id.ID]Line, len(origin.Lines))
	for _, line := range origin.Lines {
		priceByProduct[line.ProductID] = line
	}

	for _, line := range lines {
		originLine, ok := priceByProduct[line.ProductID]
		if !ok {
			return nil, apperror.NewOriginNotReturnable(originID.String(),
				fmt.Sprintf("product %s was not sold on the origin document", line.ProductID))
		}
		if err := note.AddRatedLine(line.ProductID, line.Quantity, originLine.UnitPrice, originLine.TaxRate); err != nil {
			return nil, err
		}
	}

	if err := s.returns.CheckRequested(ctx, originID, note.QuantitiesByProduct(), false); err != nil {
		return nil, err
	}

	if err := s.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// GetByID retrieves a sale with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Sale, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// GetByNumber retrieves a sale by its printed number, the lookup the
// till uses when a customer brings a receipt back.
func (s *Service) GetByNumber(ctx context.Context, serie string, correlative int64) (*Sale, error) {
	doc, err := s.repo.GetByNumber(ctx, serie, correlative)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// Update updates a draft sale.
func (s *Service) Update(ctx context.Context, doc *Sale) error {
	if err := doc.CanModify(); err != nil {
		return err
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
}

// Delete soft-deletes a draft sale.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	if err := doc.CanModify(); err != nil {
		return err
	}

	return s.repo.Delete(ctx, docID)
}

// Post records the sale's movements to the ledger and flips it to
// posted. The document row is locked for the whole transition so
// concurrent posts of the same document serialize. Credit notes
// additionally re-check availability against the locked origin inside
// the transaction.
func (s *Service) Post(ctx context.Context, docID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.lockForTransition(ctx, docID)
		if err != nil {
			return err
		}

		updateDoc := func(ctx context.Context) error {
			if err := s.repo.Update(ctx, doc); err != nil {
				return err
			}
			if s.fiscal != nil {
				if err := s.fiscal.Enqueue(ctx, doc); err != nil {
					return fmt.Errorf("enqueue fiscal: %w", err)
				}
			}
			return nil
		}

		var guards []posting.Guard
		if doc.IsCreditNote() {
			originID := *doc.OriginID
			guards = append(guards, func(ctx context.Context) error {
				return s.returns.CheckRequested(ctx, originID, doc.QuantitiesByProduct(), true)
			})
		}

		return s.postingEngine.Post(ctx, doc, updateDoc, guards...)
	})
}

// Cancel compensates a posted sale's movements and flips it to
// cancelled. The original ledger rows stay.
func (s *Service) Cancel(ctx context.Context, docID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.lockForTransition(ctx, docID)
		if err != nil {
			return err
		}

		updateDoc := func(ctx context.Context) error {
			return s.repo.Update(ctx, doc)
		}

		return s.postingEngine.Cancel(ctx, doc, updateDoc)
	})
}

// lockForTransition loads a sale with its lines under FOR UPDATE.
// Must run inside a transaction.
func (s *Service) lockForTransition(ctx context.Context, docID id.ID) (*Sale, error) {
	doc, err := s.repo.GetForUpdate(ctx, docID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// AvailableQty returns the advisory per-product availability of an
// origin sale for crediting.
func (s *Service) AvailableQty(ctx context.Context, originID id.ID) ([]returns.Availability, error) {
	return s.returns.Available(ctx, originID)
}

// List retrieves sales with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Sale], error) {
	return s.repo.List(ctx, filter)
}
