package purchase

import (
	"context"
	"fmt"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/tx"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/posting"
	"github.com/Jcrispin99/gym-app-sub000/pkg/logger"
	"github.com/Jcrispin99/gym-app-sub000/pkg/sequencer"
)

// SeriePurchase is the default purchase document serie.
const SeriePurchase = "P001"

// Service provides business operations for purchase documents.
type Service struct {
	repo          Repository
	postingEngine *posting.Engine
	sequencer     *sequencer.Service
	txManager     tx.Manager
}

// NewService creates a new purchase service.
func NewService(
	repo Repository,
	postingEngine *posting.Engine,
	seq *sequencer.Service,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:          repo,
		postingEngine: postingEngine,
		sequencer:     seq,
		txManager:     txManager,
	}
}

// Create creates a new draft purchase, assigning its number once.
func (s *Service) Create(ctx context.Context, doc *Purchase) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if doc.Serie == "" {
		correlative, err := s.sequencer.Next(ctx, SeriePurchase, nil)
		if err != nil {
			return fmt.Errorf("assign number: %w", err)
		}
		doc.Serie = SeriePurchase
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

	logger.Info(ctx, "purchase created", "id", doc.ID, "number", doc.Number())
	return nil
}

// GetByID retrieves a purchase with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Purchase, error) {
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

// Update updates a draft purchase.
func (s *Service) Update(ctx context.Context, doc *Purchase) error {
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

// Delete soft-deletes a draft purchase.
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

// Post records the purchase entries to the ledger. The document row
// is locked for the whole transition so two concurrent posts of the
// same purchase serialize instead of both reading draft.
func (s *Service) Post(ctx context.Context, docID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.lockForTransition(ctx, docID)
		if err != nil {
			return err
		}

		updateDoc := func(ctx context.Context) error {
			return s.repo.Update(ctx, doc)
		}

		return s.postingEngine.Post(ctx, doc, updateDoc)
	})
}

// Cancel compensates a posted purchase: stock exits at the current
// average cost, not the original purchase price.
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

// lockForTransition loads a purchase with its lines under FOR UPDATE.
// Must run inside a transaction.
func (s *Service) lockForTransition(ctx context.Context, docID id.ID) (*Purchase, error) {
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

// List retrieves purchases with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Purchase], error) {
	return s.repo.List(ctx, filter)
}
