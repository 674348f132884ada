package payments

import (
	"context"

	appctx "github.com/Jcrispin99/gym-app-sub000/internal/core/context"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
)

// Service records and reads payment allocations.
type Service struct {
	repo Repository
}

// NewService creates a payments service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RecordBatch validates and persists a set of allocations together.
// The caller provides the enclosing transaction. Allocations are
// stamped with the session and user from the request context so every
// tender can be traced back to the register that took it.
func (s *Service) RecordBatch(ctx context.Context, allocs []Allocation) error {
	if len(allocs) == 0 {
		return nil
	}

	user := appctx.GetUser(ctx)
	for i := range allocs {
		if user != nil {
			allocs[i].SessionID = user.SessionID
			allocs[i].UserID = user.UserID
		}
		if err := allocs[i].Validate(ctx); err != nil {
			return err
		}
	}
	return s.repo.CreateBatch(ctx, allocs)
}

// ByDocument returns all allocations against a document.
func (s *Service) ByDocument(ctx context.Context, documentID id.ID) ([]Allocation, error) {
	return s.repo.GetByDocument(ctx, documentID)
}

// Settled returns the net amount allocated against a document.
func (s *Service) Settled(ctx context.Context, documentID id.ID) (types.Money, error) {
	return s.repo.SumByDocument(ctx, documentID)
}
