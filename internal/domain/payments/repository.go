package payments

import (
	"context"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
)

// Repository defines storage operations for payment allocations.
type Repository interface {
	CreateBatch(ctx context.Context, allocs []Allocation) error
	GetByDocument(ctx context.Context, documentID id.ID) ([]Allocation, error)
	SumByDocument(ctx context.Context, documentID id.ID) (types.Money, error)
}
