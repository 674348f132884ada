// Package returns computes how much of an origin sale is still
// eligible to be credited, aggregating all previously posted credit
// notes. It backs both the advisory preview and the authoritative
// in-transaction check during credit-note posting.
package returns

import (
	"context"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/entity"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
)

// Origin is the reconciliation view of an origin sale: its status,
// identity, and sold quantities per product.
type Origin struct {
	ID          id.ID
	Status      entity.DocumentStatus
	Serie       string
	Correlative int64
	CreditNote  bool
	SoldQty     map[id.ID]types.Quantity
}

// Repository reads origin sales and posted credit-note aggregates.
type Repository interface {
	// GetOrigin loads the origin view. With lock set the document row
	// is locked FOR UPDATE so concurrent credit notes against the same
	// origin serialize; lock requires an active transaction.
	GetOrigin(ctx context.Context, originID id.ID, lock bool) (*Origin, error)

	// CreditedQuantities sums line quantities per product across all
	// posted credit notes whose origin is originID. Drafts and
	// cancelled credit notes are excluded.
	CreditedQuantities(ctx context.Context, originID id.ID) (map[id.ID]types.Quantity, error)
}
