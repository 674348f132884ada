// Package ledger provides the perpetual inventory ledger.
package ledger

import (
	"context"
	"time"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/entity"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
)

// Repository defines storage operations for the inventory ledger.
type Repository interface {
	// Movement operations

	// CreateMovements batch inserts ledger rows (used during posting).
	// Rows arrive with running balances already computed.
	CreateMovements(ctx context.Context, movements []entity.Movement) error

	// GetMovementsByDocument retrieves all ledger rows for a document,
	// in insertion order.
	GetMovementsByDocument(ctx context.Context, documentID id.ID) ([]entity.Movement, error)

	// GetMovementHistory returns ledger rows for a product
	GetMovementHistory(ctx context.Context, productID id.ID, filter MovementFilter) ([]entity.Movement, error)

	// Balance operations

	// GetBalance returns the current balance for product+location.
	// Missing rows come back as a zero-state, not an error.
	GetBalance(ctx context.Context, productID, locationID id.ID) (entity.InventoryBalance, error)

	// LockBalance ensures the balance row exists and locks it FOR UPDATE.
	// Must run inside a transaction; this is the serialization point for
	// all writes to one (product, location).
	LockBalance(ctx context.Context, productID, locationID id.ID) (entity.InventoryBalance, error)

	// UpdateBalance writes the post-append state for a locked row.
	UpdateBalance(ctx context.Context, balance entity.InventoryBalance) error

	// GetBalancesByLocation returns non-zero balances for a location
	GetBalancesByLocation(ctx context.Context, locationID id.ID, filter BalanceFilter) ([]entity.InventoryBalance, error)

	// GetBalancesByProduct returns balances across all locations for a product
	GetBalancesByProduct(ctx context.Context, productID id.ID) ([]entity.InventoryBalance, error)

	// Maintenance

	// RecalculateBalance rebuilds one balance row by replaying movements.
	RecalculateBalance(ctx context.Context, productID, locationID id.ID) error
}

// BalanceFilter for filtering balance queries.
type BalanceFilter struct {
	ProductIDs  []id.ID
	ExcludeZero bool
	MinQuantity *types.Quantity
}

// MovementFilter for filtering movement history.
type MovementFilter struct {
	LocationID   *id.ID
	MovementType *entity.MovementType
	FromDate     *time.Time
	ToDate       *time.Time
	Limit        int
	Offset       int
}
