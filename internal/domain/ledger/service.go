package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/apperror"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/entity"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
	"github.com/Jcrispin99/gym-app-sub000/pkg/logger"
)

// Service provides business operations for the inventory ledger.
// Transactions are managed by the caller (posting engine): Append must
// run inside one so the balance-row locks hold until commit.
type Service struct {
	repo Repository
}

// NewService creates a new ledger service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// ledgerKey identifies one serialization unit.
type ledgerKey struct {
	productID  id.ID
	locationID id.ID
}

// Append values and records ledger rows for a document posting or
// cancellation. For each (product, location) touched it locks the
// balance row, runs the movements through the costing state machine in
// order, inserts the completed rows, and writes the new balance.
//
// Keys are locked in a deterministic order to avoid lock cycles between
// concurrent postings that touch overlapping products.
func (s *Service) Append(ctx context.Context, movements []entity.Movement) error {
	if len(movements) == 0 {
		return nil
	}

	for i, m := range movements {
		if !m.Quantity.IsPositive() {
			return apperror.NewValidation(fmt.Sprintf("movement %d: quantity must be positive", i))
		}
		if id.IsNil(m.DocumentID) {
			return apperror.NewValidation(fmt.Sprintf("movement %d: document_id is required", i))
		}
		if m.MovementType != entity.MovementTypeEntry && m.MovementType != entity.MovementTypeExit {
			return apperror.NewValidation(fmt.Sprintf("movement %d: unknown movement type %q", i, m.MovementType))
		}
	}

	groups := make(map[ledgerKey][]int)
	for i, m := range movements {
		k := ledgerKey{productID: m.ProductID, locationID: m.LocationID}
		groups[k] = append(groups[k], i)
	}

	keys := make([]ledgerKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].productID != keys[j].productID {
			return keys[i].productID.String() < keys[j].productID.String()
		}
		return keys[i].locationID.String() < keys[j].locationID.String()
	})

	completed := make([]entity.Movement, len(movements))
	now := time.Now().UTC()

	for _, k := range keys {
		balance, err := s.repo.LockBalance(ctx, k.productID, k.locationID)
		if err != nil {
			return apperror.NewLedgerIntegrity(k.productID.String(), k.locationID.String(),
				fmt.Errorf("lock balance: %w", err))
		}

		state := NewCostState(balance)
		for _, idx := range groups[k] {
			completed[idx], state = state.Apply(movements[idx])
		}

		if state.Quantity.IsNegative() {
			logger.Warn(ctx, "stock went negative",
				"product_id", k.productID,
				"location_id", k.locationID,
				"quantity", state.Quantity,
			)
		}

		balance.Quantity = state.Quantity
		balance.TotalCost = types.Round2(state.TotalCost)
		balance.AverageCost = types.Round2(state.AverageCost())
		balance.LastMovementAt = now
		balance.UpdatedAt = now

		if err := s.repo.UpdateBalance(ctx, balance); err != nil {
			return apperror.NewLedgerIntegrity(k.productID.String(), k.locationID.String(),
				fmt.Errorf("update balance: %w", err))
		}
	}

	if err := s.repo.CreateMovements(ctx, completed); err != nil {
		return fmt.Errorf("create movements: %w", err)
	}

	logger.Info(ctx, "appended ledger movements",
		"count", len(completed),
		"document_id", completed[0].DocumentID,
	)

	return nil
}

// CurrentBalance returns the live state for one (product, location).
// Unknown pairs come back as a zero state.
func (s *Service) CurrentBalance(ctx context.Context, productID, locationID id.ID) (entity.InventoryBalance, error) {
	return s.repo.GetBalance(ctx, productID, locationID)
}

// ProductAvailability returns on-hand quantity across all locations.
func (s *Service) ProductAvailability(ctx context.Context, productID id.ID) (types.Quantity, error) {
	balances, err := s.repo.GetBalancesByProduct(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("get balances: %w", err)
	}

	var total types.Quantity
	for _, b := range balances {
		total += b.Quantity
	}

	return total, nil
}

// LocationStock returns all products with stock at a location.
func (s *Service) LocationStock(ctx context.Context, locationID id.ID) ([]entity.InventoryBalance, error) {
	return s.repo.GetBalancesByLocation(ctx, locationID, BalanceFilter{
		ExcludeZero: true,
	})
}

// MovementHistory returns ledger rows for a product.
func (s *Service) MovementHistory(ctx context.Context, productID id.ID, filter MovementFilter) ([]entity.Movement, error) {
	return s.repo.GetMovementHistory(ctx, productID, filter)
}

// DocumentMovements returns all ledger rows written by one document,
// including compensations.
func (s *Service) DocumentMovements(ctx context.Context, documentID id.ID) ([]entity.Movement, error) {
	return s.repo.GetMovementsByDocument(ctx, documentID)
}

// Recalculate rebuilds the materialized balance for one
// (product, location) by replaying its movements. Maintenance
// operation for when a balance row is suspected to have drifted.
func (s *Service) Recalculate(ctx context.Context, productID, locationID id.ID) (entity.InventoryBalance, error) {
	if err := s.repo.RecalculateBalance(ctx, productID, locationID); err != nil {
		return entity.InventoryBalance{}, fmt.Errorf("recalculate balance: %w", err)
	}

	logger.Info(ctx, "balance recalculated",
		"product_id", productID,
		"location_id", locationID,
	)
	return s.repo.GetBalance(ctx, productID, locationID)
}
