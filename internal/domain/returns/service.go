package returns

import (
	"context"
	"fmt"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/apperror"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/entity"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/tx"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
)

// Availability is the per-product return state of an origin sale.
type Availability struct {
	ProductID id.ID          `json:"productId"`
	Sold      types.Quantity `json:"sold"`
	Credited  types.Quantity `json:"credited"`
	Available types.Quantity `json:"available"`
}

// Service computes creditable quantities.
type Service struct {
	repo Repository
	txm  tx.ReadOnlyManager
}

// NewService creates a return reconciliation service.
func NewService(repo Repository, txm tx.ReadOnlyManager) *Service {
	return &Service{repo: repo, txm: txm}
}

// Available returns the advisory per-product availability for an
// origin sale. Run outside the posting transaction, it can go stale
// the moment it is returned; posting re-checks authoritatively.
func (s *Service) Available(ctx context.Context, originID id.ID) ([]Availability, error) {
	var out []Availability

	// Read-only transaction: the origin and its credited sums must
	// come from one snapshot or the math can go negative.
	err := s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		origin, err := s.repo.GetOrigin(ctx, originID, false)
		if err != nil {
			return err
		}
		if err := s.validateOrigin(origin); err != nil {
			return err
		}

		credited, err := s.repo.CreditedQuantities(ctx, originID)
		if err != nil {
			return fmt.Errorf("credited quantities: %w", err)
		}

		out = make([]Availability, 0, len(origin.SoldQty))
		for productID, sold := range origin.SoldQty {
			c := credited[productID]
			out = append(out, Availability{
				ProductID: productID,
				Sold:      sold,
				Credited:  c,
				Available: sold - c,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CheckRequested verifies that requested per-product quantities fit
// the origin's availability, locking the origin document when lock is
// set. With lock this is the authoritative check: it must run inside
// the credit-note posting transaction, so two concurrent credit notes
// that both saw "1 available" cannot both take it.
func (s *Service) CheckRequested(ctx context.Context, originID id.ID, requested map[id.ID]types.Quantity, lock bool) error {
	origin, err := s.repo.GetOrigin(ctx, originID, lock)
	if err != nil {
		return err
	}
	if err := s.validateOrigin(origin); err != nil {
		return err
	}

	credited, err := s.repo.CreditedQuantities(ctx, originID)
	if err != nil {
		return fmt.Errorf("credited quantities: %w", err)
	}

	for productID, want := range requested {
		sold, ok := origin.SoldQty[productID]
		if !ok {
			return apperror.NewOriginNotReturnable(originID.String(),
				fmt.Sprintf("product %s was not sold on the origin document", productID))
		}
		available := sold - credited[productID]
		if want > available {
			return apperror.NewCreditExceedsAvailable(
				productID.String(), want.String(), available.String())
		}
	}
	return nil
}

func (s *Service) validateOrigin(origin *Origin) error {
	if origin.CreditNote {
		return apperror.NewOriginNotReturnable(origin.ID.String(), "origin is itself a credit note")
	}
	if origin.Status != entity.StatusPosted {
		return apperror.NewOriginNotReturnable(origin.ID.String(),
			fmt.Sprintf("origin status is %s, must be posted", origin.Status))
	}
	if origin.Serie == "" {
		return apperror.NewOriginNotReturnable(origin.ID.String(), "origin has no assigned number")
	}
	return nil
}
