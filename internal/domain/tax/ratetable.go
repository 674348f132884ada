package tax

import (
	"context"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/apperror"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
)

// RateTable resolves a tax code to its percent rate. Tax law lives
// outside this package: callers configure a table per jurisdiction and
// the document layer only ever asks what a code is worth right now.
type RateTable interface {
	TaxRate(ctx context.Context, taxID string) (types.Money, error)
}

// StaticRateTable is a RateTable backed by a fixed in-memory map,
// loaded from configuration at startup.
type StaticRateTable map[string]types.Money

func (t StaticRateTable) TaxRate(_ context.Context, taxID string) (types.Money, error) {
	rate, ok := t[taxID]
	if !ok {
		return types.Zero(), apperror.NewValidation("unknown tax code").
			WithDetail("taxId", taxID)
	}
	return rate, nil
}

var _ RateTable = StaticRateTable(nil)
