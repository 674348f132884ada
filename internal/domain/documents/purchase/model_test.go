package purchase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/entity"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/tax"
)

func qty(f float64) types.Quantity { return types.NewQuantityFromFloat64(f) }

func money(s string) types.Money { return types.MustMoney(s) }

func TestPurchase_AddLineTotals(t *testing.T) {
	p := NewPurchase(id.New(), id.New(), money("18"), tax.ModeExclusive)
	require.NoError(t, p.AddLine(id.New(), qty(10), money("5.00")))

	assert.True(t, p.TotalNet.Equal(money("50.00")))
	assert.True(t, p.TotalTax.Equal(money("9.00")))
	assert.True(t, p.TotalGross.Equal(money("59.00")))
}

func TestPurchase_GenerateMovementsEntryAtCost(t *testing.T) {
	locationID := id.New()
	productID := id.New()

	p := NewPurchase(locationID, id.New(), money("18"), tax.ModeExclusive)
	require.NoError(t, p.AddLine(productID, qty(10), money("5.00")))

	ms, err := p.GenerateMovements(context.Background())
	require.NoError(t, err)
	require.Len(t, ms.Inventory, 1)

	m := ms.Inventory[0]
	assert.Equal(t, entity.MovementTypeEntry, m.MovementType)
	assert.Equal(t, qty(10), m.Quantity)
	assert.True(t, m.UnitCost.Equal(money("5.00")))
	assert.False(t, m.ValueAtAverage)
}

func TestPurchase_InclusiveModeStripsTaxFromCost(t *testing.T) {
	p := NewPurchase(id.New(), id.New(), money("18"), tax.ModeInclusive)
	require.NoError(t, p.AddLine(id.New(), qty(2), money("59.00")))

	ms, err := p.GenerateMovements(context.Background())
	require.NoError(t, err)
	require.Len(t, ms.Inventory, 1)

	// Gross 118.00 -> net 100.00 over 2 units.
	assert.True(t, ms.Inventory[0].UnitCost.Equal(money("50.00")),
		"got %s", ms.Inventory[0].UnitCost)
}

func TestPurchase_Validate(t *testing.T) {
	ctx := context.Background()

	noSupplier := NewPurchase(id.New(), id.Nil(), money("18"), tax.ModeExclusive)
	require.NoError(t, noSupplier.AddLine(id.New(), qty(1), money("1.00")))
	assert.Error(t, noSupplier.Validate(ctx))

	empty := NewPurchase(id.New(), id.New(), money("18"), tax.ModeExclusive)
	assert.Error(t, empty.Validate(ctx), "no lines")

	ok := NewPurchase(id.New(), id.New(), money("18"), tax.ModeExclusive)
	require.NoError(t, ok.AddLine(id.New(), qty(1), money("1.00")))
	assert.NoError(t, ok.Validate(ctx))
}
