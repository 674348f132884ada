package sale

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

func TestSale_AddLineInclusiveTotals(t *testing.T) {
	s := NewSale(id.New(), money("18"), tax.ModeInclusive)
	require.NoError(t, s.AddLine(id.New(), qty(2), money("59.00")))

	assert.True(t, s.TotalGross.Equal(money("118.00")))
	assert.True(t, s.TotalNet.Equal(money("100.00")))
	assert.True(t, s.TotalTax.Equal(money("18.00")))
	assert.Equal(t, qty(2), s.TotalQuantity)
}

func TestSale_AddLineExclusiveTotals(t *testing.T) {
	s := NewSale(id.New(), money("18"), tax.ModeExclusive)
	require.NoError(t, s.AddLine(id.New(), qty(1), money("100.00")))

	assert.True(t, s.TotalNet.Equal(money("100.00")))
	assert.True(t, s.TotalTax.Equal(money("18.00")))
	assert.True(t, s.TotalGross.Equal(money("118.00")))
}

func TestSale_RatedLinesMixRates(t *testing.T) {
	s := NewSale(id.New(), money("18"), tax.ModeExclusive)
	require.NoError(t, s.AddLine(id.New(), qty(1), money("100.00")))
	require.NoError(t, s.AddRatedLine(id.New(), qty(1), money("50.00"), money("0")))

	require.Len(t, s.Lines, 2)
	assert.True(t, s.Lines[0].TaxRate.Equal(money("18")))
	assert.True(t, s.Lines[1].TaxRate.Equal(money("0")))
	assert.True(t, s.Lines[1].Tax.IsZero(), "exempt line carries no tax")
	assert.True(t, s.TotalNet.Equal(money("150.00")))
	assert.True(t, s.TotalTax.Equal(money("18.00")))
	assert.True(t, s.TotalGross.Equal(money("168.00")))
}

func TestSale_GenerateMovementsExits(t *testing.T) {
	locationID := id.New()
	productID := id.New()

	s := NewSale(locationID, money("18"), tax.ModeInclusive)
	require.NoError(t, s.AddLine(productID, qty(3), money("10.00")))

	ms, err := s.GenerateMovements(context.Background())
	require.NoError(t, err)
	require.Len(t, ms.Inventory, 1)

	m := ms.Inventory[0]
	assert.Equal(t, entity.MovementTypeExit, m.MovementType)
	assert.Equal(t, productID, m.ProductID)
	assert.Equal(t, locationID, m.LocationID)
	assert.Equal(t, qty(3), m.Quantity)
	assert.Equal(t, "Sale", m.DocumentType)
	assert.False(t, m.ValueAtAverage, "sale price never reaches the ledger")
}

func TestCreditNote_InheritsOriginTaxConfig(t *testing.T) {
	customerID := id.New()
	origin := NewSale(id.New(), money("18"), tax.ModeInclusive)
	origin.CustomerID = &customerID

	note := NewCreditNote(origin)
	assert.True(t, note.IsCreditNote())
	assert.Equal(t, origin.ID, *note.OriginID)
	assert.Equal(t, origin.LocationID, note.LocationID)
	assert.Equal(t, origin.TaxMode, note.TaxMode)
	assert.True(t, note.TaxRate.Equal(origin.TaxRate))
	assert.Equal(t, customerID, *note.CustomerID)
	assert.Equal(t, entity.StatusDraft, note.Status)
}

func TestCreditNote_GenerateMovementsRestocksAtAverage(t *testing.T) {
	origin := NewSale(id.New(), money("18"), tax.ModeInclusive)
	note := NewCreditNote(origin)
	require.NoError(t, note.AddLine(id.New(), qty(2), money("59.00")))

	ms, err := note.GenerateMovements(context.Background())
	require.NoError(t, err)
	require.Len(t, ms.Inventory, 1)

	m := ms.Inventory[0]
	assert.Equal(t, entity.MovementTypeEntry, m.MovementType)
	assert.True(t, m.ValueAtAverage, "restock is valued at current average, not refund price")
	assert.Equal(t, "CreditNote", m.DocumentType)
}

func TestCreditNote_LinesCarryOriginLineRate(t *testing.T) {
	origin := NewSale(id.New(), money("18"), tax.ModeInclusive)
	require.NoError(t, origin.AddRatedLine(id.New(), qty(1), money("59.00"), money("0")))

	note := NewCreditNote(origin)
	originLine := origin.Lines[0]
	require.NoError(t, note.AddRatedLine(originLine.ProductID, qty(1), originLine.UnitPrice, originLine.TaxRate))

	assert.True(t, note.Lines[0].TaxRate.Equal(money("0")), "returned line undoes the rate it was charged at")
	assert.True(t, note.Lines[0].Tax.IsZero())
}

func TestSale_Validate(t *testing.T) {
	ctx := context.Background()

	empty := NewSale(id.New(), money("18"), tax.ModeInclusive)
	assert.Error(t, empty.Validate(ctx), "no lines")

	badMode := NewSale(id.New(), money("18"), tax.Mode("mixed"))
	badMode.Lines = []Line{{LineID: id.New(), ProductID: id.New(), Quantity: qty(1)}}
	assert.Error(t, badMode.Validate(ctx))

	ok := NewSale(id.New(), money("18"), tax.ModeInclusive)
	require.NoError(t, ok.AddLine(id.New(), qty(1), money("10.00")))
	assert.NoError(t, ok.Validate(ctx))

	noLocation := NewSale(id.Nil(), money("18"), tax.ModeInclusive)
	require.NoError(t, noLocation.AddLine(id.New(), qty(1), money("10.00")))
	assert.Error(t, noLocation.Validate(ctx))
}

func TestSale_QuantitiesByProductAggregatesLines(t *testing.T) {
	productID := id.New()
	s := NewSale(id.New(), money("0"), tax.ModeExclusive)
	require.NoError(t, s.AddLine(productID, qty(2), money("5.00")))
	require.NoError(t, s.AddLine(productID, qty(1), money("5.00")))
	require.NoError(t, s.AddLine(id.New(), qty(4), money("3.00")))

	byProduct := s.QuantitiesByProduct()
	assert.Equal(t, qty(3), byProduct[productID])
	assert.Len(t, byProduct, 2)
}
