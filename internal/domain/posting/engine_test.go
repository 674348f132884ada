package posting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/entity"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/ledger"
)

// passthroughTx runs fn directly; good enough for engine flow tests.
type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memLedgerRepo is a minimal in-memory ledger.Repository.
type memLedgerRepo struct {
	movements []entity.Movement
	balances  map[[2]id.ID]entity.InventoryBalance
}

func newMemLedgerRepo() *memLedgerRepo {
	return &memLedgerRepo{balances: make(map[[2]id.ID]entity.InventoryBalance)}
}

func (r *memLedgerRepo) CreateMovements(_ context.Context, movements []entity.Movement) error {
	r.movements = append(r.movements, movements...)
	return nil
}

func (r *memLedgerRepo) GetMovementsByDocument(_ context.Context, documentID id.ID) ([]entity.Movement, error) {
	var out []entity.Movement
	for _, m := range r.movements {
		if m.DocumentID == documentID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memLedgerRepo) GetMovementHistory(_ context.Context, _ id.ID, _ ledger.MovementFilter) ([]entity.Movement, error) {
	return nil, nil
}

func (r *memLedgerRepo) GetBalance(_ context.Context, productID, locationID id.ID) (entity.InventoryBalance, error) {
	if b, ok := r.balances[[2]id.ID{productID, locationID}]; ok {
		return b, nil
	}
	return entity.InventoryBalance{ProductID: productID, LocationID: locationID}, nil
}

func (r *memLedgerRepo) LockBalance(ctx context.Context, productID, locationID id.ID) (entity.InventoryBalance, error) {
	return r.GetBalance(ctx, productID, locationID)
}

func (r *memLedgerRepo) UpdateBalance(_ context.Context, b entity.InventoryBalance) error {
	r.balances[[2]id.ID{b.ProductID, b.LocationID}] = b
	return nil
}

func (r *memLedgerRepo) GetBalancesByLocation(_ context.Context, _ id.ID, _ ledger.BalanceFilter) ([]entity.InventoryBalance, error) {
	return nil, nil
}

func (r *memLedgerRepo) GetBalancesByProduct(_ context.Context, _ id.ID) ([]entity.InventoryBalance, error) {
	return nil, nil
}

func (r *memLedgerRepo) RecalculateBalance(_ context.Context, _, _ id.ID) error { return nil }

// saleDoc is a test document that issues one exit movement per line.
type saleDoc struct {
	entity.Document
	lines []saleLine
}

type saleLine struct {
	productID id.ID
	quantity  types.Quantity
}

func (d *saleDoc) GetDocumentType() string { return "Sale" }

func (d *saleDoc) GenerateMovements(_ context.Context) (*MovementSet, error) {
	ms := NewMovementSet()
	for _, line := range d.lines {
		ms.AddInventory(entity.NewMovement(
			d.ID, d.GetDocumentType(), d.Date,
			entity.MovementTypeExit,
			line.productID, d.LocationID,
			line.quantity, types.Zero(),
		))
	}
	return ms, nil
}

var _ Postable = (*saleDoc)(nil)

func seedStock(t *testing.T, svc *ledger.Service, productID, locationID id.ID, q types.Quantity, cost types.Money) {
	t.Helper()
	err := svc.Append(context.Background(), []entity.Movement{
		entity.NewMovement(id.New(), "Purchase", time.Now().UTC(), entity.MovementTypeEntry, productID, locationID, q, cost),
	})
	require.NoError(t, err)
}

func TestEngine_PostAppendsAndMarksPosted(t *testing.T) {
	repo := newMemLedgerRepo()
	ledgerSvc := ledger.NewService(repo)
	engine := NewEngine(ledgerSvc, passthroughTx{})
	ctx := context.Background()

	productID := id.New()
	locationID := id.New()
	seedStock(t, ledgerSvc, productID, locationID, types.NewQuantityFromFloat64(10), types.MustMoney("5.00"))

	doc := &saleDoc{
		Document: entity.NewDocument(locationID),
		lines:    []saleLine{{productID: productID, quantity: types.NewQuantityFromFloat64(3)}},
	}

	updates := 0
	err := engine.Post(ctx, doc, func(ctx context.Context) error { updates++; return nil })
	require.NoError(t, err)

	assert.Equal(t, entity.StatusPosted, doc.Status)
	assert.NotNil(t, doc.PostedAt)
	assert.Equal(t, 1, updates)

	rows, err := ledgerSvc.DocumentMovements(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].UnitCost.Equal(types.MustMoney("5.00")))

	balance, err := ledgerSvc.CurrentBalance(ctx, productID, locationID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(7), balance.Quantity)
}

func TestEngine_PostPostedRejects(t *testing.T) {
	repo := newMemLedgerRepo()
	ledgerSvc := ledger.NewService(repo)
	engine := NewEngine(ledgerSvc, passthroughTx{})
	ctx := context.Background()

	productID := id.New()
	locationID := id.New()
	seedStock(t, ledgerSvc, productID, locationID, types.NewQuantityFromFloat64(10), types.MustMoney("5.00"))

	doc := &saleDoc{
		Document: entity.NewDocument(locationID),
		lines:    []saleLine{{productID: productID, quantity: types.NewQuantityFromFloat64(2)}},
	}

	require.NoError(t, engine.Post(ctx, doc, func(ctx context.Context) error { return nil }))
	before := len(repo.movements)

	err := engine.Post(ctx, doc, func(ctx context.Context) error { return nil })
	require.Error(t, err, "second post is rejected")
	assert.Equal(t, entity.StatusPosted, doc.Status)
	assert.Equal(t, before, len(repo.movements), "rejected post writes nothing")
}

func TestEngine_GuardFailureAbortsPosting(t *testing.T) {
	repo := newMemLedgerRepo()
	ledgerSvc := ledger.NewService(repo)
	engine := NewEngine(ledgerSvc, passthroughTx{})
	ctx := context.Background()

	doc := &saleDoc{
		Document: entity.NewDocument(id.New()),
		lines:    []saleLine{{productID: id.New(), quantity: types.NewQuantityFromFloat64(1)}},
	}

	guard := func(ctx context.Context) error {
		return assert.AnError
	}

	err := engine.Post(ctx, doc, func(ctx context.Context) error { return nil }, guard)
	require.Error(t, err)
	assert.Equal(t, entity.StatusDraft, doc.Status)
	assert.Empty(t, repo.movements)
}

func TestEngine_CancelCompensatesAndRestoresBalance(t *testing.T) {
	repo := newMemLedgerRepo()
	ledgerSvc := ledger.NewService(repo)
	engine := NewEngine(ledgerSvc, passthroughTx{})
	ctx := context.Background()

	productID := id.New()
	locationID := id.New()
	seedStock(t, ledgerSvc, productID, locationID, types.NewQuantityFromFloat64(10), types.MustMoney("5.00"))
	seedStock(t, ledgerSvc, productID, locationID, types.NewQuantityFromFloat64(10), types.MustMoney("7.00"))

	doc := &saleDoc{
		Document: entity.NewDocument(locationID),
		lines:    []saleLine{{productID: productID, quantity: types.NewQuantityFromFloat64(5)}},
	}
	require.NoError(t, engine.Post(ctx, doc, func(ctx context.Context) error { return nil }))

	require.NoError(t, engine.Cancel(ctx, doc, func(ctx context.Context) error { return nil }))
	assert.Equal(t, entity.StatusCancelled, doc.Status)
	assert.NotNil(t, doc.CancelledAt)

	rows, err := ledgerSvc.DocumentMovements(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2, "original row plus compensation")
	assert.False(t, rows[0].Compensation)
	assert.True(t, rows[1].Compensation)
	assert.Equal(t, entity.MovementTypeEntry, rows[1].MovementType)

	balance, err := ledgerSvc.CurrentBalance(ctx, productID, locationID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(20), balance.Quantity)
	assert.True(t, balance.AverageCost.Equal(types.MustMoney("6.00")))
}

func TestEngine_CancelCancelledRejects(t *testing.T) {
	repo := newMemLedgerRepo()
	ledgerSvc := ledger.NewService(repo)
	engine := NewEngine(ledgerSvc, passthroughTx{})
	ctx := context.Background()

	productID := id.New()
	locationID := id.New()
	seedStock(t, ledgerSvc, productID, locationID, types.NewQuantityFromFloat64(5), types.MustMoney("2.00"))

	doc := &saleDoc{
		Document: entity.NewDocument(locationID),
		lines:    []saleLine{{productID: productID, quantity: types.NewQuantityFromFloat64(1)}},
	}
	require.NoError(t, engine.Post(ctx, doc, func(ctx context.Context) error { return nil }))
	require.NoError(t, engine.Cancel(ctx, doc, func(ctx context.Context) error { return nil }))
	before := len(repo.movements)

	err := engine.Cancel(ctx, doc, func(ctx context.Context) error { return nil })
	require.Error(t, err, "second cancel is rejected")
	assert.Equal(t, entity.StatusCancelled, doc.Status)
	assert.Equal(t, before, len(repo.movements), "rejected cancel writes no compensations")
}

func TestEngine_CancelDraftFails(t *testing.T) {
	engine := NewEngine(ledger.NewService(newMemLedgerRepo()), passthroughTx{})

	doc := &saleDoc{Document: entity.NewDocument(id.New())}
	err := engine.Cancel(context.Background(), doc, func(ctx context.Context) error { return nil })
	assert.Error(t, err)
}

func TestEngine_PostCancelledFails(t *testing.T) {
	engine := NewEngine(ledger.NewService(newMemLedgerRepo()), passthroughTx{})

	doc := &saleDoc{Document: entity.NewDocument(id.New())}
	doc.Status = entity.StatusCancelled
	err := engine.Post(context.Background(), doc, func(ctx context.Context) error { return nil })
	assert.Error(t, err)
}
