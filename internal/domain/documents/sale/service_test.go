package sale

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/entity"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/ledger"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/posting"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/tax"
)

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memSaleRepo holds a single document and records whether transitions
// read it under the row lock.
type memSaleRepo struct {
	doc       *Sale
	lockReads int
	updated   bool
}

func (r *memSaleRepo) Create(_ context.Context, _ *Sale) error { return nil }

func (r *memSaleRepo) GetByID(_ context.Context, _ id.ID) (*Sale, error) { return r.doc, nil }

func (r *memSaleRepo) GetByNumber(_ context.Context, _ string, _ int64) (*Sale, error) {
	return r.doc, nil
}

func (r *memSaleRepo) Update(_ context.Context, _ *Sale) error {
	r.updated = true
	return nil
}

func (r *memSaleRepo) Delete(_ context.Context, _ id.ID) error { return nil }

func (r *memSaleRepo) GetLines(_ context.Context, _ id.ID) ([]Line, error) {
	return r.doc.Lines, nil
}

func (r *memSaleRepo) SaveLines(_ context.Context, _ id.ID, _ []Line) error { return nil }

func (r *memSaleRepo) List(_ context.Context, _ ListFilter) (domain.ListResult[*Sale], error) {
	return domain.ListResult[*Sale]{}, nil
}

func (r *memSaleRepo) GetForUpdate(_ context.Context, _ id.ID) (*Sale, error) {
	r.lockReads++
	return r.doc, nil
}

var _ Repository = (*memSaleRepo)(nil)

// nullLedgerRepo satisfies ledger.Repository without retaining state;
// transition tests only care about the document side.
type nullLedgerRepo struct {
	movements []entity.Movement
}

func (r *nullLedgerRepo) CreateMovements(_ context.Context, ms []entity.Movement) error {
	r.movements = append(r.movements, ms...)
	return nil
}

func (r *nullLedgerRepo) GetMovementsByDocument(_ context.Context, docID id.ID) ([]entity.Movement, error) {
	var out []entity.Movement
	for _, m := range r.movements {
		if m.DocumentID == docID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *nullLedgerRepo) GetMovementHistory(_ context.Context, _ id.ID, _ ledger.MovementFilter) ([]entity.Movement, error) {
	return nil, nil
}

func (r *nullLedgerRepo) GetBalance(_ context.Context, _, _ id.ID) (entity.InventoryBalance, error) {
	return entity.InventoryBalance{}, nil
}

func (r *nullLedgerRepo) LockBalance(_ context.Context, productID, locationID id.ID) (entity.InventoryBalance, error) {
	return entity.InventoryBalance{ProductID: productID, LocationID: locationID}, nil
}

func (r *nullLedgerRepo) UpdateBalance(_ context.Context, _ entity.InventoryBalance) error {
	return nil
}

func (r *nullLedgerRepo) GetBalancesByLocation(_ context.Context, _ id.ID, _ ledger.BalanceFilter) ([]entity.InventoryBalance, error) {
	return nil, nil
}

func (r *nullLedgerRepo) GetBalancesByProduct(_ context.Context, _ id.ID) ([]entity.InventoryBalance, error) {
	return nil, nil
}

func (r *nullLedgerRepo) RecalculateBalance(_ context.Context, _, _ id.ID) error { return nil }

var _ ledger.Repository = (*nullLedgerRepo)(nil)

func newTransitionService(repo *memSaleRepo) *Service {
	engine := posting.NewEngine(ledger.NewService(&nullLedgerRepo{}), passthroughTx{})
	return NewService(repo, engine, nil, nil, nil, passthroughTx{})
}

func TestService_PostReadsDocumentUnderLock(t *testing.T) {
	doc := NewSale(id.New(), money("18"), tax.ModeInclusive)
	require.NoError(t, doc.AddLine(id.New(), qty(1), money("10.00")))
	repo := &memSaleRepo{doc: doc}

	svc := newTransitionService(repo)
	require.NoError(t, svc.Post(context.Background(), doc.ID))

	assert.Equal(t, 1, repo.lockReads, "post reads the row under FOR UPDATE")
	assert.True(t, repo.updated)
	assert.Equal(t, entity.StatusPosted, doc.Status)
}

func TestService_CancelReadsDocumentUnderLock(t *testing.T) {
	doc := NewSale(id.New(), money("18"), tax.ModeInclusive)
	require.NoError(t, doc.AddLine(id.New(), qty(1), money("10.00")))
	repo := &memSaleRepo{doc: doc}

	svc := newTransitionService(repo)
	require.NoError(t, svc.Post(context.Background(), doc.ID))
	require.NoError(t, svc.Cancel(context.Background(), doc.ID))

	assert.Equal(t, 2, repo.lockReads, "cancel also reads the row under FOR UPDATE")
	assert.Equal(t, entity.StatusCancelled, doc.Status)
}
