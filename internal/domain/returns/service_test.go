package returns

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/apperror"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/entity"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
)

type fakeRepo struct {
	origin   *Origin
	credited map[id.ID]types.Quantity
	locked   bool
}

func (r *fakeRepo) GetOrigin(_ context.Context, _ id.ID, lock bool) (*Origin, error) {
	if lock {
		r.locked = true
	}
	return r.origin, nil
}

func (r *fakeRepo) CreditedQuantities(_ context.Context, _ id.ID) (map[id.ID]types.Quantity, error) {
	return r.credited, nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTx) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func qty(f float64) types.Quantity { return types.NewQuantityFromFloat64(f) }

func postedOrigin(products map[id.ID]types.Quantity) *Origin {
	return &Origin{
		ID:          id.New(),
		Status:      entity.StatusPosted,
		Serie:       "F001",
		Correlative: 1,
		SoldQty:     products,
	}
}

func TestAvailable_SubtractsPostedCredits(t *testing.T) {
	productID := id.New()
	repo := &fakeRepo{
		origin:   postedOrigin(map[id.ID]types.Quantity{productID: qty(3)}),
		credited: map[id.ID]types.Quantity{productID: qty(2)},
	}
	svc := NewService(repo, passthroughTx{})

	avail, err := svc.Available(context.Background(), repo.origin.ID)
	require.NoError(t, err)
	require.Len(t, avail, 1)
	assert.Equal(t, qty(3), avail[0].Sold)
	assert.Equal(t, qty(2), avail[0].Credited)
	assert.Equal(t, qty(1), avail[0].Available)
}

func TestCheckRequested_WithinAvailable(t *testing.T) {
	productID := id.New()
	repo := &fakeRepo{
		origin:   postedOrigin(map[id.ID]types.Quantity{productID: qty(3)}),
		credited: map[id.ID]types.Quantity{productID: qty(2)},
	}
	svc := NewService(repo, passthroughTx{})

	err := svc.CheckRequested(context.Background(), repo.origin.ID,
		map[id.ID]types.Quantity{productID: qty(1)}, true)
	require.NoError(t, err)
	assert.True(t, repo.locked, "authoritative check locks the origin")
}

func TestCheckRequested_ExceedsAvailable(t *testing.T) {
	productID := id.New()
	repo := &fakeRepo{
		origin:   postedOrigin(map[id.ID]types.Quantity{productID: qty(3)}),
		credited: map[id.ID]types.Quantity{productID: qty(2)},
	}
	svc := NewService(repo, passthroughTx{})

	err := svc.CheckRequested(context.Background(), repo.origin.ID,
		map[id.ID]types.Quantity{productID: qty(2)}, true)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeCreditExceedsAvailable, appErr.Code)
}

func TestCheckRequested_ProductNotOnOrigin(t *testing.T) {
	repo := &fakeRepo{
		origin:   postedOrigin(map[id.ID]types.Quantity{id.New(): qty(3)}),
		credited: map[id.ID]types.Quantity{},
	}
	svc := NewService(repo, passthroughTx{})

	err := svc.CheckRequested(context.Background(), repo.origin.ID,
		map[id.ID]types.Quantity{id.New(): qty(1)}, false)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeOriginNotReturnable, appErr.Code)
}

func TestCheckRequested_OriginMustBePostedSale(t *testing.T) {
	productID := id.New()
	requested := map[id.ID]types.Quantity{productID: qty(1)}

	draft := postedOrigin(map[id.ID]types.Quantity{productID: qty(3)})
	draft.Status = entity.StatusDraft
	err := NewService(&fakeRepo{origin: draft}, passthroughTx{}).
		CheckRequested(context.Background(), draft.ID, requested, false)
	assert.Error(t, err, "draft origin rejected")

	cancelled := postedOrigin(map[id.ID]types.Quantity{productID: qty(3)})
	cancelled.Status = entity.StatusCancelled
	err = NewService(&fakeRepo{origin: cancelled}, passthroughTx{}).
		CheckRequested(context.Background(), cancelled.ID, requested, false)
	assert.Error(t, err, "cancelled origin rejected")

	note := postedOrigin(map[id.ID]types.Quantity{productID: qty(3)})
	note.CreditNote = true
	err = NewService(&fakeRepo{origin: note}, passthroughTx{}).
		CheckRequested(context.Background(), note.ID, requested, false)
	assert.Error(t, err, "credit note cannot be an origin")

	unnumbered := postedOrigin(map[id.ID]types.Quantity{productID: qty(3)})
	unnumbered.Serie = ""
	err = NewService(&fakeRepo{origin: unnumbered}, passthroughTx{}).
		CheckRequested(context.Background(), unnumbered.ID, requested, false)
	assert.Error(t, err, "unnumbered origin rejected")
}
