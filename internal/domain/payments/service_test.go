package payments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "github.com/Jcrispin99/gym-app-sub000/internal/core/context"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
)

type memPaymentRepo struct {
	allocs []Allocation
}

func (r *memPaymentRepo) CreateBatch(_ context.Context, allocs []Allocation) error {
	r.allocs = append(r.allocs, allocs...)
	return nil
}

func (r *memPaymentRepo) GetByDocument(_ context.Context, documentID id.ID) ([]Allocation, error) {
	var out []Allocation
	for _, a := range r.allocs {
		if a.DocumentID == documentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memPaymentRepo) SumByDocument(_ context.Context, documentID id.ID) (types.Money, error) {
	sum := types.Zero()
	for _, a := range r.allocs {
		if a.DocumentID == documentID {
			sum = sum.Add(a.Amount)
		}
	}
	return sum, nil
}

func TestRecordBatchStampsSessionAndUser(t *testing.T) {
	repo := &memPaymentRepo{}
	svc := NewService(repo)

	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:    "u-17",
		SessionID: "register-3",
	})

	docID := id.New()
	allocs := []Allocation{
		NewAllocation(docID, MethodCash, types.MustMoney("30.00")),
		NewAllocation(docID, MethodCreditNote, types.MustMoney("-12.50")),
	}
	require.NoError(t, svc.RecordBatch(ctx, allocs))

	stored, err := svc.ByDocument(ctx, docID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	for _, a := range stored {
		assert.Equal(t, "register-3", a.SessionID)
		assert.Equal(t, "u-17", a.UserID)
	}
}

func TestRecordBatchWithoutUserLeavesStampsEmpty(t *testing.T) {
	repo := &memPaymentRepo{}
	svc := NewService(repo)

	docID := id.New()
	err := svc.RecordBatch(context.Background(), []Allocation{
		NewAllocation(docID, MethodCard, types.MustMoney("10.00")),
	})
	require.NoError(t, err)

	require.Len(t, repo.allocs, 1)
	assert.Empty(t, repo.allocs[0].SessionID)
	assert.Empty(t, repo.allocs[0].UserID)
}

func TestAllocationValidateAcceptsCreditNote(t *testing.T) {
	a := NewAllocation(id.New(), MethodCreditNote, types.MustMoney("-5.00"))
	assert.NoError(t, a.Validate(context.Background()))

	bad := NewAllocation(id.New(), Method("voucher"), types.MustMoney("5.00"))
	assert.Error(t, bad.Validate(context.Background()))
}
