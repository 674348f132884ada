// Package payment_repo provides the PostgreSQL implementation of the
// payment allocation repository.
package payment_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/payments"
	"github.com/Jcrispin99/gym-app-sub000/internal/infrastructure/storage/postgres"
)

const allocationsTable = "payment_allocations"

var allocationColumns = []string{
	"id", "document_id", "method", "amount", "reference",
	"session_id", "user_id", "created_at",
}

// PaymentRepo implements payments.Repository.
type PaymentRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewPaymentRepo creates a new payment allocation repository.
func NewPaymentRepo(txm *postgres.TxManager) *PaymentRepo {
	return &PaymentRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateBatch inserts allocations in one statement.
func (r *PaymentRepo) CreateBatch(ctx context.Context, allocs []payments.Allocation) error {
	if len(allocs) == 0 {
		return nil
	}

	q := r.builder.Insert(allocationsTable).Columns(allocationColumns...)
	for _, a := range allocs {
		q = q.Values(a.ID, a.DocumentID, a.Method, a.Amount, a.Reference,
			a.SessionID, a.UserID, a.CreatedAt)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert allocations: %w", err)
	}

	return nil
}

// GetByDocument retrieves allocations for a document.
func (r *PaymentRepo) GetByDocument(ctx context.Context, documentID id.ID) ([]payments.Allocation, error) {
	q := r.builder.Select(allocationColumns...).
		From(allocationsTable).
		Where(squirrel.Eq{"document_id": documentID}).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var allocs []payments.Allocation
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &allocs, sql, args...); err != nil {
		return nil, fmt.Errorf("select allocations: %w", err)
	}

	return allocs, nil
}

// SumByDocument returns the net allocated amount for a document.
func (r *PaymentRepo) SumByDocument(ctx context.Context, documentID id.ID) (types.Money, error) {
	sql := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payment_allocations
		WHERE document_id = $1
	`

	var sum decimal.Decimal
	err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, documentID).Scan(&sum)
	if err != nil && err != pgx.ErrNoRows {
		return types.Zero(), fmt.Errorf("sum allocations: %w", err)
	}

	return sum, nil
}

// Ensure interface compliance.
var _ payments.Repository = (*PaymentRepo)(nil)
