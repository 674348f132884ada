// Package returns_repo provides the PostgreSQL implementation of the
// return reconciliation repository. It reads the sale tables directly;
// credit notes are sales rows with origin_id set.
package returns_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/apperror"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/entity"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/returns"
	"github.com/Jcrispin99/gym-app-sub000/internal/infrastructure/storage/postgres"
)

// ReturnsRepo implements returns.Repository.
type ReturnsRepo struct {
	txm *postgres.TxManager
}

// NewReturnsRepo creates a new return reconciliation repository.
func NewReturnsRepo(txm *postgres.TxManager) *ReturnsRepo {
	return &ReturnsRepo{txm: txm}
}

type originRow struct {
	ID          id.ID                 `db:"id"`
	Status      entity.DocumentStatus `db:"status"`
	Serie       string                `db:"serie"`
	Correlative int64                 `db:"correlative"`
	OriginID    *id.ID                `db:"origin_id"`
}

// GetOrigin loads the reconciliation view of an origin sale.
// With lock set the document row is locked FOR UPDATE, serializing
// concurrent credit notes against the same origin.
func (r *ReturnsRepo) GetOrigin(ctx context.Context, originID id.ID, lock bool) (*returns.Origin, error) {
	querier := r.txm.GetQuerier(ctx)

	docSQL := `
		SELECT id, status, serie, correlative, origin_id
		FROM doc_sales
		WHERE id = $1 AND deletion_mark = false
	`
	if lock {
		if r.txm.GetTx(ctx) == nil {
			return nil, fmt.Errorf("GetOrigin with lock requires an active transaction")
		}
		docSQL += " FOR UPDATE"
	}

	var row originRow
	if err := pgxscan.Get(ctx, querier, &row, docSQL, originID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("doc_sales", originID.String())
		}
		return nil, fmt.Errorf("get origin: %w", err)
	}

	soldSQL := `
		SELECT product_id, SUM(quantity)
		FROM doc_sale_lines
		WHERE document_id = $1
		GROUP BY product_id
	`
	sold, err := r.sumByProduct(ctx, soldSQL, originID)
	if err != nil {
		return nil, fmt.Errorf("sold quantities: %w", err)
	}

	return &returns.Origin{
		ID:          row.ID,
		Status:      row.Status,
		Serie:       row.Serie,
		Correlative: row.Correlative,
		CreditNote:  row.OriginID != nil,
		SoldQty:     sold,
	}, nil
}

// CreditedQuantities sums line quantities per product across all posted
// credit notes whose origin is originID.
func (r *ReturnsRepo) CreditedQuantities(ctx context.Context, originID id.ID) (map[id.ID]types.Quantity, error) {
	sql := `
		SELECT l.product_id, SUM(l.quantity)
		FROM doc_sale_lines l
		JOIN doc_sales d ON d.id = l.document_id
		WHERE d.origin_id = $1
		  AND d.status = 'posted'
		  AND d.deletion_mark = false
		GROUP BY l.product_id
	`
	return r.sumByProduct(ctx, sql, originID)
}

func (r *ReturnsRepo) sumByProduct(ctx context.Context, sql string, originID id.ID) (map[id.ID]types.Quantity, error) {
	rows, err := r.txm.GetQuerier(ctx).Query(ctx, sql, originID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return map[id.ID]types.Quantity{}, nil
		}
		return nil, err
	}
	defer rows.Close()

	out := make(map[id.ID]types.Quantity)
	for rows.Next() {
		var (
			productID id.ID
			qtyScaled int64
		)
		if err := rows.Scan(&productID, &qtyScaled); err != nil {
			return nil, err
		}
		out[productID] = types.NewQuantityFromInt64Scaled(qtyScaled)
	}
	return out, rows.Err()
}

// Ensure interface compliance.
var _ returns.Repository = (*ReturnsRepo)(nil)
