// Package ledger_repo provides the PostgreSQL implementation of the
// inventory ledger repository.
package ledger_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/entity"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/ledger"
	"github.com/Jcrispin99/gym-app-sub000/internal/infrastructure/storage/postgres"
)

const (
	movementsTable = "inv_movements"
	balancesTable  = "inv_balances"
)

var movementColumns = []string{
	"line_id", "document_id", "document_type", "compensation",
	"period", "movement_type",
	"product_id", "location_id",
	"quantity", "unit_cost", "total_cost",
	"balance_qty", "balance_cost", "average_cost",
	"created_at",
}

var balanceColumns = []string{
	"product_id", "location_id",
	"quantity", "total_cost", "average_cost",
	"last_movement_at", "updated_at",
}

// LedgerRepo implements ledger.Repository.
type LedgerRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewLedgerRepo creates a new ledger repository.
func NewLedgerRepo(txm *postgres.TxManager) *LedgerRepo {
	return &LedgerRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateMovements batch inserts ledger rows.
func (r *LedgerRepo) CreateMovements(ctx context.Context, movements []entity.Movement) error {
	if len(movements) == 0 {
		return nil
	}

	// Fast path: COPY when inside a transaction.
	if tx := r.txm.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(r.txm)
		rows := make([][]any, 0, len(movements))
		for _, m := range movements {
			rows = append(rows, movementValues(m))
		}
		if _, err := inserter.CopyFromSlice(ctx, movementsTable, movementColumns, rows); err != nil {
			return fmt.Errorf("copy movements: %w", err)
		}
		return nil
	}

	// Fallback: non-transactional insert. Prefer calling within tx.
	q := r.builder.Insert(movementsTable).Columns(movementColumns...)
	for _, m := range movements {
		q = q.Values(movementValues(m)...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movements: %w", err)
	}

	return nil
}

func movementValues(m entity.Movement) []any {
	return []any{
		m.LineID, m.DocumentID, m.DocumentType, m.Compensation,
		m.Period, m.MovementType,
		m.ProductID, m.LocationID,
		m.Quantity, m.UnitCost, m.TotalCost,
		m.BalanceQty, m.BalanceCost, m.AverageCost,
		m.CreatedAt,
	}
}

// GetMovementsByDocument retrieves ledger rows for a document, in
// insertion order.
func (r *LedgerRepo) GetMovementsByDocument(ctx context.Context, documentID id.ID) ([]entity.Movement, error) {
	q := r.builder.Select(movementColumns...).
		From(movementsTable).
		Where(squirrel.Eq{"document_id": documentID}).
		OrderBy("created_at", "line_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.Movement
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}

	return movements, nil
}

// GetMovementHistory returns ledger rows for a product.
func (r *LedgerRepo) GetMovementHistory(ctx context.Context, productID id.ID, filter ledger.MovementFilter) ([]entity.Movement, error) {
	q := r.builder.Select(movementColumns...).
		From(movementsTable).
		Where(squirrel.Eq{"product_id": productID})

	if filter.LocationID != nil {
		q = q.Where(squirrel.Eq{"location_id": *filter.LocationID})
	}

	if filter.MovementType != nil {
		q = q.Where(squirrel.Eq{"movement_type": *filter.MovementType})
	}

	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"period": *filter.FromDate})
	}

	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"period": *filter.ToDate})
	}

	q = q.OrderBy("period DESC", "created_at DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.Movement
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}

	return movements, nil
}

// GetBalance returns current balance for product+location.
// Missing rows come back as a zero-state.
func (r *LedgerRepo) GetBalance(ctx context.Context, productID, locationID id.ID) (entity.InventoryBalance, error) {
	var balance entity.InventoryBalance

	q := r.builder.Select(balanceColumns...).
		From(balancesTable).
		Where(squirrel.Eq{
			"product_id":  productID,
			"location_id": locationID,
		}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return balance, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &balance, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return zeroBalance(productID, locationID), nil
		}
		return balance, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

// LockBalance ensures the balance row exists and locks it FOR UPDATE.
// Must run inside a transaction.
func (r *LedgerRepo) LockBalance(ctx context.Context, productID, locationID id.ID) (entity.InventoryBalance, error) {
	var balance entity.InventoryBalance

	if r.txm.GetTx(ctx) == nil {
		return balance, fmt.Errorf("LockBalance requires an active transaction")
	}

	querier := r.txm.GetQuerier(ctx)

	ensureSQL := `
		INSERT INTO inv_balances (
			product_id, location_id,
			quantity, total_cost, average_cost,
			last_movement_at, updated_at
		)
		VALUES ($1, $2, 0, 0, 0, NOW(), NOW())
		ON CONFLICT (product_id, location_id) DO NOTHING
	`
	if _, err := querier.Exec(ctx, ensureSQL, productID, locationID); err != nil {
		return balance, fmt.Errorf("ensure balance row: %w", err)
	}

	lockSQL := `
		SELECT product_id, location_id,
		       quantity, total_cost, average_cost,
		       last_movement_at, updated_at
		FROM inv_balances
		WHERE product_id = $1 AND location_id = $2
		FOR UPDATE
	`
	if err := pgxscan.Get(ctx, querier, &balance, lockSQL, productID, locationID); err != nil {
		return balance, fmt.Errorf("lock balance: %w", err)
	}

	return balance, nil
}

// UpdateBalance writes the post-append state for a locked row.
func (r *LedgerRepo) UpdateBalance(ctx context.Context, balance entity.InventoryBalance) error {
	q := r.builder.Update(balancesTable).
		Set("quantity", balance.Quantity).
		Set("total_cost", balance.TotalCost).
		Set("average_cost", balance.AverageCost).
		Set("last_movement_at", balance.LastMovementAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"product_id":  balance.ProductID,
			"location_id": balance.LocationID,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("balance row missing for product %s location %s", balance.ProductID, balance.LocationID)
	}

	return nil
}

// GetBalancesByLocation returns balances for a location.
func (r *LedgerRepo) GetBalancesByLocation(ctx context.Context, locationID id.ID, filter ledger.BalanceFilter) ([]entity.InventoryBalance, error) {
	q := r.builder.Select(balanceColumns...).
		From(balancesTable).
		Where(squirrel.Eq{"location_id": locationID})

	if filter.ExcludeZero {
		q = q.Where(squirrel.NotEq{"quantity": int64(0)})
	}

	if len(filter.ProductIDs) > 0 {
		q = q.Where(squirrel.Eq{"product_id": filter.ProductIDs})
	}

	if filter.MinQuantity != nil {
		q = q.Where(squirrel.GtOrEq{"quantity": filter.MinQuantity.Int64Scaled()})
	}

	q = q.OrderBy("product_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var balances []entity.InventoryBalance
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("select balances: %w", err)
	}

	return balances, nil
}

// GetBalancesByProduct returns non-zero balances across locations.
func (r *LedgerRepo) GetBalancesByProduct(ctx context.Context, productID id.ID) ([]entity.InventoryBalance, error) {
	q := r.builder.Select(balanceColumns...).
		From(balancesTable).
		Where(squirrel.Eq{"product_id": productID}).
		Where(squirrel.NotEq{"quantity": int64(0)}).
		OrderBy("location_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var balances []entity.InventoryBalance
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("select balances: %w", err)
	}

	return balances, nil
}

// RecalculateBalance rebuilds one balance row from the ledger.
// Every movement carries its running state, so the latest row is the
// authoritative balance.
func (r *LedgerRepo) RecalculateBalance(ctx context.Context, productID, locationID id.ID) error {
	return r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := r.LockBalance(ctx, productID, locationID); err != nil {
			return err
		}

		querier := r.txm.GetQuerier(ctx)

		lastSQL := `
			SELECT balance_qty, balance_cost, average_cost, created_at
			FROM inv_movements
			WHERE product_id = $1 AND location_id = $2
			ORDER BY created_at DESC, line_id DESC
			LIMIT 1
		`

		var (
			qtyScaled   int64
			totalCost   types.Money
			averageCost types.Money
			movedAt     time.Time
		)
		err := querier.QueryRow(ctx, lastSQL, productID, locationID).
			Scan(&qtyScaled, &totalCost, &averageCost, &movedAt)
		if err == pgx.ErrNoRows {
			qtyScaled = 0
			totalCost = types.Zero()
			averageCost = types.Zero()
			movedAt = time.Now().UTC()
		} else if err != nil {
			return fmt.Errorf("read last movement: %w", err)
		}

		return r.UpdateBalance(ctx, entity.InventoryBalance{
			ProductID:      productID,
			LocationID:     locationID,
			Quantity:       types.NewQuantityFromInt64Scaled(qtyScaled),
			TotalCost:      totalCost,
			AverageCost:    averageCost,
			LastMovementAt: movedAt,
		})
	})
}

func zeroBalance(productID, locationID id.ID) entity.InventoryBalance {
	return entity.InventoryBalance{
		ProductID:   productID,
		LocationID:  locationID,
		Quantity:    0,
		TotalCost:   types.Zero(),
		AverageCost: types.Zero(),
	}
}

// Ensure interface compliance.
var _ ledger.Repository = (*LedgerRepo)(nil)
