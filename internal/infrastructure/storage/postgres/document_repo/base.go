// Package document_repo implements the PostgreSQL persistence for
// documents. BaseDocumentRepo carries the CRUD and list plumbing
// shared by every document table; the concrete repos add their own
// queries on top.
package document_repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/apperror"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain"
	"github.com/Jcrispin99/gym-app-sub000/internal/infrastructure/storage/postgres"
)

// BaseDocumentRepo is a generic repository over one document table.
// T is the entity pointer type; newFn allocates an empty one for
// scanning.
type BaseDocumentRepo[T any] struct {
	txm        *postgres.TxManager
	tableName  string
	selectCols []string
	newFn      func() T
}

// NewBaseDocumentRepo builds a repository for tableName with the
// given column set.
func NewBaseDocumentRepo[T any](
	txm *postgres.TxManager,
	tableName string,
	selectCols []string,
	newFn func() T,
) *BaseDocumentRepo[T] {
	return &BaseDocumentRepo[T]{
		txm:        txm,
		tableName:  tableName,
		selectCols: selectCols,
		newFn:      newFn,
	}
}

// Builder returns a squirrel builder with PostgreSQL placeholders.
func (r *BaseDocumentRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Querier returns the transaction open in ctx, or the pool.
func (r *BaseDocumentRepo[T]) Querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// columnValues maps the entity's db-tagged fields onto this table's
// columns, dropping any listed in skip.
func (r *BaseDocumentRepo[T]) columnValues(entity T, skip ...string) (map[string]any, error) {
	data := postgres.StructToMap(entity)
	if len(data) == 0 {
		return nil, fmt.Errorf("entity %T has no db tags", entity)
	}

	out := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		val, ok := data[col]
		if !ok {
			continue
		}
		skipped := false
		for _, s := range skip {
			if col == s {
				skipped = true
				break
			}
		}
		if !skipped {
			out[col] = val
		}
	}
	return out, nil
}

// Create inserts the document.
func (r *BaseDocumentRepo[T]) Create(ctx context.Context, entity T) error {
	values, err := r.columnValues(entity)
	if err != nil {
		return err
	}

	sql, args, err := r.Builder().Insert(r.tableName).SetMap(values).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate(r.tableName, "number", pgErr.Detail)
		}
		return fmt.Errorf("insert %s: %w", r.tableName, err)
	}
	return nil
}

// Update writes the document back, guarded by its version. The
// version bump and updated_at happen here, never in the entity, so a
// stale write always misses the row and surfaces as a conflict.
func (r *BaseDocumentRepo[T]) Update(ctx context.Context, entity T) error {
	data := postgres.StructToMap(entity)
	entityID, ok := data["id"]
	if !ok {
		return fmt.Errorf("entity %T has no id column", entity)
	}
	version, ok := data["version"].(int)
	if !ok {
		return fmt.Errorf("entity %T has no int version column", entity)
	}

	values, err := r.columnValues(entity,
		"id", "version", "created_at", "created_by", "updated_at")
	if err != nil {
		return err
	}

	sql, args, err := r.Builder().
		Update(r.tableName).
		SetMap(values).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": entityID, "version": version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.tableName, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(r.tableName, entityID)
	}
	return nil
}

// Delete marks the document deleted. Rows are never removed; posted
// documents are referenced by ledger movements.
func (r *BaseDocumentRepo[T]) Delete(ctx context.Context, entityID id.ID) error {
	sql, args, err := r.Builder().
		Update(r.tableName).
		Set("deletion_mark", true).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": entityID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.tableName, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound(r.tableName, entityID.String())
	}
	return nil
}

func (r *BaseDocumentRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().Select(r.selectCols...).From(r.tableName)
}

func (r *BaseDocumentRepo[T]) getOne(ctx context.Context, q squirrel.SelectBuilder, key string) (T, error) {
	entity := r.newFn()

	sql, args, err := q.ToSql()
	if err != nil {
		return entity, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.Querier(ctx), entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity, apperror.NewNotFound(r.tableName, key)
		}
		return entity, fmt.Errorf("select %s: %w", r.tableName, err)
	}
	return entity, nil
}

// GetByID fetches one document by primary key.
func (r *BaseDocumentRepo[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	q := r.baseSelect().Where(squirrel.Eq{"id": entityID})
	return r.getOne(ctx, q, entityID.String())
}

// GetByNumber fetches one document by its serie and correlative.
func (r *BaseDocumentRepo[T]) GetByNumber(ctx context.Context, serie string, correlative int64) (T, error) {
	q := r.baseSelect().Where(squirrel.Eq{"serie": serie, "correlative": correlative})
	return r.getOne(ctx, q, fmt.Sprintf("%s-%d", serie, correlative))
}

// GetForUpdate fetches one document holding its row lock until the
// surrounding transaction ends. Callers must already be inside one.
func (r *BaseDocumentRepo[T]) GetForUpdate(ctx context.Context, entityID id.ID) (T, error) {
	q := r.baseSelect().Where(squirrel.Eq{"id": entityID}).Suffix("FOR UPDATE")
	return r.getOne(ctx, q, entityID.String())
}

// applyFilter translates the shared list filter into predicates.
func (r *BaseDocumentRepo[T]) applyFilter(q squirrel.SelectBuilder, filter domain.ListFilter) squirrel.SelectBuilder {
	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}
	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.LocationID != nil {
		q = q.Where(squirrel.Eq{"location_id": *filter.LocationID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"serie": pattern},
			squirrel.ILike{"comment": pattern},
		})
	}
	return q
}

// List returns a page of documents matching the filter.
func (r *BaseDocumentRepo[T]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error) {
	return r.ListWhere(ctx, filter)
}

// ListWhere is List with additional predicates, for concrete repos
// that filter on their own columns.
func (r *BaseDocumentRepo[T]) ListWhere(ctx context.Context, filter domain.ListFilter, extra ...squirrel.Sqlizer) (domain.ListResult[T], error) {
	result := domain.ListResult[T]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.applyFilter(r.baseSelect(), filter)
	for _, pred := range extra {
		q = q.Where(pred)
	}

	// Total over the same predicates, before paging.
	countSQL, countArgs, err := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.Querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count %s: %w", r.tableName, err)
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list %s: %w", r.tableName, err)
	}
	return result, nil
}

// parseOrderBy validates user-supplied sorting against the column
// whitelist. Anything else is rejected rather than interpolated.
func (r *BaseDocumentRepo[T]) parseOrderBy(orderBy string) (string, error) {
	if strings.TrimSpace(orderBy) == "" {
		return "date DESC, correlative DESC", nil
	}

	field := orderBy
	direction := "ASC"
	switch {
	case strings.HasPrefix(orderBy, "-"):
		field = orderBy[1:]
		direction = "DESC"
	case strings.HasPrefix(orderBy, "+"):
		field = orderBy[1:]
	}

	field = strings.TrimSpace(field)
	if field == "" || !r.sortable(field) {
		return "", apperror.NewValidation("invalid orderBy").
			WithDetail("orderBy", orderBy)
	}
	return field + " " + direction, nil
}

func (r *BaseDocumentRepo[T]) sortable(field string) bool {
	switch field {
	case "id", "serie", "correlative", "date", "status",
		"created_at", "updated_at", "version":
		return true
	}
	for _, col := range r.selectCols {
		if col == field {
			return true
		}
	}
	return false
}
