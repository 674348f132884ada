package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// BatchInserter bulk-inserts rows over the COPY protocol. Posting a
// document writes all of its ledger rows in one shot; COPY keeps that
// a single round-trip regardless of line count.
//
// COPY only works on a connection we own for the duration, so the
// inserter requires an open transaction in ctx.
type BatchInserter struct {
	txManager *TxManager
}

// NewBatchInserter creates a batch inserter bound to the tx manager.
func NewBatchInserter(txManager *TxManager) *BatchInserter {
	return &BatchInserter{txManager: txManager}
}

// CopyFromSlice inserts rows into table. Each row must match columns
// positionally. Returns the number of rows written.
func (b *BatchInserter) CopyFromSlice(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	tx := b.txManager.GetTx(ctx)
	if tx == nil {
		return 0, fmt.Errorf("CopyFromSlice requires an open transaction")
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return n, fmt.Errorf("copy into %s: %w", table, err)
	}
	return n, nil
}
