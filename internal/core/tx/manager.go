// Package tx defines the transaction boundary the domain layer depends
// on. The pgx-backed implementation lives in
// infrastructure/storage/postgres; domain services only ever see this
// interface.
package tx

import "context"

// Manager runs a function inside a database transaction.
//
// fn's error rolls the transaction back, nil commits it. A nested call
// joins the transaction already open in ctx instead of starting a new
// one, so a posting flow can compose service calls that each demand
// transactionality.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager is implemented by managers that can also open
// read-only transactions for multi-statement consistent reads.
type ReadOnlyManager interface {
	Manager

	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
