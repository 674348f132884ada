// Package entity holds the persistent types the domain is built on:
// the document base, the ledger movement and the materialized balance.
package entity

import (
	"context"
	"time"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
)

// Validatable is implemented by entities that can check their own
// invariants without touching the database.
type Validatable interface {
	Validate(ctx context.Context) error
}

// BaseEntity carries the fields every persistent entity shares.
//
// Version backs optimistic locking. Entities never change it: the
// repository increments it in the UPDATE statement and matches the
// in-memory value in the WHERE clause, so a stale write affects zero
// rows instead of clobbering a concurrent change.
type BaseEntity struct {
	ID id.ID `db:"id" json:"id"`

	// DeletionMark soft-deletes; rows are never physically removed
	DeletionMark bool `db:"deletion_mark" json:"deletionMark"`

	Version int `db:"version" json:"version"`
}

// NewBaseEntity returns a base with a fresh id at version 1.
func NewBaseEntity() BaseEntity {
	return BaseEntity{
		ID:      id.New(),
		Version: 1,
	}
}

// BaseDocument adds audit fields on top of BaseEntity.
type BaseDocument struct {
	BaseEntity

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`
	UpdatedBy string    `db:"updated_by" json:"updatedBy,omitempty"`
}

// NewBaseDocument returns a base document with id and timestamps set.
func NewBaseDocument() BaseDocument {
	now := time.Now().UTC()
	return BaseDocument{
		BaseEntity: NewBaseEntity(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// SetUpdatedAt records a modification time. The repository writes its
// own NOW() on UPDATE; this keeps the in-memory copy consistent.
func (b *BaseDocument) SetUpdatedAt(t time.Time) {
	b.UpdatedAt = t
}
