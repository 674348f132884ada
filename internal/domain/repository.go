// Package domain holds the business services and the shared
// repository contracts they are written against.
package domain

import (
	"time"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/entity"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
)

// ListFilter is the common filter shape for document list queries.
// Zero values mean "no constraint" except Limit, which callers should
// seed from DefaultListFilter.
type ListFilter struct {
	// Search matches against serie and comment.
	Search string

	IDs    []id.ID
	Status entity.DocumentStatus

	LocationID *id.ID

	// DateFrom and DateTo bound the business date, inclusive.
	DateFrom *time.Time
	DateTo   *time.Time

	// IncludeDeleted also returns soft-deleted rows.
	IncludeDeleted bool

	// OrderBy names a column, with an optional "-" prefix for
	// descending, e.g. "-created_at".
	OrderBy string

	Limit  int
	Offset int
}

// DefaultListFilter returns the defaults used when a request does not
// specify paging: newest documents first, 50 per page.
func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit:   50,
		OrderBy: "-date",
	}
}

// ListResult is a page of items plus the unpaged total.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}
