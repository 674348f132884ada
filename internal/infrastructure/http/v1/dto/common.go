// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/entity"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain"
)

// --- Pagination ---

// PaginationRequest contains pagination parameters.
type PaginationRequest struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// Defaults sets default pagination values.
func (p *PaginationRequest) Defaults() {
	if p.Limit == 0 {
		p.Limit = 50
	}
}

// --- List Response ---

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// NewListResponse maps a domain list result, converting each item.
func NewListResponse[T, R any](result domain.ListResult[T], mapFn func(T) R) ListResponse {
	items := make([]R, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, mapFn(item))
	}
	return ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	}
}

// --- Common Filters ---

// ListQuery contains common document list parameters.
type ListQuery struct {
	PaginationRequest

	Search     string     `form:"search"`
	Status     string     `form:"status" binding:"omitempty,oneof=draft posted cancelled"`
	LocationID string     `form:"locationId" binding:"omitempty,uuid"`
	DateFrom   *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo     *time.Time `form:"dateTo" time_format:"2006-01-02"`
	OrderBy    string     `form:"orderBy"`
}

// ToFilter converts query parameters to a domain filter.
func (q *ListQuery) ToFilter() (domain.ListFilter, error) {
	q.Defaults()

	filter := domain.DefaultListFilter()
	filter.Search = q.Search
	filter.Status = entity.DocumentStatus(q.Status)
	filter.DateFrom = q.DateFrom
	filter.DateTo = q.DateTo
	filter.Limit = q.Limit
	filter.Offset = q.Offset
	if q.OrderBy != "" {
		filter.OrderBy = q.OrderBy
	}

	if q.LocationID != "" {
		locID, err := id.Parse(q.LocationID)
		if err != nil {
			return filter, err
		}
		filter.LocationID = &locID
	}

	return filter, nil
}

// --- Document DTOs ---

// DocumentResponse contains fields common to all documents.
type DocumentResponse struct {
	ID          string     `json:"id"`
	Number      string     `json:"number,omitempty"`
	Serie       string     `json:"serie,omitempty"`
	Correlative int64      `json:"correlative,omitempty"`
	Date        time.Time  `json:"date"`
	Status      string     `json:"status"`
	PostedAt    *time.Time `json:"postedAt,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
	LocationID  string     `json:"locationId"`
	Comment     string     `json:"comment,omitempty"`
	Version     int        `json:"version"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// FromDocument creates DocumentResponse from entity.Document.
func FromDocument(d entity.Document) DocumentResponse {
	return DocumentResponse{
		ID:          d.ID.String(),
		Number:      d.Number(),
		Serie:       d.Serie,
		Correlative: d.Correlative,
		Date:        d.Date,
		Status:      string(d.Status),
		PostedAt:    d.PostedAt,
		CancelledAt: d.CancelledAt,
		LocationID:  d.LocationID.String(),
		Comment:     d.Comment,
		Version:     d.Version,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// --- ID Response ---

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
