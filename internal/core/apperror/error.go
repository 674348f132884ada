// Package apperror provides structured error handling following RFC 7807 Problem Details.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes following domain-driven design
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"

	// Validation errors (400)
	CodeValidation = "VALIDATION_ERROR"

	// Business rule violations (422)
	CodeDocumentNotDraft       = "DOCUMENT_NOT_DRAFT"
	CodeDocumentNotPosted      = "DOCUMENT_NOT_POSTED"
	CodeCreditExceedsAvailable = "CREDIT_EXCEEDS_AVAILABLE"
	CodeOriginNotReturnable    = "ORIGIN_NOT_RETURNABLE"
	CodePaymentMismatch        = "PAYMENT_MISMATCH"
	CodeLedgerIntegrity        = "LEDGER_INTEGRITY_VIOLATION"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"

	// Authorization errors (401, 403)
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeDuplicate = "DUPLICATE_ENTRY"
)

// AppError is the standard error type for the platform.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, quantities, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error renders code, message, and cause for logs.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail attaches a key-value pair for the response body.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// --- Factory functions for common errors ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewDocumentNotDraft signals a post() attempt on a non-draft document.
func NewDocumentNotDraft(documentID, status string) *AppError {
	return &AppError{
		Code:       CodeDocumentNotDraft,
		Message:    "Only draft documents can be posted",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"document_id": documentID,
			"status":      status,
		},
	}
}

// NewDocumentNotPosted signals a cancel() attempt on a non-posted document.
func NewDocumentNotPosted(documentID, status string) *AppError {
	return &AppError{
		Code:       CodeDocumentNotPosted,
		Message:    "Only posted documents can be cancelled",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"document_id": documentID,
			"status":      status,
		},
	}
}

// NewCreditExceedsAvailable signals a credit-note line asking for more quantity
// than the origin sale still has available.
func NewCreditExceedsAvailable(productID string, requested, available string) *AppError {
	return &AppError{
		Code:       CodeCreditExceedsAvailable,
		Message:    "Credit quantity exceeds available quantity on origin sale",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"product_id": productID,
			"requested":  requested,
			"available":  available,
		},
	}
}

// NewOriginNotReturnable signals a credit note whose origin document cannot be credited.
func NewOriginNotReturnable(originID, reason string) *AppError {
	return &AppError{
		Code:       CodeOriginNotReturnable,
		Message:    "Origin document cannot be credited",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"origin_id": originID,
			"reason":    reason,
		},
	}
}

// NewPaymentMismatch signals a settlement amount outside the 0.01 tolerance.
func NewPaymentMismatch(expected, got string) *AppError {
	return &AppError{
		Code:       CodePaymentMismatch,
		Message:    "Payment amount does not match the settlement split",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"expected": expected,
			"got":      got,
		},
	}
}

// NewLedgerIntegrity signals a movement whose balance does not reconcile with
// its history. Fatal: the enclosing transaction must abort.
func NewLedgerIntegrity(productID, locationID string, err error) *AppError {
	return &AppError{
		Code:       CodeLedgerIntegrity,
		Message:    "Ledger balance does not reconcile with movement history",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
		Details: map[string]any{
			"product_id":  productID,
			"location_id": locationID,
		},
	}
}

// NewConcurrentModification creates an optimistic locking error
func NewConcurrentModification(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeConcurrentModification,
		Message:    "Record was modified by another user. Please refresh and try again.",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUnauthorized creates an authentication error (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbidden creates an authorization error (403)
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// NewDuplicate creates a duplicate entry error (409)
func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:       CodeDuplicate,
		Message:    fmt.Sprintf("%s with this %s already exists", entity, field),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// --- Helper functions ---

// AsAppError pulls the first AppError out of the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
