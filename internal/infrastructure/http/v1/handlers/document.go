package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/apperror"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
)

// DocumentService is the id-driven surface shared by document services.
type DocumentService[T any] interface {
	GetByID(ctx context.Context, docID id.ID) (T, error)
	Delete(ctx context.Context, docID id.ID) error
	Post(ctx context.Context, docID id.ID) error
	Cancel(ctx context.Context, docID id.ID) error
}

// BaseDocumentHandler provides HTTP handlers for the lifecycle
// operations every document type shares: fetch, delete, post, cancel.
// Create/update need type-specific DTO mapping and live in the
// concrete handlers that embed this one.
type BaseDocumentHandler[T any] struct {
	*BaseHandler
	service  DocumentService[T]
	mapToDTO func(doc T) any
}

// NewBaseDocumentHandler creates a new base document handler.
func NewBaseDocumentHandler[T any](
	base *BaseHandler,
	service DocumentService[T],
	mapToDTO func(doc T) any,
) *BaseDocumentHandler[T] {
	return &BaseDocumentHandler[T]{
		BaseHandler: base,
		service:     service,
		mapToDTO:    mapToDTO,
	}
}

// ParseID parses the :id path parameter.
func (h *BaseDocumentHandler[T]) ParseID(c *gin.Context) (id.ID, bool) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return id.Nil(), false
	}
	return docID, true
}

// Get handles GET /{entity}/:id
func (h *BaseDocumentHandler[T]) Get(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, h.mapToDTO(doc))
}

// Delete handles DELETE /{entity}/:id
func (h *BaseDocumentHandler[T]) Delete(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// Post handles POST /{entity}/:id/post
func (h *BaseDocumentHandler[T]) Post(c *gin.Context) {
	h.transition(c, h.service.Post)
}

// Cancel handles POST /{entity}/:id/cancel
func (h *BaseDocumentHandler[T]) Cancel(c *gin.Context) {
	h.transition(c, h.service.Cancel)
}

func (h *BaseDocumentHandler[T]) transition(c *gin.Context, op func(ctx context.Context, docID id.ID) error) {
	ctx := c.Request.Context()

	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := op(ctx, docID); err != nil {
		h.Error(c, err)
		return
	}

	// Return updated document
	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, h.mapToDTO(doc))
}
