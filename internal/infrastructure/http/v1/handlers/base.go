// Package handlers provides HTTP request handlers for API v1.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/apperror"
	appctx "github.com/Jcrispin99/gym-app-sub000/internal/core/context"
)

// BaseHandler carries the request helpers shared by every handler:
// binding, error reporting, and the standard response shapes.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON decodes the request body into obj. On failure it reports a
// validation error and returns false; the caller should bail out.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}
	h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
	return false
}

// BindQuery decodes query parameters into obj, reporting a validation
// error on failure.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	err := c.ShouldBindQuery(obj)
	if err == nil {
		return true
	}
	h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
	return false
}

// Error records err on the gin context and stops the chain. Handlers
// never write error JSON themselves; middleware.ErrorHandler renders
// every error so the response shape stays uniform.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParseIntQuery reads an integer query parameter, falling back to
// defaultVal when absent or malformed.
func (h *BaseHandler) ParseIntQuery(c *gin.Context, key string, defaultVal int) int {
	raw := c.Query(key)
	if raw == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}
	return n
}

// GetUserID returns the authenticated user's ID from the request
// context, or empty when unauthenticated.
func (h *BaseHandler) GetUserID(c *gin.Context) string {
	return appctx.GetUserID(c.Request.Context())
}

// OK writes a 200 with data as the body.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// NoContent writes a 204.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
