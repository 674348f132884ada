package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/apperror"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/pos"
	"github.com/Jcrispin99/gym-app-sub000/internal/infrastructure/http/v1/dto"
)

// POSHandler serves point-of-sale exchange endpoints.
type POSHandler struct {
	*BaseHandler
	service *pos.Service
}

// NewPOSHandler creates a new POS handler.
func NewPOSHandler(base *BaseHandler, service *pos.Service) *POSHandler {
	return &POSHandler{BaseHandler: base, service: service}
}

// PreviewExchange handles POST /pos/exchange/preview
//
// The preview is advisory only: availability and totals are re-checked
// under lock when the exchange is executed.
func (h *POSHandler) PreviewExchange(c *gin.Context) {
	var req dto.PreviewExchangeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	originID, returnLines, exchangeLines, err := req.ToPreview()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid request").WithDetail("error", err.Error()))
		return
	}

	split, err := h.service.PreviewReturnExchange(c.Request.Context(), originID, returnLines, exchangeLines)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSplit(split))
}

// Exchange handles POST /pos/exchange
func (h *POSHandler) Exchange(c *gin.Context) {
	var req dto.ExchangeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	domainReq, err := req.ToExchange()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid request").WithDetail("error", err.Error()))
		return
	}
	result, err := h.service.Exchange(c.Request.Context(), domainReq)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromExchangeResult(result))
}

// Payments handles GET /pos/payments/:documentId
func (h *POSHandler) Payments(c *gin.Context) {
	documentID, err := id.Parse(c.Param("documentId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid document id"))
		return
	}

	settlement, err := h.service.Payments(c.Request.Context(), documentID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, settlement)
}

// RegisterRoutes registers POS routes.
func (h *POSHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/exchange/preview", h.PreviewExchange)
	rg.POST("/exchange", h.Exchange)
	rg.GET("/payments/:documentId", h.Payments)
}
