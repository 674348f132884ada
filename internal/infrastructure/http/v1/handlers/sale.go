package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/apperror"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/documents/sale"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/tax"
	"github.com/Jcrispin99/gym-app-sub000/internal/infrastructure/http/v1/dto"
)

// SaleHandler serves sale and credit-note endpoints.
type SaleHandler struct {
	*BaseDocumentHandler[*sale.Sale]
	service *sale.Service
	rates   tax.RateTable
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(base *BaseHandler, service *sale.Service, rates tax.RateTable) *SaleHandler {
	return &SaleHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, service,
			func(doc *sale.Sale) any { return dto.FromSale(doc) }),
		service: service,
		rates:   rates,
	}
}

// Create handles POST /sales
func (h *SaleHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := req.ToSale(c.Request.Context(), h.rates)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid request").WithDetail("error", err.Error()))
		return
	}
	doc.CreatedBy = h.GetUserID(c)
	doc.UpdatedBy = doc.CreatedBy

	if err := h.service.Create(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromSale(doc))
}

// CreateCreditNote handles POST /sales/:id/credit-notes
func (h *SaleHandler) CreateCreditNote(c *gin.Context) {
	originID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.CreateCreditNoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	lines, err := req.ToLines()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid request").WithDetail("error", err.Error()))
		return
	}

	note, err := h.service.CreateCreditNote(c.Request.Context(), originID, lines)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromSale(note))
}

// Update handles PUT /sales/:id
func (h *SaleHandler) Update(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.UpdateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := req.Apply(c.Request.Context(), h.rates, doc); err != nil {
		h.Error(c, apperror.NewValidation("invalid request").WithDetail("error", err.Error()))
		return
	}
	doc.UpdatedBy = h.GetUserID(c)

	if err := h.service.Update(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSale(doc))
}

// List handles GET /sales
func (h *SaleHandler) List(c *gin.Context) {
	var query dto.SaleListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter, err := query.ToFilter()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(result, dto.FromSale))
}

// Availability handles GET /sales/:id/availability
// Advisory preview of how much of the sale can still be credited.
func (h *SaleHandler) Availability(c *gin.Context) {
	originID, ok := h.ParseID(c)
	if !ok {
		return
	}

	items, err := h.service.AvailableQty(c.Request.Context(), originID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromAvailability(items))
}

// GetByNumber handles GET /sales/number/:serie/:correlative
func (h *SaleHandler) GetByNumber(c *gin.Context) {
	correlative, err := strconv.ParseInt(c.Param("correlative"), 10, 64)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid correlative"))
		return
	}

	doc, err := h.service.GetByNumber(c.Request.Context(), c.Param("serie"), correlative)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromSale(doc))
}

// RegisterRoutes registers sale routes.
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.GET("/number/:serie/:correlative", h.GetByNumber)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/post", h.Post)
	rg.POST("/:id/cancel", h.Cancel)
	rg.GET("/:id/availability", h.Availability)
	rg.POST("/:id/credit-notes", h.CreateCreditNote)
}
