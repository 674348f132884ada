package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/apperror"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/entity"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/ledger"
	"github.com/Jcrispin99/gym-app-sub000/internal/infrastructure/http/v1/dto"
)

// LedgerHandler serves read-only inventory ledger endpoints.
type LedgerHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewLedgerHandler creates a new ledger handler.
func NewLedgerHandler(base *BaseHandler, service *ledger.Service) *LedgerHandler {
	return &LedgerHandler{BaseHandler: base, service: service}
}

// Balance handles GET /inventory/balances/:productId/:locationId
func (h *LedgerHandler) Balance(c *gin.Context) {
	productID, ok := h.parsePathID(c, "productId")
	if !ok {
		return
	}
	locationID, ok := h.parsePathID(c, "locationId")
	if !ok {
		return
	}

	balance, err := h.service.CurrentBalance(c.Request.Context(), productID, locationID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBalance(balance))
}

// ProductAvailability handles GET /inventory/products/:productId/availability
func (h *LedgerHandler) ProductAvailability(c *gin.Context) {
	productID, ok := h.parsePathID(c, "productId")
	if !ok {
		return
	}

	qty, err := h.service.ProductAvailability(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"productId": productID.String(), "available": qty})
}

// LocationStock handles GET /inventory/locations/:locationId/stock
func (h *LedgerHandler) LocationStock(c *gin.Context) {
	locationID, ok := h.parsePathID(c, "locationId")
	if !ok {
		return
	}

	balances, err := h.service.LocationStock(c.Request.Context(), locationID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBalances(balances))
}

// MovementHistory handles GET /inventory/products/:productId/movements
func (h *LedgerHandler) MovementHistory(c *gin.Context) {
	productID, ok := h.parsePathID(c, "productId")
	if !ok {
		return
	}

	filter, err := h.movementFilter(c)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return
	}

	movements, err := h.service.MovementHistory(c.Request.Context(), productID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromMovements(movements))
}

// DocumentMovements handles GET /inventory/documents/:documentId/movements
func (h *LedgerHandler) DocumentMovements(c *gin.Context) {
	documentID, ok := h.parsePathID(c, "documentId")
	if !ok {
		return
	}

	movements, err := h.service.DocumentMovements(c.Request.Context(), documentID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromMovements(movements))
}

// Recalculate handles POST /inventory/balances/:productId/:locationId/recalculate
// Rebuilds the materialized balance from the movement history.
func (h *LedgerHandler) Recalculate(c *gin.Context) {
	productID, ok := h.parsePathID(c, "productId")
	if !ok {
		return
	}
	locationID, ok := h.parsePathID(c, "locationId")
	if !ok {
		return
	}

	balance, err := h.service.Recalculate(c.Request.Context(), productID, locationID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBalance(balance))
}

func (h *LedgerHandler) parsePathID(c *gin.Context, param string) (id.ID, bool) {
	parsed, err := id.Parse(c.Param(param))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid "+param).WithDetail(param, c.Param(param)))
		return id.ID{}, false
	}
	return parsed, true
}

func (h *LedgerHandler) movementFilter(c *gin.Context) (ledger.MovementFilter, error) {
	filter := ledger.MovementFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if raw := c.Query("locationId"); raw != "" {
		locationID, err := id.Parse(raw)
		if err != nil {
			return filter, err
		}
		filter.LocationID = &locationID
	}
	if raw := c.Query("movementType"); raw != "" {
		mt := entity.MovementType(raw)
		if mt != entity.MovementTypeEntry && mt != entity.MovementTypeExit {
			return filter, apperror.NewValidation("unknown movement type").WithDetail("movementType", raw)
		}
		filter.MovementType = &mt
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, err
		}
		filter.FromDate = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, err
		}
		filter.ToDate = &to
	}
	return filter, nil
}

// RegisterRoutes registers ledger routes.
func (h *LedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/balances/:productId/:locationId", h.Balance)
	rg.GET("/products/:productId/availability", h.ProductAvailability)
	rg.GET("/products/:productId/movements", h.MovementHistory)
	rg.GET("/locations/:locationId/stock", h.LocationStock)
	rg.GET("/documents/:documentId/movements", h.DocumentMovements)
	rg.POST("/balances/:productId/:locationId/recalculate", h.Recalculate)
}
