package handler

import (
	"net/http"

	"legofactory/internal/apierror"
	"legofactory/internal/dto"
	"legofactory/internal/service"

	"github.com/gin-gonic/gin"
)

type StockHandler struct {
	svc service.StockService
}

func NewStockHandler(svc service.StockService) *StockHandler {
	return &StockHandler{svc: svc}
}

// ListLevels returns on-hand quantities at one location, optionally
// filtered by item type.
func (h *StockHandler) ListLevels(c *gin.Context) {
	var filter dto.StockFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if filter.LocationID < 1 {
		c.JSON(http.StatusBadRequest, apierror.New("location query parameter is required"))
		return
	}
	levels, err := h.svc.ListLevels(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": levels})
}

// AdjustStock applies a manual delta to one stock level. Negative deltas
// that would drive the quantity below zero come back as 409.
func (h *StockHandler) AdjustStock(c *gin.Context) {
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.AdjustStock(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMovements returns the paginated stock movement trail.
func (h *StockHandler) ListMovements(c *gin.Context) {
	var filter dto.StockMovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
