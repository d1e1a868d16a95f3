package handler

import (
	"net/http"

	"legofactory/internal/apierror"
	"legofactory/internal/dto"
	"legofactory/internal/service"

	"github.com/gin-gonic/gin"
)

type WarehouseOrdersHandler struct {
	svc service.WarehouseOrderService
}

func NewWarehouseOrdersHandler(svc service.WarehouseOrderService) *WarehouseOrdersHandler {
	return &WarehouseOrdersHandler{svc: svc}
}

// ListWarehouseOrders returns a paginated list filtered by status and
// source order.
func (h *WarehouseOrdersHandler) ListWarehouseOrders(c *gin.Context) {
	var filter dto.WarehouseOrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListWarehouseOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WarehouseOrdersHandler) GetWarehouseOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetWarehouseOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStatus advances a warehouse order along the status transition table.
// Illegal transitions come back as 409.
func (h *WarehouseOrdersHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateWarehouseOrderStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
