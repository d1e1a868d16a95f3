package handler

import (
	"net/http"

	"legofactory/internal/apierror"
	"legofactory/internal/dto"
	"legofactory/internal/infra"
	"legofactory/internal/service"

	"github.com/gin-gonic/gin"
)

type OrdersHandler struct {
	orders      service.OrderService
	fulfillment service.FulfillmentService
}

func NewOrdersHandler(orders service.OrderService, fulfillment service.FulfillmentService) *OrdersHandler {
	return &OrdersHandler{orders: orders, fulfillment: fulfillment}
}

// CreateOrder registers a new customer order in PENDING state.
func (h *OrdersHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.orders.CreateOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListOrders returns a paginated list filtered by status and location.
func (h *OrdersHandler) ListOrders(c *gin.Context) {
	var filter dto.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.orders.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) GetOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListEvents returns the order's audit trail as recorded by the async worker.
func (h *OrdersHandler) ListEvents(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	events, err := h.orders.ListEvents(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": events})
}

// ConfirmOrder moves a PENDING order to CONFIRMED and caches its initial
// scenario classification.
func (h *OrdersHandler) ConfirmOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.orders.ConfirmOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Fulfill classifies the order by stock availability and executes the
// resolved scenario. The response carries the scenario and, when one was
// created, the warehouse order number.
func (h *OrdersHandler) Fulfill(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.fulfillment.Fulfill(c.Request.Context(), id)
	if err != nil {
		infra.RecordFulfillment("unresolved", err)
		respondError(c, err)
		return
	}
	infra.RecordFulfillment(resp.Scenario, nil)
	c.JSON(http.StatusOK, resp)
}

// FulfillProduction routes an order through the production-planning path:
// best-effort local deduction, never a warehouse order.
func (h *OrdersHandler) FulfillProduction(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.fulfillment.FulfillProduction(c.Request.Context(), id)
	if err != nil {
		infra.RecordFulfillment("PRODUCTION_PLANNING", err)
		respondError(c, err)
		return
	}
	infra.RecordFulfillment(resp.Scenario, nil)
	c.JSON(http.StatusOK, resp)
}

// CapacityEstimate returns the best-effort module count and derived
// production hours for scheduling displays.
func (h *OrdersHandler) CapacityEstimate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.fulfillment.CapacityEstimate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
