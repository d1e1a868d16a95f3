package dto

// ─── Filter / List ──────────────────────────────────────────────────────────

// OrderFilter is bound from the query string of GET /v1/orders.
type OrderFilter struct {
	Status     string `form:"status"`   // PENDING | CONFIRMED | PROCESSING | COMPLETED | CANCELLED | all
	LocationID int64  `form:"location"` // 0 = all locations
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OrderLineRequest struct {
	ItemType string `json:"item_type" validate:"required,oneof=PRODUCT MODULE PART"`
	ItemID   int64  `json:"item_id"   validate:"required,min=1"`
	Quantity int    `json:"quantity"  validate:"required,min=1"`
}

type CreateOrderRequest struct {
	LocationID int64              `json:"location_id" validate:"required,min=1"`
	Lines      []OrderLineRequest `json:"lines"       validate:"required,min=1,dive"`
	Notes      string             `json:"notes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrderLineResponse struct {
	ItemType     string `json:"item_type"`
	ItemID       int64  `json:"item_id"`
	RequestedQty int    `json:"requested_quantity"`
	FulfilledQty int    `json:"fulfilled_quantity"`
}

type OrderResponse struct {
	ID          string              `json:"id"`
	OrderNumber string              `json:"order_number"`
	LocationID  int64               `json:"location_id"`
	Status      string              `json:"status"`
	Scenario    *string             `json:"scenario,omitempty"`
	Notes       string              `json:"notes,omitempty"`
	Lines       []OrderLineResponse `json:"lines"`
	CreatedAt   string              `json:"created_at"`
}

// AuditEventResponse is one row of an order's audit trail, oldest first.
type AuditEventResponse struct {
	EventTag  string `json:"event_tag"`
	Message   string `json:"message,omitempty"`
	CreatedAt string `json:"created_at"`
}

// OrderSummary is the minimal projection returned by the fulfillment entry
// points: {id, order number, status, location, notes} plus the resolved
// scenario and, when one was created, the warehouse order number.
type OrderSummary struct {
	ID                   string  `json:"id"`
	OrderNumber          string  `json:"order_number"`
	Status               string  `json:"status"`
	LocationID           int64   `json:"location_id"`
	Notes                string  `json:"notes,omitempty"`
	Scenario             string  `json:"scenario"`
	WarehouseOrderNumber *string `json:"warehouse_order_number,omitempty"`
}
