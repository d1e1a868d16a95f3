package dto

// WarehouseOrderFilter is bound from the query string of GET /v1/warehouse-orders.
type WarehouseOrderFilter struct {
	Status      string `form:"status"`       // status value or "all"
	SourceOrder string `form:"source_order"` // source order uuid
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type WarehouseOrderLineResponse struct {
	ItemType        string  `json:"item_type"`
	ItemID          int64   `json:"item_id"`
	ItemName        string  `json:"item_name"`
	RequestedQty    int     `json:"requested_quantity"`
	FulfilledQty    int     `json:"fulfilled_quantity"`
	SourceProductID *int64  `json:"source_product_id,omitempty"`
	SourceProduct   *string `json:"source_product,omitempty"`
	Notes           string  `json:"notes,omitempty"`
}

type WarehouseOrderResponse struct {
	ID               string                       `json:"id"`
	OrderNumber      string                       `json:"order_number"`
	SourceOrderID    string                       `json:"source_order_id"`
	TargetLocationID int64                        `json:"target_location_id"`
	Status           string                       `json:"status"`
	TriggerScenario  string                       `json:"trigger_scenario"`
	Notes            string                       `json:"notes,omitempty"`
	Lines            []WarehouseOrderLineResponse `json:"lines"`
	CreatedAt        string                       `json:"created_at"`
}

type WarehouseOrderListResponse struct {
	Data  []WarehouseOrderResponse `json:"data"`
	Total int64                    `json:"total"`
	Page  int                      `json:"page"`
	Limit int                      `json:"limit"`
}

type UpdateWarehouseOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING CONFIRMED PROCESSING COMPLETED CANCELLED"`
}
