package dto

// StockFilter is bound from the query string of GET /v1/stock.
type StockFilter struct {
	LocationID int64  `form:"location" validate:"required,min=1"`
	ItemType   string `form:"item_type" validate:"omitempty,oneof=PRODUCT MODULE PART"`
}

type StockLevelResponse struct {
	LocationID int64  `json:"location_id"`
	ItemType   string `json:"item_type"`
	ItemID     int64  `json:"item_id"`
	Quantity   int    `json:"quantity"`
}

// AdjustStockRequest applies a manual delta to one stock level.
// Delta may be negative; the adjustment fails rather than driving the
// on-hand quantity below zero.
type AdjustStockRequest struct {
	LocationID int64  `json:"location_id" validate:"required,min=1"`
	ItemType   string `json:"item_type"   validate:"required,oneof=PRODUCT MODULE PART"`
	ItemID     int64  `json:"item_id"     validate:"required,min=1"`
	Delta      int    `json:"delta"       validate:"required"`
	Reason     string `json:"reason"      validate:"required"`
}

// StockMovementFilter is bound from the query string of GET /v1/stock/movements.
type StockMovementFilter struct {
	LocationID int64 `form:"location"`
	ItemID     int64 `form:"item"`
	Page       int   `form:"page,default=1"   validate:"min=1"`
	Limit      int   `form:"limit,default=50" validate:"min=1,max=200"`
}

type StockMovementResponse struct {
	ID         string  `json:"id"`
	LocationID int64   `json:"location_id"`
	ItemType   string  `json:"item_type"`
	ItemID     int64   `json:"item_id"`
	Type       string  `json:"type"`
	Delta      int     `json:"delta"`
	QtyBefore  int     `json:"quantity_before"`
	QtyAfter   int     `json:"quantity_after"`
	Reason     string  `json:"reason,omitempty"`
	OrderRef   *string `json:"order_ref,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

type StockMovementListResponse struct {
	Data  []StockMovementResponse `json:"data"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}
