package dto

import "github.com/shopspring/decimal"

// BomConvertRequest previews a BOM conversion without touching any order.
type BomConvertRequest struct {
	Lines []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type BomItemResponse struct {
	ItemType        string  `json:"item_type"`
	ItemID          int64   `json:"item_id"`
	ItemName        string  `json:"item_name"`
	Quantity        int     `json:"quantity"`
	SourceProductID *int64  `json:"source_product_id,omitempty"`
	SourceProduct   *string `json:"source_product,omitempty"`
}

type BomConvertResponse struct {
	Items        []BomItemResponse `json:"items"`
	TotalModules int               `json:"total_modules"`
}

// CapacityEstimateResponse feeds the scheduling display: a best-effort module
// count and the derived production hours. Never used on correctness paths.
type CapacityEstimateResponse struct {
	OrderID        string          `json:"order_id"`
	OrderNumber    string          `json:"order_number"`
	TotalModules   int             `json:"total_modules"`
	EstimatedHours decimal.Decimal `json:"estimated_hours"`
}
