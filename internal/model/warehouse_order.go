package model

import (
	"time"

	"github.com/google/uuid"
)

// WarehouseOrder is a system-generated secondary order expressing
// module-level demand against the central modules warehouse. It is created
// when product-level demand cannot be met from local stock.
type WarehouseOrder struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderNumber string    `gorm:"uniqueIndex;not null"` // "WO-<date>-<suffix>"
	// SourceOrderID links back to the customer order that triggered creation.
	SourceOrderID uuid.UUID `gorm:"type:uuid;not null;index"`
	// TargetLocationID is always the modules-supply warehouse.
	TargetLocationID int64       `gorm:"not null"`
	Status           OrderStatus `gorm:"not null;default:'PENDING'"`
	// TriggerScenario records which fulfillment scenario produced this order.
	TriggerScenario Scenario `gorm:"not null"`
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Lines []WarehouseOrderLine `gorm:"foreignKey:WarehouseOrderID;constraint:OnDelete:CASCADE"`
}

// WarehouseOrderLine is module-level demand aggregated across all source
// products that need the module. SourceProductID is nil for legacy lines
// that were requested directly as MODULE or PART.
type WarehouseOrderLine struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WarehouseOrderID uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemType         ItemType  `gorm:"not null"` // MODULE for BOM-derived lines
	ItemID           int64     `gorm:"not null"`
	ItemName         string    `gorm:"not null"`
	RequestedQty     int       `gorm:"not null"`
	FulfilledQty     int       `gorm:"not null;default:0"`
	SourceProductID  *int64
	SourceProduct    *string
	Notes            string
	CreatedAt        time.Time
}
