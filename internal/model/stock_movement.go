package model

import (
	"time"

	"github.com/google/uuid"
)

// StockMovement records every stock change at a location.
// Created automatically on fulfillment deductions and manual adjustments.
type StockMovement struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LocationID int64     `gorm:"not null;index"`
	ItemType   ItemType  `gorm:"not null"`
	ItemID     int64     `gorm:"not null;index"`
	Type       string    `gorm:"not null"` // "fulfillment" | "production" | "adjustment"
	Delta      int       `gorm:"not null"` // positive = inbound, negative = outbound
	QtyBefore  int       `gorm:"not null"`
	QtyAfter   int       `gorm:"not null"`
	Reason     string
	OrderRef   *uuid.UUID `gorm:"type:uuid"` // order id when the movement came from a fulfillment pass
	CreatedAt  time.Time
}

// TableName overrides GORM's default pluralization.
func (StockMovement) TableName() string { return "stock_movements" }
