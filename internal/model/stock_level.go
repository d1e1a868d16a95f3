package model

import (
	"time"

	"github.com/google/uuid"
)

// StockLevel tracks on-hand quantity of one item at one location.
// Version implements optimistic locking: every deduction increments it, and
// a concurrent writer that saw a stale version loses and retries.
type StockLevel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LocationID int64     `gorm:"not null;uniqueIndex:idx_stock_loc_item"`
	ItemType   ItemType  `gorm:"not null;uniqueIndex:idx_stock_loc_item"`
	ItemID     int64     `gorm:"not null;uniqueIndex:idx_stock_loc_item"`
	Quantity   int       `gorm:"not null;default:0"`
	Version    int64     `gorm:"not null;default:0"`
	UpdatedAt  time.Time
}

// TableName overrides GORM's default pluralization.
func (StockLevel) TableName() string { return "stock_levels" }
