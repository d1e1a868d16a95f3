package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditEvent is the persisted trail of order lifecycle events.
// Rows are written asynchronously by the audit worker — the fulfillment core
// only enqueues, it never blocks on this table.
type AuditEvent struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderType string    `gorm:"not null;index"` // "ORDER" | "WAREHOUSE_ORDER"
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	EventTag  string    `gorm:"not null"`
	Message   string
	CreatedAt time.Time
}
