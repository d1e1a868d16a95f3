package model

import (
	"time"

	"github.com/google/uuid"
)

// Order is a customer order placed against a factory location.
// Status is mutated only by the fulfillment orchestration; transitions are
// one-directional within a fulfillment pass.
type Order struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderNumber string    `gorm:"uniqueIndex;not null"`
	// LocationID is the factory location the order was placed from —
	// stock checks and deductions run against this location.
	LocationID int64       `gorm:"not null;index"`
	Status     OrderStatus `gorm:"not null;default:'PENDING'"`
	// CachedScenario is the last classification result for a CONFIRMED order.
	// It is advisory (UI display) and refreshed whenever stock at the
	// location changes; the fulfillment pass always re-classifies.
	CachedScenario *Scenario
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Lines []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderLine is a single item demand within an order.
// Invariant: 0 <= FulfilledQty <= RequestedQty within one fulfillment pass.
type OrderLine struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID      uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemType     ItemType  `gorm:"not null"`
	ItemID       int64     `gorm:"not null"`
	RequestedQty int       `gorm:"not null"`
	FulfilledQty int       `gorm:"not null;default:0"`
	CreatedAt    time.Time
}

// Remaining returns the quantity still unmet for this line.
func (l OrderLine) Remaining() int {
	r := l.RequestedQty - l.FulfilledQty
	if r < 0 {
		return 0
	}
	return r
}
