package service

import (
	"errors"
	"fmt"

	"legofactory/internal/model"
)

// Typed domain errors raised by the fulfillment core. They are never caught
// or retried inside the core — handlers map them to HTTP statuses with
// errors.As. The sole exception is item-name lookup failure, which is
// swallowed locally and replaced with a fallback name.

// NotFoundError signals that a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// InvalidOrderStateError signals that an order is not eligible for the
// attempted transition (e.g. fulfilling a COMPLETED order).
type InvalidOrderStateError struct {
	OrderNumber string
	From        model.OrderStatus
	To          model.OrderStatus
}

func (e *InvalidOrderStateError) Error() string {
	return fmt.Sprintf("order %s: illegal status transition %s -> %s", e.OrderNumber, e.From, e.To)
}

// BomConversionError aborts a whole fulfillment pass: the BOM source failed,
// or defines no modules for a product. The two causes carry distinct messages
// for diagnosability; both reference the offending product.
type BomConversionError struct {
	ProductID   int64
	ProductName string
	Reason      string
	Err         error
}

func (e *BomConversionError) Error() string {
	name := e.ProductName
	if name == "" {
		name = fmt.Sprintf("product %d", e.ProductID)
	}
	if e.Err != nil {
		return fmt.Sprintf("bom conversion failed for %s: %s: %v", name, e.Reason, e.Err)
	}
	return fmt.Sprintf("bom conversion failed for %s: %s", name, e.Reason)
}

func (e *BomConversionError) Unwrap() error { return e.Err }

// InsufficientStockError is raised by the stock keeper when a deduction
// cannot be satisfied. In the direct-fulfillment path it flips the order to
// CANCELLED rather than rolling back already-deducted lines.
type InsufficientStockError struct {
	LocationID int64
	ItemType   model.ItemType
	ItemID     int64
	Requested  int
	Available  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock at location %d: %s %d requested %d, available %d",
		e.LocationID, e.ItemType, e.ItemID, e.Requested, e.Available)
}

// IsInsufficientStock reports whether err is (or wraps) an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var target *InsufficientStockError
	return errors.As(err, &target)
}
