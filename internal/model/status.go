package model

import "fmt"

// OrderStatus is the closed set of lifecycle states shared by customer orders
// and warehouse orders. Transitions are validated against the table below —
// never by string comparison at call sites.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusConfirmed  OrderStatus = "CONFIRMED"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// statusTransitions lists the legal successor states for each status.
// COMPLETED and CANCELLED are terminal. PROCESSING → PROCESSING is legal
// because a partial fulfillment pass may run more than once.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusConfirmed, StatusProcessing, StatusCompleted, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCompleted, StatusCancelled},
	StatusProcessing: {StatusProcessing, StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// Valid reports whether s is a known status value.
func (s OrderStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransition reports whether moving from s to next is legal.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, t := range statusTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible from s.
func (s OrderStatus) Terminal() bool {
	return len(statusTransitions[s]) == 0
}

// ParseOrderStatus validates a raw string (e.g. from a PATCH body).
func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown order status %q", raw)
	}
	return s, nil
}
