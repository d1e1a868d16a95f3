package model

import "fmt"

// ItemType distinguishes the three tiers of the item hierarchy.
// Products are built from modules, modules from parts.
type ItemType string

const (
	ItemTypeProduct ItemType = "PRODUCT"
	ItemTypeModule  ItemType = "MODULE"
	ItemTypePart    ItemType = "PART"
)

func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeProduct, ItemTypeModule, ItemTypePart:
		return true
	}
	return false
}

// ParseItemType validates a raw string from a request body.
func ParseItemType(raw string) (ItemType, error) {
	t := ItemType(raw)
	if !t.Valid() {
		return "", fmt.Errorf("unknown item type %q", raw)
	}
	return t, nil
}

// Scenario is one of the four mutually-exclusive fulfillment strategies
// chosen per order based on stock availability at its location.
type Scenario string

const (
	ScenarioDirectFulfillment  Scenario = "DIRECT_FULFILLMENT"
	ScenarioPartialFulfillment Scenario = "PARTIAL_FULFILLMENT"
	ScenarioWarehouseOrder     Scenario = "WAREHOUSE_ORDER"
	// ScenarioProductionPlanning is never chosen by the availability check;
	// it is reachable only through the dedicated production entry point.
	ScenarioProductionPlanning Scenario = "PRODUCTION_PLANNING"
)
