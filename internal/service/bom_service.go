package service

import (
	"context"
	"fmt"
	"sort"

	"legofactory/internal/model"

	"github.com/rs/zerolog/log"
)

// BomSource resolves the Bill of Materials of a product.
// The returned mapping is module id → required quantity, already scaled by
// the requested product quantity. A nil or empty mapping means the product
// has no modules defined — a data error, not a recoverable case.
type BomSource interface {
	ModuleRequirementsForProduct(ctx context.Context, productID int64, quantity int) (map[int64]int, error)
}

// NameLookup resolves display names for items. Lookup failure is cosmetic:
// callers substitute a synthetic name instead of propagating the error.
type NameLookup interface {
	ItemName(ctx context.Context, itemType model.ItemType, itemID int64) (string, error)
}

// BomItem is a single module-level demand entry produced by a conversion.
// SourceProductID/Name are nil for lines that were requested directly as
// MODULE or PART and passed through unchanged.
type BomItem struct {
	ItemType        model.ItemType
	ItemID          int64
	ItemName        string
	Quantity        int
	SourceProductID *int64
	SourceProduct   *string
}

// BomConversionResult is a transient value scoped to a single Convert call.
// It is never persisted; TotalModules is the sum of all item quantities.
type BomConversionResult struct {
	Items        []BomItem
	TotalModules int
}

// BomService translates product-level demand into module-level demand.
type BomService interface {
	Convert(ctx context.Context, lines []model.OrderLine) (*BomConversionResult, error)
	TotalModuleCount(ctx context.Context, lines []model.OrderLine) int
}

type bomService struct {
	source BomSource
	names  NameLookup
}

func NewBomService(source BomSource, names NameLookup) BomService {
	return &bomService{source: source, names: names}
}

// Convert expands every PRODUCT line via the BOM source and passes non-PRODUCT
// lines through unchanged. All-or-nothing: either the whole conversion
// succeeds (malformed BOM entries are skipped, name failures get fallback
// names) or it returns an error and no result.
func (s *bomService) Convert(ctx context.Context, lines []model.OrderLine) (*BomConversionResult, error) {
	result := &BomConversionResult{}

	for _, line := range lines {
		if line.ItemType != model.ItemTypeProduct {
			// Legacy direct MODULE/PART demand — no source-product linkage.
			result.Items = append(result.Items, BomItem{
				ItemType: line.ItemType,
				ItemID:   line.ItemID,
				ItemName: s.resolveName(ctx, line.ItemType, line.ItemID),
				Quantity: line.RequestedQty,
			})
			result.TotalModules += line.RequestedQty
			continue
		}

		requirements, err := s.source.ModuleRequirementsForProduct(ctx, line.ItemID, line.RequestedQty)
		if err != nil {
			return nil, &BomConversionError{
				ProductID:   line.ItemID,
				ProductName: s.resolveName(ctx, model.ItemTypeProduct, line.ItemID),
				Reason:      "bom source call failed",
				Err:         err,
			}
		}
		if len(requirements) == 0 {
			return nil, &BomConversionError{
				ProductID:   line.ItemID,
				ProductName: s.resolveName(ctx, model.ItemTypeProduct, line.ItemID),
				Reason:      "no modules defined for product",
			}
		}

		productID := line.ItemID
		productName := s.resolveName(ctx, model.ItemTypeProduct, productID)

		// Stable output order: iterate module ids sorted, not in map order.
		moduleIDs := make([]int64, 0, len(requirements))
		for id := range requirements {
			moduleIDs = append(moduleIDs, id)
		}
		sort.Slice(moduleIDs, func(i, j int) bool { return moduleIDs[i] < moduleIDs[j] })

		for _, moduleID := range moduleIDs {
			qty := requirements[moduleID]
			// Malformed BOM rows are skipped, not fatal.
			if moduleID == 0 || qty <= 0 {
				log.Warn().
					Int64("product_id", productID).
					Int64("module_id", moduleID).
					Int("quantity", qty).
					Msg("bom: skipping malformed requirement entry")
				continue
			}
			result.Items = append(result.Items, BomItem{
				ItemType:        model.ItemTypeModule,
				ItemID:          moduleID,
				ItemName:        s.resolveName(ctx, model.ItemTypeModule, moduleID),
				Quantity:        qty,
				SourceProductID: &productID,
				SourceProduct:   &productName,
			})
			result.TotalModules += qty
		}
	}

	return result, nil
}

// TotalModuleCount is a best-effort sum of module quantities across all
// PRODUCT lines. Per-line BOM failures are logged and swallowed — this feeds
// capacity-estimation display only, never a correctness-critical path.
func (s *bomService) TotalModuleCount(ctx context.Context, lines []model.OrderLine) int {
	total := 0
	for _, line := range lines {
		if line.ItemType != model.ItemTypeProduct {
			total += line.RequestedQty
			continue
		}
		requirements, err := s.source.ModuleRequirementsForProduct(ctx, line.ItemID, line.RequestedQty)
		if err != nil {
			log.Warn().
				Int64("product_id", line.ItemID).
				Err(err).
				Msg("bom: module count lookup failed, skipping line")
			continue
		}
		for _, qty := range requirements {
			if qty > 0 {
				total += qty
			}
		}
	}
	return total
}

// resolveName swallows lookup failures and falls back to "<TYPE>-<id>".
func (s *bomService) resolveName(ctx context.Context, itemType model.ItemType, itemID int64) string {
	name, err := s.names.ItemName(ctx, itemType, itemID)
	if err != nil || name == "" {
		return fmt.Sprintf("%s-%d", itemType, itemID)
	}
	return name
}
