package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"legofactory/internal/dto"
	"legofactory/internal/model"
	"legofactory/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AuditRecorder records order lifecycle events. Fire-and-forget from the
// core's perspective: implementations must never block or fail the
// fulfillment pass.
type AuditRecorder interface {
	RecordEvent(ctx context.Context, orderType string, orderID uuid.UUID, eventTag, message string)
}

// FulfillmentService is the order fulfillment orchestration: it classifies
// an order into one of four scenarios by stock availability and drives the
// corresponding state transition, converting unmet product demand into a
// module-level warehouse order where needed.
type FulfillmentService interface {
	// Fulfill is the main entry point: classify, then execute.
	Fulfill(ctx context.Context, orderID uuid.UUID) (*dto.OrderSummary, error)
	// FulfillProduction is the distinct entry point for high-volume/custom
	// orders: best-effort local fulfillment, then routing to production.
	FulfillProduction(ctx context.Context, orderID uuid.UUID) (*dto.OrderSummary, error)

	Classify(ctx context.Context, order *model.Order) (model.Scenario, error)
	ExecuteDirectFulfillment(ctx context.Context, order *model.Order) error
	ExecuteWarehouseOrder(ctx context.Context, order *model.Order) (string, error)
	ExecutePartialFulfillment(ctx context.Context, order *model.Order) (string, error)
	ExecuteProductionPlanning(ctx context.Context, order *model.Order) error

	// CapacityEstimate feeds the scheduling display with a best-effort module
	// count and derived production hours.
	CapacityEstimate(ctx context.Context, orderID uuid.UUID) (*dto.CapacityEstimateResponse, error)
	// RefreshCachedScenario re-classifies one CONFIRMED order and updates its
	// advisory scenario tag. Used by the scenario cron.
	RefreshCachedScenario(ctx context.Context, order *model.Order) error
}

type fulfillmentService struct {
	orders          repository.OrderRepository
	warehouseOrders repository.WarehouseOrderRepository
	stock           StockKeeper
	bom             BomService
	auditor         AuditRecorder

	// modulesWarehouseID is the fixed target of every warehouse order.
	modulesWarehouseID int64
	minutesPerModule   int
}

func NewFulfillmentService(
	orders repository.OrderRepository,
	warehouseOrders repository.WarehouseOrderRepository,
	stock StockKeeper,
	bom BomService,
	auditor AuditRecorder,
	modulesWarehouseID int64,
	minutesPerModule int,
) FulfillmentService {
	return &fulfillmentService{
		orders:             orders,
		warehouseOrders:    warehouseOrders,
		stock:              stock,
		bom:                bom,
		auditor:            auditor,
		modulesWarehouseID: modulesWarehouseID,
		minutesPerModule:   minutesPerModule,
	}
}

// ── Entry points ─────────────────────────────────────────────────────────────

func (s *fulfillmentService) Fulfill(ctx context.Context, orderID uuid.UUID) (*dto.OrderSummary, error) {
	order, err := s.loadEligible(ctx, orderID)
	if err != nil {
		return nil, err
	}

	scenario, err := s.Classify(ctx, order)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("order", order.OrderNumber).
		Str("scenario", string(scenario)).
		Msg("fulfillment: scenario resolved")

	var woNumber string
	switch scenario {
	case model.ScenarioDirectFulfillment:
		err = s.ExecuteDirectFulfillment(ctx, order)
	case model.ScenarioWarehouseOrder:
		woNumber, err = s.ExecuteWarehouseOrder(ctx, order)
	case model.ScenarioPartialFulfillment:
		woNumber, err = s.ExecutePartialFulfillment(ctx, order)
	}
	if err != nil {
		return nil, err
	}

	return orderToSummary(order, scenario, woNumber), nil
}

func (s *fulfillmentService) FulfillProduction(ctx context.Context, orderID uuid.UUID) (*dto.OrderSummary, error) {
	order, err := s.loadEligible(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.ExecuteProductionPlanning(ctx, order); err != nil {
		return nil, err
	}
	return orderToSummary(order, model.ScenarioProductionPlanning, ""), nil
}

// loadEligible fetches the order and rejects terminal states.
func (s *fulfillmentService) loadEligible(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "order", ID: orderID.String()}
		}
		return nil, fmt.Errorf("load order: %w", err)
	}
	if order.Status.Terminal() {
		return nil, &InvalidOrderStateError{
			OrderNumber: order.OrderNumber,
			From:        order.Status,
			To:          model.StatusProcessing,
		}
	}
	if len(order.Lines) == 0 {
		return nil, fmt.Errorf("order %s has no lines", order.OrderNumber)
	}
	return order, nil
}

// ── Classification ───────────────────────────────────────────────────────────

// Classify picks the scenario from per-line availability at the order's
// location: all lines available → direct, some → partial, none → warehouse
// order. Production planning is never chosen here — it has its own entry
// point. A stock-lookup failure aborts classification.
func (s *fulfillmentService) Classify(ctx context.Context, order *model.Order) (model.Scenario, error) {
	available := 0
	for _, line := range order.Lines {
		ok, err := s.stock.Available(ctx, order.LocationID, line.ItemType, line.ItemID, line.RequestedQty)
		if err != nil {
			return "", fmt.Errorf("classify order %s: %w", order.OrderNumber, err)
		}
		if ok {
			available++
		}
	}
	switch {
	case available == len(order.Lines):
		return model.ScenarioDirectFulfillment, nil
	case available > 0:
		return model.ScenarioPartialFulfillment, nil
	default:
		return model.ScenarioWarehouseOrder, nil
	}
}

// ── Scenario executors ───────────────────────────────────────────────────────

// ExecuteDirectFulfillment deducts every line in full. Each deduction is
// atomic per line but the loop is not transactional across lines: a failure
// mid-loop cancels the order without restoring lines already deducted —
// the stock keeper is a separate system and its deductions have already
// committed when the failure surfaces.
func (s *fulfillmentService) ExecuteDirectFulfillment(ctx context.Context, order *model.Order) error {
	for i := range order.Lines {
		line := &order.Lines[i]
		if err := s.stock.Deduct(ctx, order.LocationID, line.ItemType, line.ItemID,
			line.RequestedQty, "fulfillment", &order.ID); err != nil {

			order.Status = model.StatusCancelled
			appendNote(order, fmt.Sprintf("direct fulfillment aborted on %s %d: %v",
				line.ItemType, line.ItemID, err))
			if saveErr := s.orders.Save(ctx, order); saveErr != nil {
				log.Error().Err(saveErr).Str("order", order.OrderNumber).
					Msg("fulfillment: failed to persist cancellation")
			}
			s.auditor.RecordEvent(ctx, "ORDER", order.ID, "DIRECT_FULFILLMENT_FAILED",
				fmt.Sprintf("order %s cancelled: %v", order.OrderNumber, err))
			return err
		}
		line.FulfilledQty = line.RequestedQty
	}

	order.Status = model.StatusCompleted
	appendNote(order, "fulfilled directly from local stock")
	if err := s.orders.Save(ctx, order); err != nil {
		return fmt.Errorf("save completed order: %w", err)
	}
	s.auditor.RecordEvent(ctx, "ORDER", order.ID, "DIRECT_FULFILLMENT",
		fmt.Sprintf("order %s fulfilled from location %d", order.OrderNumber, order.LocationID))

	// Stock at this location changed — other confirmed orders here may now
	// classify differently.
	s.refreshScenariosAt(ctx, order.LocationID, order.ID)
	return nil
}

// ExecuteWarehouseOrder converts the full line list to module demand and
// creates a warehouse order against the modules warehouse. A conversion
// failure aborts before any mutation.
func (s *fulfillmentService) ExecuteWarehouseOrder(ctx context.Context, order *model.Order) (string, error) {
	conversion, err := s.bom.Convert(ctx, order.Lines)
	if err != nil {
		return "", err
	}
	if len(conversion.Items) == 0 {
		return "", &BomConversionError{Reason: "conversion produced no module demand"}
	}

	wo := s.buildWarehouseOrder(order, conversion, model.ScenarioWarehouseOrder)

	txErr := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		if err := s.warehouseOrders.CreateTx(tx, wo); err != nil {
			return err
		}
		order.Status = model.StatusProcessing
		appendNote(order, fmt.Sprintf("warehouse order %s created", wo.OrderNumber))
		return s.orders.SaveTx(tx, order)
	})
	if txErr != nil {
		return "", fmt.Errorf("create warehouse order: %w", txErr)
	}

	s.auditor.RecordEvent(ctx, "ORDER", order.ID, "WAREHOUSE_ORDER",
		fmt.Sprintf("no local stock for %s, warehouse order %s created", order.OrderNumber, wo.OrderNumber))
	s.auditor.RecordEvent(ctx, "WAREHOUSE_ORDER", wo.ID, "CREATED",
		fmt.Sprintf("created from order %s (%d module lines)", order.OrderNumber, len(wo.Lines)))
	return wo.OrderNumber, nil
}

// ExecutePartialFulfillment deducts what is locally available (capped at each
// line's remaining quantity, so re-runs never double-deduct) and expands the
// unavailable remainder into a warehouse order. The order moves to
// PROCESSING whether or not a warehouse order was created.
func (s *fulfillmentService) ExecutePartialFulfillment(ctx context.Context, order *model.Order) (string, error) {
	var unavailable []model.OrderLine

	for i := range order.Lines {
		line := &order.Lines[i]
		remaining := line.Remaining()
		if remaining == 0 {
			continue // satisfied on a previous pass
		}

		ok, err := s.stock.Available(ctx, order.LocationID, line.ItemType, line.ItemID, remaining)
		if err != nil {
			return "", fmt.Errorf("partial fulfillment of %s: %w", order.OrderNumber, err)
		}
		if !ok {
			unavailable = append(unavailable, *line)
			continue
		}

		if err := s.stock.Deduct(ctx, order.LocationID, line.ItemType, line.ItemID,
			remaining, "fulfillment", &order.ID); err != nil {
			if IsInsufficientStock(err) {
				// Lost a race between the availability check and the deduct.
				unavailable = append(unavailable, *line)
				continue
			}
			return "", err
		}
		line.FulfilledQty += remaining
	}

	var woNumber string
	if len(unavailable) > 0 {
		conversion, err := s.bom.Convert(ctx, unavailable)
		if err != nil {
			// Deductions above already happened; record the partial progress
			// before surfacing the conversion failure.
			order.Status = model.StatusProcessing
			appendNote(order, fmt.Sprintf("partial fulfillment: bom conversion failed: %v", err))
			if saveErr := s.orders.Save(ctx, order); saveErr != nil {
				log.Error().Err(saveErr).Str("order", order.OrderNumber).
					Msg("fulfillment: failed to persist partial progress")
			}
			return "", err
		}

		if len(conversion.Items) > 0 {
			wo := s.buildWarehouseOrder(order, conversion, model.ScenarioPartialFulfillment)
			txErr := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
				if err := s.warehouseOrders.CreateTx(tx, wo); err != nil {
					return err
				}
				order.Status = model.StatusProcessing
				appendNote(order, fmt.Sprintf("partially fulfilled, warehouse order %s created", wo.OrderNumber))
				return s.orders.SaveTx(tx, order)
			})
			if txErr != nil {
				return "", fmt.Errorf("create warehouse order: %w", txErr)
			}
			woNumber = wo.OrderNumber
			s.auditor.RecordEvent(ctx, "WAREHOUSE_ORDER", wo.ID, "CREATED",
				fmt.Sprintf("created from partially fulfilled order %s", order.OrderNumber))
		}
	}

	if woNumber == "" {
		order.Status = model.StatusProcessing
		if err := s.orders.Save(ctx, order); err != nil {
			return "", fmt.Errorf("save order: %w", err)
		}
	}

	s.auditor.RecordEvent(ctx, "ORDER", order.ID, "PARTIAL_FULFILLMENT",
		fmt.Sprintf("order %s partially fulfilled at location %d", order.OrderNumber, order.LocationID))
	return woNumber, nil
}

// ExecuteProductionPlanning fulfills whatever is locally available and routes
// the rest to production. No warehouse order is ever created here.
func (s *fulfillmentService) ExecuteProductionPlanning(ctx context.Context, order *model.Order) error {
	for i := range order.Lines {
		line := &order.Lines[i]
		remaining := line.Remaining()
		if remaining == 0 {
			continue
		}
		ok, err := s.stock.Available(ctx, order.LocationID, line.ItemType, line.ItemID, remaining)
		if err != nil {
			return fmt.Errorf("production planning for %s: %w", order.OrderNumber, err)
		}
		if !ok {
			continue
		}
		if err := s.stock.Deduct(ctx, order.LocationID, line.ItemType, line.ItemID,
			remaining, "production", &order.ID); err != nil {
			if IsInsufficientStock(err) {
				continue // best-effort: leave the line for production
			}
			return err
		}
		line.FulfilledQty += remaining
	}

	order.Status = model.StatusProcessing
	appendNote(order, "routed to production planning")
	if err := s.orders.Save(ctx, order); err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	s.auditor.RecordEvent(ctx, "ORDER", order.ID, "PRODUCTION_PLANNING",
		fmt.Sprintf("order %s routed to production", order.OrderNumber))
	return nil
}

// ── Supporting operations ────────────────────────────────────────────────────

func (s *fulfillmentService) CapacityEstimate(ctx context.Context, orderID uuid.UUID) (*dto.CapacityEstimateResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "order", ID: orderID.String()}
		}
		return nil, err
	}

	total := s.bom.TotalModuleCount(ctx, order.Lines)
	hours := decimal.NewFromInt(int64(total * s.minutesPerModule)).
		Div(decimal.NewFromInt(60)).Round(2)

	return &dto.CapacityEstimateResponse{
		OrderID:        order.ID.String(),
		OrderNumber:    order.OrderNumber,
		TotalModules:   total,
		EstimatedHours: hours,
	}, nil
}

func (s *fulfillmentService) RefreshCachedScenario(ctx context.Context, order *model.Order) error {
	scenario, err := s.Classify(ctx, order)
	if err != nil {
		return err
	}
	if order.CachedScenario != nil && *order.CachedScenario == scenario {
		return nil
	}
	order.CachedScenario = &scenario
	return s.orders.Save(ctx, order)
}

// refreshScenariosAt re-evaluates the cached scenario of every other
// CONFIRMED order at the location. Best-effort: failures are logged, never
// propagated into the triggering fulfillment pass.
func (s *fulfillmentService) refreshScenariosAt(ctx context.Context, locationID int64, exclude uuid.UUID) {
	others, err := s.orders.ListByStatusAtLocation(ctx, model.StatusConfirmed, locationID)
	if err != nil {
		log.Error().Err(err).Int64("location", locationID).
			Msg("fulfillment: failed to list orders for scenario refresh")
		return
	}
	for i := range others {
		if others[i].ID == exclude {
			continue
		}
		if err := s.RefreshCachedScenario(ctx, &others[i]); err != nil {
			log.Warn().Err(err).Str("order", others[i].OrderNumber).
				Msg("fulfillment: scenario refresh failed")
		}
	}
}

// buildWarehouseOrder assembles the secondary order from a conversion result.
// One line per BomItem — the BOM source already aggregates module demand
// within each product, and keeping lines per source product preserves the
// provenance trail.
func (s *fulfillmentService) buildWarehouseOrder(order *model.Order, conversion *BomConversionResult, trigger model.Scenario) *model.WarehouseOrder {
	wo := &model.WarehouseOrder{
		OrderNumber:      generateWarehouseOrderNumber(),
		SourceOrderID:    order.ID,
		TargetLocationID: s.modulesWarehouseID,
		Status:           model.StatusPending,
		TriggerScenario:  trigger,
		Notes:            fmt.Sprintf("auto-generated from order %s", order.OrderNumber),
	}
	for _, item := range conversion.Items {
		note := "direct demand"
		if item.SourceProduct != nil {
			note = fmt.Sprintf("required by %s", *item.SourceProduct)
		}
		wo.Lines = append(wo.Lines, model.WarehouseOrderLine{
			ItemType:        item.ItemType,
			ItemID:          item.ItemID,
			ItemName:        item.ItemName,
			RequestedQty:    item.Quantity,
			SourceProductID: item.SourceProductID,
			SourceProduct:   item.SourceProduct,
			Notes:           note,
		})
	}
	return wo
}

// generateWarehouseOrderNumber yields a human-readable number with a random
// suffix for uniqueness, e.g. "WO-20260829-7F3A2C".
func generateWarehouseOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("WO-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}

func appendNote(order *model.Order, note string) {
	if order.Notes == "" {
		order.Notes = note
		return
	}
	order.Notes = order.Notes + "\n" + note
}

func orderToSummary(order *model.Order, scenario model.Scenario, woNumber string) *dto.OrderSummary {
	summary := &dto.OrderSummary{
		ID:          order.ID.String(),
		OrderNumber: order.OrderNumber,
		Status:      string(order.Status),
		LocationID:  order.LocationID,
		Notes:       order.Notes,
		Scenario:    string(scenario),
	}
	if woNumber != "" {
		summary.WarehouseOrderNumber = &woNumber
	}
	return summary
}
