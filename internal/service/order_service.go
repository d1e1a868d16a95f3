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
	"gorm.io/gorm"
)

// OrderService covers the customer-order CRUD surface around the
// fulfillment core.
type OrderService interface {
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	ListOrders(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error)
	// ConfirmOrder moves PENDING → CONFIRMED and caches the initial scenario
	// classification for display.
	ConfirmOrder(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	// ListEvents returns the order's persisted audit trail, oldest first.
	ListEvents(ctx context.Context, id uuid.UUID) ([]dto.AuditEventResponse, error)
}

type orderService struct {
	repo        repository.OrderRepository
	events      repository.AuditEventRepository
	fulfillment FulfillmentService
}

func NewOrderService(repo repository.OrderRepository, events repository.AuditEventRepository, fulfillment FulfillmentService) OrderService {
	return &orderService{repo: repo, events: events, fulfillment: fulfillment}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *orderService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	order := &model.Order{
		OrderNumber: generateOrderNumber(),
		LocationID:  req.LocationID,
		Status:      model.StatusPending,
		Notes:       req.Notes,
	}
	for _, line := range req.Lines {
		itemType, err := model.ParseItemType(line.ItemType)
		if err != nil {
			return nil, err
		}
		order.Lines = append(order.Lines, model.OrderLine{
			ItemType:     itemType,
			ItemID:       line.ItemID,
			RequestedQty: line.Quantity,
		})
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	log.Info().
		Str("order", order.OrderNumber).
		Int64("location", order.LocationID).
		Int("lines", len(order.Lines)).
		Msg("order created")
	return orderToResponse(order), nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "order", ID: id.String()}
		}
		return nil, err
	}
	return orderToResponse(order), nil
}

func (s *orderService) ListOrders(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, *orderToResponse(&orders[i]))
	}
	return &dto.OrderListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *orderService) ConfirmOrder(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "order", ID: id.String()}
		}
		return nil, err
	}
	if !order.Status.CanTransition(model.StatusConfirmed) {
		return nil, &InvalidOrderStateError{
			OrderNumber: order.OrderNumber,
			From:        order.Status,
			To:          model.StatusConfirmed,
		}
	}

	order.Status = model.StatusConfirmed

	// The cached scenario is advisory only — a classification failure (e.g.
	// stock lookup down) must not block confirmation.
	if scenario, err := s.fulfillment.Classify(ctx, order); err == nil {
		order.CachedScenario = &scenario
	} else {
		log.Warn().Err(err).Str("order", order.OrderNumber).
			Msg("order: scenario classification failed on confirm")
	}

	if err := s.repo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("confirm order: %w", err)
	}
	return orderToResponse(order), nil
}

func (s *orderService) ListEvents(ctx context.Context, id uuid.UUID) ([]dto.AuditEventResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "order", ID: id.String()}
		}
		return nil, err
	}
	events, err := s.events.ListByOrder(ctx, "ORDER", id)
	if err != nil {
		return nil, fmt.Errorf("list order events: %w", err)
	}
	out := make([]dto.AuditEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, dto.AuditEventResponse{
			EventTag:  e.EventTag,
			Message:   e.Message,
			CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return out, nil
}

// generateOrderNumber yields e.g. "ORD-20260829-4B91D0".
func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}

func orderToResponse(o *model.Order) *dto.OrderResponse {
	lines := make([]dto.OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, dto.OrderLineResponse{
			ItemType:     string(l.ItemType),
			ItemID:       l.ItemID,
			RequestedQty: l.RequestedQty,
			FulfilledQty: l.FulfilledQty,
		})
	}
	var scenario *string
	if o.CachedScenario != nil {
		v := string(*o.CachedScenario)
		scenario = &v
	}
	return &dto.OrderResponse{
		ID:          o.ID.String(),
		OrderNumber: o.OrderNumber,
		LocationID:  o.LocationID,
		Status:      string(o.Status),
		Scenario:    scenario,
		Notes:       o.Notes,
		Lines:       lines,
		CreatedAt:   o.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
