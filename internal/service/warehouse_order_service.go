package service

import (
	"context"
	"errors"

	"legofactory/internal/dto"
	"legofactory/internal/model"
	"legofactory/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WarehouseOrderService is the read/transition surface over system-generated
// warehouse orders. Creation happens only inside the fulfillment core.
type WarehouseOrderService interface {
	GetWarehouseOrder(ctx context.Context, id uuid.UUID) (*dto.WarehouseOrderResponse, error)
	ListWarehouseOrders(ctx context.Context, filter dto.WarehouseOrderFilter) (*dto.WarehouseOrderListResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req dto.UpdateWarehouseOrderStatusRequest) (*dto.WarehouseOrderResponse, error)
}

type warehouseOrderService struct {
	repo    repository.WarehouseOrderRepository
	auditor AuditRecorder
}

func NewWarehouseOrderService(repo repository.WarehouseOrderRepository, auditor AuditRecorder) WarehouseOrderService {
	return &warehouseOrderService{repo: repo, auditor: auditor}
}

func (s *warehouseOrderService) GetWarehouseOrder(ctx context.Context, id uuid.UUID) (*dto.WarehouseOrderResponse, error) {
	wo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "warehouse order", ID: id.String()}
		}
		return nil, err
	}
	return warehouseOrderToResponse(wo), nil
}

func (s *warehouseOrderService) ListWarehouseOrders(ctx context.Context, filter dto.WarehouseOrderFilter) (*dto.WarehouseOrderListResponse, error) {
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
	items := make([]dto.WarehouseOrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, *warehouseOrderToResponse(&orders[i]))
	}
	return &dto.WarehouseOrderListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *warehouseOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req dto.UpdateWarehouseOrderStatusRequest) (*dto.WarehouseOrderResponse, error) {
	next, err := model.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, err
	}

	wo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "warehouse order", ID: id.String()}
		}
		return nil, err
	}
	if !wo.Status.CanTransition(next) {
		return nil, &InvalidOrderStateError{
			OrderNumber: wo.OrderNumber,
			From:        wo.Status,
			To:          next,
		}
	}

	previous := wo.Status
	wo.Status = next
	if err := s.repo.Save(ctx, wo); err != nil {
		return nil, err
	}
	s.auditor.RecordEvent(ctx, "WAREHOUSE_ORDER", wo.ID, "STATUS_CHANGED",
		string(previous)+" -> "+string(next))
	return warehouseOrderToResponse(wo), nil
}

func warehouseOrderToResponse(wo *model.WarehouseOrder) *dto.WarehouseOrderResponse {
	lines := make([]dto.WarehouseOrderLineResponse, 0, len(wo.Lines))
	for _, l := range wo.Lines {
		lines = append(lines, dto.WarehouseOrderLineResponse{
			ItemType:        string(l.ItemType),
			ItemID:          l.ItemID,
			ItemName:        l.ItemName,
			RequestedQty:    l.RequestedQty,
			FulfilledQty:    l.FulfilledQty,
			SourceProductID: l.SourceProductID,
			SourceProduct:   l.SourceProduct,
			Notes:           l.Notes,
		})
	}
	return &dto.WarehouseOrderResponse{
		ID:               wo.ID.String(),
		OrderNumber:      wo.OrderNumber,
		SourceOrderID:    wo.SourceOrderID.String(),
		TargetLocationID: wo.TargetLocationID,
		Status:           string(wo.Status),
		TriggerScenario:  string(wo.TriggerScenario),
		Notes:            wo.Notes,
		Lines:            lines,
		CreatedAt:        wo.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
