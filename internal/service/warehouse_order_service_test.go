package service

import (
	"context"
	"testing"

	"legofactory/internal/dto"
	"legofactory/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedWarehouseOrder(repo *stubWarehouseOrderRepo, status model.OrderStatus) *model.WarehouseOrder {
	wo := &model.WarehouseOrder{
		ID:               uuid.New(),
		OrderNumber:      "WO-TEST-000001",
		SourceOrderID:    uuid.New(),
		TargetLocationID: testModulesWarehouse,
		Status:           status,
		TriggerScenario:  model.ScenarioWarehouseOrder,
		Lines: []model.WarehouseOrderLine{
			{ID: uuid.New(), ItemType: model.ItemTypeModule, ItemID: 10, ItemName: "Tower Module", RequestedQty: 2},
		},
	}
	repo.created = append(repo.created, wo)
	return wo
}

func TestWarehouseOrderUpdateStatus(t *testing.T) {
	repo := &stubWarehouseOrderRepo{}
	auditor := &recordingAuditor{}
	svc := NewWarehouseOrderService(repo, auditor)
	wo := seedWarehouseOrder(repo, model.StatusPending)

	resp, err := svc.UpdateStatus(context.Background(), wo.ID,
		dto.UpdateWarehouseOrderStatusRequest{Status: "CONFIRMED"})
	require.NoError(t, err)

	assert.Equal(t, "CONFIRMED", resp.Status)
	assert.Contains(t, auditor.events, "WAREHOUSE_ORDER:STATUS_CHANGED")
}

func TestWarehouseOrderUpdateStatus_IllegalTransition(t *testing.T) {
	repo := &stubWarehouseOrderRepo{}
	svc := NewWarehouseOrderService(repo, &recordingAuditor{})
	wo := seedWarehouseOrder(repo, model.StatusCompleted)

	_, err := svc.UpdateStatus(context.Background(), wo.ID,
		dto.UpdateWarehouseOrderStatusRequest{Status: "PROCESSING"})
	var stateErr *InvalidOrderStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, model.StatusCompleted, wo.Status) // unchanged
}

func TestWarehouseOrderUpdateStatus_UnknownStatus(t *testing.T) {
	repo := &stubWarehouseOrderRepo{}
	svc := NewWarehouseOrderService(repo, &recordingAuditor{})
	wo := seedWarehouseOrder(repo, model.StatusPending)

	_, err := svc.UpdateStatus(context.Background(), wo.ID,
		dto.UpdateWarehouseOrderStatusRequest{Status: "SHIPPED"})
	assert.ErrorContains(t, err, "unknown order status")
}

func TestGetWarehouseOrder_NotFound(t *testing.T) {
	svc := NewWarehouseOrderService(&stubWarehouseOrderRepo{}, &recordingAuditor{})

	_, err := svc.GetWarehouseOrder(context.Background(), uuid.New())
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}
