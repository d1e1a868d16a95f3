package repository

import (
	"context"

	"legofactory/internal/dto"
	"legofactory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WarehouseOrderRepository is the data access contract for system-generated
// warehouse orders.
type WarehouseOrderRepository interface {
	Create(ctx context.Context, wo *model.WarehouseOrder) error
	CreateTx(tx *gorm.DB, wo *model.WarehouseOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.WarehouseOrder, error)
	List(ctx context.Context, filter dto.WarehouseOrderFilter) ([]model.WarehouseOrder, int64, error)
	Save(ctx context.Context, wo *model.WarehouseOrder) error
	DB() *gorm.DB
}

type warehouseOrderRepo struct{ db *gorm.DB }

func NewWarehouseOrderRepository(db *gorm.DB) WarehouseOrderRepository {
	return &warehouseOrderRepo{db: db}
}

func (r *warehouseOrderRepo) Create(ctx context.Context, wo *model.WarehouseOrder) error {
	return r.db.WithContext(ctx).Create(wo).Error
}

func (r *warehouseOrderRepo) CreateTx(tx *gorm.DB, wo *model.WarehouseOrder) error {
	return tx.Create(wo).Error
}

func (r *warehouseOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.WarehouseOrder, error) {
	var wo model.WarehouseOrder
	err := r.db.WithContext(ctx).Preload("Lines").First(&wo, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &wo, nil
}

func (r *warehouseOrderRepo) List(ctx context.Context, filter dto.WarehouseOrderFilter) ([]model.WarehouseOrder, int64, error) {
	var orders []model.WarehouseOrder
	var total int64

	q := r.db.WithContext(ctx).Model(&model.WarehouseOrder{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.SourceOrder != "" {
		q = q.Where("source_order_id = ?", filter.SourceOrder)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Lines").Order("created_at DESC").
		Limit(filter.Limit).Offset(offset).Find(&orders).Error
	return orders, total, err
}

func (r *warehouseOrderRepo) Save(ctx context.Context, wo *model.WarehouseOrder) error {
	return r.db.WithContext(ctx).Save(wo).Error
}

func (r *warehouseOrderRepo) DB() *gorm.DB { return r.db }
