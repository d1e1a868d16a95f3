package repository

import (
	"context"

	"legofactory/internal/dto"
	"legofactory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRepository defines the data access contract for customer orders.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type OrderRepository interface {
	Create(ctx context.Context, o *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error)
	Save(ctx context.Context, o *model.Order) error

	// ListByStatusAtLocation feeds the cached-scenario re-evaluation after a
	// direct fulfillment changes stock at a location.
	ListByStatusAtLocation(ctx context.Context, status model.OrderStatus, locationID int64) ([]model.Order, error)
	ListByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error)

	// Used inside transactions — callers must pass the tx instance
	SaveTx(tx *gorm.DB, o *model.Order) error
	SaveLineTx(tx *gorm.DB, line *model.OrderLine) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) Create(ctx context.Context, o *model.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Preload("Lines").First(&o, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Order{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.LocationID > 0 {
		q = q.Where("location_id = ?", filter.LocationID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Lines").Order("created_at DESC").
		Limit(filter.Limit).Offset(offset).Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) Save(ctx context.Context, o *model.Order) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(o).Error
}

func (r *orderRepo) ListByStatusAtLocation(ctx context.Context, status model.OrderStatus, locationID int64) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).Preload("Lines").
		Where("status = ? AND location_id = ?", status, locationID).
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) ListByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).Preload("Lines").
		Where("status = ?", status).Find(&orders).Error
	return orders, err
}

func (r *orderRepo) SaveTx(tx *gorm.DB, o *model.Order) error {
	return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(o).Error
}

func (r *orderRepo) SaveLineTx(tx *gorm.DB, line *model.OrderLine) error {
	return tx.Save(line).Error
}

func (r *orderRepo) DB() *gorm.DB { return r.db }
