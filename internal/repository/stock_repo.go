package repository

import (
	"context"

	"legofactory/internal/dto"
	"legofactory/internal/model"

	"gorm.io/gorm"
)

// StockRepository is the data access contract for stock levels and their
// movement trail. Deductions use an optimistic version check: the UPDATE
// matches on the version read earlier and reports a conflict via the
// affected-rows count instead of blocking on row locks.
type StockRepository interface {
	Find(ctx context.Context, locationID int64, itemType model.ItemType, itemID int64) (*model.StockLevel, error)
	ListByLocation(ctx context.Context, locationID int64, itemType string) ([]model.StockLevel, error)
	Create(ctx context.Context, level *model.StockLevel) error

	// DeductVersioned subtracts qty from the level row iff the stored version
	// still matches level.Version and enough quantity remains.
	// Returns false (and no error) on a version conflict so callers can retry.
	DeductVersioned(ctx context.Context, tx *gorm.DB, level *model.StockLevel, qty int) (bool, error)

	// Adjust applies a manual delta guarded against negative stock.
	Adjust(ctx context.Context, locationID int64, itemType model.ItemType, itemID int64, delta int) (bool, error)

	CreateMovement(ctx context.Context, m *model.StockMovement) error
	ListMovements(ctx context.Context, filter dto.StockMovementFilter) ([]model.StockMovement, int64, error)

	DB() *gorm.DB
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) Find(ctx context.Context, locationID int64, itemType model.ItemType, itemID int64) (*model.StockLevel, error) {
	var level model.StockLevel
	err := r.db.WithContext(ctx).
		Where("location_id = ? AND item_type = ? AND item_id = ?", locationID, itemType, itemID).
		First(&level).Error
	if err != nil {
		return nil, err
	}
	return &level, nil
}

func (r *stockRepo) ListByLocation(ctx context.Context, locationID int64, itemType string) ([]model.StockLevel, error) {
	var levels []model.StockLevel
	q := r.db.WithContext(ctx).Where("location_id = ?", locationID)
	if itemType != "" {
		q = q.Where("item_type = ?", itemType)
	}
	err := q.Order("item_type, item_id").Find(&levels).Error
	return levels, err
}

func (r *stockRepo) Create(ctx context.Context, level *model.StockLevel) error {
	return r.db.WithContext(ctx).Create(level).Error
}

func (r *stockRepo) DeductVersioned(ctx context.Context, tx *gorm.DB, level *model.StockLevel, qty int) (bool, error) {
	db := tx
	if db == nil {
		db = r.db.WithContext(ctx)
	}
	res := db.Model(&model.StockLevel{}).
		Where("id = ? AND version = ? AND quantity >= ?", level.ID, level.Version, qty).
		Updates(map[string]interface{}{
			"quantity": gorm.Expr("quantity - ?", qty),
			"version":  gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *stockRepo) Adjust(ctx context.Context, locationID int64, itemType model.ItemType, itemID int64, delta int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.StockLevel{}).
		Where("location_id = ? AND item_type = ? AND item_id = ? AND quantity + ? >= 0",
			locationID, itemType, itemID, delta).
		Updates(map[string]interface{}{
			"quantity": gorm.Expr("quantity + ?", delta),
			"version":  gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *stockRepo) CreateMovement(ctx context.Context, m *model.StockMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *stockRepo) ListMovements(ctx context.Context, filter dto.StockMovementFilter) ([]model.StockMovement, int64, error) {
	var movements []model.StockMovement
	var total int64

	q := r.db.WithContext(ctx).Model(&model.StockMovement{})
	if filter.LocationID > 0 {
		q = q.Where("location_id = ?", filter.LocationID)
	}
	if filter.ItemID > 0 {
		q = q.Where("item_id = ?", filter.ItemID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&movements).Error
	return movements, total, err
}

func (r *stockRepo) DB() *gorm.DB { return r.db }
