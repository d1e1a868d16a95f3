package repository

import (
	"context"

	"legofactory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditEventRepository persists the audit trail written by the audit worker.
type AuditEventRepository interface {
	Create(ctx context.Context, e *model.AuditEvent) error
	ListByOrder(ctx context.Context, orderType string, orderID uuid.UUID) ([]model.AuditEvent, error)
}

type auditEventRepo struct{ db *gorm.DB }

func NewAuditEventRepository(db *gorm.DB) AuditEventRepository {
	return &auditEventRepo{db: db}
}

func (r *auditEventRepo) Create(ctx context.Context, e *model.AuditEvent) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *auditEventRepo) ListByOrder(ctx context.Context, orderType string, orderID uuid.UUID) ([]model.AuditEvent, error) {
	var events []model.AuditEvent
	err := r.db.WithContext(ctx).
		Where("order_type = ? AND order_id = ?", orderType, orderID).
		Order("created_at ASC").Find(&events).Error
	return events, err
}
