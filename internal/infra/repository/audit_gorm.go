package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AuditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) *AuditLogGormRepository {
	return &AuditLogGormRepository{db: db}
}

// ListForEntity returns the audit trail of one entity, newest first.
func (r *AuditLogGormRepository) ListForEntity(
	ctx context.Context,
	entityID string,
	page, limit int,
) ([]models.AuditLog, int64, error) {

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Where("entity_id = ?", entityID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AuditLog
	if err := r.db.WithContext(ctx).
		Where("entity_id = ?", entityID).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
