package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type WorkingHoursGormRepository struct {
	db *gorm.DB
}

func NewWorkingHoursGormRepository(db *gorm.DB) *WorkingHoursGormRepository {
	return &WorkingHoursGormRepository{db: db}
}

func (r *WorkingHoursGormRepository) GetBusinessHours(
	ctx context.Context,
	providerRef string,
	weekday time.Weekday,
) (*domain.BusinessHours, error) {

	var wh models.WorkingHours
	err := r.db.WithContext(ctx).
		Where("provider_ref = ? AND weekday = ?", providerRef, int(weekday)).
		First(&wh).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	day, err := fromWorkingHours(wh)
	if err != nil {
		return nil, err
	}
	return &day.BusinessHours, nil
}

func (r *WorkingHoursGormRepository) ListBusinessHours(
	ctx context.Context,
	providerRef string,
) ([]domain.WeeklyHours, error) {

	var rows []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("provider_ref = ?", providerRef).
		Order("weekday ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.WeeklyHours, 0, len(rows))
	for _, wh := range rows {
		day, err := fromWorkingHours(wh)
		if err != nil {
			return nil, err
		}
		out = append(out, day)
	}
	return out, nil
}

// ReplaceBusinessHours swaps the whole week of a provider atomically.
func (r *WorkingHoursGormRepository) ReplaceBusinessHours(
	ctx context.Context,
	providerRef string,
	days []domain.WeeklyHours,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("provider_ref = ?", providerRef).
			Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}

		if len(days) == 0 {
			return nil
		}

		rows := make([]models.WorkingHours, 0, len(days))
		for _, d := range days {
			rows = append(rows, toWorkingHours(providerRef, d))
		}
		return tx.Create(&rows).Error
	})
}

var _ domain.HoursRepository = (*WorkingHoursGormRepository)(nil)
