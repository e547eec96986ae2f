package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/wallclock"
)

var activeStatuses = []string{
	string(domain.StatusScheduled),
	string(domain.StatusConfirmed),
	string(domain.StatusInProgress),
}

type AppointmentGormRepository struct {
	db  *gorm.DB
	loc *time.Location
}

func NewAppointmentGormRepository(db *gorm.DB, loc *time.Location) *AppointmentGormRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &AppointmentGormRepository{db: db, loc: loc}
}

func (r *AppointmentGormRepository) withReminders(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Reminders", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
}

// translate maps storage errors onto domain errors.
func translate(providerRef string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case httperr.IsExclusionConflict(err):
		return domain.SlotConflictError{ProviderRef: providerRef}
	}
	return err
}

// --------------------------------------------------
// Appointment (create / update)
// --------------------------------------------------

func (r *AppointmentGormRepository) Create(
	ctx context.Context,
	ap *domain.Appointment,
) error {
	row := toModel(ap)
	return translate(row.ProviderRef, r.db.WithContext(ctx).Create(&row).Error)
}

// Update writes the row when its stored version still matches and replaces
// its reminders, all in one transaction.
func (r *AppointmentGormRepository) Update(
	ctx context.Context,
	ap *domain.Appointment,
) error {
	row := toModel(ap)
	reminders := row.Reminders
	row.Reminders = nil

	expected := row.Version
	row.Version = expected + 1

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&row).
			Where("version = ?", expected).
			Select("*").
			Omit("id", "created_at", clause.Associations).
			Updates(&row)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&models.Appointment{}).Where("id = ?", row.ID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return gorm.ErrRecordNotFound
			}
			return domain.ErrStaleAppointment
		}

		if err := tx.
			Where("appointment_id = ?", row.ID).
			Delete(&models.AppointmentReminder{}).Error; err != nil {
			return err
		}

		if len(reminders) > 0 {
			return tx.Create(&reminders).Error
		}
		return nil
	})
	if err != nil {
		return translate(row.ProviderRef, err)
	}

	ap.Stored(row.Version)
	return nil
}

func (r *AppointmentGormRepository) GetByID(
	ctx context.Context,
	id string,
) (*domain.Appointment, error) {

	var row models.Appointment
	if err := r.withReminders(ctx).
		Where("id = ?", id).
		First(&row).Error; err != nil {
		return nil, translate("", err)
	}

	return toDomain(row, r.loc)
}

// --------------------------------------------------
// Conflict / availability
// --------------------------------------------------

func (r *AppointmentGormRepository) ListActiveForProvider(
	ctx context.Context,
	providerRef string,
	from, to wallclock.Date,
) ([]*domain.Appointment, error) {

	var rows []models.Appointment
	if err := r.withReminders(ctx).
		Where(
			"provider_ref = ? AND status IN ? AND calendar_date >= ? AND calendar_date <= ?",
			providerRef, activeStatuses, from.String(), to.String(),
		).
		Order("start_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	return toDomainList(rows, r.loc)
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *AppointmentGormRepository) ListForProviderOnDate(
	ctx context.Context,
	providerRef string,
	date wallclock.Date,
) ([]*domain.Appointment, error) {

	var rows []models.Appointment
	if err := r.withReminders(ctx).
		Where("provider_ref = ? AND calendar_date = ?", providerRef, date.String()).
		Order("start_minute ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	return toDomainList(rows, r.loc)
}

func (r *AppointmentGormRepository) ListForPatient(
	ctx context.Context,
	q domain.PatientQuery,
) ([]*domain.Appointment, int64, error) {

	order := "calendar_date ASC, start_minute ASC"
	if q.View == domain.ViewPast {
		order = "calendar_date DESC, start_minute DESC"
	}

	filter := func(db *gorm.DB) *gorm.DB {
		db = db.Where("patient_ref = ?", q.PatientRef)
		switch q.View {
		case domain.ViewUpcoming:
			return db.Where(
				"calendar_date >= ? AND status IN ?",
				q.Today.String(),
				[]string{string(domain.StatusScheduled), string(domain.StatusConfirmed)},
			)
		case domain.ViewPast:
			return db.Where("calendar_date < ?", q.Today.String())
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Scopes(filter).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Appointment
	if err := r.withReminders(ctx).
		Scopes(filter).
		Order(order).
		Limit(q.Limit).
		Offset((q.Page - 1) * q.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	apps, err := toDomainList(rows, r.loc)
	return apps, total, err
}

// --------------------------------------------------
// Reminders
// --------------------------------------------------

func (r *AppointmentGormRepository) ListWithDueReminders(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]*domain.Appointment, error) {

	due := r.db.
		Model(&models.AppointmentReminder{}).
		Select("appointment_id").
		Where("sent = ? AND scheduled_for <= ?", false, now.UTC())

	var rows []models.Appointment
	if err := r.withReminders(ctx).
		Where("status IN ? AND start_at > ? AND id IN (?)", activeStatuses, now.UTC(), due).
		Order("start_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	return toDomainList(rows, r.loc)
}

// errReminderGone rolls back a claim that found nothing to mark.
var errReminderGone = errors.New("reminder already sent or appointment inactive")

// ClaimReminder bumps the appointment version and marks the reminder sent.
// Both updates are conditional, so a cancel or a concurrent sweep wins cleanly.
func (r *AppointmentGormRepository) ClaimReminder(
	ctx context.Context,
	appointmentID string,
	rem domain.Reminder,
	at time.Time,
) (bool, error) {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&models.Appointment{}).
			Where("id = ? AND status IN ? AND start_at > ?", appointmentID, activeStatuses, at.UTC()).
			UpdateColumn("version", gorm.Expr("version + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errReminderGone
		}

		res = tx.
			Model(&models.AppointmentReminder{}).
			Where(
				"appointment_id = ? AND channel = ? AND scheduled_for = ? AND scheduled_for <= ? AND sent = ?",
				appointmentID, string(rem.Channel), rem.ScheduledFor.UTC(), at.UTC(), false,
			).
			Updates(map[string]any{"sent": true, "sent_at": at.UTC()})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errReminderGone
		}
		return nil
	})

	switch {
	case errors.Is(err, errReminderGone):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
