package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// Second line behind the provider-day lock: two live appointments may not
// start at the same provider slot.
const slotUniqueIndex = `
	CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_live_slot
	ON appointments (provider_ref, calendar_date, time_of_day)
	WHERE status IN ('scheduled', 'confirmed', 'in-progress')
`

// Rejects any overlapping live interval for one provider. Needs btree_gist.
const overlapExclusion = `
DO $$
BEGIN
	CREATE EXTENSION IF NOT EXISTS btree_gist;
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint WHERE conname = 'appointments_no_overlap'
	) THEN
		ALTER TABLE appointments
		ADD CONSTRAINT appointments_no_overlap
		EXCLUDE USING gist (
			provider_ref WITH =,
			tstzrange(start_at, end_at, '[)') WITH &&
		)
		WHERE (status IN ('scheduled', 'confirmed', 'in-progress'));
	END IF;
END
$$;
`

func NewDB(dsn string, log zerolog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB, log zerolog.Logger) error {
	if err := db.AutoMigrate(
		&models.Appointment{},
		&models.AppointmentReminder{},
		&models.WorkingHours{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := db.Exec(slotUniqueIndex).Error; err != nil {
		return fmt.Errorf("create slot index: %w", err)
	}

	// Managed databases may refuse the extension; the lock still serializes writers.
	if err := db.Exec(overlapExclusion).Error; err != nil {
		log.Warn().Err(err).Msg("overlap exclusion constraint not installed")
	}

	return nil
}
