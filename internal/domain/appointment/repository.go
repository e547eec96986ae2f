package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/wallclock"
)

type PatientView string

const (
	ViewAll      PatientView = "all"
	ViewUpcoming PatientView = "upcoming"
	ViewPast     PatientView = "past"
)

type PatientQuery struct {
	PatientRef string
	View       PatientView
	Today      wallclock.Date
	Page       int
	Limit      int
}

type Repository interface {
	// -------- Appointment (create / update) --------
	Create(ctx context.Context, ap *Appointment) error
	// Update writes ap only if the stored version still equals ap.Version(),
	// otherwise it returns ErrStaleAppointment. On success ap carries the new version.
	Update(ctx context.Context, ap *Appointment) error

	GetByID(ctx context.Context, id string) (*Appointment, error)

	// -------- Conflict / availability --------
	// ListActiveForProvider returns non-terminal appointments dated from..to inclusive.
	ListActiveForProvider(ctx context.Context, providerRef string, from, to wallclock.Date) ([]*Appointment, error)

	// -------- Listing --------
	ListForProviderOnDate(ctx context.Context, providerRef string, date wallclock.Date) ([]*Appointment, error)
	ListForPatient(ctx context.Context, q PatientQuery) ([]*Appointment, int64, error)

	// -------- Reminders --------
	ListWithDueReminders(ctx context.Context, now time.Time, limit int) ([]*Appointment, error)
	// ClaimReminder marks one pending reminder of an active, still upcoming
	// appointment as sent at the given time. It reports false when the
	// reminder is gone, already sent, or the appointment is no longer active.
	ClaimReminder(ctx context.Context, appointmentID string, r Reminder, at time.Time) (bool, error)
}

type HoursRepository interface {
	// GetBusinessHours returns nil, nil when the provider has no hours for weekday.
	GetBusinessHours(ctx context.Context, providerRef string, weekday time.Weekday) (*BusinessHours, error)
	ListBusinessHours(ctx context.Context, providerRef string) ([]WeeklyHours, error)
	ReplaceBusinessHours(ctx context.Context, providerRef string, days []WeeklyHours) error
}

// Locker serializes check-then-write sequences on one provider day.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

func ScheduleLockKey(providerRef string, d wallclock.Date) string {
	return "appointments:lock:" + providerRef + ":" + d.String()
}
