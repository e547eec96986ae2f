package appointment

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	"github.com/BruksfildServices01/clinic-scheduler/internal/wallclock"
)

// ======================================================
// INPUT
// ======================================================

type BookInput struct {
	PatientRef  string
	ProviderRef string

	Date            string // YYYY-MM-DD
	TimeOfDay       string // HH:MM AM/PM
	DurationMinutes int

	Type     string
	Reason   string
	Location string
	Room     string
	Notes    string
}

// ======================================================
// USE CASE
// ======================================================

type BookAppointment struct {
	repo      domain.Repository
	locker    domain.Locker
	events    domain.Publisher
	clock     timezone.Clock
	reminders domain.ReminderPolicy
}

func NewBookAppointment(
	repo domain.Repository,
	locker domain.Locker,
	events domain.Publisher,
	clock timezone.Clock,
	reminders domain.ReminderPolicy,
) *BookAppointment {
	return &BookAppointment{
		repo:      repo,
		locker:    locker,
		events:    events,
		clock:     clock,
		reminders: reminders,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *BookAppointment) Execute(
	ctx context.Context,
	in BookInput,
) (*domain.Appointment, error) {

	date, err := wallclock.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	tod, err := wallclock.ParseTimeOfDay(in.TimeOfDay)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	ap, err := domain.New(uuid.NewString(), domain.Details{
		PatientRef:      in.PatientRef,
		ProviderRef:     in.ProviderRef,
		Date:            date,
		TimeOfDay:       tod,
		DurationMinutes: in.DurationMinutes,
		Type:            domain.Type(in.Type),
		Reason:          in.Reason,
		Location:        in.Location,
		Room:            in.Room,
		Notes:           in.Notes,
	}, uc.clock.Location(), now)
	if err != nil {
		return nil, err
	}

	unlock, err := lockInterval(ctx, uc.locker, ap.ProviderRef(), ap.Instant(), ap.EndInstant())
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := assertNoConflict(ctx, uc.repo, ap.ProviderRef(), ap.Instant(), ap.EndInstant(), ""); err != nil {
		return nil, err
	}

	ap.ScheduleReminders(uc.reminders, now)

	if err := uc.repo.Create(ctx, ap); err != nil {
		return nil, err
	}

	ev := domain.NewEvent(domain.EventConfirmed, ap, now)
	ev.ActorRef = ap.PatientRef()
	uc.events.Publish(ev)

	return ap, nil
}
