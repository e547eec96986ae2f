package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	"github.com/BruksfildServices01/clinic-scheduler/internal/wallclock"
)

type RescheduleInput struct {
	AppointmentID string
	ActorRef      string

	Date      string
	TimeOfDay string
}

type RescheduleAppointment struct {
	repo      domain.Repository
	locker    domain.Locker
	events    domain.Publisher
	clock     timezone.Clock
	reminders domain.ReminderPolicy
}

func NewRescheduleAppointment(
	repo domain.Repository,
	locker domain.Locker,
	events domain.Publisher,
	clock timezone.Clock,
	reminders domain.ReminderPolicy,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:      repo,
		locker:    locker,
		events:    events,
		clock:     clock,
		reminders: reminders,
	}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleInput,
) (*domain.Appointment, error) {

	date, err := wallclock.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	tod, err := wallclock.ParseTimeOfDay(in.TimeOfDay)
	if err != nil {
		return nil, err
	}

	ap, err := loadForActor(ctx, uc.repo, in.AppointmentID, in.ActorRef)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	if err := ap.ValidateReschedule(date, tod, now); err != nil {
		return nil, err
	}

	start := wallclock.Combine(date, tod, ap.Zone())
	end := wallclock.AddMinutes(start, ap.DurationMinutes())

	unlock, err := lockInterval(ctx, uc.locker, ap.ProviderRef(), start, end)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := assertNoConflict(ctx, uc.repo, ap.ProviderRef(), start, end, ap.ID()); err != nil {
		return nil, err
	}

	previous := &domain.PreviousSlot{
		Date:      ap.Date().String(),
		TimeOfDay: ap.TimeOfDay().String(),
	}

	if err := ap.Reschedule(date, tod, uc.reminders, now); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, ap); err != nil {
		return nil, err
	}

	ev := domain.NewEvent(domain.EventRescheduled, ap, now)
	ev.ActorRef = in.ActorRef
	ev.Previous = previous
	uc.events.Publish(ev)

	return ap, nil
}
