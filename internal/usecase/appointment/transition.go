package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// TransitionAppointment covers confirm, start, complete and no-show.
type TransitionAppointment struct {
	repo   domain.Repository
	events domain.Publisher
	clock  timezone.Clock
}

func NewTransitionAppointment(
	repo domain.Repository,
	events domain.Publisher,
	clock timezone.Clock,
) *TransitionAppointment {
	return &TransitionAppointment{
		repo:   repo,
		events: events,
		clock:  clock,
	}
}

func (uc *TransitionAppointment) Execute(
	ctx context.Context,
	appointmentID string,
	actorRef string,
	to domain.Status,
) (*domain.Appointment, error) {

	ap, err := loadForActor(ctx, uc.repo, appointmentID, actorRef)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	if err := ap.Transition(to, now); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, ap); err != nil {
		return nil, err
	}

	ev := domain.NewEvent(domain.EventStatusChanged, ap, now)
	ev.ActorRef = actorRef
	uc.events.Publish(ev)

	return ap, nil
}
