package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

type CancelInput struct {
	AppointmentID string
	ActorRef      string
	CancelledBy   domain.CancelledBy
	Reason        string
}

type CancelAppointment struct {
	repo   domain.Repository
	events domain.Publisher
	clock  timezone.Clock
}

func NewCancelAppointment(
	repo domain.Repository,
	events domain.Publisher,
	clock timezone.Clock,
) *CancelAppointment {
	return &CancelAppointment{
		repo:   repo,
		events: events,
		clock:  clock,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	in CancelInput,
) (*domain.Appointment, error) {

	ap, err := loadForActor(ctx, uc.repo, in.AppointmentID, in.ActorRef)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	if err := ap.Cancel(in.CancelledBy, in.Reason, now); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, ap); err != nil {
		return nil, err
	}

	ev := domain.NewEvent(domain.EventCancelled, ap, now)
	ev.ActorRef = in.ActorRef
	if c := ap.Cancellation(); c != nil {
		ev.Reason = c.Reason
	}
	uc.events.Publish(ev)

	return ap, nil
}
