package appointment

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventConfirmed     EventType = "appointment.confirmed"
	EventRescheduled   EventType = "appointment.rescheduled"
	EventCancelled     EventType = "appointment.cancelled"
	EventStatusChanged EventType = "appointment.status_changed"
	EventReminder      EventType = "appointment.reminder"
)

// PreviousSlot records where a rescheduled appointment came from.
type PreviousSlot struct {
	Date      string `json:"calendarDate"`
	TimeOfDay string `json:"timeOfDay"`
}

// Event is the notification contract consumed by the external notifier.
type Event struct {
	ID          string        `json:"id"`
	Type        EventType     `json:"type"`
	OccurredAt  time.Time     `json:"occurredAt"`
	ActorRef    string        `json:"actorRef,omitempty"`
	Appointment Snapshot      `json:"appointment"`
	Reason      string        `json:"reason,omitempty"`
	Previous    *PreviousSlot `json:"previous,omitempty"`
	Reminder    *Reminder     `json:"reminder,omitempty"`
}

func NewEvent(t EventType, ap *Appointment, now time.Time) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        t,
		OccurredAt:  now,
		Appointment: ap.Snapshot(),
	}
}

// Publisher hands events to the notifier side. It must not block the caller.
type Publisher interface {
	Publish(ev Event)
}
