package dto

import (
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// AppointmentDTO is the stored appointment plus fields derived at read time.
type AppointmentDTO struct {
	domain.Snapshot

	AppointmentInstant time.Time `json:"appointmentInstant"`
	EndInstant         time.Time `json:"endInstant"`
	EndTime            string    `json:"endTime"`
	IsUpcoming         bool      `json:"isUpcoming"`
	IsPast             bool      `json:"isPast"`
	CanCancel          bool      `json:"canCancel"`
	CanReschedule      bool      `json:"canReschedule"`
}

func FromAppointment(ap *domain.Appointment, now time.Time) AppointmentDTO {
	return AppointmentDTO{
		Snapshot:           ap.Snapshot(),
		AppointmentInstant: ap.Instant(),
		EndInstant:         ap.EndInstant(),
		EndTime:            ap.EndTimeOfDay(),
		IsUpcoming:         ap.IsUpcoming(now),
		IsPast:             ap.IsPast(now),
		CanCancel:          ap.CanCancel(now),
		CanReschedule:      ap.CanReschedule(now),
	}
}

func FromAppointments(apps []*domain.Appointment, now time.Time) []AppointmentDTO {
	out := make([]AppointmentDTO, 0, len(apps))
	for _, ap := range apps {
		out = append(out, FromAppointment(ap, now))
	}
	return out
}

// ======================================================
// REQUESTS
// ======================================================

type BookAppointmentRequest struct {
	// PatientRef is honored only for provider and admin callers.
	PatientRef      string `json:"patientRef"`
	ProviderRef     string `json:"providerRef" binding:"required"`
	CalendarDate    string `json:"calendarDate" binding:"required"`
	TimeOfDay       string `json:"timeOfDay" binding:"required"`
	DurationMinutes int    `json:"durationMinutes" binding:"omitempty,min=15,max=120"`
	Type            string `json:"type" binding:"omitempty,oneof=consultation follow-up emergency routine specialist"`
	Reason          string `json:"reason" binding:"required,max=500"`
	Location        string `json:"location" binding:"required"`
	Room            string `json:"room"`
	Notes           string `json:"notes" binding:"max=1000"`
}

type RescheduleRequest struct {
	CalendarDate string `json:"calendarDate" binding:"required"`
	TimeOfDay    string `json:"timeOfDay" binding:"required"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"max=200"`
}

type WeeklyHoursRequest struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	Active     bool   `json:"active"`
	Start      string `json:"start"`
	End        string `json:"end"`
	BreakStart string `json:"breakStart"`
	BreakEnd   string `json:"breakEnd"`
}

type BusinessHoursRequest struct {
	Days []WeeklyHoursRequest `json:"days" binding:"required,dive"`
}

// ======================================================
// AUDIT
// ======================================================

type AuditEntryDTO struct {
	EventID    string    `json:"eventId"`
	Action     string    `json:"action"`
	ActorRef   string    `json:"actorRef,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func FromAuditLogs(logs []models.AuditLog) []AuditEntryDTO {
	out := make([]AuditEntryDTO, 0, len(logs))
	for _, l := range logs {
		out = append(out, AuditEntryDTO{
			EventID:    l.EventID,
			Action:     l.Action,
			ActorRef:   l.ActorRef,
			OccurredAt: l.CreatedAt,
		})
	}
	return out
}
