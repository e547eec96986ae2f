package events

import (
	"context"

	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

// LogSink writes one structured line per event. Used when no broker is configured.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log.With().Str("sink", "log").Logger()}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Write(_ context.Context, ev domain.Event) error {
	e := s.log.Info().
		Str("event_id", ev.ID).
		Str("event_type", string(ev.Type)).
		Str("appointment_id", ev.Appointment.ID).
		Str("patient_ref", ev.Appointment.PatientRef).
		Str("provider_ref", ev.Appointment.ProviderRef)
	if ev.Reminder != nil {
		e = e.Str("channel", string(ev.Reminder.Channel))
	}
	e.Msg("appointment event")
	return nil
}
