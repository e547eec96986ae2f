package repository

import (
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/wallclock"
)

func toModel(ap *domain.Appointment) models.Appointment {
	s := ap.Snapshot()

	row := models.Appointment{
		ID:              s.ID,
		PatientRef:      s.PatientRef,
		ProviderRef:     s.ProviderRef,
		CalendarDate:    s.Date.String(),
		TimeOfDay:       s.TimeOfDay.String(),
		StartMinute:     s.TimeOfDay.Minutes(),
		StartAt:         ap.Instant().UTC(),
		EndAt:           ap.EndInstant().UTC(),
		DurationMinutes: s.DurationMinutes,
		Type:            string(s.Type),
		Status:          string(s.Status),
		Reason:          s.Reason,
		Location:        s.Location,
		Room:            s.Room,
		Notes:           s.Notes,
		Version:         s.Version,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}

	if c := s.Cancellation; c != nil {
		by := string(c.CancelledBy)
		at := c.CancelledAt
		row.CancelledBy = &by
		row.CancellationReason = c.Reason
		row.CancelledAt = &at
	}

	row.Reminders = make([]models.AppointmentReminder, 0, len(s.Reminders))
	for _, r := range s.Reminders {
		row.Reminders = append(row.Reminders, models.AppointmentReminder{
			AppointmentID: s.ID,
			Channel:       string(r.Channel),
			ScheduledFor:  r.ScheduledFor.UTC(),
			Sent:          r.Sent,
			SentAt:        r.SentAt,
		})
	}

	return row
}

func toDomain(row models.Appointment, loc *time.Location) (*domain.Appointment, error) {
	date, err := wallclock.ParseDate(row.CalendarDate)
	if err != nil {
		return nil, fmt.Errorf("appointment %s: %w", row.ID, err)
	}
	tod, err := wallclock.ParseTimeOfDay(row.TimeOfDay)
	if err != nil {
		return nil, fmt.Errorf("appointment %s: %w", row.ID, err)
	}

	s := domain.Snapshot{
		ID:              row.ID,
		PatientRef:      row.PatientRef,
		ProviderRef:     row.ProviderRef,
		Date:            date,
		TimeOfDay:       tod,
		DurationMinutes: row.DurationMinutes,
		Type:            domain.Type(row.Type),
		Status:          domain.Status(row.Status),
		Reason:          row.Reason,
		Location:        row.Location,
		Room:            row.Room,
		Notes:           row.Notes,
		Reminders:       make([]domain.Reminder, 0, len(row.Reminders)),
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
		Version:         row.Version,
	}

	if row.CancelledBy != nil {
		c := &domain.Cancellation{
			CancelledBy: domain.CancelledBy(*row.CancelledBy),
			Reason:      row.CancellationReason,
		}
		if row.CancelledAt != nil {
			c.CancelledAt = *row.CancelledAt
		}
		s.Cancellation = c
	}

	for _, r := range row.Reminders {
		s.Reminders = append(s.Reminders, domain.Reminder{
			Channel:      domain.Channel(r.Channel),
			ScheduledFor: r.ScheduledFor,
			Sent:         r.Sent,
			SentAt:       r.SentAt,
		})
	}

	return domain.Restore(s, loc), nil
}

func toDomainList(rows []models.Appointment, loc *time.Location) ([]*domain.Appointment, error) {
	out := make([]*domain.Appointment, 0, len(rows))
	for _, row := range rows {
		ap, err := toDomain(row, loc)
		if err != nil {
			return nil, err
		}
		out = append(out, ap)
	}
	return out, nil
}

func toWorkingHours(providerRef string, d domain.WeeklyHours) models.WorkingHours {
	wh := models.WorkingHours{
		ProviderRef: providerRef,
		Weekday:     int(d.Weekday),
		Active:      !d.Closed,
	}
	if d.Closed {
		return wh
	}

	wh.StartTime = d.Start.String()
	wh.EndTime = d.End.String()
	if d.BreakStart != nil && d.BreakEnd != nil {
		wh.BreakStart = d.BreakStart.String()
		wh.BreakEnd = d.BreakEnd.String()
	}
	return wh
}

func fromWorkingHours(wh models.WorkingHours) (domain.WeeklyHours, error) {
	out := domain.WeeklyHours{Weekday: time.Weekday(wh.Weekday)}
	if !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		out.Closed = true
		return out, nil
	}

	var err error
	if out.Start, err = wallclock.ParseTimeOfDay(wh.StartTime); err != nil {
		return out, fmt.Errorf("working hours %d: %w", wh.ID, err)
	}
	if out.End, err = wallclock.ParseTimeOfDay(wh.EndTime); err != nil {
		return out, fmt.Errorf("working hours %d: %w", wh.ID, err)
	}

	if wh.BreakStart != "" && wh.BreakEnd != "" {
		bs, err := wallclock.ParseTimeOfDay(wh.BreakStart)
		if err != nil {
			return out, fmt.Errorf("working hours %d: %w", wh.ID, err)
		}
		be, err := wallclock.ParseTimeOfDay(wh.BreakEnd)
		if err != nil {
			return out, fmt.Errorf("working hours %d: %w", wh.ID, err)
		}
		out.BreakStart = &bs
		out.BreakEnd = &be
	}
	return out, nil
}
