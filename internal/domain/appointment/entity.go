package appointment

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/wallclock"
)

const (
	DefaultDurationMinutes = 30
	MinDurationMinutes     = 15
	MaxDurationMinutes     = 120

	MaxReasonLength             = 500
	MaxNotesLength              = 1000
	MaxCancellationReasonLength = 200

	CancelWindow     = 24 * time.Hour
	RescheduleWindow = 2 * time.Hour
)

type Cancellation struct {
	CancelledBy CancelledBy `json:"cancelledBy"`
	Reason      string      `json:"reason,omitempty"`
	CancelledAt time.Time   `json:"cancelledAt"`
}

// Snapshot is the plain data form of an appointment, as stored and as emitted in events.
type Snapshot struct {
	ID              string              `json:"id"`
	PatientRef      string              `json:"patientRef"`
	ProviderRef     string              `json:"providerRef"`
	Date            wallclock.Date      `json:"calendarDate"`
	TimeOfDay       wallclock.TimeOfDay `json:"timeOfDay"`
	DurationMinutes int                 `json:"durationMinutes"`
	Type            Type                `json:"type"`
	Status          Status              `json:"status"`
	Reason          string              `json:"reason"`
	Location        string              `json:"location"`
	Room            string              `json:"room,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	Cancellation    *Cancellation       `json:"cancellation,omitempty"`
	Reminders       []Reminder          `json:"reminders"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`

	// Version increases with every stored write and guards updates
	// against stale reads.
	Version int `json:"version"`
}

// Details are the caller-supplied fields of a new appointment.
type Details struct {
	PatientRef      string
	ProviderRef     string
	Date            wallclock.Date
	TimeOfDay       wallclock.TimeOfDay
	DurationMinutes int
	Type            Type
	Reason          string
	Location        string
	Room            string
	Notes           string
}

// Appointment guards its own invariants. Status, schedule, cancellation and
// reminders change only through the methods below.
type Appointment struct {
	s   Snapshot
	loc *time.Location
}

// New validates d and builds a scheduled appointment. The instant must be
// strictly after now.
func New(id string, d Details, loc *time.Location, now time.Time) (*Appointment, error) {
	if loc == nil {
		loc = time.UTC
	}

	d.PatientRef = strings.TrimSpace(d.PatientRef)
	d.ProviderRef = strings.TrimSpace(d.ProviderRef)
	d.Reason = strings.TrimSpace(d.Reason)
	d.Location = strings.TrimSpace(d.Location)

	if d.DurationMinutes == 0 {
		d.DurationMinutes = DefaultDurationMinutes
	}
	if d.Type == "" {
		d.Type = TypeConsultation
	}

	if err := validateDetails(id, d); err != nil {
		return nil, err
	}

	instant := wallclock.Combine(d.Date, d.TimeOfDay, loc)
	if !instant.After(now) {
		return nil, PastAppointmentError{Instant: instant, Now: now}
	}

	return &Appointment{
		s: Snapshot{
			ID:              id,
			PatientRef:      d.PatientRef,
			ProviderRef:     d.ProviderRef,
			Date:            d.Date,
			TimeOfDay:       d.TimeOfDay,
			DurationMinutes: d.DurationMinutes,
			Type:            d.Type,
			Status:          InitialStatus(),
			Reason:          d.Reason,
			Location:        d.Location,
			Room:            d.Room,
			Notes:           d.Notes,
			Reminders:       []Reminder{},
			CreatedAt:       now,
			UpdatedAt:       now,
			Version:         1,
		},
		loc: loc,
	}, nil
}

func validateDetails(id string, d Details) error {
	switch {
	case id == "":
		return ValidationError{Field: "id", Message: "is required"}
	case d.PatientRef == "":
		return ValidationError{Field: "patientRef", Message: "is required"}
	case d.ProviderRef == "":
		return ValidationError{Field: "providerRef", Message: "is required"}
	case d.Date.IsZero():
		return ValidationError{Field: "calendarDate", Message: "is required"}
	case d.DurationMinutes < MinDurationMinutes || d.DurationMinutes > MaxDurationMinutes:
		return ValidationError{Field: "durationMinutes", Message: "must be between 15 and 120"}
	case !d.Type.Valid():
		return ValidationError{Field: "type", Message: "is not a known appointment type"}
	case d.Reason == "":
		return ValidationError{Field: "reason", Message: "is required"}
	case len(d.Reason) > MaxReasonLength:
		return ValidationError{Field: "reason", Message: "cannot exceed 500 characters"}
	case d.Location == "":
		return ValidationError{Field: "location", Message: "is required"}
	case len(d.Notes) > MaxNotesLength:
		return ValidationError{Field: "notes", Message: "cannot exceed 1000 characters"}
	}
	return nil
}

// Restore rebuilds an appointment from storage without re-running creation checks.
func Restore(s Snapshot, loc *time.Location) *Appointment {
	if loc == nil {
		loc = time.UTC
	}
	s.Reminders = append([]Reminder{}, s.Reminders...)
	if s.Cancellation != nil {
		c := *s.Cancellation
		s.Cancellation = &c
	}
	return &Appointment{s: s, loc: loc}
}

// Snapshot returns a deep copy of the current state.
func (a *Appointment) Snapshot() Snapshot {
	out := a.s
	out.Reminders = a.Reminders()
	if a.s.Cancellation != nil {
		c := *a.s.Cancellation
		out.Cancellation = &c
	}
	return out
}

func (a *Appointment) ID() string                     { return a.s.ID }
func (a *Appointment) PatientRef() string             { return a.s.PatientRef }
func (a *Appointment) ProviderRef() string            { return a.s.ProviderRef }
func (a *Appointment) Date() wallclock.Date           { return a.s.Date }
func (a *Appointment) TimeOfDay() wallclock.TimeOfDay { return a.s.TimeOfDay }
func (a *Appointment) DurationMinutes() int           { return a.s.DurationMinutes }
func (a *Appointment) Status() Status                 { return a.s.Status }
func (a *Appointment) Zone() *time.Location           { return a.loc }
func (a *Appointment) Version() int                   { return a.s.Version }

// Stored records the version the repository assigned on a successful write.
func (a *Appointment) Stored(version int) { a.s.Version = version }

func (a *Appointment) Cancellation() *Cancellation {
	if a.s.Cancellation == nil {
		return nil
	}
	c := *a.s.Cancellation
	return &c
}

func (a *Appointment) Reminders() []Reminder {
	out := make([]Reminder, len(a.s.Reminders))
	for i, r := range a.s.Reminders {
		if r.SentAt != nil {
			at := *r.SentAt
			r.SentAt = &at
		}
		out[i] = r
	}
	return out
}

// ===============================
// Derived
// ===============================

func (a *Appointment) Instant() time.Time {
	return wallclock.Combine(a.s.Date, a.s.TimeOfDay, a.loc)
}

func (a *Appointment) EndInstant() time.Time {
	return wallclock.AddMinutes(a.Instant(), a.s.DurationMinutes)
}

// EndTimeOfDay is the wall-clock end in 12-hour form.
func (a *Appointment) EndTimeOfDay() string {
	end := a.EndInstant()
	return wallclock.FormatTimeOfDay(end.Hour(), end.Minute())
}

func (a *Appointment) HoursUntil(now time.Time) float64 {
	return wallclock.DiffHours(a.Instant(), now)
}

func (a *Appointment) IsUpcoming(now time.Time) bool {
	return a.Instant().After(now) &&
		(a.s.Status == StatusScheduled || a.s.Status == StatusConfirmed)
}

func (a *Appointment) IsPast(now time.Time) bool {
	return a.Instant().Before(now)
}

func (a *Appointment) CanCancel(now time.Time) bool {
	return a.s.Status == StatusScheduled && a.HoursUntil(now) > CancelWindow.Hours()
}

func (a *Appointment) CanReschedule(now time.Time) bool {
	return a.s.Status == StatusScheduled && a.HoursUntil(now) > RescheduleWindow.Hours()
}

// Overlaps reports whether [Instant, EndInstant) intersects [start, end).
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.Instant().Before(end) && start.Before(a.EndInstant())
}

// ===============================
// Domain Actions
// ===============================

// ValidateReschedule checks every precondition of Reschedule that does not
// need other appointments. It never mutates.
func (a *Appointment) ValidateReschedule(date wallclock.Date, tod wallclock.TimeOfDay, now time.Time) error {
	if !a.CanReschedule(now) {
		return RescheduleWindowError{HoursRemaining: a.HoursUntil(now)}
	}
	if date.IsZero() {
		return ValidationError{Field: "calendarDate", Message: "is required"}
	}

	instant := wallclock.Combine(date, tod, a.loc)
	if !instant.After(now) {
		return PastAppointmentError{Instant: instant, Now: now}
	}
	return nil
}

// Reschedule moves the appointment and replans its pending reminders.
// Slot conflicts are the caller's check.
func (a *Appointment) Reschedule(date wallclock.Date, tod wallclock.TimeOfDay, policy ReminderPolicy, now time.Time) error {
	if err := a.ValidateReschedule(date, tod, now); err != nil {
		return err
	}

	a.s.Date = date
	a.s.TimeOfDay = tod
	a.ScheduleReminders(policy, now)
	a.s.UpdatedAt = now
	return nil
}

// Cancel is terminal and must happen more than CancelWindow before the
// instant, whoever cancels.
func (a *Appointment) Cancel(by CancelledBy, reason string, now time.Time) error {
	if !by.Valid() {
		return ValidationError{Field: "cancelledBy", Message: "must be patient, provider or system"}
	}
	reason = strings.TrimSpace(reason)
	if len(reason) > MaxCancellationReasonLength {
		return ValidationError{Field: "reason", Message: "cannot exceed 200 characters"}
	}
	if !CanTransition(a.s.Status, StatusCancelled) {
		return InvalidStatusTransitionError{From: a.s.Status, To: StatusCancelled}
	}
	if a.HoursUntil(now) <= CancelWindow.Hours() {
		return CancelWindowError{HoursRemaining: a.HoursUntil(now)}
	}

	a.s.Status = StatusCancelled
	a.s.Cancellation = &Cancellation{
		CancelledBy: by,
		Reason:      reason,
		CancelledAt: now,
	}
	a.dropPendingReminders()
	a.s.UpdatedAt = now
	return nil
}

func (a *Appointment) Confirm(now time.Time) error {
	return a.transition(StatusConfirmed, now)
}

func (a *Appointment) Start(now time.Time) error {
	return a.transition(StatusInProgress, now)
}

func (a *Appointment) Complete(now time.Time) error {
	return a.transition(StatusCompleted, now)
}

func (a *Appointment) MarkNoShow(now time.Time) error {
	return a.transition(StatusNoShow, now)
}

// Transition applies one of the non-cancel status changes by target.
func (a *Appointment) Transition(to Status, now time.Time) error {
	if to == StatusCancelled {
		return ValidationError{Field: "status", Message: "cancellation goes through Cancel"}
	}
	return a.transition(to, now)
}

func (a *Appointment) transition(to Status, now time.Time) error {
	if !CanTransition(a.s.Status, to) {
		return InvalidStatusTransitionError{From: a.s.Status, To: to}
	}

	a.s.Status = to
	if to.IsTerminal() {
		a.dropPendingReminders()
	}
	a.s.UpdatedAt = now
	return nil
}
