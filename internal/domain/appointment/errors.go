package appointment

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound     = errors.New("appointment not found")
	ErrScheduleBusy = errors.New("provider schedule is locked by another booking")

	// ErrStaleAppointment: the stored appointment changed after it was read.
	ErrStaleAppointment = errors.New("appointment was modified by another request")
)

// PastAppointmentError: the requested instant is not strictly after now.
type PastAppointmentError struct {
	Instant time.Time
	Now     time.Time
}

func (e PastAppointmentError) Error() string {
	return fmt.Sprintf("appointment at %s is not in the future (now %s)",
		e.Instant.Format(time.RFC3339), e.Now.Format(time.RFC3339))
}

func (e PastAppointmentError) Code() string { return "past_appointment" }

// SlotConflictError names the active appointment overlapping the requested interval.
// ConflictingID is empty when the storage layer rejected the write without naming it.
type SlotConflictError struct {
	ProviderRef   string
	ConflictingID string
}

func (e SlotConflictError) Error() string {
	if e.ConflictingID == "" {
		return fmt.Sprintf("slot conflicts with an existing appointment for provider %s", e.ProviderRef)
	}
	return fmt.Sprintf("slot conflicts with appointment %s for provider %s", e.ConflictingID, e.ProviderRef)
}

func (e SlotConflictError) Code() string { return "slot_conflict" }

type RescheduleWindowError struct {
	HoursRemaining float64
}

func (e RescheduleWindowError) Error() string {
	return fmt.Sprintf("appointment cannot be rescheduled: %.2fh remaining, more than %.0fh required",
		e.HoursRemaining, RescheduleWindow.Hours())
}

func (e RescheduleWindowError) Code() string { return "reschedule_window" }

type CancelWindowError struct {
	HoursRemaining float64
}

func (e CancelWindowError) Error() string {
	return fmt.Sprintf("appointment cannot be cancelled: %.2fh remaining, more than %.0fh required",
		e.HoursRemaining, CancelWindow.Hours())
}

func (e CancelWindowError) Code() string { return "cancel_window" }

type InvalidStatusTransitionError struct {
	From Status
	To   Status
}

func (e InvalidStatusTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %q to %q", e.From, e.To)
}

func (e InvalidStatusTransitionError) Code() string { return "invalid_status_transition" }

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e ValidationError) Code() string { return "validation_failed" }
