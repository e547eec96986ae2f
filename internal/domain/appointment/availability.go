package appointment

import (
	"iter"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/wallclock"
)

const DefaultSlotGranularity = 30 * time.Minute

// BusinessHours is the bookable window of one provider day, with an
// optional break that never yields slots.
type BusinessHours struct {
	Start      wallclock.TimeOfDay  `json:"start"`
	End        wallclock.TimeOfDay  `json:"end"`
	BreakStart *wallclock.TimeOfDay `json:"breakStart,omitempty"`
	BreakEnd   *wallclock.TimeOfDay `json:"breakEnd,omitempty"`
	Closed     bool                 `json:"closed"`
}

func DefaultBusinessHours() BusinessHours {
	return BusinessHours{
		Start: wallclock.TimeOfDay{Hour: 9},
		End:   wallclock.TimeOfDay{Hour: 17},
	}
}

func (h BusinessHours) Validate() error {
	if h.Closed {
		return nil
	}
	if !h.Start.Before(h.End) {
		return ValidationError{Field: "businessHours", Message: "start must be before end"}
	}
	if (h.BreakStart == nil) != (h.BreakEnd == nil) {
		return ValidationError{Field: "businessHours", Message: "break needs both start and end"}
	}
	if h.BreakStart != nil && !h.BreakStart.Before(*h.BreakEnd) {
		return ValidationError{Field: "businessHours", Message: "break start must be before break end"}
	}
	return nil
}

// WeeklyHours binds business hours to a weekday.
type WeeklyHours struct {
	Weekday time.Weekday `json:"weekday"`
	BusinessHours
}

type TimeSlot struct {
	Start time.Time
	End   time.Time
}

type SlotQuery struct {
	ProviderRef string
	Date        wallclock.Date
	Hours       BusinessHours
	Granularity time.Duration
	// Duration of the visit each slot must fit; zero means Granularity.
	Duration time.Duration
}

func (q SlotQuery) withDefaults() SlotQuery {
	if q.Granularity <= 0 {
		q.Granularity = DefaultSlotGranularity
	}
	if q.Duration <= 0 {
		q.Duration = q.Granularity
	}
	return q
}

// AvailableSlots yields the free slot start times of q.Date in ascending
// order, as "HH:MM AM/PM". Slots start every Granularity from the window
// start; the last one starts at window end minus Granularity. A slot is free
// when [start, start+Duration) fits the window, misses the break, lies after
// now and overlaps no active appointment of the provider. Dates before today
// yield nothing. The sequence is lazy and can be ranged over repeatedly.
func AvailableSlots(q SlotQuery, booked []*Appointment, loc *time.Location, now time.Time) iter.Seq[string] {
	q = q.withDefaults()
	if loc == nil {
		loc = time.UTC
	}

	return func(yield func(string) bool) {
		for slot := range slotWindows(q, loc, now) {
			if FindConflict(booked, q.ProviderRef, slot.Start, slot.End, "") != nil {
				continue
			}
			if !yield(wallclock.FormatTimeOfDay(slot.Start.Hour(), slot.Start.Minute())) {
				return
			}
		}
	}
}

func slotWindows(q SlotQuery, loc *time.Location, now time.Time) iter.Seq[TimeSlot] {
	return func(yield func(TimeSlot) bool) {
		if q.Hours.Closed || q.Date.Before(wallclock.DateOf(now.In(loc))) {
			return
		}

		dayStart := wallclock.Combine(q.Date, q.Hours.Start, loc)
		dayEnd := wallclock.Combine(q.Date, q.Hours.End, loc)

		var breakStart, breakEnd time.Time
		hasBreak := q.Hours.BreakStart != nil && q.Hours.BreakEnd != nil
		if hasBreak {
			breakStart = wallclock.Combine(q.Date, *q.Hours.BreakStart, loc)
			breakEnd = wallclock.Combine(q.Date, *q.Hours.BreakEnd, loc)
		}

		for cur := dayStart; !cur.Add(q.Granularity).After(dayEnd); cur = cur.Add(q.Granularity) {
			end := cur.Add(q.Duration)
			if end.After(dayEnd) {
				return
			}
			if !cur.After(now) {
				continue
			}
			if hasBreak && cur.Before(breakEnd) && end.After(breakStart) {
				continue
			}
			if !yield(TimeSlot{Start: cur, End: end}) {
				return
			}
		}
	}
}

// FindConflict returns the first active appointment of providerRef whose
// interval overlaps [start, end), skipping excludeID.
func FindConflict(existing []*Appointment, providerRef string, start, end time.Time, excludeID string) *Appointment {
	for _, ap := range existing {
		if ap == nil || ap.ID() == excludeID || ap.ProviderRef() != providerRef {
			continue
		}
		if !ap.Status().IsActive() {
			continue
		}
		if ap.Overlaps(start, end) {
			return ap
		}
	}
	return nil
}

// DaysTouched lists every calendar date the interval [start, end) touches, ascending.
func DaysTouched(start, end time.Time) []wallclock.Date {
	first := wallclock.DateOf(start)
	last := wallclock.DateOf(end.Add(-time.Nanosecond))
	if last.Before(first) {
		last = first
	}

	days := []wallclock.Date{first}
	for d := first.AddDays(1); !d.After(last); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}
