package wallclock

import "time"

// Combine builds the absolute instant for a calendar date and time of day,
// read as wall-clock time in loc. A nil loc means UTC.
func Combine(d Date, t TimeOfDay, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, t.Hour, t.Minute, 0, 0, loc)
}

func AddMinutes(instant time.Time, n int) time.Time {
	return instant.Add(time.Duration(n) * time.Minute)
}

// DiffHours returns a - b in hours, signed.
func DiffHours(a, b time.Time) float64 {
	return a.Sub(b).Hours()
}
