package wallclock

import (
	"fmt"
	"regexp"
	"strconv"
)

var timeOfDayPattern = regexp.MustCompile(`^([0]?[1-9]|1[0-2]):([0-5][0-9]) (AM|PM)$`)

// InvalidTimeFormatError is returned when a time-of-day string is not "HH:MM AM/PM".
type InvalidTimeFormatError struct {
	Value string
}

func (e InvalidTimeFormatError) Error() string {
	return fmt.Sprintf("invalid time format %q: expected HH:MM AM/PM", e.Value)
}

func (e InvalidTimeFormatError) Code() string {
	return "invalid_time_format"
}

// TimeOfDay is a wall-clock time held in 24-hour form.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay converts a 12-hour "HH:MM AM/PM" string.
// 12 AM is hour 0 and 12 PM is hour 12.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	m := timeOfDayPattern.FindStringSubmatch(s)
	if m == nil {
		return TimeOfDay{}, InvalidTimeFormatError{Value: s}
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])

	switch {
	case m[3] == "AM" && hour == 12:
		hour = 0
	case m[3] == "PM" && hour != 12:
		hour += 12
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// MustParseTimeOfDay panics on malformed input. Meant for constants and tests.
func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// FormatTimeOfDay renders a 24-hour clock reading as "HH:MM AM/PM".
func FormatTimeOfDay(hour24, minute int) string {
	period := "AM"
	if hour24 >= 12 {
		period = "PM"
	}

	hour := hour24 % 12
	if hour == 0 {
		hour = 12
	}

	return fmt.Sprintf("%02d:%02d %s", hour, minute, period)
}

func (t TimeOfDay) String() string {
	return FormatTimeOfDay(t.Hour, t.Minute)
}

// Minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) Before(o TimeOfDay) bool {
	return t.Minutes() < o.Minutes()
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
