package appointment

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/wallclock"
)

var (
	testLoc = time.UTC
	testNow = time.Date(2099, time.January, 1, 12, 0, 0, 0, time.UTC)
)

func details(date wallclock.Date, tod string) Details {
	return Details{
		PatientRef:  "patient-1",
		ProviderRef: "provider-1",
		Date:        date,
		TimeOfDay:   wallclock.MustParseTimeOfDay(tod),
		Reason:      "Annual check-up",
		Location:    "Main clinic",
	}
}

func mustNew(t *testing.T, id string, d Details) *Appointment {
	t.Helper()
	ap, err := New(id, d, testLoc, testNow)
	require.NoError(t, err)
	return ap
}

// at returns an appointment whose instant is now + offset.
func at(t *testing.T, id string, offset time.Duration) *Appointment {
	t.Helper()
	instant := testNow.Add(offset)
	d := details(wallclock.DateOf(instant), wallclock.FormatTimeOfDay(instant.Hour(), instant.Minute()))
	return mustNew(t, id, d)
}

func TestNew_Defaults(t *testing.T) {
	ap := mustNew(t, "a1", details(wallclock.NewDate(2099, 1, 10), "10:00 AM"))

	s := ap.Snapshot()
	assert.Equal(t, StatusScheduled, s.Status)
	assert.Equal(t, DefaultDurationMinutes, s.DurationMinutes)
	assert.Equal(t, TypeConsultation, s.Type)
	assert.Nil(t, s.Cancellation)
	assert.Empty(t, s.Reminders)
	assert.Equal(t, testNow, s.CreatedAt)
	assert.Equal(t, testNow, s.UpdatedAt)
	assert.Equal(t, time.Date(2099, 1, 10, 10, 0, 0, 0, time.UTC), ap.Instant())
	assert.Equal(t, "10:30 AM", ap.EndTimeOfDay())
}

func TestNew_EndInstantMatchesDuration(t *testing.T) {
	for _, minutes := range []int{15, 30, 45, 60, 90, 120} {
		d := details(wallclock.NewDate(2099, 1, 10), "11:45 PM")
		d.DurationMinutes = minutes
		ap := mustNew(t, "a1", d)
		assert.Equal(t, ap.Instant().Add(time.Duration(minutes)*time.Minute), ap.EndInstant())
	}
}

func TestNew_Validation(t *testing.T) {
	base := details(wallclock.NewDate(2099, 1, 10), "10:00 AM")

	tests := []struct {
		name  string
		id    string
		edit  func(d *Details)
		field string
	}{
		{"missing id", "", func(d *Details) {}, "id"},
		{"missing patient", "a1", func(d *Details) { d.PatientRef = " " }, "patientRef"},
		{"missing provider", "a1", func(d *Details) { d.ProviderRef = "" }, "providerRef"},
		{"missing date", "a1", func(d *Details) { d.Date = wallclock.Date{} }, "calendarDate"},
		{"duration too short", "a1", func(d *Details) { d.DurationMinutes = 10 }, "durationMinutes"},
		{"duration too long", "a1", func(d *Details) { d.DurationMinutes = 121 }, "durationMinutes"},
		{"unknown type", "a1", func(d *Details) { d.Type = "surgery" }, "type"},
		{"missing reason", "a1", func(d *Details) { d.Reason = "" }, "reason"},
		{"long reason", "a1", func(d *Details) { d.Reason = string(make([]byte, 501)) }, "reason"},
		{"missing location", "a1", func(d *Details) { d.Location = "" }, "location"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := base
			tt.edit(&d)
			_, err := New(tt.id, d, testLoc, testNow)

			var ve ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestNew_PastAppointment(t *testing.T) {
	yesterday := wallclock.DateOf(testNow).AddDays(-1)
	_, err := New("a1", details(yesterday, "10:00 AM"), testLoc, testNow)

	var pe PastAppointmentError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, testNow, pe.Now)

	// exactly now is not strictly in the future
	_, err = New("a2", details(wallclock.DateOf(testNow), "12:00 PM"), testLoc, testNow)
	assert.True(t, errors.As(err, &pe))
}

func TestDerivedPredicates(t *testing.T) {
	ap := at(t, "a1", 48*time.Hour)

	assert.True(t, ap.IsUpcoming(testNow))
	assert.False(t, ap.IsPast(testNow))
	assert.True(t, ap.CanCancel(testNow))
	assert.True(t, ap.CanReschedule(testNow))

	later := testNow.Add(25 * time.Hour)
	assert.False(t, ap.CanCancel(later))
	assert.True(t, ap.CanReschedule(later))

	afterwards := testNow.Add(49 * time.Hour)
	assert.True(t, ap.IsPast(afterwards))
	assert.False(t, ap.IsUpcoming(afterwards))
	assert.False(t, ap.CanReschedule(afterwards))

	require.NoError(t, ap.Confirm(testNow))
	assert.True(t, ap.IsUpcoming(testNow))
	assert.False(t, ap.CanCancel(testNow))
	assert.False(t, ap.CanReschedule(testNow))
}

func TestPredicatesArePure(t *testing.T) {
	ap := at(t, "a1", 30*time.Hour)
	before := ap.Snapshot()

	for i := 0; i < 5; i++ {
		assert.True(t, ap.CanCancel(testNow))
		assert.True(t, ap.CanReschedule(testNow))
	}
	assert.Equal(t, before, ap.Snapshot())
}

func TestCancel(t *testing.T) {
	t.Run("outside window", func(t *testing.T) {
		ap := at(t, "a1", 24*time.Hour+time.Minute)
		ap.ScheduleReminders(ReminderPolicy{Lead: time.Hour, Channels: []Channel{ChannelEmail}}, testNow)
		require.Len(t, ap.Reminders(), 1)

		require.NoError(t, ap.Cancel(CancelledByPatient, "  feeling better  ", testNow))

		assert.Equal(t, StatusCancelled, ap.Status())
		c := ap.Cancellation()
		require.NotNil(t, c)
		assert.Equal(t, CancelledByPatient, c.CancelledBy)
		assert.Equal(t, "feeling better", c.Reason)
		assert.Equal(t, testNow, c.CancelledAt)
		assert.Empty(t, ap.Reminders())
	})

	t.Run("inside window", func(t *testing.T) {
		ap := at(t, "a1", 24*time.Hour)
		err := ap.Cancel(CancelledByPatient, "", testNow)

		var we CancelWindowError
		require.True(t, errors.As(err, &we))
		assert.InDelta(t, 24.0, we.HoursRemaining, 1e-9)
		assert.Equal(t, StatusScheduled, ap.Status())
		assert.Nil(t, ap.Cancellation())
	})

	t.Run("window applies to system cancellations", func(t *testing.T) {
		ap := at(t, "a1", time.Hour)
		err := ap.Cancel(CancelledBySystem, "clinic closed", testNow)

		var we CancelWindowError
		require.True(t, errors.As(err, &we))
		assert.InDelta(t, 1.0, we.HoursRemaining, 1e-9)
		assert.Equal(t, StatusScheduled, ap.Status())
	})

	t.Run("confirmed can be cancelled", func(t *testing.T) {
		ap := at(t, "a1", 72*time.Hour)
		require.NoError(t, ap.Confirm(testNow))
		require.NoError(t, ap.Cancel(CancelledByProvider, "", testNow))
	})

	t.Run("terminal cannot be cancelled", func(t *testing.T) {
		ap := at(t, "a1", 72*time.Hour)
		require.NoError(t, ap.Cancel(CancelledByPatient, "", testNow))
		err := ap.Cancel(CancelledByPatient, "", testNow)

		var te InvalidStatusTransitionError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, StatusCancelled, te.From)
		assert.Equal(t, StatusCancelled, te.To)
	})

	t.Run("reason too long", func(t *testing.T) {
		ap := at(t, "a1", 72*time.Hour)
		err := ap.Cancel(CancelledByPatient, string(make([]byte, 201)), testNow)
		var ve ValidationError
		assert.True(t, errors.As(err, &ve))
		assert.Equal(t, StatusScheduled, ap.Status())
	})
}

func TestReschedule(t *testing.T) {
	policy := ReminderPolicy{Lead: 24 * time.Hour, Channels: []Channel{ChannelEmail, ChannelSMS}}

	t.Run("moves and replans reminders", func(t *testing.T) {
		ap := at(t, "a1", 72*time.Hour)
		ap.ScheduleReminders(policy, testNow)
		require.NoError(t, ap.MarkReminderSent(0, testNow))

		newDate := wallclock.DateOf(testNow).AddDays(5)
		require.NoError(t, ap.Reschedule(newDate, wallclock.MustParseTimeOfDay("03:00 PM"), policy, testNow))

		assert.Equal(t, newDate, ap.Date())
		assert.Equal(t, "03:00 PM", ap.TimeOfDay().String())

		reminders := ap.Reminders()
		require.Len(t, reminders, 3)
		assert.True(t, reminders[0].Sent)
		for _, r := range reminders[1:] {
			assert.False(t, r.Sent)
			assert.Equal(t, ap.Instant().Add(-24*time.Hour), r.ScheduledFor)
		}
	})

	t.Run("inside window", func(t *testing.T) {
		ap := at(t, "a1", 2*time.Hour)
		err := ap.Reschedule(wallclock.DateOf(testNow).AddDays(3), wallclock.TimeOfDay{Hour: 9}, policy, testNow)

		var we RescheduleWindowError
		require.True(t, errors.As(err, &we))
		assert.InDelta(t, 2.0, we.HoursRemaining, 1e-9)
	})

	t.Run("into the past", func(t *testing.T) {
		ap := at(t, "a1", 72*time.Hour)
		before := ap.Snapshot()
		err := ap.Reschedule(wallclock.DateOf(testNow).AddDays(-1), wallclock.TimeOfDay{Hour: 9}, policy, testNow)

		var pe PastAppointmentError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, before, ap.Snapshot())
	})

	t.Run("only scheduled", func(t *testing.T) {
		ap := at(t, "a1", 72*time.Hour)
		require.NoError(t, ap.Confirm(testNow))
		err := ap.Reschedule(wallclock.DateOf(testNow).AddDays(5), wallclock.TimeOfDay{Hour: 9}, policy, testNow)

		var we RescheduleWindowError
		require.True(t, errors.As(err, &we))
		assert.InDelta(t, 72.0, we.HoursRemaining, 1e-9)
		assert.Equal(t, StatusConfirmed, ap.Status())
	})
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		name string
		path []Status
		next Status
		ok   bool
	}{
		{"confirm scheduled", nil, StatusConfirmed, true},
		{"start scheduled", nil, StatusInProgress, true},
		{"complete scheduled", nil, StatusCompleted, false},
		{"complete confirmed", []Status{StatusConfirmed}, StatusCompleted, true},
		{"complete in progress", []Status{StatusInProgress}, StatusCompleted, true},
		{"no-show confirmed", []Status{StatusConfirmed}, StatusNoShow, true},
		{"no-show in progress", []Status{StatusInProgress}, StatusNoShow, false},
		{"confirm completed", []Status{StatusInProgress, StatusCompleted}, StatusConfirmed, false},
		{"start no-show", []Status{StatusNoShow}, StatusInProgress, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ap := at(t, "a1", 72*time.Hour)
			for _, s := range tt.path {
				require.NoError(t, ap.Transition(s, testNow))
			}

			err := ap.Transition(tt.next, testNow)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.next, ap.Status())
				return
			}

			var te InvalidStatusTransitionError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tt.next, te.To)
		})
	}
}

func TestTransition_RejectsCancel(t *testing.T) {
	ap := at(t, "a1", 72*time.Hour)
	var ve ValidationError
	assert.True(t, errors.As(ap.Transition(StatusCancelled, testNow), &ve))
}

func TestRestoreSnapshotIsolation(t *testing.T) {
	ap := at(t, "a1", 72*time.Hour)
	ap.ScheduleReminders(DefaultReminderPolicy(), testNow)

	s := ap.Snapshot()
	s.Reminders[0].Sent = true

	assert.False(t, ap.Reminders()[0].Sent)

	restored := Restore(ap.Snapshot(), testLoc)
	assert.Equal(t, ap.Snapshot(), restored.Snapshot())
	assert.Equal(t, ap.Instant(), restored.Instant())
}
