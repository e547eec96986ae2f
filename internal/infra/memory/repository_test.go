package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/wallclock"
)

var testNow = time.Date(2099, 1, 1, 12, 0, 0, 0, time.UTC)

func mustNew(t *testing.T, id, patient, date, tod string) *domain.Appointment {
	t.Helper()
	d, err := wallclock.ParseDate(date)
	require.NoError(t, err)

	ap, err := domain.New(id, domain.Details{
		PatientRef:  patient,
		ProviderRef: "provider-1",
		Date:        d,
		TimeOfDay:   wallclock.MustParseTimeOfDay(tod),
		Reason:      "checkup",
		Location:    "Main clinic",
	}, time.UTC, testNow)
	require.NoError(t, err)
	return ap
}

func TestRepository_StoresCopies(t *testing.T) {
	repo := NewRepository(nil)
	ctx := context.Background()

	ap := mustNew(t, "a1", "p1", "2099-01-10", "10:00 AM")
	require.NoError(t, repo.Create(ctx, ap))

	require.NoError(t, ap.Confirm(testNow))

	stored, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, stored.Status())

	require.NoError(t, repo.Update(ctx, ap))
	stored, err = repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, stored.Status())
}

func TestRepository_SameSlotRejected(t *testing.T) {
	repo := NewRepository(time.UTC)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, mustNew(t, "a1", "p1", "2099-01-10", "10:00 AM")))

	err := repo.Create(ctx, mustNew(t, "a2", "p2", "2099-01-10", "10:00 AM"))
	var conflict domain.SlotConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.Equal(t, 1, repo.Len())
}

func TestRepository_PatientViews(t *testing.T) {
	repo := NewRepository(time.UTC)
	ctx := context.Background()

	for i, tod := range []string{"09:00 AM", "10:00 AM", "11:00 AM"} {
		require.NoError(t, repo.Create(ctx, mustNew(t, string(rune('a'+i)), "p1", "2099-01-10", tod)))
	}

	today := wallclock.NewDate(2099, time.January, 1)
	items, total, err := repo.ListForPatient(ctx, domain.PatientQuery{
		PatientRef: "p1", View: domain.ViewUpcoming, Today: today, Page: 2, Limit: 2,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, items, 1)
	assert.Equal(t, "11:00 AM", items[0].TimeOfDay().String())

	_, total, err = repo.ListForPatient(ctx, domain.PatientQuery{
		PatientRef: "p1", View: domain.ViewPast, Today: today, Page: 1, Limit: 10,
	})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestRepository_UpdateFailure(t *testing.T) {
	repo := NewRepository(time.UTC)
	ctx := context.Background()

	ap := mustNew(t, "a1", "p1", "2099-01-10", "10:00 AM")
	assert.ErrorIs(t, repo.Update(ctx, ap), domain.ErrNotFound)

	require.NoError(t, repo.Create(ctx, ap))
	repo.FailWrites(assert.AnError)
	assert.ErrorIs(t, repo.Update(ctx, ap), assert.AnError)
}

func TestRepository_StaleUpdateRejected(t *testing.T) {
	repo := NewRepository(time.UTC)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, mustNew(t, "a1", "p1", "2099-01-10", "10:00 AM")))

	first, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)

	require.NoError(t, first.Cancel(domain.CancelledByPatient, "travel", testNow))
	require.NoError(t, repo.Update(ctx, first))
	assert.Equal(t, 2, first.Version())

	require.NoError(t, second.Confirm(testNow))
	assert.ErrorIs(t, repo.Update(ctx, second), domain.ErrStaleAppointment)

	stored, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Status())
	require.NotNil(t, stored.Cancellation())
}

func TestRepository_ClaimReminder(t *testing.T) {
	repo := NewRepository(time.UTC)
	ctx := context.Background()

	ap := mustNew(t, "a1", "p1", "2099-01-10", "10:00 AM")
	ap.ScheduleReminders(domain.DefaultReminderPolicy(), testNow)
	require.NoError(t, repo.Create(ctx, ap))
	rem := ap.Reminders()[0]
	fireAt := rem.ScheduledFor

	ok, err := repo.ClaimReminder(ctx, "a1", rem, fireAt.Add(-time.Minute))
	require.NoError(t, err)
	assert.False(t, ok, "not due yet")

	ok, err = repo.ClaimReminder(ctx, "a1", rem, fireAt)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ClaimReminder(ctx, "a1", rem, fireAt)
	require.NoError(t, err)
	assert.False(t, ok, "already sent")

	stored, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, stored.Reminders()[0].Sent)
	assert.Equal(t, 2, stored.Version())

	// the claim bumped the version, so a copy read before it is stale
	assert.ErrorIs(t, repo.Update(ctx, ap), domain.ErrStaleAppointment)
}

func TestAuditLog_ListForEntity(t *testing.T) {
	audit := NewAuditLog()
	ctx := context.Background()

	ap := mustNew(t, "a1", "p1", "2099-01-10", "10:00 AM")
	other := mustNew(t, "a2", "p1", "2099-01-10", "11:00 AM")

	require.NoError(t, audit.Write(ctx, domain.NewEvent(domain.EventConfirmed, ap, testNow)))
	require.NoError(t, audit.Write(ctx, domain.NewEvent(domain.EventConfirmed, other, testNow)))
	require.NoError(t, audit.Write(ctx, domain.NewEvent(domain.EventCancelled, ap, testNow)))

	rows, total, err := audit.ListForEntity(ctx, "a1", 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "appointment.cancelled", rows[0].Action)

	rows, _, err = audit.ListForEntity(ctx, "a1", 3, 1)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
