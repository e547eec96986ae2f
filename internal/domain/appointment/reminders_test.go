package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderPolicy_Plan(t *testing.T) {
	instant := testNow.Add(72 * time.Hour)
	p := ReminderPolicy{
		Lead:     24 * time.Hour,
		Channels: []Channel{ChannelEmail, ChannelPush, ChannelEmail},
	}

	plan := p.Plan(instant, testNow)
	require.Len(t, plan, 2)
	for _, r := range plan {
		assert.Equal(t, instant.Add(-24*time.Hour), r.ScheduledFor)
		assert.False(t, r.Sent)
		assert.Nil(t, r.SentAt)
	}
	assert.Equal(t, ChannelEmail, plan[0].Channel)
	assert.Equal(t, ChannelPush, plan[1].Channel)

	assert.Empty(t, p.Plan(testNow.Add(24*time.Hour), testNow))
}

func TestParseChannel(t *testing.T) {
	c, err := ParseChannel(" SMS ")
	require.NoError(t, err)
	assert.Equal(t, ChannelSMS, c)

	_, err = ParseChannel("pigeon")
	assert.Error(t, err)
}

func TestDueReminders(t *testing.T) {
	ap := at(t, "a1", 48*time.Hour)
	ap.ScheduleReminders(ReminderPolicy{Lead: 24 * time.Hour, Channels: []Channel{ChannelEmail, ChannelSMS}}, testNow)

	assert.Empty(t, ap.DueReminders(testNow))

	fire := testNow.Add(24 * time.Hour)
	assert.Equal(t, []int{0, 1}, ap.DueReminders(fire))

	require.NoError(t, ap.MarkReminderSent(1, fire))
	assert.Equal(t, []int{0}, ap.DueReminders(fire))

	r := ap.Reminders()[1]
	assert.True(t, r.Sent)
	require.NotNil(t, r.SentAt)
	assert.Equal(t, fire, *r.SentAt)

	assert.Empty(t, ap.DueReminders(testNow.Add(49*time.Hour)))
	assert.Error(t, ap.MarkReminderSent(5, fire))
}

func TestDueReminders_NoneAfterTerminal(t *testing.T) {
	ap := at(t, "a1", 48*time.Hour)
	ap.ScheduleReminders(DefaultReminderPolicy(), testNow)
	require.NoError(t, ap.Start(testNow))
	require.NoError(t, ap.Complete(testNow))

	assert.Empty(t, ap.DueReminders(testNow.Add(30*time.Hour)))
	assert.Empty(t, ap.Reminders())
}
