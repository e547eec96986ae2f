package appointment

import (
	"fmt"
	"strings"
	"time"
)

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
)

func ParseChannel(s string) (Channel, error) {
	switch c := Channel(strings.ToLower(strings.TrimSpace(s))); c {
	case ChannelEmail, ChannelSMS, ChannelPush:
		return c, nil
	}
	return "", fmt.Errorf("unknown reminder channel %q", s)
}

type Reminder struct {
	Channel      Channel    `json:"channel"`
	ScheduledFor time.Time  `json:"scheduledFor"`
	Sent         bool       `json:"sent"`
	SentAt       *time.Time `json:"sentAt"`
}

// ReminderPolicy fires one reminder per channel Lead before the appointment instant.
type ReminderPolicy struct {
	Lead     time.Duration
	Channels []Channel
}

func DefaultReminderPolicy() ReminderPolicy {
	return ReminderPolicy{
		Lead:     24 * time.Hour,
		Channels: []Channel{ChannelEmail},
	}
}

// Plan returns unsent reminders for instant. Fire times not after now are
// skipped: a reminder that would already be overdue is never created.
func (p ReminderPolicy) Plan(instant, now time.Time) []Reminder {
	fireAt := instant.Add(-p.Lead)
	if !fireAt.After(now) {
		return []Reminder{}
	}

	out := make([]Reminder, 0, len(p.Channels))
	seen := make(map[Channel]bool, len(p.Channels))
	for _, ch := range p.Channels {
		if seen[ch] {
			continue
		}
		seen[ch] = true
		out = append(out, Reminder{Channel: ch, ScheduledFor: fireAt})
	}
	return out
}

// ScheduleReminders keeps sent reminders as history and replaces every
// pending one with the policy's plan for the current instant.
func (a *Appointment) ScheduleReminders(p ReminderPolicy, now time.Time) {
	kept := a.sentReminders()
	a.s.Reminders = append(kept, p.Plan(a.Instant(), now)...)
}

func (a *Appointment) dropPendingReminders() {
	a.s.Reminders = a.sentReminders()
}

func (a *Appointment) sentReminders() []Reminder {
	kept := make([]Reminder, 0, len(a.s.Reminders))
	for _, r := range a.s.Reminders {
		if r.Sent {
			kept = append(kept, r)
		}
	}
	return kept
}

// DueReminders lists indexes of pending reminders whose fire time has come.
// Nothing is due once the appointment is terminal or its instant has passed.
func (a *Appointment) DueReminders(now time.Time) []int {
	if !a.s.Status.IsActive() || !a.Instant().After(now) {
		return nil
	}

	var due []int
	for i, r := range a.s.Reminders {
		if !r.Sent && !r.ScheduledFor.After(now) {
			due = append(due, i)
		}
	}
	return due
}

func (a *Appointment) MarkReminderSent(i int, at time.Time) error {
	if i < 0 || i >= len(a.s.Reminders) {
		return ValidationError{Field: "reminders", Message: fmt.Sprintf("index %d out of range", i)}
	}
	if a.s.Reminders[i].Sent {
		return nil
	}

	a.s.Reminders[i].Sent = true
	a.s.Reminders[i].SentAt = &at
	a.s.UpdatedAt = at
	return nil
}
