package appointment

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

const reminderBatchSize = 100

// SendDueReminders emits an appointment.reminder event for every reminder
// whose fire time has come and marks it sent.
type SendDueReminders struct {
	repo   domain.Repository
	events domain.Publisher
	clock  timezone.Clock
	log    zerolog.Logger
}

func NewSendDueReminders(
	repo domain.Repository,
	events domain.Publisher,
	clock timezone.Clock,
	log zerolog.Logger,
) *SendDueReminders {
	return &SendDueReminders{
		repo:   repo,
		events: events,
		clock:  clock,
		log:    log.With().Str("component", "reminders").Logger(),
	}
}

// Execute runs one sweep and returns how many reminders were emitted.
// Each reminder is claimed in storage before its event is published, so a
// cancel that lands first wins and delivery is at most once: an event the
// dispatcher drops is not retried.
func (uc *SendDueReminders) Execute(ctx context.Context) (int, error) {
	now := uc.clock.Now()

	apps, err := uc.repo.ListWithDueReminders(ctx, now, reminderBatchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, ap := range apps {
		reminders := ap.Reminders()
		for _, i := range ap.DueReminders(now) {
			r := reminders[i]

			ok, err := uc.repo.ClaimReminder(ctx, ap.ID(), r, now)
			if err != nil {
				uc.log.Error().Err(err).Str("appointment_id", ap.ID()).Msg("claim reminder")
				continue
			}
			if !ok {
				continue
			}

			r.Sent = true
			r.SentAt = &now
			ev := domain.NewEvent(domain.EventReminder, ap, now)
			ev.Reminder = &r
			uc.events.Publish(ev)
			sent++
		}
	}

	return sent, nil
}

// Run sweeps every interval until ctx is done.
func (uc *SendDueReminders) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	uc.log.Info().Dur("interval", interval).Msg("reminder sweeper started")

	for {
		select {
		case <-ctx.Done():
			uc.log.Info().Msg("reminder sweeper stopped")
			return
		case <-ticker.C:
			n, err := uc.Execute(ctx)
			if err != nil {
				uc.log.Error().Err(err).Msg("reminder sweep failed")
				continue
			}
			if n > 0 {
				uc.log.Info().Int("sent", n).Msg("reminders emitted")
			}
		}
	}
}
