package appointment

import (
	"context"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

// lockInterval takes the schedule lock of every provider day touched by
// [start, end), in date order so concurrent callers cannot deadlock.
func lockInterval(
	ctx context.Context,
	locker domain.Locker,
	providerRef string,
	start time.Time,
	end time.Time,
) (func(), error) {

	var unlocks []func()
	release := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}

	for _, day := range domain.DaysTouched(start, end) {
		unlock, err := locker.Lock(ctx, domain.ScheduleLockKey(providerRef, day))
		if err != nil {
			release()
			return nil, fmt.Errorf("lock %s %s: %w", providerRef, day, err)
		}
		unlocks = append(unlocks, unlock)
	}

	return release, nil
}

// assertNoConflict loads the provider's active appointments around [start, end)
// and fails with SlotConflictError on the first overlap.
func assertNoConflict(
	ctx context.Context,
	repo domain.Repository,
	providerRef string,
	start time.Time,
	end time.Time,
	excludeID string,
) error {

	days := domain.DaysTouched(start, end)
	// appointments from the day before can run past midnight
	from := days[0].AddDays(-1)
	to := days[len(days)-1]

	existing, err := repo.ListActiveForProvider(ctx, providerRef, from, to)
	if err != nil {
		return fmt.Errorf("list provider appointments: %w", err)
	}

	if c := domain.FindConflict(existing, providerRef, start, end, excludeID); c != nil {
		return domain.SlotConflictError{ProviderRef: providerRef, ConflictingID: c.ID()}
	}
	return nil
}

// loadForActor fetches an appointment and hides it from actors who are
// neither its patient nor its provider. An empty actorRef is trusted.
func loadForActor(
	ctx context.Context,
	repo domain.Repository,
	id string,
	actorRef string,
) (*domain.Appointment, error) {

	ap, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorRef != "" && actorRef != ap.PatientRef() && actorRef != ap.ProviderRef() {
		return nil, domain.ErrNotFound
	}
	return ap, nil
}
