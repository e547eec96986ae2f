package appointment

import (
	"context"
	"fmt"
	"slices"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	"github.com/BruksfildServices01/clinic-scheduler/internal/wallclock"
)

type AvailabilityInput struct {
	ProviderRef     string
	Date            string
	DurationMinutes int
}

type GetAvailability struct {
	repo         domain.Repository
	hours        domain.HoursRepository
	clock        timezone.Clock
	defaultHours domain.BusinessHours
	granularity  time.Duration
}

func NewGetAvailability(
	repo domain.Repository,
	hours domain.HoursRepository,
	clock timezone.Clock,
	defaultHours domain.BusinessHours,
	granularity time.Duration,
) *GetAvailability {
	return &GetAvailability{
		repo:         repo,
		hours:        hours,
		clock:        clock,
		defaultHours: defaultHours,
		granularity:  granularity,
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) ([]string, error) {

	if in.ProviderRef == "" {
		return nil, domain.ValidationError{Field: "providerRef", Message: "is required"}
	}

	date, err := wallclock.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}

	if in.DurationMinutes != 0 &&
		(in.DurationMinutes < domain.MinDurationMinutes || in.DurationMinutes > domain.MaxDurationMinutes) {
		return nil, domain.ValidationError{Field: "durationMinutes", Message: "must be between 15 and 120"}
	}

	now := uc.clock.Now()
	loc := uc.clock.Location()
	if date.Before(wallclock.DateOf(now.In(loc))) {
		return []string{}, nil
	}

	hours := uc.defaultHours
	custom, err := uc.hours.GetBusinessHours(ctx, in.ProviderRef, date.Weekday())
	if err != nil {
		return nil, fmt.Errorf("get business hours: %w", err)
	}
	if custom != nil {
		hours = *custom
	}

	booked, err := uc.repo.ListActiveForProvider(ctx, in.ProviderRef, date.AddDays(-1), date.AddDays(1))
	if err != nil {
		return nil, fmt.Errorf("list provider appointments: %w", err)
	}

	q := domain.SlotQuery{
		ProviderRef: in.ProviderRef,
		Date:        date,
		Hours:       hours,
		Granularity: uc.granularity,
		Duration:    time.Duration(in.DurationMinutes) * time.Minute,
	}

	slots := slices.Collect(domain.AvailableSlots(q, booked, loc, now))
	if slots == nil {
		slots = []string{}
	}
	return slots, nil
}
