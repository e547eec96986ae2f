package appointment

import (
	"context"
	"slices"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

type GetBusinessHours struct {
	hours domain.HoursRepository
}

func NewGetBusinessHours(hours domain.HoursRepository) *GetBusinessHours {
	return &GetBusinessHours{hours: hours}
}

func (uc *GetBusinessHours) Execute(ctx context.Context, providerRef string) ([]domain.WeeklyHours, error) {
	return uc.hours.ListBusinessHours(ctx, providerRef)
}

type UpdateBusinessHours struct {
	hours domain.HoursRepository
}

func NewUpdateBusinessHours(hours domain.HoursRepository) *UpdateBusinessHours {
	return &UpdateBusinessHours{hours: hours}
}

// Execute replaces the provider's whole week. Weekdays left out fall back to
// the default window.
func (uc *UpdateBusinessHours) Execute(
	ctx context.Context,
	providerRef string,
	days []domain.WeeklyHours,
) ([]domain.WeeklyHours, error) {

	if providerRef == "" {
		return nil, domain.ValidationError{Field: "providerRef", Message: "is required"}
	}

	seen := make(map[int]bool, len(days))
	for _, d := range days {
		if d.Weekday < 0 || d.Weekday > 6 {
			return nil, domain.ValidationError{Field: "weekday", Message: "must be between 0 and 6"}
		}
		if seen[int(d.Weekday)] {
			return nil, domain.ValidationError{Field: "weekday", Message: "appears more than once"}
		}
		seen[int(d.Weekday)] = true

		if err := d.Validate(); err != nil {
			return nil, err
		}
	}

	sorted := slices.Clone(days)
	slices.SortFunc(sorted, func(a, b domain.WeeklyHours) int {
		return int(a.Weekday) - int(b.Weekday)
	})

	if err := uc.hours.ReplaceBusinessHours(ctx, providerRef, sorted); err != nil {
		return nil, err
	}
	return sorted, nil
}
