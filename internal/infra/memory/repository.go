package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/wallclock"
)

// Repository keeps appointments and business hours in process memory. It
// stores snapshots, so callers never share state with the store.
type Repository struct {
	mu    sync.Mutex
	loc   *time.Location
	items map[string]domain.Snapshot
	hours map[string][]domain.WeeklyHours

	updateErr error
}

func NewRepository(loc *time.Location) *Repository {
	if loc == nil {
		loc = time.UTC
	}
	return &Repository{
		loc:   loc,
		items: make(map[string]domain.Snapshot),
		hours: make(map[string][]domain.WeeklyHours),
	}
}

// Create rejects a second live appointment at the same provider slot, as the
// Postgres partial unique index does.
func (r *Repository) Create(_ context.Context, ap *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.items {
		if s.ProviderRef == ap.ProviderRef() && s.Status.IsActive() &&
			s.Date == ap.Date() && s.TimeOfDay == ap.TimeOfDay() {
			return domain.SlotConflictError{ProviderRef: ap.ProviderRef()}
		}
	}

	r.items[ap.ID()] = ap.Snapshot()
	return nil
}

func (r *Repository) Update(_ context.Context, ap *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	current, ok := r.items[ap.ID()]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Version != ap.Version() {
		return domain.ErrStaleAppointment
	}

	next := ap.Snapshot()
	next.Version = current.Version + 1
	r.items[ap.ID()] = next
	ap.Stored(next.Version)
	return nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return domain.Restore(s, r.loc), nil
}

func (r *Repository) filter(keep func(s domain.Snapshot) bool) []*domain.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.Appointment
	for _, s := range r.items {
		if keep(s) {
			out = append(out, domain.Restore(s, r.loc))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Instant().Before(out[j].Instant()) })
	return out
}

func (r *Repository) ListActiveForProvider(_ context.Context, providerRef string, from, to wallclock.Date) ([]*domain.Appointment, error) {
	return r.filter(func(s domain.Snapshot) bool {
		return s.ProviderRef == providerRef && s.Status.IsActive() &&
			!s.Date.Before(from) && !s.Date.After(to)
	}), nil
}

func (r *Repository) ListForProviderOnDate(_ context.Context, providerRef string, date wallclock.Date) ([]*domain.Appointment, error) {
	return r.filter(func(s domain.Snapshot) bool {
		return s.ProviderRef == providerRef && s.Date == date
	}), nil
}

func (r *Repository) ListForPatient(_ context.Context, q domain.PatientQuery) ([]*domain.Appointment, int64, error) {
	all := r.filter(func(s domain.Snapshot) bool {
		if s.PatientRef != q.PatientRef {
			return false
		}
		switch q.View {
		case domain.ViewUpcoming:
			return !s.Date.Before(q.Today) && (s.Status == domain.StatusScheduled || s.Status == domain.StatusConfirmed)
		case domain.ViewPast:
			return s.Date.Before(q.Today)
		}
		return true
	})
	if q.View == domain.ViewPast {
		sort.Slice(all, func(i, j int) bool { return all[i].Instant().After(all[j].Instant()) })
	}

	total := int64(len(all))
	start := min((q.Page-1)*q.Limit, len(all))
	end := min(start+q.Limit, len(all))
	return all[start:end], total, nil
}

func (r *Repository) ListWithDueReminders(_ context.Context, now time.Time, limit int) ([]*domain.Appointment, error) {
	out := r.filter(func(s domain.Snapshot) bool {
		return len(domain.Restore(s, r.loc).DueReminders(now)) > 0
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *Repository) ClaimReminder(_ context.Context, id string, rem domain.Reminder, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return false, r.updateErr
	}

	s, ok := r.items[id]
	if !ok {
		return false, nil
	}

	ap := domain.Restore(s, r.loc)
	for _, i := range ap.DueReminders(at) {
		stored := ap.Reminders()[i]
		if stored.Channel != rem.Channel || !stored.ScheduledFor.Equal(rem.ScheduledFor) {
			continue
		}
		if err := ap.MarkReminderSent(i, at); err != nil {
			return false, err
		}
		next := ap.Snapshot()
		next.Version = s.Version + 1
		r.items[id] = next
		return true, nil
	}
	return false, nil
}

func (r *Repository) GetBusinessHours(_ context.Context, providerRef string, weekday time.Weekday) (*domain.BusinessHours, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.hours[providerRef] {
		if d.Weekday == weekday {
			h := d.BusinessHours
			return &h, nil
		}
	}
	return nil, nil
}

func (r *Repository) ListBusinessHours(_ context.Context, providerRef string) ([]domain.WeeklyHours, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.WeeklyHours{}, r.hours[providerRef]...), nil
}

func (r *Repository) ReplaceBusinessHours(_ context.Context, providerRef string, days []domain.WeeklyHours) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hours[providerRef] = append([]domain.WeeklyHours{}, days...)
	return nil
}

// FailWrites makes every Update and ClaimReminder return err until called
// with nil.
func (r *Repository) FailWrites(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateErr = err
}

func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

var (
	_ domain.Repository      = (*Repository)(nil)
	_ domain.HoursRepository = (*Repository)(nil)
)
