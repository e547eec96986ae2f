package appointment

import (
	"context"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/memory"
)

type recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *recorder) Publish(ev domain.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recorder) types() []domain.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.EventType, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

func (p *recorder) last() domain.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[len(p.events)-1]
}

// racingRepo runs each hook once, right after the wrapped read returns, to
// interleave another request between a read and the write that follows it.
type racingRepo struct {
	*memory.Repository
	afterGet  func()
	afterList func()
}

func (r *racingRepo) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	ap, err := r.Repository.GetByID(ctx, id)
	if hook := r.afterGet; hook != nil {
		r.afterGet = nil
		hook()
	}
	return ap, err
}

func (r *racingRepo) ListWithDueReminders(ctx context.Context, now time.Time, limit int) ([]*domain.Appointment, error) {
	apps, err := r.Repository.ListWithDueReminders(ctx, now, limit)
	if hook := r.afterList; hook != nil {
		r.afterList = nil
		hook()
	}
	return apps, err
}
