package events

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

const (
	DefaultQueueSize = 100
	sinkTimeout      = 5 * time.Second
)

// Sink delivers one event somewhere outside the process.
type Sink interface {
	Name() string
	Write(ctx context.Context, ev domain.Event) error
}

// Dispatcher fans events out to its sinks on a background worker.
// Publish never blocks: when the queue is full the event is dropped.
type Dispatcher struct {
	log   zerolog.Logger
	sinks []Sink
	queue chan domain.Event

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

var _ domain.Publisher = (*Dispatcher)(nil)

func NewDispatcher(log zerolog.Logger, size int, sinks ...Sink) *Dispatcher {
	if size <= 0 {
		size = DefaultQueueSize
	}

	d := &Dispatcher{
		log:   log.With().Str("component", "events").Logger(),
		sinks: sinks,
		queue: make(chan domain.Event, size),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for ev := range d.queue {
		for _, s := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
			err := s.Write(ctx, ev)
			cancel()

			if err != nil {
				d.log.Error().
					Err(err).
					Str("sink", s.Name()).
					Str("event_id", ev.ID).
					Str("event_type", string(ev.Type)).
					Msg("event delivery failed")
			}
		}
	}
}

func (d *Dispatcher) Publish(ev domain.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn().Str("event_type", string(ev.Type)).Msg("dispatcher closed, dropping event")
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.log.Warn().
			Str("event_id", ev.ID).
			Str("event_type", string(ev.Type)).
			Msg("event queue full, dropping event")
	}
}

// Close stops accepting events and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}
