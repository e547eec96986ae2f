package memory

import (
	"context"
	"sort"
	"sync"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/events"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// AuditLog is an in-memory audit sink that can also be read back.
type AuditLog struct {
	mu   sync.Mutex
	rows []models.AuditLog
}

func NewAuditLog() *AuditLog {
	return &AuditLog{}
}

func (a *AuditLog) Name() string { return "memory-audit" }

func (a *AuditLog) Write(_ context.Context, ev domain.Event) error {
	row, err := events.AuditRow(ev)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	row.ID = uint(len(a.rows) + 1)
	a.rows = append(a.rows, row)
	return nil
}

func (a *AuditLog) ListForEntity(_ context.Context, entityID string, page, limit int) ([]models.AuditLog, int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var matched []models.AuditLog
	for _, row := range a.rows {
		if row.EntityID == entityID {
			matched = append(matched, row)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := int64(len(matched))
	start := min((page-1)*limit, len(matched))
	end := min(start+limit, len(matched))
	return matched[start:end], total, nil
}

var _ events.Sink = (*AuditLog)(nil)
