package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// AuditTrail reads the audit rows written by the events audit sink.
type AuditTrail interface {
	ListForEntity(ctx context.Context, entityID string, page, limit int) ([]models.AuditLog, int64, error)
}

type HistoryResult struct {
	Entries    []models.AuditLog
	Total      int64
	Pagination Pagination
}

// GetAppointmentHistory lists the lifecycle events of one appointment,
// newest first, to the actors allowed to see it.
type GetAppointmentHistory struct {
	repo  domain.Repository
	audit AuditTrail
}

func NewGetAppointmentHistory(repo domain.Repository, audit AuditTrail) *GetAppointmentHistory {
	return &GetAppointmentHistory{repo: repo, audit: audit}
}

func (uc *GetAppointmentHistory) Execute(
	ctx context.Context,
	appointmentID string,
	actorRef string,
	page, limit int,
) (*HistoryResult, error) {

	if _, err := loadForActor(ctx, uc.repo, appointmentID, actorRef); err != nil {
		return nil, err
	}

	page, limit = normalizePage(page, limit)

	entries, total, err := uc.audit.ListForEntity(ctx, appointmentID, page, limit)
	if err != nil {
		return nil, err
	}

	return &HistoryResult{
		Entries:    entries,
		Total:      total,
		Pagination: paginate(page, limit, total),
	}, nil
}
