package events

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// AuditSink keeps every event as an audit_logs row.
type AuditSink struct {
	db *gorm.DB
}

func NewAuditSink(db *gorm.DB) *AuditSink {
	return &AuditSink{db: db}
}

func (s *AuditSink) Name() string { return "audit" }

func (s *AuditSink) Write(ctx context.Context, ev domain.Event) error {
	row, err := AuditRow(ev)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

// AuditRow maps an event to its audit_logs row. The full event is kept as metadata.
func AuditRow(ev domain.Event) (models.AuditLog, error) {
	meta, err := json.Marshal(ev)
	if err != nil {
		return models.AuditLog{}, err
	}

	return models.AuditLog{
		EventID:   ev.ID,
		ActorRef:  ev.ActorRef,
		Action:    string(ev.Type),
		Entity:    "appointment",
		EntityID:  ev.Appointment.ID,
		Metadata:  string(meta),
		CreatedAt: ev.OccurredAt,
	}, nil
}
