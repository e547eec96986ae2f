package models

import "time"

type Appointment struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	PatientRef  string `gorm:"size:64;not null;index" json:"patient_ref"`
	ProviderRef string `gorm:"size:64;not null;index:idx_appointments_provider_day,priority:1" json:"provider_ref"`

	CalendarDate string `gorm:"size:10;not null;index:idx_appointments_provider_day,priority:2" json:"calendar_date"`
	TimeOfDay    string `gorm:"size:8;not null" json:"time_of_day"`
	StartMinute  int    `gorm:"not null" json:"start_minute"`

	StartAt         time.Time `gorm:"not null;index" json:"start_at"`
	EndAt           time.Time `gorm:"not null" json:"end_at"`
	DurationMinutes int       `gorm:"not null;default:30" json:"duration_minutes"`

	Type   string `gorm:"size:20;not null;default:'consultation'" json:"type"`
	Status string `gorm:"size:20;not null;default:'scheduled';index" json:"status"`

	Reason   string `gorm:"size:500;not null" json:"reason"`
	Location string `gorm:"size:255;not null" json:"location"`
	Room     string `gorm:"size:64" json:"room"`
	Notes    string `gorm:"size:1000" json:"notes"`

	CancelledBy        *string    `gorm:"size:20" json:"cancelled_by"`
	CancellationReason string     `gorm:"size:200" json:"cancellation_reason"`
	CancelledAt        *time.Time `json:"cancelled_at"`

	Reminders []AppointmentReminder `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE" json:"reminders"`

	Version int `gorm:"not null;default:1" json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AppointmentReminder struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	AppointmentID string `gorm:"size:36;not null;index" json:"appointment_id"`

	Channel      string     `gorm:"size:10;not null" json:"channel"`
	ScheduledFor time.Time  `gorm:"not null;index" json:"scheduled_for"`
	Sent         bool       `gorm:"not null;default:false" json:"sent"`
	SentAt       *time.Time `json:"sent_at"`
}
