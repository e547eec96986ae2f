package models

import "time"

type WorkingHours struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ProviderRef string `gorm:"size:64;not null;uniqueIndex:idx_working_hours_provider_day,priority:1" json:"provider_ref"`

	Weekday int `gorm:"not null;uniqueIndex:idx_working_hours_provider_day,priority:2" json:"weekday"`

	StartTime  string `gorm:"size:8" json:"start_time"`
	EndTime    string `gorm:"size:8" json:"end_time"`
	BreakStart string `gorm:"size:8" json:"break_start"`
	BreakEnd   string `gorm:"size:8" json:"break_end"`
	Active     bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
