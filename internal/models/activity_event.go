package models

import (
	"time"

	"gorm.io/gorm"
)

// ActivityEvent is one recorded NotifyActiveWindow notification, enriched
// with desktop-entry information when available.
type ActivityEvent struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Timestamp     time.Time      `gorm:"not null;index" json:"timestamp"`
	Caption       string         `gorm:"not null" json:"caption"`
	ResourceClass string         `gorm:"not null;index" json:"resource_class"`
	ResourceName  string         `gorm:"not null;index" json:"resource_name"`
	PID           *int32         `json:"pid,omitempty"` // nil when the backend could not supply it
	AppName       string         `json:"app_name"`      // desktop-entry Name=, empty when unresolved
	ProcessPath   string         `json:"process_path"`  // desktop-entry Exec= binary, empty when unresolved
	CreatedAt     time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// AppSummary aggregates notification counts per application identifier.
type AppSummary struct {
	ResourceName string `json:"resource_name"`
	AppName      string `json:"app_name"`
	EventCount   int    `json:"event_count"`
}

// ReportPeriod bounds one generated report.
type ReportPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Type  string    `json:"type"` // "day", "week", "month"
}

// Report is the aggregate view over one period.
type Report struct {
	Period      ReportPeriod `json:"period"`
	Apps        []AppSummary `json:"apps"`
	TotalEvents int          `json:"total_events"`
	GeneratedAt time.Time    `json:"generated_at"`
}
