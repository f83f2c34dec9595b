package ingest

import "time"

// Canonical severity values. Any raw value outside SeverityMap normalizes
// to SeverityInfo.
const (
	SeverityInfo     = "INFO"
	SeverityWarn     = "WARN"
	SeverityMajor    = "MAJOR"
	SeverityCritical = "CRITICAL"
)

// Canonical status values. Any raw value outside StatusMap normalizes
// to StatusOpen.
const (
	StatusOpen    = "OPEN"
	StatusCleared = "CLEARED"
	StatusAck     = "ACK"
)

// Alarm is one reconciled alarm record. The natural key is
// (site_id, alarm_code, started_at); it is the only conflict target for
// ingestion and is never modified by an upsert update.
type Alarm struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	SiteID     string     `gorm:"uniqueIndex:uniq_alarms_natural;size:64" json:"site_id"`
	SiteName   string     `gorm:"size:255" json:"site_name"`
	AlarmCode  string     `gorm:"uniqueIndex:uniq_alarms_natural;size:128" json:"alarm_code"`
	AlarmLabel string     `gorm:"size:255" json:"alarm_label"`
	Severity   string     `gorm:"index;size:16" json:"severity"` // INFO/WARN/MAJOR/CRITICAL
	Status     string     `gorm:"index;size:16" json:"status"`   // OPEN/CLEARED/ACK
	StartedAt  *time.Time `gorm:"uniqueIndex:uniq_alarms_natural;index;not null" json:"started_at"`
	ClearedAt  *time.Time `json:"cleared_at"`
	AckedAt    *time.Time `json:"acked_at"`
	SourceFile string     `gorm:"size:255" json:"source_file,omitempty"`
	// Extras is a reserved free-form JSON payload; the pipeline never
	// writes it.
	Extras    string    `gorm:"type:text" json:"extras,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
