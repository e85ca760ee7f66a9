package models

import (
	"time"

	"gorm.io/gorm"
)

// Outcome of one extractor invocation
const (
	OutcomeText  = "text"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// ExtractionEvent records one extractor invocation. The selected text itself
// is never stored, only its length.
type ExtractionEvent struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Timestamp  time.Time      `gorm:"not null;index" json:"timestamp"`
	SessionID  string         `gorm:"not null;index" json:"session_id"`
	AppName    string         `gorm:"not null;index" json:"app_name"`
	Mechanism  string         `gorm:"not null" json:"mechanism"` // "accessibility" or "clipboard"
	Pinned     bool           `gorm:"not null;default:false" json:"pinned"`
	Outcome    string         `gorm:"not null" json:"outcome"`
	TextLength int            `gorm:"not null;default:0" json:"text_length"`
	LatencyMs  int64          `gorm:"not null;default:0" json:"latency_ms"`
	ErrorMsg   string         `json:"error_msg,omitempty"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// MechanismSummary aggregates the attempts of one mechanism in one app
type MechanismSummary struct {
	AppName      string  `json:"app_name"`
	Mechanism    string  `json:"mechanism"`
	Attempts     int     `json:"attempts"`
	Successes    int     `json:"successes"`
	Empties      int     `json:"empties"`
	Failures     int     `json:"failures"`
	Pinned       int     `json:"pinned"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
	SuccessRate  float64 `json:"success_rate"`
}

type AppSummary struct {
	AppName     string             `json:"app_name"`
	Attempts    int                `json:"attempts"`
	Successes   int                `json:"successes"`
	SuccessRate float64            `json:"success_rate"`
	Preferred   string             `json:"preferred,omitempty"` // mechanism with the most successes
	Mechanisms  []MechanismSummary `json:"mechanisms"`
}

type ReportPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Type  string    `json:"type"` // "day", "week", "month"
}

type Report struct {
	Period         ReportPeriod `json:"period"`
	Apps           []AppSummary `json:"apps"`
	TotalAttempts  int          `json:"total_attempts"`
	TotalSuccesses int          `json:"total_successes"`
	SuccessRate    float64      `json:"success_rate"`
	ErrorCount     int64        `json:"error_count"`
	GeneratedAt    time.Time    `json:"generated_at"`
}
