package models

import "time"

const (
	WebhookEventStatusReceived   = "received"
	WebhookEventStatusProcessing = "processing"
	WebhookEventStatusApplied    = "applied"
	WebhookEventStatusFailed     = "failed"
)

// WebhookEventLog stores one row per payment-processor event id. The unique
// index on provider_event_id is the first line of defense against duplicate
// application of an at-least-once delivery; rows are never deleted.
type WebhookEventLog struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	ProviderEventID string     `gorm:"type:varchar(191);not null;uniqueIndex:ux_webhook_event_logs_event_id" json:"provider_event_id"`
	EventType       string     `gorm:"type:varchar(100);not null;index" json:"event_type"`
	Status          string     `gorm:"type:varchar(20);not null;default:'received';index" json:"status"`
	PayloadJSON     string     `gorm:"type:longtext;not null" json:"payload_json"`
	ErrorDetail     string     `gorm:"type:text" json:"error_detail"`
	ReceivedAt      time.Time  `gorm:"autoCreateTime;index" json:"received_at"`
	AppliedAt       *time.Time `gorm:"type:timestamp;default:null" json:"applied_at,omitempty"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsTerminal reports whether the event needs no further processing.
func (e *WebhookEventLog) IsTerminal() bool {
	return e.Status == WebhookEventStatusApplied
}
