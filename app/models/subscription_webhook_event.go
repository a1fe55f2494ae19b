package models

import "time"

// SubscriptionWebhookEvent stores provider webhook deliveries with
// deduplication metadata. Mercado Pago does not ship a stable event id
// on every notification, so the event id may be a payload hash; either
// way the unique index makes redelivered notifications a no-op.
type SubscriptionWebhookEvent struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	ProviderEventID string     `gorm:"type:varchar(191);not null;uniqueIndex" json:"provider_event_id"`
	EventType       string     `gorm:"type:varchar(100);not null;index" json:"event_type"`
	ResourceID      string     `gorm:"type:varchar(80);index" json:"resource_id"`
	PayloadJSON     string     `gorm:"type:longtext;not null" json:"payload_json"`
	Outcome         string     `gorm:"type:varchar(32)" json:"outcome"`
	ProcessedAt     *time.Time `gorm:"type:timestamp;default:null" json:"processed_at,omitempty"`
	ProcessingError string     `gorm:"type:text" json:"processing_error"`
	CreatedAt       time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
