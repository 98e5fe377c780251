package model

import "time"

// WebhookEvent is one row of the local delivery ledger. Deliveries are
// recorded after signature verification and updated once processing
// finishes, so redeliveries of the same provider event id are visible in
// the audit trail even though they are still processed.
type WebhookEvent struct {
	ID              string `gorm:"primaryKey;size:36"`
	EventID         string `gorm:"size:128;index;not null"` // provider event id, repeats on redelivery
	EventType       string `gorm:"size:64;index"`
	SessionID       string `gorm:"size:128;index"`
	OrderID         int
	ProcessedAt     *time.Time
	ProcessingError string `gorm:"type:text"`
	CreatedAt       time.Time
}
