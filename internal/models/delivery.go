package models

import "time"

// DeliveryStatus records the outcome of one channel attempt.
type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)

// DeliveryLogEntry is one append-only audit row per channel attempt.
// Entries are never mutated after creation; a failed send keeps the
// transport error in Error.
type DeliveryLogEntry struct {
	ID        int64          `json:"id"`
	Channel   Channel        `json:"channel"`
	Recipient string         `json:"recipient"`
	Subject   string         `json:"subject,omitempty"`
	Body      string         `json:"body"`
	Status    DeliveryStatus `json:"status"`
	Error     string         `json:"error,omitempty"`
	TaskID    int64          `json:"task_id,omitempty"`
	UserID    int64          `json:"user_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// DeliveryFilter defines the available parameters for the audit view.
type DeliveryFilter struct {
	Status   *DeliveryStatus
	Channel  *Channel
	TaskID   *int64
	Page     int
	PageSize int
}
