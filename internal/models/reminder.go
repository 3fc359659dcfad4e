package models

import "time"

// Channel is one notification transport.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

// Channels lists every supported transport, in dispatch order.
var Channels = []Channel{ChannelEmail, ChannelSMS, ChannelWhatsApp}

func IsValidChannel(c Channel) bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelWhatsApp:
		return true
	}
	return false
}

// ReminderSource says who created a reminder row.
type ReminderSource string

const (
	ReminderSourceUser  ReminderSource = "user"  // scheduled explicitly
	ReminderSourceSweep ReminderSource = "sweep" // generated by the due-date sweep
)

// Reminder is a promise to notify one user through one channel at or after
// RemindAt. Sweep rows double as the daily dedup marker: at most one row
// per (task, sweep_date) can exist, enforced by a partial unique index.
//
// Row lifecycle: scheduled (sent_at NULL, is_active) -> sent (sent_at set),
// or scheduled -> cancelled (is_active=false). No transitions out of sent
// or cancelled.
type Reminder struct {
	ID        int64          `json:"id"`
	TaskID    int64          `json:"task_id"`
	UserID    int64          `json:"user_id"`
	RemindAt  time.Time      `json:"remind_at"`
	Channel   Channel        `json:"channel"`
	Message   string         `json:"message,omitempty"`
	Source    ReminderSource `json:"source"`
	SweepDate *time.Time     `json:"sweep_date,omitempty"`
	IsActive  bool           `json:"is_active"`
	SentAt    *time.Time     `json:"sent_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
