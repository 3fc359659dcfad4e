package models

import "time"

// TaskActivity is one append-only audit row for an assignment response
// or re-assignment. Exactly one row is written per applied transition;
// idempotent replays write nothing.
type TaskActivity struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	UserID    int64     `json:"user_id"`
	Action    string    `json:"action"` // assigned | accepted | rejected
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
