package models

import "time"

// AssignmentStatus is the response sub-state of one (task, user) pair,
// independent of the task's own status.
type AssignmentStatus string

const (
	AssignmentPending  AssignmentStatus = "pending"
	AssignmentAccepted AssignmentStatus = "accepted"
	AssignmentRejected AssignmentStatus = "rejected"
)

// Assignment links a task to a user responsible for it. The confirmation
// token is single-use and owned exclusively by this row; it is regenerated
// whenever the task is re-assigned.
type Assignment struct {
	ID                int64            `json:"id"`
	TaskID            int64            `json:"task_id"`
	UserID            int64            `json:"user_id"`
	Status            AssignmentStatus `json:"status"`
	ConfirmationToken string           `json:"-"`
	TokenExpiresAt    time.Time        `json:"-"`
	RespondedAt       *time.Time       `json:"responded_at,omitempty"`
	RejectReason      string           `json:"reject_reason,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}
