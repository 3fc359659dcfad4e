package services

import (
	"errors"
	"fmt"

	"taskpulse/internal/models"
)

var (
	ErrTokenRequired      = errors.New("confirmation token is required")
	ErrTokenExpired       = errors.New("confirmation token has expired")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrReminderNotFound   = errors.New("reminder not found")
	ErrReasonRequired     = errors.New("a rejection reason is required")
	ErrUnsupportedChannel = errors.New("channel must be one of email, sms, whatsapp")

	// Conflicts: the stored response contradicts the requested one. The two
	// are distinct so callers can tell the user what actually happened.
	ErrAlreadyAccepted = errors.New("task already accepted, it can no longer be rejected")
	ErrAlreadyRejected = errors.New("task already rejected, it can no longer be accepted")

	// ErrUnsupportedFormat flags a programming error, not user input: the
	// formatter was asked for an (event kind, channel) pair it doesn't know.
	ErrUnsupportedFormat = errors.New("unsupported event kind/channel combination")
)

// ChannelError wraps a transport-level failure of one channel attempt. It
// never aborts the surrounding dispatch; it only surfaces in that
// channel's result and in the delivery log.
type ChannelError struct {
	Channel models.Channel
	Err     error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("%s send failed: %v", e.Channel, e.Err)
}

func (e *ChannelError) Unwrap() error { return e.Err }
