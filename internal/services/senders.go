package services

import (
	"context"
	"log"

	"taskpulse/internal/models"
	"taskpulse/internal/repositories"
)

// ChannelSender delivers already-formatted content to one recipient over
// one transport. Every call appends exactly one delivery-log row, success
// or failure. Senders never retry; retry policy belongs to the caller.
type ChannelSender interface {
	Channel() models.Channel
	Send(ctx context.Context, rcpt *models.User, taskID int64, content Content) error
}

// recordDelivery appends the audit row. Logging is best effort: a down
// audit store must not block or fail the business notification, so the
// write error is only printed.
func recordDelivery(ctx context.Context, repo repositories.DeliveryLogRepository, e *models.DeliveryLogEntry) {
	if repo == nil {
		return
	}
	if err := repo.Append(ctx, e); err != nil {
		log.Printf("[delivery][log][err] channel=%s recipient=%s: %v", e.Channel, e.Recipient, err)
	}
}

func deliveryEntry(ch models.Channel, rcpt *models.User, taskID int64, content Content, sendErr error) *models.DeliveryLogEntry {
	e := &models.DeliveryLogEntry{
		Channel: ch,
		Subject: content.Subject,
		Body:    content.Text,
		Status:  models.DeliverySent,
		TaskID:  taskID,
		UserID:  rcpt.ID,
	}
	if ch == models.ChannelEmail {
		e.Recipient = rcpt.Email
	} else {
		e.Recipient = rcpt.Phone
	}
	if sendErr != nil {
		e.Status = models.DeliveryFailed
		e.Error = sendErr.Error()
	}
	return e
}
