package services

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"taskpulse/internal/models"
	"taskpulse/internal/repositories"
)

type emailSender struct {
	dialer *gomail.Dialer
	from   string
	log    repositories.DeliveryLogRepository
}

// NewEmailSender wraps an SMTP transport. The caller checks that the
// recipient has an email address before invoking Send.
func NewEmailSender(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string, logRepo repositories.DeliveryLogRepository) ChannelSender {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailSender{
		dialer: dialer,
		from:   fromEmail,
		log:    logRepo,
	}
}

func (s *emailSender) Channel() models.Channel { return models.ChannelEmail }

func (s *emailSender) Send(ctx context.Context, rcpt *models.User, taskID int64, content Content) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", rcpt.Email)
	m.SetHeader("Subject", content.Subject)
	m.SetBody("text/plain", content.Text)
	if content.HTML != "" {
		m.AddAlternative("text/html", content.HTML)
	}

	sendErr := s.dialer.DialAndSend(m)
	recordDelivery(ctx, s.log, deliveryEntry(models.ChannelEmail, rcpt, taskID, content, sendErr))

	if sendErr != nil {
		return &ChannelError{Channel: models.ChannelEmail, Err: fmt.Errorf("smtp send: %w", sendErr)}
	}
	return nil
}
