package services

import (
	"context"

	"taskpulse/internal/models"
	"taskpulse/internal/repositories"
	"taskpulse/internal/utils"
)

type smsSender struct {
	client *utils.MobizonClient
	log    repositories.DeliveryLogRepository
}

func NewSMSSender(client *utils.MobizonClient, logRepo repositories.DeliveryLogRepository) ChannelSender {
	return &smsSender{client: client, log: logRepo}
}

func (s *smsSender) Channel() models.Channel { return models.ChannelSMS }

func (s *smsSender) Send(ctx context.Context, rcpt *models.User, taskID int64, content Content) error {
	_, sendErr := s.client.SendText(rcpt.Phone, content.Text)
	recordDelivery(ctx, s.log, deliveryEntry(models.ChannelSMS, rcpt, taskID, content, sendErr))

	if sendErr != nil {
		return &ChannelError{Channel: models.ChannelSMS, Err: sendErr}
	}
	return nil
}
