package services

import (
	"context"

	"taskpulse/internal/models"
	"taskpulse/internal/repositories"
	"taskpulse/internal/utils"
)

type whatsappSender struct {
	client *utils.WhatsAppClient
	log    repositories.DeliveryLogRepository
}

func NewWhatsAppSender(client *utils.WhatsAppClient, logRepo repositories.DeliveryLogRepository) ChannelSender {
	return &whatsappSender{client: client, log: logRepo}
}

func (s *whatsappSender) Channel() models.Channel { return models.ChannelWhatsApp }

func (s *whatsappSender) Send(ctx context.Context, rcpt *models.User, taskID int64, content Content) error {
	sendErr := s.client.SendText(rcpt.Phone, content.Text)
	recordDelivery(ctx, s.log, deliveryEntry(models.ChannelWhatsApp, rcpt, taskID, content, sendErr))

	if sendErr != nil {
		return &ChannelError{Channel: models.ChannelWhatsApp, Err: sendErr}
	}
	return nil
}
