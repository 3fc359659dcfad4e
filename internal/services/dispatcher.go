package services

import (
	"context"
	"log"
	"sync"

	"taskpulse/internal/models"
)

// ChannelResult is the outcome of one channel attempt within a dispatch.
// Skipped means the channel was never attempted (missing contact data or
// a disabled preference) and produced no delivery-log row.
type ChannelResult struct {
	Channel models.Channel
	Skipped bool
	Err     error
}

// NotificationDispatcher fans one logical event out to a recipient's
// eligible channels. Implementations never fail the call on a partial (or
// even total) channel failure; callers inspect the result set if they care.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, ev Event, rcpt *models.User, channels []models.Channel) []ChannelResult
}

type dispatcher struct {
	senders map[models.Channel]ChannelSender
}

func NewDispatcher(senders ...ChannelSender) NotificationDispatcher {
	m := make(map[models.Channel]ChannelSender, len(senders))
	for _, s := range senders {
		m[s.Channel()] = s
	}
	return &dispatcher{senders: m}
}

// Dispatch attempts every requested channel independently and concurrently.
// All attempts complete, each logged by its sender, before the call
// returns. At most one attempt per channel per call; no retries.
func (d *dispatcher) Dispatch(ctx context.Context, ev Event, rcpt *models.User, channels []models.Channel) []ChannelResult {
	results := make([]ChannelResult, len(channels))

	var wg sync.WaitGroup
	for i, ch := range channels {
		results[i].Channel = ch

		sender, ok := d.senders[ch]
		if !ok {
			results[i].Err = ErrUnsupportedChannel
			continue
		}
		if !eligible(rcpt, ch) {
			results[i].Skipped = true
			continue
		}

		content, err := Format(ev, ch)
		if err != nil {
			results[i].Err = err
			continue
		}

		wg.Add(1)
		go func(i int, sender ChannelSender, content Content) {
			defer wg.Done()
			taskID := int64(0)
			if ev.Task != nil {
				taskID = ev.Task.ID
			}
			if err := sender.Send(ctx, rcpt, taskID, content); err != nil {
				log.Printf("[dispatch][%s][err] user=%d task=%d: %v", sender.Channel(), rcpt.ID, taskID, err)
				results[i].Err = err
			}
		}(i, sender, content)
	}
	wg.Wait()

	return results
}

// eligible applies the recipient's preferences and contact data. A missing
// phone number or a disabled flag means skip, never fail.
func eligible(rcpt *models.User, ch models.Channel) bool {
	if rcpt == nil {
		return false
	}
	switch ch {
	case models.ChannelEmail:
		return rcpt.Prefs.Email && rcpt.Email != ""
	case models.ChannelSMS:
		return rcpt.Prefs.SMS && rcpt.Phone != ""
	case models.ChannelWhatsApp:
		return rcpt.Prefs.WhatsApp && rcpt.Phone != ""
	}
	return false
}
