// Package notifier is the email side of the appointment event stream. It
// subscribes to the broker channels the outbox processor publishes to;
// the booking core itself never sends mail.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/pkg/messaging"
)

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type Notifier struct {
	broker messaging.Broker
	dialer *gomail.Dialer
	from   string
}

func New(broker messaging.Broker, cfg SMTPConfig) *Notifier {
	return &Notifier{
		broker: broker,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// Run consumes appointment events until the context is cancelled.
func (n *Notifier) Run(ctx context.Context) error {
	channels := []string{
		model.EventAppointmentBooked,
		model.EventAppointmentConfirmed,
		model.EventAppointmentRescheduled,
		model.EventAppointmentCancelled,
	}

	for _, channel := range channels {
		msgs, err := n.broker.Subscribe(ctx, channel)
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", channel, err)
		}

		go func(channel string, msgs <-chan []byte) {
			for payload := range msgs {
				if err := n.handle(channel, payload); err != nil {
					log.Error().Err(err).Str("channel", channel).Msg("failed to handle event")
				}
			}
		}(channel, msgs)
	}

	<-ctx.Done()
	return nil
}

func (n *Notifier) handle(eventType string, payload []byte) error {
	var event model.AppointmentEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("failed to decode appointment event: %w", err)
	}

	// Consumer IDs are opaque here; the identity system resolves them to
	// addresses. Events without a routable address are logged and dropped.
	address, ok := resolveAddress(event.ConsumerID)
	if !ok {
		log.Debug().
			Str("consumer_id", event.ConsumerID).
			Str("event_type", eventType).
			Msg("no address for consumer, skipping notification")
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", address)
	m.SetHeader("Subject", subjectFor(eventType))
	m.SetBody("text/plain", bodyFor(eventType, event))

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

// resolveAddress treats consumer IDs that look like email addresses as
// directly routable. Anything else needs the identity system.
func resolveAddress(consumerID string) (string, bool) {
	for _, c := range consumerID {
		if c == '@' {
			return consumerID, true
		}
	}
	return "", false
}

func subjectFor(eventType string) string {
	switch eventType {
	case model.EventAppointmentConfirmed:
		return "Your appointment is confirmed"
	case model.EventAppointmentRescheduled:
		return "Your appointment was rescheduled"
	case model.EventAppointmentCancelled:
		return "Your appointment was cancelled"
	default:
		return "Appointment booked"
	}
}

func bodyFor(eventType string, event model.AppointmentEvent) string {
	return fmt.Sprintf(
		"Your appointment on day %d at %s is now %s.",
		event.Day, event.StartTime, event.Status,
	)
}
