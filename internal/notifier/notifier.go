package notifier

import (
	"context"
	"fmt"

	"tablebook/internal/reservations/events"
	"tablebook/pkg/config"
	"tablebook/pkg/kafka"
	"tablebook/pkg/slot"
)

// Sender delivers one rendered notification to a guest. The default
// implementation only logs; an SMS or email provider plugs in here.
type Sender interface {
	Send(ctx context.Context, phone, email, message string) error
}

type logSender struct {
	cfg *config.Config
}

func NewLogSender(cfg *config.Config) Sender {
	return &logSender{cfg: cfg}
}

func (s *logSender) Send(_ context.Context, phone, email, message string) error {
	s.cfg.Log.Info("Notification delivered",
		"phone", phone,
		"email", email,
		"message", message,
	)
	return nil
}

// Notifier turns reservation lifecycle events into guest notifications.
type Notifier struct {
	sender Sender
	cfg    *config.Config
}

func New(sender Sender, cfg *config.Config) *Notifier {
	return &Notifier{sender: sender, cfg: cfg}
}

// Handle implements kafka.MessageHandler. Unknown event types are skipped
// and committed, never retried.
func (n *Notifier) Handle(ctx context.Context, msg kafka.Message) error {
	var event events.ReservationEvent
	if err := msg.DecodeValue(&event); err != nil {
		n.cfg.Log.Error("Failed to decode reservation event",
			"event_type", msg.EventType(),
			"key", msg.Key,
			"error", err,
		)
		return nil
	}

	message, ok := n.render(msg.EventType(), &event)
	if !ok {
		n.cfg.Log.Warn("Skipping unknown event type", "event_type", msg.EventType())
		return nil
	}

	return n.sender.Send(ctx, event.ContactPhone, event.ContactEmail, message)
}

func (n *Notifier) render(eventType string, event *events.ReservationEvent) (string, bool) {
	when := fmt.Sprintf("%s at %s", event.Date.Format("2006-01-02"), slot.Label(event.Slot))

	switch eventType {
	case events.EventReservationCreated:
		return fmt.Sprintf("Your reservation for %d guests on %s has been received.", event.Guests, when), true
	case events.EventReservationUpdated:
		return fmt.Sprintf("Your reservation has been updated: %d guests on %s.", event.Guests, when), true
	case events.EventReservationCancelled:
		return fmt.Sprintf("Your reservation on %s has been cancelled.", when), true
	}
	return "", false
}
