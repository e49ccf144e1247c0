package events

import (
	"context"
	"time"

	"tablebook/pkg/config"
	"tablebook/pkg/kafka"
	"tablebook/pkg/model"
)

const (
	EventReservationCreated   = "reservation.created"
	EventReservationUpdated   = "reservation.updated"
	EventReservationCancelled = "reservation.cancelled"

	source = "reservations-service"
)

// ReservationEvent is the payload published for every lifecycle change.
// Consumers key notifications off EventType and the contact fields.
type ReservationEvent struct {
	ReservationID string    `json:"reservation_id"`
	UserID        string    `json:"user_id"`
	Date          time.Time `json:"date"`
	Slot          int       `json:"slot"`
	Guests        int       `json:"guests"`
	Status        string    `json:"status"`
	TableNumbers  []int     `json:"table_numbers"`
	ContactPhone  string    `json:"contact_phone"`
	ContactEmail  string    `json:"contact_email,omitempty"`
}

// Publisher emits reservation lifecycle events. A nil *Publisher is valid and
// drops all events, so services can run without Kafka.
type Publisher struct {
	producer *kafka.Producer
	cfg      *config.Config
}

func NewPublisher(cfg *config.Config) (*Publisher, error) {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Kafka brokers not configured, reservation events disabled")
		return nil, nil
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaEventTopic, cfg.KafkaDLQTopic)
	if err != nil {
		return nil, err
	}

	return &Publisher{producer: producer, cfg: cfg}, nil
}

// Publish is best-effort: a broker failure is logged, never surfaced, so a
// reservation write always succeeds independently of the event stream.
func (p *Publisher) Publish(ctx context.Context, eventType string, reservation *model.Reservation) {
	if p == nil {
		return
	}

	event := ReservationEvent{
		ReservationID: reservation.ID,
		UserID:        reservation.UserID,
		Date:          reservation.Date,
		Slot:          reservation.Slot,
		Guests:        reservation.Guests,
		Status:        reservation.Status,
		TableNumbers:  reservation.TableNumbers,
		ContactPhone:  reservation.ContactPhone,
		ContactEmail:  reservation.ContactEmail,
	}

	msg, err := kafka.NewMessage(reservation.ID, eventType, source, event)
	if err != nil {
		p.cfg.Log.Error("Failed to encode reservation event",
			"event_type", eventType,
			"reservation_id", reservation.ID,
			"error", err,
		)
		return
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.cfg.Log.Error("Failed to publish reservation event",
			"event_type", eventType,
			"reservation_id", reservation.ID,
			"error", err,
		)
	}
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
