package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Message is the event envelope shared by producer and consumer.
type Message struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// Header keys used on every event.
const (
	HeaderEventID       = "event-id"
	HeaderEventType     = "event-type"
	HeaderSource        = "source"
	HeaderTimestamp     = "timestamp"
	HeaderRetryCount    = "retry-count"
	HeaderOriginalTopic = "original-topic"
	HeaderError         = "dlq-error"
)

// MessageHandler processes one consumed message. A nil return commits the
// offset; an error triggers retry and eventually the DLQ.
type MessageHandler func(ctx context.Context, msg Message) error

// NewMessage builds an event message with a generated event ID.
func NewMessage(key string, eventType string, source string, payload any) (Message, error) {
	value, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}

	now := time.Now()
	return Message{
		Key:       key,
		Value:     value,
		Timestamp: now,
		Headers: map[string]string{
			HeaderEventID:   uuid.New().String(),
			HeaderEventType: eventType,
			HeaderSource:    source,
			HeaderTimestamp: now.Format(time.RFC3339),
		},
	}, nil
}

// DecodeValue unmarshals the payload into v.
func (m *Message) DecodeValue(v any) error {
	return json.Unmarshal(m.Value, v)
}

// EventType returns the event-type header.
func (m *Message) EventType() string {
	return m.Headers[HeaderEventType]
}

// RetryCount returns the retry-count header as an integer, zero when unset.
func (m *Message) RetryCount() int {
	raw, ok := m.Headers[HeaderRetryCount]
	if !ok {
		return 0
	}
	var count int
	if err := json.Unmarshal([]byte(raw), &count); err != nil {
		return 0
	}
	return count
}
