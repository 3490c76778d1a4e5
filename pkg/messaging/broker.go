package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrBrokerUnavailable is returned while a broker refuses work, for example
// when its circuit breaker is open.
var ErrBrokerUnavailable = errors.New("broker unavailable")

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// ChannelPrefix namespaces every channel published by this service.
const ChannelPrefix = "intake."

// ChannelFor maps an event type such as PATIENT_REGISTERED to intake.patient_registered.
func ChannelFor(eventType string) string {
	return ChannelPrefix + strings.ToLower(eventType)
}

// Message is the envelope published for every outbox event.
type Message struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}
