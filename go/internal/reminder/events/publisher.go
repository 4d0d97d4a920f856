package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

const (
	// SubjectReminderProcessed is the JetStream subject reminder events are
	// published on.
	SubjectReminderProcessed = "reminder.events.processed"

	natsMaxReconnects = 10
	natsReconnectWait = 2 * time.Second
)

// Publisher emits reminder domain events for downstream consumers.
type Publisher interface {
	PublishReminderProcessed(ctx context.Context, payload ReminderProcessedPayload) error
}

// envelope is the wire format shared with the platform's other event
// producers.
type envelope struct {
	EventID   string          `json:"eventId"`
	EventType string          `json:"eventType"`
	MatchID   string          `json:"matchId"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// NATSPublisher publishes reminder events to NATS JetStream.
type NATSPublisher struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// NewNATSPublisher connects to NATS and prepares a JetStream context.
func NewNATSPublisher(natsURL string) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.MaxReconnects(natsMaxReconnects),
		nats.ReconnectWait(natsReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(natsURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	return &NATSPublisher{nc: nc, js: js}, nil
}

// PublishReminderProcessed publishes a ReminderProcessed event.
func (p *NATSPublisher) PublishReminderProcessed(ctx context.Context, payload ReminderProcessedPayload) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal ReminderProcessed payload: %w", err)
	}

	env := envelope{
		EventID:   uuid.New().String(),
		EventType: "ReminderProcessed",
		MatchID:   payload.MatchID,
		Timestamp: payload.ProcessedAt,
		Payload:   payloadBytes,
	}

	msgBytes, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	if _, err := p.js.Publish(ctx, SubjectReminderProcessed, msgBytes); err != nil {
		return fmt.Errorf("failed to publish ReminderProcessed event: %w", err)
	}

	return nil
}

// Close drains the underlying NATS connection.
func (p *NATSPublisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
