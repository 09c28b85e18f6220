// Package events fans user-scoped change notifications out to interested sinks.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/finance-tracker-be/internal/models"
	"github.com/rs/zerolog/log"
)

// Publisher delivers an event to a sink such as the websocket hub or a message broker.
type Publisher interface {
	Publish(ctx context.Context, event models.Event) error
}

// New builds an event with a fresh ID and timestamp.
func New(eventType, userUUID string, kind models.Kind, payload interface{}) models.Event {
	return models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		UserUUID:  userUUID,
		Kind:      kind,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, models.Event) error { return nil }

// Multi publishes to every sink. A failing sink is logged and does not stop the others.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event models.Event) error {
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			log.Warn().Err(err).Str("event_type", event.Type).Str("user_uuid", event.UserUUID).Msg("Failed to publish event")
		}
	}
	return nil
}
