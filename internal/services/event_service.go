package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/isdelr/finance-tracker-be/internal/models"
)

// EventServiceProvider defines the interface for the per-user activity log.
type EventServiceProvider interface {
	Publish(ctx context.Context, event models.Event) error
	GetRecentEvents(ctx context.Context, userUUID string, limit int) ([]models.Event, error)
}

// EventService stores published events so clients can read recent activity.
type EventService struct {
	db *sql.DB
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{db: db}
}

// Publish logs an event to the database.
func (s *EventService) Publish(ctx context.Context, event models.Event) error {
	var payloadJSON sql.NullString
	if event.Payload != nil {
		b, err := json.Marshal(event.Payload)
		if err != nil {
			return fmt.Errorf("failed to encode event payload: %w", err)
		}
		payloadJSON = sql.NullString{String: string(b), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, type, user_uuid, kind, payload_json, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		event.ID, event.Type, event.UserUUID, string(event.Kind), payloadJSON, event.CreatedAt,
	)
	return err
}

// GetRecentEvents retrieves the user's most recent events, newest first.
func (s *EventService) GetRecentEvents(ctx context.Context, userUUID string, limit int) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, type, user_uuid, kind, payload_json, created_at FROM events WHERE user_uuid = ? ORDER BY created_at DESC, rowid DESC LIMIT ?",
		userUUID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var event models.Event
		var kind, payloadJSON sql.NullString
		if err := rows.Scan(&event.ID, &event.Type, &event.UserUUID, &kind, &payloadJSON, &event.CreatedAt); err != nil {
			return nil, err
		}
		event.Kind = models.Kind(kind.String)
		if payloadJSON.Valid {
			event.Payload = json.RawMessage(payloadJSON.String)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
