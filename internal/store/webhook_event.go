package store

import (
	"database/sql"
	"fmt"
	"time"
)

// WebhookEventStore tracks processed billing events so redelivered
// webhooks are dropped instead of applied twice.
type WebhookEventStore struct {
	db *sql.DB
}

func NewWebhookEventStore(db *sql.DB) *WebhookEventStore {
	return &WebhookEventStore{db: db}
}

func (s *WebhookEventStore) IsProcessed(eventID string) (bool, error) {
	var count int64
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM webhook_events WHERE event_id = ?`, eventID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check webhook event: %w", err)
	}
	return count > 0, nil
}

func (s *WebhookEventStore) MarkProcessed(eventID, eventType string) error {
	_, err := s.db.Exec(
		`INSERT INTO webhook_events (event_id, event_type, processed_at) VALUES (?, ?, ?)`,
		eventID, eventType, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("mark webhook event processed: %w", err)
	}
	return nil
}
