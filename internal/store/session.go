package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jlandron/GabiYogaWebsite-sub001/internal/model"
)

type PrivateSessionStore struct {
	db *sql.DB
}

func NewPrivateSessionStore(db *sql.DB) *PrivateSessionStore {
	return &PrivateSessionStore{db: db}
}

const sessionCols = `id, user_id, scheduled_at, duration_minutes, focus, reference, payment_status, created_at`

func scanSession(scanner interface{ Scan(...any) error }) (*model.PrivateSession, error) {
	var ps model.PrivateSession
	err := scanner.Scan(
		&ps.ID, &ps.UserID, &ps.ScheduledAt, &ps.DurationMinutes,
		&ps.Focus, &ps.Reference, &ps.PaymentStatus, &ps.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ps, nil
}

func (s *PrivateSessionStore) Create(userID int64, scheduledAt time.Time, durationMinutes int, focus, reference string) (*model.PrivateSession, error) {
	now := time.Now().UTC()
	result, err := s.db.Exec(
		`INSERT INTO private_sessions (user_id, scheduled_at, duration_minutes, focus, reference, payment_status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, scheduledAt.UTC(), durationMinutes, focus, reference, model.PaymentStatusPending, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create private session: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *PrivateSessionStore) GetByID(id int64) (*model.PrivateSession, error) {
	row := s.db.QueryRow(`SELECT `+sessionCols+` FROM private_sessions WHERE id = ?`, id)
	ps, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get private session %d: %w", id, err)
	}
	return ps, nil
}

func (s *PrivateSessionStore) ListByUser(userID int64) ([]model.PrivateSession, error) {
	rows, err := s.db.Query(
		`SELECT `+sessionCols+` FROM private_sessions WHERE user_id = ? ORDER BY scheduled_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list private sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.PrivateSession
	for rows.Next() {
		ps, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan private session: %w", err)
		}
		sessions = append(sessions, *ps)
	}
	return sessions, rows.Err()
}

func (s *PrivateSessionStore) UpdatePaymentStatus(id int64, status string) error {
	_, err := s.db.Exec(
		`UPDATE private_sessions SET payment_status = ? WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("update private session payment status: %w", err)
	}
	return nil
}
