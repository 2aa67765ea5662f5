package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jlandron/GabiYogaWebsite-sub001/internal/model"
)

type WorkshopStore struct {
	db *sql.DB
}

func NewWorkshopStore(db *sql.DB) *WorkshopStore {
	return &WorkshopStore{db: db}
}

const workshopCols = `id, title, description, starts_at, duration_minutes, price, capacity, created_at, updated_at`

func scanWorkshop(scanner interface{ Scan(...any) error }) (*model.Workshop, error) {
	var w model.Workshop
	err := scanner.Scan(
		&w.ID, &w.Title, &w.Description, &w.StartsAt, &w.DurationMinutes,
		&w.Price, &w.Capacity, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *WorkshopStore) Create(title, description string, startsAt time.Time, durationMinutes int, price float64, capacity int) (*model.Workshop, error) {
	now := time.Now().UTC()
	result, err := s.db.Exec(
		`INSERT INTO workshops (title, description, starts_at, duration_minutes, price, capacity, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		title, description, startsAt.UTC(), durationMinutes, price, capacity, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create workshop: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *WorkshopStore) GetByID(id int64) (*model.Workshop, error) {
	row := s.db.QueryRow(`SELECT `+workshopCols+` FROM workshops WHERE id = ?`, id)
	w, err := scanWorkshop(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get workshop %d: %w", id, err)
	}
	return w, nil
}

func (s *WorkshopStore) ListUpcoming() ([]model.Workshop, error) {
	rows, err := s.db.Query(
		`SELECT `+workshopCols+` FROM workshops WHERE starts_at >= ? ORDER BY starts_at`,
		time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list workshops: %w", err)
	}
	defer rows.Close()

	var workshops []model.Workshop
	for rows.Next() {
		w, err := scanWorkshop(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workshop: %w", err)
		}
		workshops = append(workshops, *w)
	}
	return workshops, rows.Err()
}

const registrationCols = `id, workshop_id, user_id, reference, payment_status, created_at`

func scanRegistration(scanner interface{ Scan(...any) error }) (*model.WorkshopRegistration, error) {
	var r model.WorkshopRegistration
	err := scanner.Scan(&r.ID, &r.WorkshopID, &r.UserID, &r.Reference, &r.PaymentStatus, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *WorkshopStore) Register(workshopID, userID int64, reference string) (*model.WorkshopRegistration, error) {
	now := time.Now().UTC()
	result, err := s.db.Exec(
		`INSERT INTO workshop_registrations (workshop_id, user_id, reference, payment_status, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		workshopID, userID, reference, model.PaymentStatusPending, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create registration: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetRegistrationByID(id)
}

func (s *WorkshopStore) GetRegistrationByID(id int64) (*model.WorkshopRegistration, error) {
	row := s.db.QueryRow(`SELECT `+registrationCols+` FROM workshop_registrations WHERE id = ?`, id)
	r, err := scanRegistration(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get registration %d: %w", id, err)
	}
	return r, nil
}

func (s *WorkshopStore) UpdateRegistrationPaymentStatus(id int64, status string) error {
	_, err := s.db.Exec(
		`UPDATE workshop_registrations SET payment_status = ? WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("update registration payment status: %w", err)
	}
	return nil
}

func (s *WorkshopStore) CountRegistrations(workshopID int64) (int64, error) {
	var count int64
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM workshop_registrations WHERE workshop_id = ?`, workshopID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return count, nil
}
