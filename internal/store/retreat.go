package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jlandron/GabiYogaWebsite-sub001/internal/model"
)

type RetreatStore struct {
	db *sql.DB
}

func NewRetreatStore(db *sql.DB) *RetreatStore {
	return &RetreatStore{db: db}
}

const retreatCols = `id, title, description, location, start_date, end_date, price, capacity, created_at, updated_at`

func scanRetreat(scanner interface{ Scan(...any) error }) (*model.Retreat, error) {
	var r model.Retreat
	err := scanner.Scan(
		&r.ID, &r.Title, &r.Description, &r.Location, &r.StartDate, &r.EndDate,
		&r.Price, &r.Capacity, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *RetreatStore) Create(title, description, location string, startDate, endDate time.Time, price float64, capacity int) (*model.Retreat, error) {
	now := time.Now().UTC()
	result, err := s.db.Exec(
		`INSERT INTO retreats (title, description, location, start_date, end_date, price, capacity, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		title, description, location, startDate.UTC(), endDate.UTC(), price, capacity, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create retreat: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *RetreatStore) GetByID(id int64) (*model.Retreat, error) {
	row := s.db.QueryRow(`SELECT `+retreatCols+` FROM retreats WHERE id = ?`, id)
	r, err := scanRetreat(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get retreat %d: %w", id, err)
	}
	return r, nil
}

func (s *RetreatStore) ListUpcoming() ([]model.Retreat, error) {
	rows, err := s.db.Query(
		`SELECT `+retreatCols+` FROM retreats WHERE end_date >= ? ORDER BY start_date`,
		time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list retreats: %w", err)
	}
	defer rows.Close()

	var retreats []model.Retreat
	for rows.Next() {
		r, err := scanRetreat(rows)
		if err != nil {
			return nil, fmt.Errorf("scan retreat: %w", err)
		}
		retreats = append(retreats, *r)
	}
	return retreats, rows.Err()
}

const retreatBookingCols = `id, retreat_id, user_id, reference, payment_status, created_at`

func scanRetreatBooking(scanner interface{ Scan(...any) error }) (*model.RetreatBooking, error) {
	var b model.RetreatBooking
	err := scanner.Scan(&b.ID, &b.RetreatID, &b.UserID, &b.Reference, &b.PaymentStatus, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *RetreatStore) Book(retreatID, userID int64, reference string) (*model.RetreatBooking, error) {
	now := time.Now().UTC()
	result, err := s.db.Exec(
		`INSERT INTO retreat_bookings (retreat_id, user_id, reference, payment_status, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		retreatID, userID, reference, model.PaymentStatusPending, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create retreat booking: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetBookingByID(id)
}

func (s *RetreatStore) GetBookingByID(id int64) (*model.RetreatBooking, error) {
	row := s.db.QueryRow(`SELECT `+retreatBookingCols+` FROM retreat_bookings WHERE id = ?`, id)
	b, err := scanRetreatBooking(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get retreat booking %d: %w", id, err)
	}
	return b, nil
}

func (s *RetreatStore) UpdateBookingPaymentStatus(id int64, status string) error {
	_, err := s.db.Exec(
		`UPDATE retreat_bookings SET payment_status = ? WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("update retreat booking payment status: %w", err)
	}
	return nil
}
