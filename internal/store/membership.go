package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jlandron/GabiYogaWebsite-sub001/internal/model"
)

type MembershipStore struct {
	db *sql.DB
}

func NewMembershipStore(db *sql.DB) *MembershipStore {
	return &MembershipStore{db: db}
}

const membershipCols = `id, user_id, status, plan_interval, price, start_date, end_date, payment_reference, auto_renew, created_at, updated_at`

func scanMembership(scanner interface{ Scan(...any) error }) (*model.Membership, error) {
	var m model.Membership
	var autoRenew int
	err := scanner.Scan(
		&m.ID, &m.UserID, &m.Status, &m.PlanInterval, &m.Price,
		&m.StartDate, &m.EndDate, &m.PaymentReference, &autoRenew, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.AutoRenew = autoRenew != 0
	return &m, nil
}

func (s *MembershipStore) Create(userID int64, interval string, price float64, start, end time.Time, paymentReference string) (*model.Membership, error) {
	now := time.Now().UTC()
	result, err := s.db.Exec(
		`INSERT INTO memberships (user_id, status, plan_interval, price, start_date, end_date, payment_reference, auto_renew, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		userID, model.MembershipActive, interval, price, start.UTC(), end.UTC(), paymentReference, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create membership: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *MembershipStore) GetByID(id int64) (*model.Membership, error) {
	row := s.db.QueryRow(`SELECT `+membershipCols+` FROM memberships WHERE id = ?`, id)
	m, err := scanMembership(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get membership %d: %w", id, err)
	}
	return m, nil
}

// GetByPaymentReference looks a membership up by its billing provider
// reference, typically a subscription ID.
func (s *MembershipStore) GetByPaymentReference(reference string) (*model.Membership, error) {
	row := s.db.QueryRow(`SELECT `+membershipCols+` FROM memberships WHERE payment_reference = ?`, reference)
	m, err := scanMembership(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get membership by reference: %w", err)
	}
	return m, nil
}

func (s *MembershipStore) GetActiveByUserID(userID int64) (*model.Membership, error) {
	row := s.db.QueryRow(
		`SELECT `+membershipCols+` FROM memberships WHERE user_id = ? AND status = ? ORDER BY end_date DESC LIMIT 1`,
		userID, model.MembershipActive,
	)
	m, err := scanMembership(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active membership: %w", err)
	}
	return m, nil
}

// ExtendPeriod pushes the membership end date forward by one billing
// interval and marks it active again.
func (s *MembershipStore) ExtendPeriod(id int64, interval string) (*model.Membership, error) {
	m, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("extend membership %d: not found", id)
	}

	var end time.Time
	switch interval {
	case model.IntervalYear:
		end = m.EndDate.AddDate(1, 0, 0)
	default:
		end = m.EndDate.AddDate(0, 1, 0)
	}

	_, err = s.db.Exec(
		`UPDATE memberships SET end_date = ?, status = ?, updated_at = ? WHERE id = ?`,
		end, model.MembershipActive, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("extend membership: %w", err)
	}
	return s.GetByID(id)
}

func (s *MembershipStore) UpdateStatus(id int64, status string) error {
	_, err := s.db.Exec(
		`UPDATE memberships SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update membership status: %w", err)
	}
	return nil
}

func (s *MembershipStore) SetAutoRenew(id int64, autoRenew bool) error {
	v := 0
	if autoRenew {
		v = 1
	}
	_, err := s.db.Exec(
		`UPDATE memberships SET auto_renew = ?, updated_at = ? WHERE id = ?`,
		v, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set auto renew: %w", err)
	}
	return nil
}

func (s *MembershipStore) SetPaymentReference(id int64, reference string) error {
	_, err := s.db.Exec(
		`UPDATE memberships SET payment_reference = ?, updated_at = ? WHERE id = ?`,
		reference, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set payment reference: %w", err)
	}
	return nil
}
