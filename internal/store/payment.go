package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jlandron/GabiYogaWebsite-sub001/internal/model"
)

type PaymentStore struct {
	db *sql.DB
}

func NewPaymentStore(db *sql.DB) *PaymentStore {
	return &PaymentStore{db: db}
}

const paymentCols = `id, user_id, amount, payment_date, payment_method, payment_reference, payment_type, related_id, created_at`

func scanPayment(scanner interface{ Scan(...any) error }) (*model.Payment, error) {
	var p model.Payment
	var relatedID sql.NullInt64
	err := scanner.Scan(
		&p.ID, &p.UserID, &p.Amount, &p.PaymentDate, &p.PaymentMethod,
		&p.PaymentReference, &p.PaymentType, &relatedID, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if relatedID.Valid {
		p.RelatedID = &relatedID.Int64
	}
	return &p, nil
}

func (s *PaymentStore) Create(userID int64, amount float64, method, reference, paymentType string, relatedID *int64) (*model.Payment, error) {
	now := time.Now().UTC()
	result, err := s.db.Exec(
		`INSERT INTO payments (user_id, amount, payment_date, payment_method, payment_reference, payment_type, related_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, amount, now, method, reference, paymentType, relatedID, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+paymentCols+` FROM payments WHERE id = ?`, id)
	p, err := scanPayment(row)
	if err != nil {
		return nil, fmt.Errorf("get payment %d: %w", id, err)
	}
	return p, nil
}

func (s *PaymentStore) ListByUser(userID int64) ([]model.Payment, error) {
	rows, err := s.db.Query(
		`SELECT `+paymentCols+` FROM payments WHERE user_id = ? ORDER BY payment_date DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

func (s *PaymentStore) CountByReference(reference string) (int64, error) {
	var count int64
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM payments WHERE payment_reference = ?`, reference,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count payments by reference: %w", err)
	}
	return count, nil
}
