package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jlandron/GabiYogaWebsite-sub001/internal/model"
)

type ClassStore struct {
	db *sql.DB
}

func NewClassStore(db *sql.DB) *ClassStore {
	return &ClassStore{db: db}
}

const classCols = `id, title, instructor, level, weekday, start_time, duration_minutes, active, created_at, updated_at`

func scanClass(scanner interface{ Scan(...any) error }) (*model.Class, error) {
	var c model.Class
	var active int
	err := scanner.Scan(
		&c.ID, &c.Title, &c.Instructor, &c.Level, &c.Weekday, &c.StartTime,
		&c.DurationMinutes, &active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Active = active != 0
	return &c, nil
}

func (s *ClassStore) Create(title, instructor, level string, weekday int, startTime string, durationMinutes int) (*model.Class, error) {
	now := time.Now().UTC()
	result, err := s.db.Exec(
		`INSERT INTO classes (title, instructor, level, weekday, start_time, duration_minutes, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		title, instructor, level, weekday, startTime, durationMinutes, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create class: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ClassStore) GetByID(id int64) (*model.Class, error) {
	row := s.db.QueryRow(`SELECT `+classCols+` FROM classes WHERE id = ?`, id)
	c, err := scanClass(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get class %d: %w", id, err)
	}
	return c, nil
}

func (s *ClassStore) ListActive() ([]model.Class, error) {
	rows, err := s.db.Query(`SELECT ` + classCols + ` FROM classes WHERE active = 1 ORDER BY weekday, start_time`)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, fmt.Errorf("scan class: %w", err)
		}
		classes = append(classes, *c)
	}
	return classes, rows.Err()
}

func (s *ClassStore) SetActive(id int64, active bool) error {
	v := 0
	if active {
		v = 1
	}
	_, err := s.db.Exec(
		`UPDATE classes SET active = ?, updated_at = ? WHERE id = ?`,
		v, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set class active: %w", err)
	}
	return nil
}

func (s *ClassStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM classes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return nil
}
