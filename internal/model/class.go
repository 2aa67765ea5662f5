package model

import "time"

// Class is a weekly recurring studio class. Weekday follows time.Weekday
// (0 = Sunday); StartTime is a local "HH:MM" string.
type Class struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Instructor      string    `json:"instructor"`
	Level           string    `json:"level"`
	Weekday         int       `json:"weekday"`
	StartTime       string    `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ClassOccurrence is one dated instance of a recurring class, produced by
// expanding the weekly schedule over a date range.
type ClassOccurrence struct {
	ClassID         int64     `json:"class_id"`
	Title           string    `json:"title"`
	Instructor      string    `json:"instructor"`
	Level           string    `json:"level"`
	StartsAt        time.Time `json:"starts_at"`
	DurationMinutes int       `json:"duration_minutes"`
}
