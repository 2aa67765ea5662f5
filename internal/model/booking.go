package model

import "time"

// Payment status values carried on registrations and bookings. The webhook
// reconciler flips Pending rows once Stripe confirms the charge.
const (
	PaymentStatusPending     = "Pending"
	PaymentStatusPaid        = "Paid"
	PaymentStatusFullPayment = "Full Payment"
)

type Workshop struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	StartsAt        time.Time `json:"starts_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Price           float64   `json:"price"`
	Capacity        int       `json:"capacity"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type WorkshopRegistration struct {
	ID            int64     `json:"id"`
	WorkshopID    int64     `json:"workshop_id"`
	UserID        int64     `json:"user_id"`
	Reference     string    `json:"reference"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
}

type Retreat struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Price       float64   `json:"price"`
	Capacity    int       `json:"capacity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type RetreatBooking struct {
	ID            int64     `json:"id"`
	RetreatID     int64     `json:"retreat_id"`
	UserID        int64     `json:"user_id"`
	Reference     string    `json:"reference"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
}

type PrivateSession struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Focus           string    `json:"focus"`
	Reference       string    `json:"reference"`
	PaymentStatus   string    `json:"payment_status"`
	CreatedAt       time.Time `json:"created_at"`
}
