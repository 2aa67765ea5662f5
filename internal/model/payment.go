package model

import "time"

// Payment types carried in Stripe metadata and the payments ledger.
const (
	PaymentTypeWorkshop       = "workshop"
	PaymentTypeRetreat        = "retreat"
	PaymentTypePrivateSession = "private_session"
	PaymentTypeMembership     = "membership"
)

// Payment is one row in the payments ledger. Amount is in dollars.
type Payment struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	Amount           float64   `json:"amount"`
	PaymentDate      time.Time `json:"payment_date"`
	PaymentMethod    string    `json:"payment_method"`
	PaymentReference string    `json:"payment_reference"`
	PaymentType      string    `json:"payment_type"`
	RelatedID        *int64    `json:"related_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// WebhookEvent records a processed provider event for idempotency. Redelivery
// of an event id already present here is a no-op.
type WebhookEvent struct {
	ID          int64     `json:"id"`
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	ProcessedAt time.Time `json:"processed_at"`
}
