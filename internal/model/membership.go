package model

import "time"

// Membership statuses. Cancelled is terminal — a cancelled membership is
// never re-activated automatically; the member checks out again instead.
const (
	MembershipActive    = "Active"
	MembershipPastDue   = "PastDue"
	MembershipCancelled = "Cancelled"
)

// Billing intervals, matching Stripe price recurrence.
const (
	IntervalMonth = "month"
	IntervalYear  = "year"
)

type Membership struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	Status           string    `json:"status"`
	PlanInterval     string    `json:"plan_interval"`
	Price            float64   `json:"price"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	PaymentReference string    `json:"payment_reference"`
	AutoRenew        bool      `json:"auto_renew"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
