package payment

import (
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"
	checksession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/subscription"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/jlandron/GabiYogaWebsite-sub001/internal/model"
)

type Config struct {
	SecretKey      string
	WebhookSecret  string
	MonthlyPriceID string
	AnnualPriceID  string
	SuccessURL     string
	CancelURL      string
}

// Client wraps the Stripe SDK with studio-specific checkout flows.
type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	stripe.Key = cfg.SecretKey
	return &Client{cfg: cfg}
}

// Configured reports whether Stripe credentials are present. When false the
// webhook endpoint refuses traffic instead of silently dropping events.
func (c *Client) Configured() bool {
	return c.cfg.SecretKey != "" && c.cfg.WebhookSecret != ""
}

// ConstructWebhookEvent verifies the signature and returns the parsed event.
func (c *Client) ConstructWebhookEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, c.cfg.WebhookSecret)
}

// GetSubscription fetches a subscription so the reconciler can read its
// billing interval and price.
func (c *Client) GetSubscription(id string) (*stripe.Subscription, error) {
	sub, err := subscription.Get(id, nil)
	if err != nil {
		return nil, fmt.Errorf("get subscription %s: %w", id, err)
	}
	return sub, nil
}

// PriceIDForInterval returns the membership price for the given billing
// interval.
func (c *Client) PriceIDForInterval(interval string) string {
	if interval == model.IntervalYear {
		return c.cfg.AnnualPriceID
	}
	return c.cfg.MonthlyPriceID
}

// CreateMembershipCheckout starts a subscription checkout for the given user
// and returns the hosted checkout URL.
func (c *Client) CreateMembershipCheckout(userID int64, interval string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(c.PriceIDForInterval(interval)),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(c.cfg.SuccessURL),
		CancelURL:  stripe.String(c.cfg.CancelURL),
	}
	params.AddMetadata("user_id", fmt.Sprintf("%d", userID))
	params.AddMetadata("payment_type", model.PaymentTypeMembership)

	sess, err := checksession.New(params)
	if err != nil {
		return "", fmt.Errorf("create membership checkout: %w", err)
	}
	return sess.URL, nil
}

// CreateBookingCheckout starts a one-time payment checkout for a workshop
// registration, retreat booking, or private session. amountCents is the
// price in the smallest currency unit.
func (c *Client) CreateBookingCheckout(userID int64, paymentType string, relatedID int64, description string, amountCents int64) (string, error) {
	metadata := map[string]string{
		"user_id":      fmt.Sprintf("%d", userID),
		"payment_type": paymentType,
		"related_id":   fmt.Sprintf("%d", relatedID),
	}
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(amountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: metadata,
		},
		SuccessURL: stripe.String(c.cfg.SuccessURL),
		CancelURL:  stripe.String(c.cfg.CancelURL),
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	sess, err := checksession.New(params)
	if err != nil {
		return "", fmt.Errorf("create booking checkout: %w", err)
	}
	return sess.URL, nil
}
