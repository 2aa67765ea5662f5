// Package email sends transactional mail through Postmark: booking
// confirmations and membership receipts. An unconfigured client returns an
// error from every send; callers that treat mail as optional should check
// Configured first.
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
)

const defaultAPIURL = "https://api.postmarkapp.com/email"

type Client struct {
	serverToken string
	fromEmail   string
	apiURL      string
	httpClient  *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func WithAPIURL(url string) Option {
	return func(cl *Client) {
		cl.apiURL = url
	}
}

func NewClient(serverToken, fromEmail string, opts ...Option) *Client {
	c := &Client{
		serverToken: serverToken,
		fromEmail:   fromEmail,
		apiURL:      defaultAPIURL,
		httpClient:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured returns true if the server token is set.
func (c *Client) Configured() bool {
	return c.serverToken != ""
}

type postmarkEmail struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HtmlBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// SendBookingConfirmation confirms a workshop, retreat, or private session
// booking. reference is the booking reference shown at checkout.
func (c *Client) SendBookingConfirmation(toEmail, what, reference string) error {
	subject := fmt.Sprintf("Booking confirmed: %s", what)
	text := fmt.Sprintf(
		"Your booking for %s is confirmed.\n\nBooking reference: %s\n\nSee you on the mat!",
		what, reference,
	)
	// Titles are admin-entered free text; escape them before they land in
	// an HTML body.
	htmlBody := fmt.Sprintf(
		`<p>Your booking for <strong>%s</strong> is confirmed.</p><p>Booking reference: <code>%s</code></p><p>See you on the mat!</p>`,
		html.EscapeString(what), html.EscapeString(reference),
	)
	return c.send(toEmail, subject, htmlBody, text)
}

// SendMembershipReceipt acknowledges a membership payment.
func (c *Client) SendMembershipReceipt(toEmail string, amount float64, interval string) error {
	subject := "Your membership payment"
	text := fmt.Sprintf(
		"Thanks for your membership payment of $%.2f (%sly plan).\n\nYour membership is active.",
		amount, interval,
	)
	htmlBody := fmt.Sprintf(
		`<p>Thanks for your membership payment of <strong>$%.2f</strong> (%sly plan).</p><p>Your membership is active.</p>`,
		amount, html.EscapeString(interval),
	)
	return c.send(toEmail, subject, htmlBody, text)
}

func (c *Client) send(toEmail, subject, htmlBody, textBody string) error {
	if !c.Configured() {
		return fmt.Errorf("email client not configured: missing server token")
	}

	payload := postmarkEmail{
		From:     c.fromEmail,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlBody,
		TextBody: textBody,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequest("POST", c.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.serverToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("postmark API error: status %d", resp.StatusCode)
	}
	return nil
}
