package payment

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	stripe "github.com/stripe/stripe-go/v82"

	"github.com/jlandron/GabiYogaWebsite-sub001/internal/model"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/store"
)

// subscriptionFetcher is the slice of the Stripe client the reconciler
// needs; tests substitute a stub.
type subscriptionFetcher interface {
	GetSubscription(id string) (*stripe.Subscription, error)
}

// feedPublisher pushes admin-facing notifications. Nil disables the feed.
type feedPublisher interface {
	Publish(kind string, data any)
}

// Mailer sends transactional mail to members. Nil disables email. A send
// failure is logged but never fails the event: the payment is already
// settled, and failing would make Stripe redeliver a processed event.
type Mailer interface {
	SendBookingConfirmation(toEmail, what, reference string) error
	SendMembershipReceipt(toEmail string, amount float64, interval string) error
}

// Reconciler applies verified Stripe events to bookings, memberships, and
// the payments ledger. Every event is processed at most once: redeliveries
// of an already-processed event id are dropped, and an event is only marked
// processed after its handler succeeds, so a mid-flight failure is retried
// by Stripe's redelivery.
type Reconciler struct {
	webhookEvents *store.WebhookEventStore
	payments      *store.PaymentStore
	memberships   *store.MembershipStore
	workshops     *store.WorkshopStore
	retreats      *store.RetreatStore
	sessions      *store.PrivateSessionStore
	users         *store.UserStore
	subs          subscriptionFetcher
	feed          feedPublisher
	mail          Mailer
	logger        *slog.Logger
}

func NewReconciler(
	webhookEvents *store.WebhookEventStore,
	payments *store.PaymentStore,
	memberships *store.MembershipStore,
	workshops *store.WorkshopStore,
	retreats *store.RetreatStore,
	sessions *store.PrivateSessionStore,
	users *store.UserStore,
	subs subscriptionFetcher,
	feed feedPublisher,
	mail Mailer,
	logger *slog.Logger,
) *Reconciler {
	return &Reconciler{
		webhookEvents: webhookEvents,
		payments:      payments,
		memberships:   memberships,
		workshops:     workshops,
		retreats:      retreats,
		sessions:      sessions,
		users:         users,
		subs:          subs,
		feed:          feed,
		mail:          mail,
		logger:        logger.With("component", "reconciler"),
	}
}

// Process applies one verified event. Returning an error leaves the event
// unmarked so Stripe redelivers it.
func (r *Reconciler) Process(event stripe.Event) error {
	processed, err := r.webhookEvents.IsProcessed(event.ID)
	if err != nil {
		return err
	}
	if processed {
		r.logger.Info("duplicate event dropped", "event_id", event.ID, "type", event.Type)
		return nil
	}

	switch event.Type {
	case "payment_intent.succeeded":
		err = r.handlePaymentIntentSucceeded(event)
	case "checkout.session.completed":
		err = r.handleCheckoutCompleted(event)
	case "invoice.paid":
		err = r.handleInvoicePaid(event)
	case "customer.subscription.updated":
		err = r.handleSubscriptionUpdated(event)
	case "customer.subscription.deleted":
		err = r.handleSubscriptionDeleted(event)
	default:
		r.logger.Debug("ignoring event type", "type", event.Type)
	}
	if err != nil {
		return fmt.Errorf("handle %s: %w", event.Type, err)
	}

	return r.webhookEvents.MarkProcessed(event.ID, string(event.Type))
}

type eventMetadata struct {
	userID      int64
	paymentType string
	relatedID   int64
}

func parseMetadata(md map[string]string) (eventMetadata, error) {
	var m eventMetadata
	var err error
	if v := md["user_id"]; v != "" {
		if m.userID, err = strconv.ParseInt(v, 10, 64); err != nil {
			return m, fmt.Errorf("bad user_id %q: %w", v, err)
		}
	}
	m.paymentType = md["payment_type"]
	if v := md["related_id"]; v != "" {
		if m.relatedID, err = strconv.ParseInt(v, 10, 64); err != nil {
			return m, fmt.Errorf("bad related_id %q: %w", v, err)
		}
	}
	return m, nil
}

// markBookingPaid flips the Pending row the metadata points at.
func (r *Reconciler) markBookingPaid(md eventMetadata) error {
	if md.relatedID == 0 {
		return nil
	}
	switch md.paymentType {
	case model.PaymentTypeWorkshop:
		return r.workshops.UpdateRegistrationPaymentStatus(md.relatedID, model.PaymentStatusPaid)
	case model.PaymentTypeRetreat:
		return r.retreats.UpdateBookingPaymentStatus(md.relatedID, model.PaymentStatusPaid)
	case model.PaymentTypePrivateSession:
		return r.sessions.UpdatePaymentStatus(md.relatedID, model.PaymentStatusPaid)
	}
	return nil
}

// bookingDetails resolves a human-readable description and booking
// reference for the confirmation email. Missing rows are not an error here:
// the email just gets a generic description.
func (r *Reconciler) bookingDetails(md eventMetadata) (what, reference string) {
	switch md.paymentType {
	case model.PaymentTypeWorkshop:
		what = "your workshop"
		if reg, err := r.workshops.GetRegistrationByID(md.relatedID); err == nil && reg != nil {
			reference = reg.Reference
			if w, err := r.workshops.GetByID(reg.WorkshopID); err == nil && w != nil {
				what = w.Title
			}
		}
	case model.PaymentTypeRetreat:
		what = "your retreat"
		if b, err := r.retreats.GetBookingByID(md.relatedID); err == nil && b != nil {
			reference = b.Reference
			if rt, err := r.retreats.GetByID(b.RetreatID); err == nil && rt != nil {
				what = rt.Title
			}
		}
	case model.PaymentTypePrivateSession:
		what = "your private session"
		if ps, err := r.sessions.GetByID(md.relatedID); err == nil && ps != nil {
			reference = ps.Reference
		}
	}
	return what, reference
}

func (r *Reconciler) emailAddress(userID int64) string {
	u, err := r.users.GetByID(userID)
	if err != nil || u == nil {
		return ""
	}
	return u.Email
}

func (r *Reconciler) sendBookingConfirmation(userID int64, md eventMetadata) {
	if r.mail == nil || md.relatedID == 0 {
		return
	}
	to := r.emailAddress(userID)
	if to == "" {
		return
	}
	what, reference := r.bookingDetails(md)
	if err := r.mail.SendBookingConfirmation(to, what, reference); err != nil {
		r.logger.Warn("booking confirmation email failed", "to", to, "error", err)
	}
}

func (r *Reconciler) sendMembershipReceipt(userID int64, amount float64, interval string) {
	if r.mail == nil {
		return
	}
	to := r.emailAddress(userID)
	if to == "" {
		return
	}
	if err := r.mail.SendMembershipReceipt(to, amount, interval); err != nil {
		r.logger.Warn("membership receipt email failed", "to", to, "error", err)
	}
}

func (r *Reconciler) handlePaymentIntentSucceeded(event stripe.Event) error {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return fmt.Errorf("unmarshal payment intent: %w", err)
	}

	md, err := parseMetadata(pi.Metadata)
	if err != nil {
		return err
	}
	if md.paymentType == "" {
		r.logger.Warn("payment intent without payment_type metadata", "payment_intent", pi.ID)
		return nil
	}

	amount := float64(pi.Amount) / 100
	var relatedID *int64
	if md.relatedID != 0 {
		relatedID = &md.relatedID
	}
	if _, err := r.payments.Create(md.userID, amount, "card", pi.ID, md.paymentType, relatedID); err != nil {
		return err
	}
	if err := r.markBookingPaid(md); err != nil {
		return err
	}
	r.sendBookingConfirmation(md.userID, md)

	r.publish("payment_received", map[string]any{
		"payment_type": md.paymentType,
		"amount":       amount,
	})
	r.logger.Info("one-time payment recorded",
		"payment_intent", pi.ID, "type", md.paymentType, "amount", amount)
	return nil
}

func (r *Reconciler) handleCheckoutCompleted(event stripe.Event) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("unmarshal checkout session: %w", err)
	}

	md, err := parseMetadata(sess.Metadata)
	if err != nil {
		return err
	}

	if sess.Mode != stripe.CheckoutSessionModeSubscription {
		// One-time checkouts are settled by payment_intent.succeeded.
		return nil
	}
	if sess.Subscription == nil {
		r.logger.Warn("subscription checkout without subscription", "session", sess.ID)
		return nil
	}
	if md.userID == 0 {
		r.logger.Warn("subscription checkout without user_id metadata", "session", sess.ID)
		return nil
	}

	// A redelivered checkout is caught by the event table, but guard
	// against a membership already created for the same subscription.
	existing, err := r.memberships.GetByPaymentReference(sess.Subscription.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	interval, price := r.subscriptionTerms(sess.Subscription.ID, sess.AmountTotal)

	start := time.Now().UTC()
	var end time.Time
	if interval == model.IntervalYear {
		end = start.AddDate(1, 0, 0)
	} else {
		end = start.AddDate(0, 1, 0)
	}

	m, err := r.memberships.Create(md.userID, interval, price, start, end, sess.Subscription.ID)
	if err != nil {
		return err
	}
	if _, err := r.payments.Create(md.userID, price, "card", sess.ID, model.PaymentTypeMembership, &m.ID); err != nil {
		return err
	}
	r.sendMembershipReceipt(md.userID, price, interval)

	r.publish("membership_started", map[string]any{
		"user_id":  md.userID,
		"interval": interval,
	})
	r.logger.Info("membership created",
		"user_id", md.userID, "subscription", sess.Subscription.ID, "interval", interval)
	return nil
}

// subscriptionTerms reads interval and price off the live subscription,
// falling back to the checkout amount and monthly billing when the fetch
// fails. The fallback keeps checkout handling working when Stripe is
// partially degraded.
func (r *Reconciler) subscriptionTerms(subID string, amountTotalCents int64) (string, float64) {
	interval := model.IntervalMonth
	price := float64(amountTotalCents) / 100

	sub, err := r.subs.GetSubscription(subID)
	if err != nil {
		r.logger.Warn("could not fetch subscription, using checkout amount", "subscription", subID, "error", err)
		return interval, price
	}
	if len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		p := sub.Items.Data[0].Price
		if p.Recurring != nil && p.Recurring.Interval == stripe.PriceRecurringIntervalYear {
			interval = model.IntervalYear
		}
		if p.UnitAmount > 0 {
			price = float64(p.UnitAmount) / 100
		}
	}
	return interval, price
}

func (r *Reconciler) handleInvoicePaid(event stripe.Event) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return fmt.Errorf("unmarshal invoice: %w", err)
	}

	subID := subscriptionIDFromInvoice(invoice)
	if subID == "" {
		return nil
	}

	m, err := r.memberships.GetByPaymentReference(subID)
	if err != nil {
		return err
	}
	if m == nil {
		// The first invoice for a new subscription can land before
		// checkout.session.completed creates the membership row. Stripe
		// redelivers; once the membership exists the renewal applies.
		r.logger.Info("invoice for unknown subscription, skipping", "subscription", subID)
		return nil
	}

	amount := float64(invoice.AmountPaid) / 100
	if _, err := r.payments.Create(m.UserID, amount, "card", invoice.ID, model.PaymentTypeMembership, &m.ID); err != nil {
		return err
	}
	if _, err := r.memberships.ExtendPeriod(m.ID, m.PlanInterval); err != nil {
		return err
	}
	r.sendMembershipReceipt(m.UserID, amount, m.PlanInterval)

	r.publish("membership_renewed", map[string]any{
		"user_id": m.UserID,
		"amount":  amount,
	})
	r.logger.Info("membership renewed", "membership_id", m.ID, "amount", amount)
	return nil
}

func subscriptionIDFromInvoice(invoice stripe.Invoice) string {
	if invoice.Parent != nil &&
		invoice.Parent.SubscriptionDetails != nil &&
		invoice.Parent.SubscriptionDetails.Subscription != nil {
		return invoice.Parent.SubscriptionDetails.Subscription.ID
	}
	return ""
}

func (r *Reconciler) handleSubscriptionUpdated(event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("unmarshal subscription: %w", err)
	}

	m, err := r.memberships.GetByPaymentReference(sub.ID)
	if err != nil {
		return err
	}
	if m == nil {
		return nil
	}

	status := membershipStatusFor(sub.Status)
	if status != m.Status {
		if err := r.memberships.UpdateStatus(m.ID, status); err != nil {
			return err
		}
	}
	return r.memberships.SetAutoRenew(m.ID, !sub.CancelAtPeriodEnd)
}

func membershipStatusFor(status stripe.SubscriptionStatus) string {
	switch status {
	case stripe.SubscriptionStatusCanceled, stripe.SubscriptionStatusUnpaid:
		return model.MembershipCancelled
	case stripe.SubscriptionStatusPastDue:
		return model.MembershipPastDue
	}
	return model.MembershipActive
}

func (r *Reconciler) handleSubscriptionDeleted(event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("unmarshal subscription: %w", err)
	}

	m, err := r.memberships.GetByPaymentReference(sub.ID)
	if err != nil {
		return err
	}
	if m == nil {
		return nil
	}

	if err := r.memberships.UpdateStatus(m.ID, model.MembershipCancelled); err != nil {
		return err
	}
	if err := r.memberships.SetAutoRenew(m.ID, false); err != nil {
		return err
	}

	r.publish("membership_cancelled", map[string]any{"user_id": m.UserID})
	r.logger.Info("membership cancelled", "membership_id", m.ID)
	return nil
}

func (r *Reconciler) publish(kind string, data any) {
	if r.feed != nil {
		r.feed.Publish(kind, data)
	}
}
