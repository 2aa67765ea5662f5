package handler

import (
	"io"
	"log/slog"
	"net/http"

	stripe "github.com/stripe/stripe-go/v82"

	"github.com/jlandron/GabiYogaWebsite-sub001/internal/payment"
)

const maxWebhookBytes = 65536

// eventProcessor applies a verified Stripe event; tests substitute a stub.
type eventProcessor interface {
	Process(event stripe.Event) error
}

// WebhookHandler receives Stripe webhooks, verifies their signature, and
// hands them to the reconciler.
type WebhookHandler struct {
	client     *payment.Client
	reconciler eventProcessor
	logger     *slog.Logger
}

func NewWebhookHandler(client *payment.Client, reconciler eventProcessor, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{client: client, reconciler: reconciler, logger: logger}
}

func (h *WebhookHandler) HandleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	if !h.client.Configured() {
		h.logger.Error("webhook received but stripe is not configured")
		writeError(w, http.StatusInternalServerError, "payments not configured")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body")
		return
	}

	event, err := h.client.ConstructWebhookEvent(body, r.Header.Get("Stripe-Signature"))
	if err != nil {
		h.logger.Warn("webhook signature verification failed", "error", err)
		writeError(w, http.StatusBadRequest, "invalid signature")
		return
	}

	if err := h.reconciler.Process(event); err != nil {
		// The event stays unmarked in the processed table, so a provider
		// redelivery retries the handler. The response is still 200: the
		// signature verified, and a non-2xx would only change the provider's
		// retry cadence, not our recovery path.
		h.logger.Error("event processing failed", "event_id", event.ID, "type", event.Type, "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
