package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jlandron/GabiYogaWebsite-sub001/internal/auth"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/model"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/payment"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/store"
)

type MembershipHandler struct {
	memberships *store.MembershipStore
	payments    *store.PaymentStore
	stripe      *payment.Client
	logger      *slog.Logger
}

func NewMembershipHandler(memberships *store.MembershipStore, payments *store.PaymentStore, stripe *payment.Client, logger *slog.Logger) *MembershipHandler {
	return &MembershipHandler{memberships: memberships, payments: payments, stripe: stripe, logger: logger}
}

type subscribeRequest struct {
	Interval string `json:"interval"`
}

// Subscribe starts a Stripe subscription checkout. The membership row is
// created by the webhook once checkout completes.
func (h *MembershipHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Interval != model.IntervalMonth && req.Interval != model.IntervalYear {
		writeError(w, http.StatusBadRequest, "interval must be month or year")
		return
	}

	userID := auth.UserID(r.Context())
	existing, err := h.memberships.GetActiveByUserID(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check membership")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "membership already active")
		return
	}

	checkoutURL, err := h.stripe.CreateMembershipCheckout(userID, req.Interval)
	if err != nil {
		h.logger.Error("membership checkout failed", "user_id", userID, "error", err)
		writeError(w, http.StatusBadGateway, "could not start checkout")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"checkoutUrl": checkoutURL})
}

func (h *MembershipHandler) MyMembership(w http.ResponseWriter, r *http.Request) {
	m, err := h.memberships.GetActiveByUserID(auth.UserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get membership")
		return
	}
	if m == nil {
		writeError(w, http.StatusNotFound, "no active membership")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *MembershipHandler) MyPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.payments.ListByUser(auth.UserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list payments")
		return
	}
	if payments == nil {
		payments = []model.Payment{}
	}
	writeJSON(w, http.StatusOK, payments)
}
