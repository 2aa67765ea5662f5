package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jlandron/GabiYogaWebsite-sub001/internal/auth"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/model"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/payment"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/store"
)

// newReference mints a short booking reference like "WS-1A2B3C4D".
func newReference(prefix string) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return prefix + "-" + id[:8]
}

type BookingHandler struct {
	workshops *store.WorkshopStore
	retreats  *store.RetreatStore
	sessions  *store.PrivateSessionStore
	stripe    *payment.Client
	logger    *slog.Logger
}

func NewBookingHandler(
	workshops *store.WorkshopStore,
	retreats *store.RetreatStore,
	sessions *store.PrivateSessionStore,
	stripe *payment.Client,
	logger *slog.Logger,
) *BookingHandler {
	return &BookingHandler{
		workshops: workshops,
		retreats:  retreats,
		sessions:  sessions,
		stripe:    stripe,
		logger:    logger,
	}
}

func (h *BookingHandler) ListWorkshops(w http.ResponseWriter, r *http.Request) {
	workshops, err := h.workshops.ListUpcoming()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list workshops")
		return
	}
	if workshops == nil {
		workshops = []model.Workshop{}
	}
	writeJSON(w, http.StatusOK, workshops)
}

// RegisterWorkshop creates a Pending registration and returns a Stripe
// checkout URL. The registration flips to Paid when the webhook lands.
func (h *BookingHandler) RegisterWorkshop(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	workshop, err := h.workshops.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get workshop")
		return
	}
	if workshop == nil {
		writeError(w, http.StatusNotFound, "workshop not found")
		return
	}

	count, err := h.workshops.CountRegistrations(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check capacity")
		return
	}
	if count >= int64(workshop.Capacity) {
		writeError(w, http.StatusConflict, "workshop is full")
		return
	}

	userID := auth.UserID(r.Context())
	reg, err := h.workshops.Register(id, userID, newReference("WS"))
	if err != nil {
		h.logger.Error("register failed", "workshop_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	checkoutURL, err := h.stripe.CreateBookingCheckout(
		userID, model.PaymentTypeWorkshop, reg.ID, workshop.Title, int64(workshop.Price*100))
	if err != nil {
		h.logger.Error("checkout failed", "registration_id", reg.ID, "error", err)
		writeError(w, http.StatusBadGateway, "could not start checkout")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"registration": reg,
		"checkoutUrl":  checkoutURL,
	})
}

func (h *BookingHandler) ListRetreats(w http.ResponseWriter, r *http.Request) {
	retreats, err := h.retreats.ListUpcoming()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list retreats")
		return
	}
	if retreats == nil {
		retreats = []model.Retreat{}
	}
	writeJSON(w, http.StatusOK, retreats)
}

func (h *BookingHandler) BookRetreat(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	retreat, err := h.retreats.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get retreat")
		return
	}
	if retreat == nil {
		writeError(w, http.StatusNotFound, "retreat not found")
		return
	}

	userID := auth.UserID(r.Context())
	booking, err := h.retreats.Book(id, userID, newReference("RT"))
	if err != nil {
		h.logger.Error("book retreat failed", "retreat_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to book")
		return
	}

	checkoutURL, err := h.stripe.CreateBookingCheckout(
		userID, model.PaymentTypeRetreat, booking.ID, retreat.Title, int64(retreat.Price*100))
	if err != nil {
		h.logger.Error("checkout failed", "booking_id", booking.ID, "error", err)
		writeError(w, http.StatusBadGateway, "could not start checkout")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"booking":     booking,
		"checkoutUrl": checkoutURL,
	})
}

type sessionRequest struct {
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Focus           string    `json:"focus"`
	PriceCents      int64     `json:"price_cents"`
}

func (h *BookingHandler) BookPrivateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.ScheduledAt.Before(time.Now()) {
		writeError(w, http.StatusBadRequest, "scheduled_at must be in the future")
		return
	}
	if req.DurationMinutes <= 0 {
		req.DurationMinutes = 60
	}

	userID := auth.UserID(r.Context())
	session, err := h.sessions.Create(userID, req.ScheduledAt, req.DurationMinutes, req.Focus, newReference("PS"))
	if err != nil {
		h.logger.Error("book session failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to book")
		return
	}

	checkoutURL, err := h.stripe.CreateBookingCheckout(
		userID, model.PaymentTypePrivateSession, session.ID, "Private session", req.PriceCents)
	if err != nil {
		h.logger.Error("checkout failed", "session_id", session.ID, "error", err)
		writeError(w, http.StatusBadGateway, "could not start checkout")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"session":     session,
		"checkoutUrl": checkoutURL,
	})
}

func (h *BookingHandler) ListMySessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessions.ListByUser(auth.UserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	if sessions == nil {
		sessions = []model.PrivateSession{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

type workshopRequest struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	StartsAt        time.Time `json:"starts_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Price           float64   `json:"price"`
	Capacity        int       `json:"capacity"`
}

func (h *BookingHandler) CreateWorkshop(w http.ResponseWriter, r *http.Request) {
	var req workshopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Capacity <= 0 {
		req.Capacity = 20
	}
	if req.DurationMinutes <= 0 {
		req.DurationMinutes = 120
	}

	workshop, err := h.workshops.Create(req.Title, req.Description, req.StartsAt, req.DurationMinutes, req.Price, req.Capacity)
	if err != nil {
		h.logger.Error("create workshop failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create workshop")
		return
	}
	writeJSON(w, http.StatusCreated, workshop)
}

type retreatRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Price       float64   `json:"price"`
	Capacity    int       `json:"capacity"`
}

func (h *BookingHandler) CreateRetreat(w http.ResponseWriter, r *http.Request) {
	var req retreatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.EndDate.Before(req.StartDate) {
		writeError(w, http.StatusBadRequest, "end_date before start_date")
		return
	}
	if req.Capacity <= 0 {
		req.Capacity = 12
	}

	retreat, err := h.retreats.Create(req.Title, req.Description, req.Location, req.StartDate, req.EndDate, req.Price, req.Capacity)
	if err != nil {
		h.logger.Error("create retreat failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create retreat")
		return
	}
	writeJSON(w, http.StatusCreated, retreat)
}
