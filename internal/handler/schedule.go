package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jlandron/GabiYogaWebsite-sub001/internal/model"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/schedule"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/store"
)

type ScheduleHandler struct {
	classes *store.ClassStore
	logger  *slog.Logger
}

func NewScheduleHandler(classes *store.ClassStore, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{classes: classes, logger: logger}
}

func (h *ScheduleHandler) ListClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := h.classes.ListActive()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list classes")
		return
	}
	if classes == nil {
		classes = []model.Class{}
	}
	writeJSON(w, http.StatusOK, classes)
}

// Occurrences expands the weekly timetable over ?from=YYYY-MM-DD&to=... ,
// defaulting to the next two weeks.
func (h *ScheduleHandler) Occurrences(w http.ResponseWriter, r *http.Request) {
	from := time.Now().UTC()
	to := from.AddDate(0, 0, 13)

	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from date")
			return
		}
		from = t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to date")
			return
		}
		to = t
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "to before from")
		return
	}

	classes, err := h.classes.ListActive()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list classes")
		return
	}

	occ := schedule.Expand(classes, from, to)
	if occ == nil {
		occ = []model.ClassOccurrence{}
	}
	writeJSON(w, http.StatusOK, occ)
}

type classRequest struct {
	Title           string `json:"title"`
	Instructor      string `json:"instructor"`
	Level           string `json:"level"`
	Weekday         int    `json:"weekday"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

func (h *ScheduleHandler) CreateClass(w http.ResponseWriter, r *http.Request) {
	var req classRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Weekday < 0 || req.Weekday > 6 {
		writeError(w, http.StatusBadRequest, "weekday must be 0-6")
		return
	}
	if req.DurationMinutes <= 0 {
		req.DurationMinutes = 60
	}
	if req.Level == "" {
		req.Level = "all"
	}

	c, err := h.classes.Create(req.Title, req.Instructor, req.Level, req.Weekday, req.StartTime, req.DurationMinutes)
	if err != nil {
		h.logger.Error("create class failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create class")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *ScheduleHandler) DeleteClass(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.classes.Delete(id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete class")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
