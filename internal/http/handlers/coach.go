package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/coachflow/internal/coach"
	"github.com/wolfman30/coachflow/pkg/logging"
)

// CoachReader is the read side of the coaching service the dashboard screens use.
type CoachReader interface {
	ListClients(ctx context.Context) ([]coach.Client, error)
	ListWorkouts(ctx context.Context) ([]coach.Workout, error)
	TodaySchedule(ctx context.Context) ([]coach.Session, error)
	Stats(ctx context.Context) (*coach.Stats, error)
	Leads(ctx context.Context) ([]coach.Lead, error)
}

// CoachHandler serves the dashboard views the assistant's actions point at.
type CoachHandler struct {
	coach  CoachReader
	logger *logging.Logger
}

func NewCoachHandler(reader CoachReader, logger *logging.Logger) *CoachHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &CoachHandler{coach: reader, logger: logger}
}

func (h *CoachHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/clients", h.ListClients)
	r.Get("/workouts", h.ListWorkouts)
	r.Get("/schedule/today", h.TodaySchedule)
	r.Get("/stats", h.Stats)
	r.Get("/leads", h.Leads)
	return r
}

// ListClients handles GET /api/clients.
func (h *CoachHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.coach.ListClients(r.Context())
	if err != nil {
		h.fail(w, "list clients", err)
		return
	}
	if clients == nil {
		clients = []coach.Client{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"clients": clients})
}

// ListWorkouts handles GET /api/workouts.
func (h *CoachHandler) ListWorkouts(w http.ResponseWriter, r *http.Request) {
	workouts, err := h.coach.ListWorkouts(r.Context())
	if err != nil {
		h.fail(w, "list workouts", err)
		return
	}
	if workouts == nil {
		workouts = []coach.Workout{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"workouts": workouts})
}

// TodaySchedule handles GET /api/schedule/today.
func (h *CoachHandler) TodaySchedule(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.coach.TodaySchedule(r.Context())
	if err != nil {
		h.fail(w, "load today's schedule", err)
		return
	}
	if sessions == nil {
		sessions = []coach.Session{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

// Stats handles GET /api/stats.
func (h *CoachHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.coach.Stats(r.Context())
	if err != nil {
		h.fail(w, "load stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Leads handles GET /api/leads.
func (h *CoachHandler) Leads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.coach.Leads(r.Context())
	if err != nil {
		h.fail(w, "list leads", err)
		return
	}
	if leads == nil {
		leads = []coach.Lead{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"leads": leads})
}

func (h *CoachHandler) fail(w http.ResponseWriter, what string, err error) {
	h.logger.Error("failed to "+what, "error", err)
	jsonError(w, "failed to "+what, http.StatusInternalServerError)
}
