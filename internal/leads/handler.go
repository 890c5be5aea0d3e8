package leads

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/coachflow/internal/coach"
	"github.com/wolfman30/coachflow/pkg/logging"
)

// ClientCreator turns a converted lead into a coached client.
type ClientCreator interface {
	CreateClient(ctx context.Context, req coach.NewClient) (*coach.Client, error)
}

// Handler handles HTTP requests for leads
type Handler struct {
	repo    Repository
	clients ClientCreator
	logger  *logging.Logger
}

// NewHandler creates a new leads handler
func NewHandler(repo Repository, clients ClientCreator, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:    repo,
		clients: clients,
		logger:  logger,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// SubmitInterest handles POST /leads/interest from the coach's public page.
func (h *Handler) SubmitInterest(w http.ResponseWriter, r *http.Request) {
	var req CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lead, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		if isValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to create lead", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save your request")
		return
	}

	h.logger.Info("lead created", "lead_id", lead.ID, "lead_type", lead.Type)
	writeJSON(w, http.StatusCreated, map[string]any{"lead": lead})
}

// ListLeadsResponse is the response for listing leads
type ListLeadsResponse struct {
	Leads  []*Lead `json:"leads"`
	Count  int     `json:"count"`
	Offset int     `json:"offset"`
	Limit  int     `json:"limit"`
}

// ListLeads handles GET /leads?status=&limit=&offset=
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Limit:  50,
		Offset: 0,
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 100 {
			filter.Limit = limit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}
	if status := Status(r.URL.Query().Get("status")); status != "" {
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, ErrInvalidStatus.Error())
			return
		}
		filter.Status = status
	}

	leads, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list leads")
		return
	}

	writeJSON(w, http.StatusOK, ListLeadsResponse{
		Leads:  leads,
		Count:  len(leads),
		Offset: filter.Offset,
		Limit:  filter.Limit,
	})
}

// UpdateLead handles PATCH /leads/{leadID}.
func (h *Handler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "leadID")
	var req UpdateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lead, err := h.repo.Update(r.Context(), id, &req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"lead": lead})
	case errors.Is(err, ErrLeadNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case isValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("failed to update lead", "lead_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update lead")
	}
}

// ConvertLead handles POST /leads/{leadID}/convert: the lead becomes a client.
func (h *Handler) ConvertLead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "leadID")

	lead, err := h.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrLeadNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("failed to load lead", "lead_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to convert lead")
		return
	}
	if lead.Status == StatusConverted {
		writeError(w, http.StatusConflict, ErrAlreadyConverted.Error())
		return
	}

	req := coach.NewClient{Name: lead.Name, Phone: lead.Phone}
	if lead.Email != "" {
		email := lead.Email
		req.Email = &email
	}
	client, err := h.clients.CreateClient(ctx, req)
	if err != nil {
		if errors.Is(err, coach.ErrMissingPhone) || errors.Is(err, coach.ErrInvalidName) {
			writeError(w, http.StatusBadRequest, "cannot convert lead: "+err.Error())
			return
		}
		h.logger.Error("failed to create client from lead", "lead_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to convert lead")
		return
	}

	status := StatusConverted
	lead, err = h.repo.Update(ctx, id, &UpdateLeadRequest{Status: &status, ClientID: &client.ID})
	if err != nil {
		// The client exists; report success but keep the inconsistency visible in logs.
		h.logger.Error("client created but lead not marked converted", "lead_id", id, "client_id", client.ID, "error", err)
	}

	h.logger.Info("lead converted", "lead_id", id, "client_id", client.ID)
	writeJSON(w, http.StatusOK, map[string]any{"client": client, "lead": lead})
}

func isValidation(err error) bool {
	return errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrMissingContact) ||
		errors.Is(err, ErrInvalidType) ||
		errors.Is(err, ErrInvalidStatus)
}
