package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/coachflow/internal/assistant"
	"github.com/wolfman30/coachflow/pkg/logging"
)

// Conversations is the session registry behind the assistant endpoints.
type Conversations interface {
	Create(ctx context.Context) (*assistant.Session, error)
	Get(ctx context.Context, id string) (*assistant.Session, error)
	Send(ctx context.Context, id, text string) (assistant.Message, error)
	Reset(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// ReplyMirror receives replies produced over HTTP so an open chat socket can show them too.
type ReplyMirror interface {
	SendToSession(sessionID string, msg assistant.Message)
}

// AssistantHandler exposes the conversational assistant over JSON.
type AssistantHandler struct {
	conversations Conversations
	mirror        ReplyMirror
	logger        *logging.Logger
}

func NewAssistantHandler(conversations Conversations, mirror ReplyMirror, logger *logging.Logger) *AssistantHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AssistantHandler{conversations: conversations, mirror: mirror, logger: logger}
}

// SessionResponse is the public view of a conversation.
type SessionResponse struct {
	ID         string              `json:"id"`
	Transcript []assistant.Message `json:"transcript"`
	ActiveFlow string              `json:"active_flow,omitempty"`
}

func sessionResponse(sess *assistant.Session) SessionResponse {
	resp := SessionResponse{ID: sess.ID, Transcript: sess.Transcript}
	if resp.Transcript == nil {
		resp.Transcript = []assistant.Message{}
	}
	if sess.Flow != nil {
		resp.ActiveFlow = string(sess.Flow.Kind())
	}
	return resp
}

// CreateSession starts a conversation.
// POST /assistant/sessions
func (h *AssistantHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.conversations.Create(r.Context())
	if err != nil {
		h.logger.Error("failed to create assistant session", "error", err)
		jsonError(w, "failed to create session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse(sess))
}

// GetSession returns the transcript.
// GET /assistant/sessions/{sessionID}
func (h *AssistantHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	sess, err := h.conversations.Get(r.Context(), id)
	if err != nil {
		h.sessionError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(sess))
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

// SendMessage runs one turn. The reply carries text, actions and the failure flag.
// POST /assistant/sessions/{sessionID}/messages
func (h *AssistantHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return
	}

	reply, err := h.conversations.Send(r.Context(), id, req.Text)
	if err != nil && reply.Text == "" {
		h.sessionError(w, id, err)
		return
	}
	if h.mirror != nil {
		h.mirror.SendToSession(id, reply)
	}
	writeJSON(w, http.StatusOK, reply)
}

// ResetSession clears transcript, active flow and memory.
// POST /assistant/sessions/{sessionID}/reset
func (h *AssistantHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := h.conversations.Reset(r.Context(), id); err != nil {
		h.sessionError(w, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteSession ends the conversation.
// DELETE /assistant/sessions/{sessionID}
func (h *AssistantHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := h.conversations.Delete(r.Context(), id); err != nil {
		h.sessionError(w, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AssistantHandler) sessionError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, assistant.ErrSessionNotFound) {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	h.logger.Error("assistant session request failed", "session_id", id, "error", err)
	jsonError(w, "internal error", http.StatusInternalServerError)
}
