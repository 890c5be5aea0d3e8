package webchat

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/wolfman30/coachflow/internal/assistant"
	"github.com/wolfman30/coachflow/pkg/logging"
)

// Conversations runs assistant turns for a session id.
type Conversations interface {
	Open(ctx context.Context, id string) (*assistant.Session, error)
	Send(ctx context.Context, id, text string) (assistant.Message, error)
	Reset(ctx context.Context, id string) error
}

// Handler serves the live assistant chat over a WebSocket.
type Handler struct {
	conversations Conversations
	logger        *logging.Logger

	mu       sync.RWMutex
	sessions map[string]*wsConn // sessionID -> active connection
}

type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) send(msg OutboundMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return websocket.JSON.Send(c.conn, msg)
}

// InboundMessage is what the dashboard sends.
type InboundMessage struct {
	Type string `json:"type"` // "message", "reset", "ping"
	Text string `json:"text"`
}

// OutboundMessage is what we send to the dashboard.
type OutboundMessage struct {
	Type      string             `json:"type"` // "session", "history", "typing", "message", "reset", "pong", "error"
	Text      string             `json:"text,omitempty"`
	Role      string             `json:"role,omitempty"`
	SessionID string             `json:"session_id,omitempty"`
	Timestamp string             `json:"timestamp,omitempty"`
	Actions   []assistant.Action `json:"actions,omitempty"`
	Failed    bool               `json:"failed,omitempty"`
	Messages  []HistoryMessage   `json:"messages,omitempty"`
}

// HistoryMessage is a simplified message for history frames.
type HistoryMessage struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// NewHandler creates a web chat handler.
func NewHandler(conversations Conversations, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		conversations: conversations,
		logger:        logger,
		sessions:      make(map[string]*wsConn),
	}
}

// generateSessionID creates a random session identifier.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return hex.EncodeToString(b)
}

// HandleWebSocket upgrades to WebSocket and handles real-time messaging.
// GET /assistant/ws?session=<id>
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	ctx := r.Context()
	sessionID := strings.TrimSpace(r.URL.Query().Get("session"))
	if sessionID == "" {
		sessionID = generateSessionID()
	}

	wsc := &wsConn{conn: conn}
	sess, err := h.conversations.Open(ctx, sessionID)
	if err != nil {
		h.logger.Error("webchat: failed to open session", "session_id", sessionID, "error", err)
		_ = wsc.send(OutboundMessage{Type: "error", Text: "could not open the conversation"})
		return
	}

	_ = wsc.send(OutboundMessage{Type: "session", SessionID: sessionID})
	if len(sess.Transcript) > 0 {
		_ = wsc.send(OutboundMessage{Type: "history", Messages: history(sess.Transcript)})
	}

	h.mu.Lock()
	h.sessions[sessionID] = wsc
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		if h.sessions[sessionID] == wsc {
			delete(h.sessions, sessionID)
		}
		h.mu.Unlock()
	}()

	h.logger.Info("webchat: connection opened", "session_id", sessionID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: connection closed", "session_id", sessionID, "error", err)
			return
		}

		switch msg.Type {
		case "ping":
			_ = wsc.send(OutboundMessage{Type: "pong"})
		case "reset":
			if err := h.conversations.Reset(ctx, sessionID); err != nil {
				h.logger.Error("webchat: reset failed", "session_id", sessionID, "error", err)
				_ = wsc.send(OutboundMessage{Type: "error", Text: "Sorry, I couldn't reset the conversation."})
				continue
			}
			_ = wsc.send(OutboundMessage{Type: "reset", SessionID: sessionID})
		case "message":
			if strings.TrimSpace(msg.Text) == "" {
				continue
			}
			h.processMessage(ctx, wsc, sessionID, msg.Text)
		}
	}
}

func (h *Handler) processMessage(ctx context.Context, wsc *wsConn, sessionID, text string) {
	_ = wsc.send(OutboundMessage{Type: "typing"})

	reply, err := h.conversations.Send(ctx, sessionID, text)
	if err != nil && reply.Text == "" {
		h.logger.Error("webchat: turn failed", "session_id", sessionID, "error", err)
		_ = wsc.send(OutboundMessage{Type: "error", Text: "Sorry, something went wrong. Please try again."})
		return
	}
	_ = wsc.send(outbound(reply))
}

// SendToSession pushes a message to the session's open socket, if any.
func (h *Handler) SendToSession(sessionID string, msg assistant.Message) {
	h.mu.RLock()
	wsc, ok := h.sessions[sessionID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	_ = wsc.send(outbound(msg))
}

func outbound(m assistant.Message) OutboundMessage {
	return OutboundMessage{
		Type:      "message",
		Role:      string(m.Role),
		Text:      m.Text,
		Actions:   m.Actions,
		Failed:    m.Failed,
		Timestamp: m.At.UTC().Format(time.RFC3339),
	}
}

func history(transcript []assistant.Message) []HistoryMessage {
	out := make([]HistoryMessage, 0, len(transcript))
	for _, m := range transcript {
		out = append(out, HistoryMessage{
			Role:      string(m.Role),
			Text:      m.Text,
			Timestamp: m.At.UTC().Format(time.RFC3339),
		})
	}
	return out
}
