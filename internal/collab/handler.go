package collab

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"github.com/artdeck/artdeck-go/internal/auth"
	"github.com/artdeck/artdeck-go/internal/store"
)

// Handler serves the relay's WebSocket endpoint and the room history API.
type Handler struct {
	hub            *Hub
	verifier       auth.Verifier
	events         store.EventLog
	originPatterns []string
	authTimeout    time.Duration
	historyLimit   int
}

type HandlerConfig struct {
	OriginPatterns []string
	AuthTimeout    time.Duration
	HistoryLimit   int
}

func NewHandler(hub *Hub, verifier auth.Verifier, events store.EventLog, cfg HandlerConfig) *Handler {
	if cfg.AuthTimeout <= 0 {
		cfg.AuthTimeout = 5 * time.Second
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 100
	}
	return &Handler{
		hub:            hub,
		verifier:       verifier,
		events:         events,
		originPatterns: cfg.OriginPatterns,
		authTimeout:    cfg.AuthTimeout,
		historyLimit:   cfg.HistoryLimit,
	}
}

// ServeWS authenticates the token query parameter and runs the connection.
// A rejected token still completes the upgrade and is then closed at once
// with no payload, so browser clients observe a close rather than an HTTP
// error.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	authCtx, cancel := context.WithTimeout(r.Context(), h.authTimeout)
	userID, authErr := h.verifier.Verify(authCtx, auth.TokenFromRequest(r))
	cancel()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	if authErr != nil {
		slog.Warn("rejecting connection", "remote", r.RemoteAddr, "error", authErr)
		conn.Close(websocket.StatusPolicyViolation, "")
		return
	}

	client := NewClient(h.hub, conn, userID)
	if !h.hub.Register(client) {
		conn.Close(websocket.StatusGoingAway, "")
		return
	}

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

type historyResponse struct {
	Messages []store.Entry `json:"messages"`
}

// History returns a room's most recent log entries, newest first. It expects
// auth.Middleware in front of it.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	roomID, err := strconv.ParseInt(mux.Vars(r)["roomId"], 10, 64)
	if err != nil || roomID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid room id"})
		return
	}

	limit := h.historyLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = min(n, h.historyLimit)
	}

	entries, err := h.events.ListRecent(r.Context(), roomID, limit)
	if err != nil {
		slog.Error("listing room history", "room", roomID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if entries == nil {
		entries = []store.Entry{}
	}

	writeJSON(w, http.StatusOK, historyResponse{Messages: entries})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
