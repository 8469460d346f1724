package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/mcoot/liarsdice-go/internal/api/middleware"
	"github.com/mcoot/liarsdice-go/internal/notify"
)

// EventsHandler streams a player's notifications
type EventsHandler struct {
	hubs     *notify.HubManager
	upgrader *websocket.Upgrader
	logger   *slog.Logger
}

// NewEventsHandler creates a new events handler. With an empty
// allowedOrigin WebSocket upgrades must come from the same host.
func NewEventsHandler(hubs *notify.HubManager, allowedOrigin string, logger *slog.Logger) *EventsHandler {
	upgrader := &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if allowedOrigin == "*" {
		upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	} else if allowedOrigin != "" {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == allowedOrigin
		}
	}
	return &EventsHandler{hubs: hubs, upgrader: upgrader, logger: logger}
}

// Stream handles GET /api/v1/events (Server-Sent Events)
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	hub := h.hubs.GetOrCreateHub(player.ID)
	notify.ServeSSE(w, r, hub, player.ID)
}

// WebSocket handles GET /api/v1/events/ws
func (h *EventsHandler) WebSocket(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	hub := h.hubs.GetOrCreateHub(player.ID)
	if err := notify.ServeWebSocket(w, r, h.upgrader, hub, player.ID); err != nil {
		// Upgrade has already written the HTTP error
		h.logger.Warn("websocket upgrade failed",
			slog.String("player_id", string(player.ID)),
			slog.String("error", err.Error()),
		)
	}
}
