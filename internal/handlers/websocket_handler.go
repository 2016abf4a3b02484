package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"

	"slidecast/internal/logger"
	"slidecast/internal/services"
)

// WebSocketHandler upgrades event-stream connections
type WebSocketHandler struct {
	service  *services.WebSocketService
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(service *services.WebSocketService) *WebSocketHandler {
	return &WebSocketHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Remotes are native apps on the LAN and send no meaningful Origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleWebSocket streams events to the client
// GET /ws
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.service.ServeClient(conn)
}
