package ws

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/jmhart/chatroom-go/internal/services/chat"
	"github.com/jmhart/chatroom-go/internal/services/token"
)

// Handler upgrades HTTP requests to push connections. The upgrade itself is
// unauthenticated; identity arrives afterwards via the handshake event.
type Handler struct {
	registry *Registry
	tokens   *token.Codec
	chat     *chat.Service
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a new websocket upgrade handler
func NewHandler(registry *Registry, tokens *token.Codec, chatService *chat.Service, logger *slog.Logger) *Handler {
	return &Handler{
		registry: registry,
		tokens:   tokens,
		chat:     chatService,
		logger:   logger.With(slog.String("component", "ws")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// ServeHTTP upgrades the connection and starts its pumps
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := newClient(conn, h.registry, h.tokens, h.chat, h.logger)

	go client.writePump()
	// The connection outlives the upgrade request, so events run against a
	// background context rather than the request's.
	go client.readPump(context.Background())
}
