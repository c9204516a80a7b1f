package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jmhart/chatroom-go/internal/model"
	"github.com/jmhart/chatroom-go/internal/services/chat"
	"github.com/jmhart/chatroom-go/internal/services/token"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period; must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size in bytes
	maxMessageSize = 4096

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client owns one websocket connection: its read/write pumps and event
// dispatch. Session state lives in the Registry, not here; every event
// looks the session up by connection ID.
type Client struct {
	connID   string
	conn     *websocket.Conn
	registry *Registry
	tokens   *token.Codec
	chat     *chat.Service
	logger   *slog.Logger

	send chan []byte
}

// newClient creates a Client for an upgraded connection
func newClient(conn *websocket.Conn, registry *Registry, tokens *token.Codec, chatService *chat.Service, logger *slog.Logger) *Client {
	c := &Client{
		conn:     conn,
		registry: registry,
		tokens:   tokens,
		chat:     chatService,
		send:     make(chan []byte, sendBufferSize),
	}
	c.connID = registry.Open(c)
	c.logger = logger.With(slog.String("conn_id", c.connID))
	return c
}

// trySend queues data for the write pump without blocking
func (c *Client) trySend(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// sendEvent queues an event for this connection only
func (c *Client) sendEvent(event string, payload any) {
	data, err := encodeEvent(event, payload)
	if err != nil {
		c.logger.Error("failed to encode event",
			slog.String("event", event),
			slog.Any("error", err))
		return
	}
	if !c.trySend(data) {
		c.logger.Warn("event dropped - send buffer full", slog.String("event", event))
	}
}

// sendError notifies this connection of a failure. Errors never close the
// connection; only a transport-level disconnect does.
func (c *Client) sendError(message string) {
	c.sendEvent(EventError, ErrorPayload{Message: message})
}

// readPump reads events off the connection and dispatches them until the
// peer disconnects
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.registry.Close(c.connID)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				c.logger.Warn("unexpected close", slog.Any("error", err))
			}
			return
		}

		c.dispatch(ctx, raw)
	}
}

// writePump forwards queued events to the connection and keeps it alive
// with pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// dispatch validates an inbound envelope and routes it by event name
func (c *Client) dispatch(ctx context.Context, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.sendError("malformed event")
		return
	}

	switch env.Event {
	case EventHandshake:
		c.handleHandshake(env.Data)
	case EventMessage:
		c.handleMessage(ctx, env.Data)
	default:
		c.sendError("unknown event")
	}
}

// handleHandshake binds the connection to the identity the token encodes
// and joins the main room. On failure the connection stays unbound and may
// retry. A handshake on an already-bound connection is rejected; rebinding
// is never allowed.
func (c *Client) handleHandshake(data []byte) {
	var payload HandshakePayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.Token == "" {
		c.sendError("malformed handshake")
		return
	}

	if state, ok := c.registry.State(c.connID); ok && state == StateBound {
		c.sendError("already authenticated")
		return
	}

	identity, err := c.tokens.Verify(payload.Token)
	if err != nil {
		c.logger.Info("handshake rejected", slog.Any("error", err))
		c.sendError("unauthorized")
		return
	}

	if err := c.registry.Bind(c.connID, identity, chat.MainRoom); err != nil {
		if errors.Is(err, ErrAlreadyBound) {
			c.sendError("already authenticated")
		} else {
			c.sendError("unauthorized")
		}
		return
	}

	c.sendEvent(EventHandshakeAck, HandshakeAckPayload{Identity: identity})
}

// handleMessage runs the create-path mutation for a bound connection
func (c *Client) handleMessage(ctx context.Context, data []byte) {
	identity, bound := c.registry.Identity(c.connID)
	if !bound {
		c.sendError("not authenticated")
		return
	}

	var payload MessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		c.sendError("malformed message")
		return
	}

	if _, err := c.chat.Create(ctx, identity, payload.Content); err != nil {
		if errors.Is(err, model.ErrEmptyContent) {
			c.sendError("content required")
		} else {
			c.logger.Error("failed to create message", slog.Any("error", err))
			c.sendError("internal error")
		}
	}
}
