package ws

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/jmhart/chatroom-go/internal/model"
)

// Errors
var (
	ErrSessionNotFound = errors.New("no session for connection")
	ErrAlreadyBound    = errors.New("connection is already bound to an identity")
	ErrSessionClosed   = errors.New("session is closed")
)

// sender is the write side of a connection the registry fans out to
type sender interface {
	// trySend queues data without blocking; it reports false if the
	// connection's buffer is full and the notification was dropped
	trySend(data []byte) bool
}

// Registry tracks every live push connection's session and room membership.
// A session with no bound identity never appears in any room; binding
// happens at most once per connection and joining the room is part of the
// same transition.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	conns    map[string]sender
	rooms    map[string]map[string]struct{}

	logger *slog.Logger
}

// NewRegistry creates a new connection Registry
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		conns:    make(map[string]sender),
		rooms:    make(map[string]map[string]struct{}),
		logger:   logger.With(slog.String("component", "ws")),
	}
}

// Open registers a new connection in the Unbound state and returns its
// session ID
func (r *Registry) Open(conn sender) string {
	id := newSessionID()

	r.mu.Lock()
	r.sessions[id] = &Session{ID: id, State: StateUnbound}
	r.conns[id] = conn
	total := len(r.sessions)
	r.mu.Unlock()

	r.logger.Info("connection opened",
		slog.String("conn_id", id),
		slog.Int("total_connections", total))
	return id
}

// Bind attaches an identity to an unbound session and joins it to the given
// room. The binding is permanent for the connection's lifetime; a second
// bind is rejected with ErrAlreadyBound.
func (r *Registry) Bind(connID string, identity model.Identity, room string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[connID]
	if !ok {
		return ErrSessionNotFound
	}

	switch session.State {
	case StateBound:
		return ErrAlreadyBound
	case StateClosed:
		return ErrSessionClosed
	}

	session.State = StateBound
	session.Identity = identity
	session.Room = room

	members, ok := r.rooms[room]
	if !ok {
		members = make(map[string]struct{})
		r.rooms[room] = members
	}
	members[connID] = struct{}{}

	r.logger.Info("connection bound",
		slog.String("conn_id", connID),
		slog.Int64("user_id", int64(identity.ID)),
		slog.String("room", room),
		slog.Int("room_size", len(members)))
	return nil
}

// Identity returns the bound identity for a connection. The second return
// is false while the session is unbound, closed, or unknown.
func (r *Registry) Identity(connID string) (model.Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[connID]
	if !ok || session.State != StateBound {
		return model.Identity{}, false
	}
	return session.Identity, true
}

// State returns the lifecycle state of a connection's session
func (r *Registry) State(connID string) (SessionState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[connID]
	if !ok {
		return StateClosed, false
	}
	return session.State, true
}

// Close removes a connection from all room memberships and forgets its
// session. Disconnect is the only teardown path for a connection.
func (r *Registry) Close(connID string) {
	r.mu.Lock()
	session, ok := r.sessions[connID]
	if !ok {
		r.mu.Unlock()
		return
	}

	if session.Room != "" {
		if members, ok := r.rooms[session.Room]; ok {
			delete(members, connID)
			if len(members) == 0 {
				delete(r.rooms, session.Room)
			}
		}
	}

	session.State = StateClosed
	delete(r.sessions, connID)
	delete(r.conns, connID)
	total := len(r.sessions)
	r.mu.Unlock()

	r.logger.Info("connection closed",
		slog.String("conn_id", connID),
		slog.Int("total_connections", total))
}

// Broadcast fans data out to every member of a room. Delivery is
// fire-and-forget: members with a full send buffer miss the notification
// and are expected to reconcile with a history fetch.
func (r *Registry) Broadcast(room string, data []byte) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.rooms[room]
	if !ok {
		return
	}

	dropped := 0
	for connID := range members {
		conn, ok := r.conns[connID]
		if !ok {
			continue
		}
		if !conn.trySend(data) {
			dropped++
		}
	}

	if dropped > 0 {
		r.logger.Warn("broadcast partial delivery",
			slog.String("room", room),
			slog.Int("members", len(members)),
			slog.Int("dropped", dropped))
	}
}

// RoomSize returns the number of bound connections in a room
func (r *Registry) RoomSize(room string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[room])
}
