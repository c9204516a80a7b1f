package ws

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/jmhart/chatroom-go/internal/model"
)

// SessionState is the lifecycle state of a push connection
type SessionState int

const (
	// StateUnbound is the initial state on connection open; no identity is
	// attached and the session belongs to no room
	StateUnbound SessionState = iota
	// StateBound means a handshake has attached an identity; the binding
	// holds for the rest of the connection's lifetime
	StateBound
	// StateClosed is terminal; no further events are processed
	StateClosed
)

// String returns the state name for logging
func (s SessionState) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StateBound:
		return "bound"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Session is the explicit per-connection record held by the Registry and
// looked up on every event. Identity is set at most once, by the handshake.
type Session struct {
	ID       string
	State    SessionState
	Identity model.Identity
	Room     string
}

// newSessionID generates a random connection ID
func newSessionID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return "conn_" + base64.RawURLEncoding.EncodeToString(b)
}
