package ws

import (
	"encoding/json"

	"github.com/jmhart/chatroom-go/internal/model"
)

// Client -> server events
const (
	EventHandshake = "handshake"
	EventMessage   = "message"
)

// Server -> client events
const (
	EventHandshakeAck   = "handshake-ack"
	EventMessageCreated = "message-created"
	EventMessageUpdated = "message-updated"
	EventMessageDeleted = "message-deleted"
	EventError          = "error"
)

// Envelope is the tagged wire format for every event in both directions.
// Payloads are validated against the schema for their event name before any
// business logic runs; unknown event names are rejected.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// HandshakePayload binds a connection to the identity the token encodes
type HandshakePayload struct {
	Token string `json:"token"`
}

// MessagePayload creates a message on the push path
type MessagePayload struct {
	Content string `json:"content"`
}

// HandshakeAckPayload acknowledges a successful handshake
type HandshakeAckPayload struct {
	Identity model.Identity `json:"identity"`
}

// MessageDeletedPayload announces a deleted message by ID
type MessageDeletedPayload struct {
	ID model.MessageID `json:"id"`
}

// ErrorPayload carries an error notification to a single connection
type ErrorPayload struct {
	Message string `json:"message"`
}

// encodeEvent marshals an event envelope for the wire
func encodeEvent(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}
