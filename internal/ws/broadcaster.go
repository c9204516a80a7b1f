package ws

import (
	"log/slog"

	"github.com/jmhart/chatroom-go/internal/model"
	"github.com/jmhart/chatroom-go/internal/services/chat"
)

// Broadcaster translates persisted mutations into wire events fanned out to
// room members. It implements the chat coordinator's Notifier.
type Broadcaster struct {
	registry *Registry
	logger   *slog.Logger
}

// Ensure Broadcaster implements the Notifier interface
var _ chat.Notifier = (*Broadcaster)(nil)

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(registry *Registry, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		registry: registry,
		logger:   logger.With(slog.String("component", "ws-broadcaster")),
	}
}

// MessageCreated broadcasts a newly persisted message, ID included
func (b *Broadcaster) MessageCreated(room string, msg *model.Message) {
	b.broadcast(room, EventMessageCreated, msg)
}

// MessageUpdated broadcasts the full updated message
func (b *Broadcaster) MessageUpdated(room string, msg *model.Message) {
	b.broadcast(room, EventMessageUpdated, msg)
}

// MessageDeleted broadcasts a deletion by ID
func (b *Broadcaster) MessageDeleted(room string, id model.MessageID) {
	b.broadcast(room, EventMessageDeleted, MessageDeletedPayload{ID: id})
}

func (b *Broadcaster) broadcast(room, event string, payload any) {
	data, err := encodeEvent(event, payload)
	if err != nil {
		b.logger.Error("failed to encode event",
			slog.String("event", event),
			slog.Any("error", err))
		return
	}
	b.registry.Broadcast(room, data)
}
