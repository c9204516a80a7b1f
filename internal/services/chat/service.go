package chat

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jmhart/chatroom-go/internal/dependencies/clock"
	"github.com/jmhart/chatroom-go/internal/model"
	"github.com/jmhart/chatroom-go/internal/storage"
)

// MainRoom is the room every bound connection joins. Only one room exists,
// but the broadcast model generalizes to many.
const MainRoom = "main"

// HistoryLimit caps the number of messages a history fetch returns
const HistoryLimit = 1000

// Notifier receives change notifications after a mutation has been
// persisted. Delivery is fire-and-forget: implementations must not block
// and the coordinator does not track or retry delivery.
type Notifier interface {
	MessageCreated(room string, msg *model.Message)
	MessageUpdated(room string, msg *model.Message)
	MessageDeleted(room string, id model.MessageID)
}

// Service is the broadcast coordinator: the only writer of messages.
// Every mutation, whichever channel it arrives on, runs the same protocol:
// validate, authorize, persist, then notify room members. Persistence
// strictly precedes notification, so a history fetch performed after a
// received notification always reflects that mutation.
type Service struct {
	storage  storage.Storage
	notifier Notifier
	clock    clock.Clock
	logger   *slog.Logger
}

// New creates a new chat Service
func New(store storage.Storage, notifier Notifier, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage:  store,
		notifier: notifier,
		clock:    clk,
		logger:   logger.With(slog.String("component", "chat")),
	}
}

// Create persists a new message authored by the caller and broadcasts it.
// The returned message carries the store-assigned ID on every ingress path.
func (s *Service) Create(ctx context.Context, caller model.Identity, content string) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, model.ErrEmptyContent
	}

	msg, err := s.storage.CreateMessage(ctx, &model.Message{
		AuthorID:   caller.ID,
		AuthorName: caller.Name,
		Content:    content,
		CreatedAt:  s.clock.Now(),
	})
	if err != nil {
		return nil, err
	}

	s.notifier.MessageCreated(MainRoom, msg)
	return msg, nil
}

// Update replaces a message's content. Only the author may update.
func (s *Service) Update(ctx context.Context, caller model.Identity, id model.MessageID, content string) (*model.Message, error) {
	msg, err := s.storage.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}

	if msg.AuthorID != caller.ID {
		return nil, model.ErrNotAuthor
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, model.ErrEmptyContent
	}

	msg.Content = content
	if err := s.storage.UpdateMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.notifier.MessageUpdated(MainRoom, msg)
	return msg, nil
}

// Delete removes a message entirely. Only the author may delete.
func (s *Service) Delete(ctx context.Context, caller model.Identity, id model.MessageID) error {
	msg, err := s.storage.GetMessage(ctx, id)
	if err != nil {
		return err
	}

	if msg.AuthorID != caller.ID {
		return model.ErrNotAuthor
	}

	if err := s.storage.DeleteMessage(ctx, id); err != nil {
		return err
	}

	s.notifier.MessageDeleted(MainRoom, id)
	return nil
}

// History returns up to HistoryLimit messages in non-decreasing creation
// order. Holding a valid token is the only authorization required.
func (s *Service) History(ctx context.Context) ([]*model.Message, error) {
	return s.storage.ListMessages(ctx, HistoryLimit)
}
