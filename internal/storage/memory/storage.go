package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jmhart/chatroom-go/internal/model"
	"github.com/jmhart/chatroom-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	users     map[model.UserID]*model.User
	nameIndex map[string]model.UserID
	messages  map[model.MessageID]*model.Message

	nextUserID    model.UserID
	nextMessageID model.MessageID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:     make(map[model.UserID]*model.User),
		nameIndex: make(map[string]model.UserID),
		messages:  make(map[model.MessageID]*model.Message),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nameIndex[user.Name]; ok {
		return nil, model.ErrUsernameExists
	}

	s.nextUserID++
	stored := *user
	stored.ID = s.nextUserID

	s.users[stored.ID] = &stored
	s.nameIndex[stored.Name] = stored.ID

	result := stored
	return &result, nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	result := *user
	return &result, nil
}

func (s *Storage) GetUserByName(ctx context.Context, name string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.nameIndex[name]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	result := *user
	return &result, nil
}

// Message operations

func (s *Storage) CreateMessage(ctx context.Context, msg *model.Message) (*model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextMessageID++
	stored := *msg
	stored.ID = s.nextMessageID

	s.messages[stored.ID] = &stored

	result := stored
	return &result, nil
}

func (s *Storage) GetMessage(ctx context.Context, id model.MessageID) (*model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msg, ok := s.messages[id]
	if !ok {
		return nil, model.ErrMessageNotFound
	}
	result := *msg
	return &result, nil
}

func (s *Storage) UpdateMessage(ctx context.Context, msg *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.messages[msg.ID]; !ok {
		return model.ErrMessageNotFound
	}
	stored := *msg
	s.messages[msg.ID] = &stored
	return nil
}

func (s *Storage) DeleteMessage(ctx context.Context, id model.MessageID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.messages[id]; !ok {
		return model.ErrMessageNotFound
	}
	delete(s.messages, id)
	return nil
}

func (s *Storage) ListMessages(ctx context.Context, limit int) ([]*model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := make([]*model.Message, 0, len(s.messages))
	for _, msg := range s.messages {
		result := *msg
		messages = append(messages, &result)
	}

	sort.Slice(messages, func(i, j int) bool {
		if messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})

	if limit > 0 && len(messages) > limit {
		messages = messages[:limit]
	}

	return messages, nil
}
