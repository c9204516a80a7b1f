package storage

import (
	"context"

	"github.com/jmhart/chatroom-go/internal/model"
)

// Storage defines the interface for data persistence.
//
// Message ordering is part of the contract: ListMessages returns rows in
// non-decreasing CreatedAt order, with ID as the tiebreaker for equal
// timestamps. CreateMessage and CreateUser assign the row's ID.
type Storage interface {
	// User operations
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByName(ctx context.Context, name string) (*model.User, error)

	// Message operations
	CreateMessage(ctx context.Context, msg *model.Message) (*model.Message, error)
	GetMessage(ctx context.Context, id model.MessageID) (*model.Message, error)
	UpdateMessage(ctx context.Context, msg *model.Message) error
	DeleteMessage(ctx context.Context, id model.MessageID) error
	ListMessages(ctx context.Context, limit int) ([]*model.Message, error)
}
