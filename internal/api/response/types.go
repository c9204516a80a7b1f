package response

import (
	"time"

	"github.com/jmhart/chatroom-go/internal/model"
	"github.com/jmhart/chatroom-go/internal/services/auth"
)

// User represents a user in API responses
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UserFromIdentity converts a model.Identity to a response User
func UserFromIdentity(ident model.Identity) User {
	return User{
		ID:   int64(ident.ID),
		Name: ident.Name,
	}
}

// AuthResponse is the response for register and login
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// AuthResponseFromLogin creates an AuthResponse from a login result
func AuthResponseFromLogin(l *auth.Login) AuthResponse {
	return AuthResponse{
		User:  UserFromIdentity(l.Identity),
		Token: l.Token,
	}
}

// Message represents a message in API responses
type Message struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageFromModel converts a model.Message to a response Message
func MessageFromModel(m *model.Message) Message {
	return Message{
		ID:        int64(m.ID),
		UserID:    int64(m.AuthorID),
		Username:  m.AuthorName,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

// MessagesFromModel converts a slice of messages
func MessagesFromModel(msgs []*model.Message) []Message {
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		out[i] = MessageFromModel(m)
	}
	return out
}

// DeleteResponse is the response after deleting a message
type DeleteResponse struct {
	ID int64 `json:"id"`
}
