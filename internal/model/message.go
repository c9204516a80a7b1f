package model

import "time"

// MessageID uniquely identifies a message. IDs are assigned by the store
// and increase monotonically.
type MessageID int64

// Message is a single chat message in the room history.
// AuthorID is immutable and is the sole authorization key for update and
// delete; Content is mutable only by the author. Deletion removes the row
// entirely, there is no tombstone.
type Message struct {
	ID         MessageID `json:"id"`
	AuthorID   UserID    `json:"user_id"`
	AuthorName string    `json:"username"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
