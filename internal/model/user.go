package model

import "time"

// UserID uniquely identifies a user across the system
type UserID int64

// User is a registered account. PasswordHash is a bcrypt hash and never
// leaves the storage/auth layers.
type User struct {
	ID           UserID
	Name         string // login name (unique, immutable)
	PasswordHash string
	CreatedAt    time.Time
}

// Identity is the authenticated user claim carried by a bearer token.
// It is immutable once issued; it is never re-derived mid-session.
type Identity struct {
	ID   UserID `json:"id"`
	Name string `json:"name"`
}
