package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameExists = errors.New("username already exists")

	// Message errors
	ErrMessageNotFound = errors.New("message not found")
	ErrNotAuthor       = errors.New("caller is not the message author")
	ErrEmptyContent    = errors.New("message content is empty")
)
