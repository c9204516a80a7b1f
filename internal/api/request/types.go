package request

// RegisterRequest is the request body for registering a user
type RegisterRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// CreateMessageRequest is the request body for creating a message
type CreateMessageRequest struct {
	Content string `json:"content"`
}

// UpdateMessageRequest is the request body for updating a message
type UpdateMessageRequest struct {
	Content string `json:"content"`
}
