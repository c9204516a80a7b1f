package handler

import (
	"encoding/json"
	"net/http"

	"github.com/jmhart/chatroom-go/internal/api/apierr"
	"github.com/jmhart/chatroom-go/internal/api/request"
	"github.com/jmhart/chatroom-go/internal/api/response"
	"github.com/jmhart/chatroom-go/internal/services/auth"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles POST /api/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Name == "" || req.Password == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("name and password required"))
		return
	}

	login, err := h.authService.Register(r.Context(), req.Name, req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromLogin(login))
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Name == "" || req.Password == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("name and password required"))
		return
	}

	login, err := h.authService.Login(r.Context(), req.Name, req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromLogin(login))
}
