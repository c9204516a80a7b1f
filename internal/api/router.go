package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jmhart/chatroom-go/internal/api/handler"
	apimiddleware "github.com/jmhart/chatroom-go/internal/api/middleware"
	"github.com/jmhart/chatroom-go/internal/middleware"
	"github.com/jmhart/chatroom-go/internal/services/auth"
	"github.com/jmhart/chatroom-go/internal/services/chat"
	"github.com/jmhart/chatroom-go/internal/services/token"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	TokenCodec  *token.Codec
	AuthService *auth.Service
	ChatService *chat.Service
	// WSHandler serves websocket upgrades at /ws
	WSHandler http.Handler
}

// NewRouter creates a new router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	messageHandler := handler.NewMessageHandler(cfg.ChatService)

	// Create middleware
	authGuard := apimiddleware.Auth(cfg.TokenCodec)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger, middleware.DefaultPanicHandler)

	// API subrouter with common middleware
	api := r.PathPrefix("/api").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Auth routes (no token required)
	api.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)

	// Message routes (all require a valid bearer token)
	messages := api.PathPrefix("/messages").Subrouter()
	messages.Use(authGuard)
	messages.HandleFunc("", messageHandler.List).Methods(http.MethodGet)
	messages.HandleFunc("", messageHandler.Create).Methods(http.MethodPost)
	messages.HandleFunc("/{id}", messageHandler.Update).Methods(http.MethodPut)
	messages.HandleFunc("/{id}", messageHandler.Delete).Methods(http.MethodDelete)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Push connections upgrade here; the handshake event carries the token
	if cfg.WSHandler != nil {
		r.Handle("/ws", cfg.WSHandler).Methods(http.MethodGet)
	}

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
