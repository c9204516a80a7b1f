package factory

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/jmhart/chatroom-go/internal/dependencies/clock"
	"github.com/jmhart/chatroom-go/internal/services/auth"
	"github.com/jmhart/chatroom-go/internal/services/chat"
	"github.com/jmhart/chatroom-go/internal/services/token"
	"github.com/jmhart/chatroom-go/internal/storage"
	"github.com/jmhart/chatroom-go/internal/storage/memory"
	redisstorage "github.com/jmhart/chatroom-go/internal/storage/redis"
	"github.com/jmhart/chatroom-go/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components. Everything is explicitly
// constructed and passed in; there are no process-wide singletons, so tests
// can build isolated instances per case.
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Services
	TokenCodec  *token.Codec
	AuthService *auth.Service
	ChatService *chat.Service

	// Push layer
	Registry  *ws.Registry
	WSHandler http.Handler
}

// Config holds configuration for the application factory
type Config struct {
	// TokenConfig holds the signing secret and TTL for bearer tokens
	TokenConfig token.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	if cfg.TokenConfig.Secret == "" {
		return nil, errors.New("TokenConfig.Secret is required")
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()

	return newWithDependencies(store, clk, cfg.TokenConfig, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, tokenCfg token.Config, logger *slog.Logger) *App {
	codec := token.New(tokenCfg, clk)
	authService := auth.New(store, codec, clk, logger)

	registry := ws.NewRegistry(logger)
	broadcaster := ws.NewBroadcaster(registry, logger)
	chatService := chat.New(store, broadcaster, clk, logger)
	wsHandler := ws.NewHandler(registry, codec, chatService, logger)

	return &App{
		Storage:     store,
		Clock:       clk,
		TokenCodec:  codec,
		AuthService: authService,
		ChatService: chatService,
		Registry:    registry,
		WSHandler:   wsHandler,
	}
}
