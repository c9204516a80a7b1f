package auth

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/jmhart/chatroom-go/internal/dependencies/clock"
	"github.com/jmhart/chatroom-go/internal/model"
	"github.com/jmhart/chatroom-go/internal/services/token"
	"github.com/jmhart/chatroom-go/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Login is the result of a successful registration or login
type Login struct {
	Identity model.Identity
	Token    string
}

// Service verifies name/password credentials and issues bearer tokens
type Service struct {
	storage storage.Storage
	tokens  *token.Codec
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new auth Service
func New(store storage.Storage, tokens *token.Codec, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		tokens:  tokens,
		clock:   clk,
		logger:  logger.With(slog.String("component", "auth")),
	}
}

// Register creates a new user account and issues a token for it
func (s *Service) Register(ctx context.Context, name, password string) (*Login, error) {
	// Check first for a friendly error; storage enforces uniqueness anyway
	_, err := s.storage.GetUserByName(ctx, name)
	if err == nil {
		return nil, model.ErrUsernameExists
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.storage.CreateUser(ctx, &model.User{
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", slog.Int64("user_id", int64(user.ID)), slog.String("name", user.Name))

	return s.login(user)
}

// Login verifies a name/password pair and issues a token
func (s *Service) Login(ctx context.Context, name, password string) (*Login, error) {
	user, err := s.storage.GetUserByName(ctx, name)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.login(user)
}

func (s *Service) login(user *model.User) (*Login, error) {
	identity := model.Identity{ID: user.ID, Name: user.Name}

	tok, err := s.tokens.Issue(identity)
	if err != nil {
		return nil, err
	}

	return &Login{
		Identity: identity,
		Token:    tok,
	}, nil
}
