package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jmhart/chatroom-go/internal/dependencies/clock"
	"github.com/jmhart/chatroom-go/internal/model"
)

// Errors
var (
	ErrExpiredToken   = errors.New("token has expired")
	ErrMalformedToken = errors.New("token is malformed or has a bad signature")
)

// Claims are the JWT claims embedded in a bearer token
type Claims struct {
	UserID model.UserID `json:"uid"`
	Name   string       `json:"name"`
	jwt.RegisteredClaims
}

// Codec signs identities into stateless bearer tokens and verifies them
// back. Tokens carry an absolute expiry; the server holds no session table,
// so a token cannot be revoked before it expires.
type Codec struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

// Config holds configuration for the token codec
type Config struct {
	// Secret is the HMAC signing key
	Secret string
	// TTL is the token lifetime from issue to expiry
	TTL time.Duration
}

// DefaultConfig returns default token configuration
func DefaultConfig() Config {
	return Config{
		TTL: 7 * 24 * time.Hour,
	}
}

// New creates a new token Codec
func New(cfg Config, clk clock.Clock) *Codec {
	if cfg.TTL == 0 {
		cfg.TTL = DefaultConfig().TTL
	}
	return &Codec{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		clock:  clk,
	}
}

// Issue signs the given identity into a bearer token
func (c *Codec) Issue(identity model.Identity) (string, error) {
	now := c.clock.Now()

	claims := Claims{
		UserID: identity.ID,
		Name:   identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", identity.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(c.secret)
}

// Verify parses a bearer token and recovers the identity it encodes.
// Verification is binary: it returns ErrExpiredToken for a well-formed but
// expired token and ErrMalformedToken for everything else that fails.
func (c *Codec) Verify(tokenStr string) (model.Identity, error) {
	var claims Claims

	tok, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrMalformedToken
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.clock.Now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.Identity{}, ErrExpiredToken
		}
		return model.Identity{}, ErrMalformedToken
	}

	if !tok.Valid {
		return model.Identity{}, ErrMalformedToken
	}

	return model.Identity{ID: claims.UserID, Name: claims.Name}, nil
}
