package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/jmhart/chatroom-go/internal/api/apierr"
	"github.com/jmhart/chatroom-go/internal/model"
	"github.com/jmhart/chatroom-go/internal/services/token"
)

type contextKey string

const identityContextKey contextKey = "identity"

// Auth creates the request auth guard. It verifies the bearer token and
// injects the recovered identity into the request context before any
// handler logic runs. The identity is scoped to the single request; it is
// never cached across requests.
func Auth(tokens *token.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bearer := extractToken(r)
			if bearer == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			identity, err := tokens.Verify(bearer)
			if err != nil {
				// Same outcome as a missing header on purpose
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, &identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken extracts the bearer token from the Authorization header
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// GetIdentity returns the authenticated identity from the request context
func GetIdentity(ctx context.Context) *model.Identity {
	identity, _ := ctx.Value(identityContextKey).(*model.Identity)
	return identity
}

// MustGetIdentity returns the authenticated identity or panics
func MustGetIdentity(ctx context.Context) model.Identity {
	identity := GetIdentity(ctx)
	if identity == nil {
		panic("no identity in context - auth middleware not applied?")
	}
	return *identity
}
