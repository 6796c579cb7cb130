package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"notefold-server/internal/domain"
	"notefold-server/internal/service"
	"notefold-server/pkg/response"
)

type contextKey string

const (
	userKey    contextKey = "user"
	userLogKey contextKey = "userLog"
)

// userLogEntry lets the auth middleware report the resolved identity back to
// the logger middleware, which wraps it from the outside and therefore never
// sees context values added further down the chain.
type userLogEntry struct {
	id string
}

// IdentityResolver turns a bearer token into the authenticated user record.
type IdentityResolver interface {
	Resolve(token string) (*domain.User, error)
}

// AuthMiddleware is the single gate in front of every protected route: it
// extracts the bearer token, resolves the identity and stores the user in the
// request context.
func AuthMiddleware(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				response.Unauthorized(w, "missing or malformed authorization header")
				return
			}

			user, err := resolver.Resolve(token)
			if err != nil {
				if errors.Is(err, service.ErrUnauthenticated) {
					response.Unauthorized(w, service.ErrUnauthenticated.Error())
					return
				}
				response.InternalError(w, "internal server error")
				return
			}

			if entry, ok := r.Context().Value(userLogKey).(*userLogEntry); ok {
				entry.id = user.ID
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}

	return parts[1], true
}

// GetUser returns the resolved user stored by AuthMiddleware, or nil on
// routes outside the gate.
func GetUser(r *http.Request) *domain.User {
	user, ok := r.Context().Value(userKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}
