// Package middleware provides HTTP middleware for authenticating API requests.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// accountIDKey is the context key for the authenticated account ID.
const accountIDKey ContextKey = "accountID"

// TokenValidator validates bearer tokens. Keeping this an interface here
// avoids an import cycle with the server's JWT service.
type TokenValidator interface {
	ValidateToken(tokenString string) (AccountIDGetter, error)
}

// AccountIDGetter extracts the account ID from validated token claims.
type AccountIDGetter interface {
	GetAccountID() uuid.UUID
}

// RequireAuth returns middleware that rejects requests without a valid
// bearer token and puts the account ID on the request context.
func RequireAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// "Bearer" is matched case-insensitively
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimSpace(parts[1])
			if tokenString == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := validator.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), accountIDKey, claims.GetAccountID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccountID extracts the authenticated account ID from the request context.
func AccountID(r *http.Request) (uuid.UUID, error) {
	accountID, ok := r.Context().Value(accountIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("account ID not found in request context")
	}
	return accountID, nil
}

// WithAccountID returns a context carrying the account ID. Used by tests
// and by handlers that need to re-dispatch requests.
func WithAccountID(ctx context.Context, accountID uuid.UUID) context.Context {
	return context.WithValue(ctx, accountIDKey, accountID)
}
