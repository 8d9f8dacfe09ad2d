package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/iho/cashbook/internal/infrastructure/auth"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// OwnerContextKey is the context key for the authenticated owner ID.
	OwnerContextKey ContextKey = "owner"

	// OwnerIDHeader names the owner when token auth is disabled, for
	// local and single-tenant deployments.
	OwnerIDHeader = "X-Owner-ID"
)

// AuthMiddleware resolves the owner for the request. With a JWT manager
// the owner comes from a Bearer token; without one it comes from the
// X-Owner-ID header. Requests with no resolvable owner are rejected,
// since every ledger operation is owner scoped.
func AuthMiddleware(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if jwtManager == nil {
				ownerID := r.Header.Get(OwnerIDHeader)
				if ownerID == "" {
					http.Error(w, "missing "+OwnerIDHeader+" header", http.StatusUnauthorized)
					return
				}

				next.ServeHTTP(w, r.WithContext(withOwner(r.Context(), ownerID)))
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := jwtManager.Verify(parts[1])
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(withOwner(r.Context(), claims.OwnerID)))
		})
	}
}

func withOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, OwnerContextKey, ownerID)
}

// OwnerFromContext extracts the authenticated owner ID from context.
func OwnerFromContext(ctx context.Context) (string, bool) {
	ownerID, ok := ctx.Value(OwnerContextKey).(string)

	return ownerID, ok && ownerID != ""
}
