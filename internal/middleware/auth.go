package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dajer93/lunchplanner-api/internal/services"
)

type contextKey string

const IdentityContextKey contextKey = "identity"

// RequireAuth verifies the bearer token and attaches the resulting
// identity to the request context. Everything behind it can assume a
// valid (userId, email) pair.
func RequireAuth(authService *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				unauthorized(w, "missing authorization header")
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, "invalid authorization format, use Bearer <token>")
				return
			}

			identity, err := authService.VerifyToken(parts[1])
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), IdentityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetIdentity(ctx context.Context) services.Identity {
	identity, _ := ctx.Value(IdentityContextKey).(services.Identity)
	return identity
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
