package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sarar-git/ecomops-mobile-app-backend/pkg/logger"
)

type contextKey string

const principalKey contextKey = "principal"

// Middleware validates the bearer token and injects the resolved
// Principal into the request context.
func Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			logger.Logger.Warn().Str("path", r.URL.Path).Msg("Missing authorization header")
			respondUnauthorized(w, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			logger.Logger.Warn().Str("path", r.URL.Path).Msg("Invalid authorization header format")
			respondUnauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := ValidateToken(parts[1])
		if err != nil {
			logger.Logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Invalid token")
			respondUnauthorized(w, "Invalid token")
			return
		}

		principal := Principal{
			TenantID:     claims.TenantID,
			UserID:       claims.UserID,
			Role:         claims.Role,
			WarehouseIDs: claims.WarehouseIDs,
		}

		ctx := context.WithValue(r.Context(), principalKey, principal)
		next(w, r.WithContext(ctx))
	}
}

// PrincipalFromContext extracts the authenticated principal from a request context
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
