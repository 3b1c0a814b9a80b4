package http

import (
	"context"
	"net/http"
	"strings"

	"ridepool-backend/internal/logger"
	"ridepool-backend/internal/security"
)

type contextKey string

const actorIDKey contextKey = "actor_id"

// AuthMiddleware validates the bearer token and stashes the acting account
// id in the request context. Every mutating handler reads the actor from
// here; there is no ambient "current user".
func AuthMiddleware(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
				return
			}

			claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
				return
			}

			ctx := context.WithValue(r.Context(), actorIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoggingMiddleware logs each request after it completes.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		logger.Debug("request handled", "method", r.Method, "path", r.URL.Path)
	})
}

// actorID returns the authenticated account id placed by AuthMiddleware.
func actorID(r *http.Request) string {
	id, _ := r.Context().Value(actorIDKey).(string)
	return id
}
