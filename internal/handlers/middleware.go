package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/aayush1303/Estatesync/internal/config"
	"github.com/aayush1303/Estatesync/internal/logger"
)

// CorrelationMiddleware assigns every request a correlation ID for
// tracing and carries it on the request context.
func CorrelationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := uuid.New().String()
		ctx := context.WithValue(r.Context(), logger.CorrelationIDKey, correlationID)
		w.Header().Set("X-Correlation-ID", correlationID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthMiddleware provides shared-secret authentication for the API
type AuthMiddleware struct {
	config *config.Config
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		config: cfg,
	}
}

// Authenticate validates the shared secret header if authentication is enabled
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.config.Auth.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		providedSecret := r.Header.Get("X-Shared-Secret")

		if providedSecret == "" {
			logger.Warn(r.Context(), "Authentication failed: missing X-Shared-Secret header", nil)
			respondError(w, r.Context(), http.StatusUnauthorized, "missing authentication header")
			return
		}

		if providedSecret != m.config.Auth.SharedSecret {
			logger.Warn(r.Context(), "Authentication failed: invalid shared secret", nil)
			respondError(w, r.Context(), http.StatusUnauthorized, "invalid authentication credentials")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RecoveryMiddleware recovers from panics and returns 500 Internal Server Error
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.WithContext(r.Context()).WithFields(logrus.Fields{
					"panic": rec,
					"path":  r.URL.Path,
				}).Error("Recovered from panic")
				respondError(w, r.Context(), http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
