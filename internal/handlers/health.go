package handlers

import (
	"net/http"

	"github.com/aayush1303/Estatesync/internal/database"
)

// HealthHandler serves the liveness endpoint
type HealthHandler struct {
	db *database.DB
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *database.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HandleHealth handles GET /health, including a database ping
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.db.HealthCheck(); err != nil {
		respondJSON(w, ctx, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	respondJSON(w, ctx, http.StatusOK, map[string]string{"status": "ok"})
}
