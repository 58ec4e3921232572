package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/aayush1303/Estatesync/internal/logger"
	"github.com/aayush1303/Estatesync/internal/models"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error         string `json:"error"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// ValidationErrorResponse carries per-field validation failures
type ValidationErrorResponse struct {
	Error       string              `json:"error"`
	FieldErrors []models.FieldError `json:"fieldErrors"`
}

func respondJSON(w http.ResponseWriter, ctx context.Context, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.LogError(ctx, "Failed to encode response", err, logrus.Fields{"status": status})
	}
}

func respondError(w http.ResponseWriter, ctx context.Context, status int, message string) {
	correlationID, _ := ctx.Value(logger.CorrelationIDKey).(string)
	respondJSON(w, ctx, status, ErrorResponse{
		Error:         message,
		CorrelationID: correlationID,
	})
}

func respondValidationErrors(w http.ResponseWriter, ctx context.Context, fieldErrors []models.FieldError) {
	respondJSON(w, ctx, http.StatusUnprocessableEntity, ValidationErrorResponse{
		Error:       "validation failed",
		FieldErrors: fieldErrors,
	})
}
