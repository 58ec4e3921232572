package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/aayush1303/Estatesync/internal/logger"
	"github.com/aayush1303/Estatesync/internal/models"
	"github.com/aayush1303/Estatesync/internal/repository"
	"github.com/aayush1303/Estatesync/internal/services"
)

// LeadHandler serves the lead CRUD endpoints
type LeadHandler struct {
	repo      repository.LeadRepository
	validator *services.Validator
}

// NewLeadHandler creates a new LeadHandler
func NewLeadHandler(repo repository.LeadRepository, validator *services.Validator) *LeadHandler {
	return &LeadHandler{
		repo:      repo,
		validator: validator,
	}
}

// ListResponse is the paginated payload for GET /leads
type ListResponse struct {
	Leads    []*models.Lead `json:"leads"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

// HandleCreateLead handles POST /leads. The body is a flat string map,
// the same shape a form submission or CSV row produces, and goes through
// the full validation pipeline.
func (h *LeadHandler) HandleCreateLead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	raw, ok := decodeRawRecord(w, r)
	if !ok {
		return
	}

	lead, fieldErrors := h.validator.Validate(raw)
	if len(fieldErrors) > 0 {
		respondValidationErrors(w, ctx, fieldErrors)
		return
	}

	if err := h.repo.CreateLead(ctx, lead); err != nil {
		logger.LogError(ctx, "Failed to create lead", err, nil)
		respondError(w, ctx, http.StatusServiceUnavailable, "database error")
		return
	}

	logger.Info(ctx, "Lead created", logrus.Fields{"lead_id": lead.ID.String()})
	respondJSON(w, ctx, http.StatusCreated, lead)
}

// HandleGetLead handles GET /leads/{id}
func (h *LeadHandler) HandleGetLead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := parseLeadID(w, r)
	if !ok {
		return
	}

	lead, err := h.repo.GetLeadByID(ctx, id)
	if errors.Is(err, models.ErrLeadNotFound) {
		respondError(w, ctx, http.StatusNotFound, "lead not found")
		return
	}
	if err != nil {
		logger.LogError(ctx, "Failed to get lead", err, logrus.Fields{"lead_id": id.String()})
		respondError(w, ctx, http.StatusServiceUnavailable, "database error")
		return
	}

	respondJSON(w, ctx, http.StatusOK, lead)
}

// HandleListLeads handles GET /leads with filtering and pagination
func (h *LeadHandler) HandleListLeads(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter := filterFromQuery(r)

	leads, total, err := h.repo.ListLeads(ctx, filter)
	if err != nil {
		logger.LogError(ctx, "Failed to list leads", err, nil)
		respondError(w, ctx, http.StatusServiceUnavailable, "database error")
		return
	}

	respondJSON(w, ctx, http.StatusOK, ListResponse{
		Leads:    leads,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
}

// HandleUpdateLead handles PUT /leads/{id}. The body carries the edited
// fields plus the updatedAt the client last saw; a mismatch against the
// stored row returns 409 so the client can refresh.
func (h *LeadHandler) HandleUpdateLead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := parseLeadID(w, r)
	if !ok {
		return
	}

	raw, ok := decodeRawRecord(w, r)
	if !ok {
		return
	}

	expectedUpdatedAt, err := time.Parse(time.RFC3339Nano, raw["updatedAt"])
	if err != nil {
		respondError(w, ctx, http.StatusBadRequest, "updatedAt must be an RFC3339 timestamp")
		return
	}

	lead, fieldErrors := h.validator.Validate(raw)
	if len(fieldErrors) > 0 {
		respondValidationErrors(w, ctx, fieldErrors)
		return
	}
	lead.ID = id

	err = h.repo.UpdateLead(ctx, lead, expectedUpdatedAt)
	switch {
	case errors.Is(err, models.ErrLeadNotFound):
		respondError(w, ctx, http.StatusNotFound, "lead not found")
		return
	case errors.Is(err, models.ErrStaleLead):
		respondError(w, ctx, http.StatusConflict, "Record changed, please refresh")
		return
	case err != nil:
		logger.LogError(ctx, "Failed to update lead", err, logrus.Fields{"lead_id": id.String()})
		respondError(w, ctx, http.StatusServiceUnavailable, "database error")
		return
	}

	logger.Info(ctx, "Lead updated", logrus.Fields{"lead_id": id.String()})
	respondJSON(w, ctx, http.StatusOK, lead)
}

// HandleDeleteLead handles DELETE /leads/{id}
func (h *LeadHandler) HandleDeleteLead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := parseLeadID(w, r)
	if !ok {
		return
	}

	err := h.repo.DeleteLead(ctx, id)
	if errors.Is(err, models.ErrLeadNotFound) {
		respondError(w, ctx, http.StatusNotFound, "lead not found")
		return
	}
	if err != nil {
		logger.LogError(ctx, "Failed to delete lead", err, logrus.Fields{"lead_id": id.String()})
		respondError(w, ctx, http.StatusServiceUnavailable, "database error")
		return
	}

	logger.Info(ctx, "Lead deleted", logrus.Fields{"lead_id": id.String()})
	respondJSON(w, ctx, http.StatusNoContent, nil)
}

// HandleLeadStats handles GET /leads/stats, returning counts by status
func (h *LeadHandler) HandleLeadStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	counts, err := h.repo.GetLeadCountsByStatus(ctx)
	if err != nil {
		logger.LogError(ctx, "Failed to get lead stats", err, nil)
		respondError(w, ctx, http.StatusServiceUnavailable, "database error")
		return
	}

	total := 0
	for _, c := range counts {
		total += c
	}

	respondJSON(w, ctx, http.StatusOK, map[string]interface{}{
		"total":     total,
		"by_status": counts,
	})
}

// HandleLeadHistory handles GET /leads/{id}/history
func (h *LeadHandler) HandleLeadHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := parseLeadID(w, r)
	if !ok {
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	history, err := h.repo.GetLeadHistory(ctx, id, limit)
	if err != nil {
		logger.LogError(ctx, "Failed to get lead history", err, logrus.Fields{"lead_id": id.String()})
		respondError(w, ctx, http.StatusServiceUnavailable, "database error")
		return
	}

	respondJSON(w, ctx, http.StatusOK, map[string]interface{}{"history": history})
}

// decodeRawRecord reads the request body as a flat string record. It
// writes the error response itself when decoding fails.
func decodeRawRecord(w http.ResponseWriter, r *http.Request) (map[string]string, bool) {
	defer r.Body.Close()

	var raw map[string]string
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		respondError(w, r.Context(), http.StatusBadRequest, "malformed JSON payload")
		return nil, false
	}

	return raw, true
}

func parseLeadID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, r.Context(), http.StatusBadRequest, "invalid lead id")
		return uuid.Nil, false
	}
	return id, true
}

func filterFromQuery(r *http.Request) repository.LeadFilter {
	q := r.URL.Query()

	filter := repository.LeadFilter{
		City:         q.Get("city"),
		PropertyType: q.Get("propertyType"),
		Status:       q.Get("status"),
		Timeline:     q.Get("timeline"),
		Search:       q.Get("search"),
		Page:         1,
		PageSize:     20,
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if size, err := strconv.Atoi(q.Get("pageSize")); err == nil && size > 0 && size <= 100 {
		filter.PageSize = size
	}

	return filter
}
