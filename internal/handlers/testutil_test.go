package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/aayush1303/Estatesync/internal/models"
	"github.com/aayush1303/Estatesync/internal/repository"
)

// fakeLeadRepo is an in-memory LeadRepository for handler tests.
type fakeLeadRepo struct {
	leads     map[uuid.UUID]*models.Lead
	history   map[uuid.UUID][]*models.LeadHistory
	lastBatch []models.Lead
	lastOwner string
	failWith  error
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{
		leads:   make(map[uuid.UUID]*models.Lead),
		history: make(map[uuid.UUID][]*models.LeadHistory),
	}
}

func (f *fakeLeadRepo) CreateLead(ctx context.Context, lead *models.Lead) error {
	if f.failWith != nil {
		return f.failWith
	}
	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}
	now := time.Now().UTC()
	lead.CreatedAt = now
	lead.UpdatedAt = now
	f.leads[lead.ID] = lead
	return nil
}

func (f *fakeLeadRepo) CreateLeadBatch(ctx context.Context, leads []models.Lead, ownerID string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.lastBatch = leads
	f.lastOwner = ownerID
	for i := range leads {
		lead := leads[i]
		if lead.ID == uuid.Nil {
			lead.ID = uuid.New()
		}
		f.leads[lead.ID] = &lead
	}
	return nil
}

func (f *fakeLeadRepo) GetLeadByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	lead, ok := f.leads[id]
	if !ok {
		return nil, models.ErrLeadNotFound
	}
	return lead, nil
}

func (f *fakeLeadRepo) ListLeads(ctx context.Context, filter repository.LeadFilter) ([]*models.Lead, int, error) {
	if f.failWith != nil {
		return nil, 0, f.failWith
	}
	out := []*models.Lead{}
	for _, lead := range f.leads {
		if filter.City != "" && string(lead.City) != filter.City {
			continue
		}
		if filter.Status != "" && string(lead.Status) != filter.Status {
			continue
		}
		out = append(out, lead)
	}
	return out, len(out), nil
}

func (f *fakeLeadRepo) UpdateLead(ctx context.Context, lead *models.Lead, expectedUpdatedAt time.Time) error {
	if f.failWith != nil {
		return f.failWith
	}
	current, ok := f.leads[lead.ID]
	if !ok {
		return models.ErrLeadNotFound
	}
	if !current.UpdatedAt.Equal(expectedUpdatedAt) {
		return models.ErrStaleLead
	}
	lead.UpdatedAt = time.Now().UTC()
	f.leads[lead.ID] = lead
	return nil
}

func (f *fakeLeadRepo) DeleteLead(ctx context.Context, id uuid.UUID) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.leads[id]; !ok {
		return models.ErrLeadNotFound
	}
	delete(f.leads, id)
	return nil
}

func (f *fakeLeadRepo) GetLeadCountsByStatus(ctx context.Context) (map[string]int, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	counts := make(map[string]int)
	for _, lead := range f.leads {
		counts[string(lead.Status)]++
	}
	return counts, nil
}

func (f *fakeLeadRepo) GetLeadHistory(ctx context.Context, leadID uuid.UUID, limit int) ([]*models.LeadHistory, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.history[leadID], nil
}

// newTestRouter registers the lead routes the same way cmd/api does.
func newTestRouter(leadHandler *LeadHandler, importHandler *ImportHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(CorrelationMiddleware)
	router.Use(RecoveryMiddleware)

	router.HandleFunc("/leads", leadHandler.HandleCreateLead).Methods(http.MethodPost)
	router.HandleFunc("/leads", leadHandler.HandleListLeads).Methods(http.MethodGet)
	if importHandler != nil {
		router.HandleFunc("/leads/import", importHandler.HandleImportLeads).Methods(http.MethodPost)
		router.HandleFunc("/leads/export", importHandler.HandleExportLeads).Methods(http.MethodGet)
	}
	router.HandleFunc("/leads/stats", leadHandler.HandleLeadStats).Methods(http.MethodGet)
	router.HandleFunc("/leads/{id}", leadHandler.HandleGetLead).Methods(http.MethodGet)
	router.HandleFunc("/leads/{id}", leadHandler.HandleUpdateLead).Methods(http.MethodPut)
	router.HandleFunc("/leads/{id}", leadHandler.HandleDeleteLead).Methods(http.MethodDelete)
	router.HandleFunc("/leads/{id}/history", leadHandler.HandleLeadHistory).Methods(http.MethodGet)

	return router
}

// validLeadBody returns a request body that passes validation.
func validLeadBody() map[string]string {
	return map[string]string{
		"fullName":     "Aarav Sharma",
		"email":        "aarav@example.com",
		"phone":        "9876543210",
		"city":         "Chandigarh",
		"propertyType": "Apartment",
		"bhk":          "2",
		"purpose":      "Buy",
		"timeline":     "0-3m",
		"source":       "Website",
		"tags":         "vip",
	}
}
