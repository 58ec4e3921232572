package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/aayush1303/Estatesync/internal/config"
	"github.com/aayush1303/Estatesync/internal/logger"
	"github.com/aayush1303/Estatesync/internal/models"
	"github.com/aayush1303/Estatesync/internal/repository"
	"github.com/aayush1303/Estatesync/internal/services"
)

// csvHeader is the fixed column set for both import and export.
var csvHeader = []string{
	"fullName", "email", "phone", "city", "propertyType", "bhk", "purpose",
	"budgetMin", "budgetMax", "timeline", "source", "notes", "tags", "status",
}

// ImportHandler serves CSV bulk import and export
type ImportHandler struct {
	repo     repository.LeadRepository
	importer *services.Importer
	cfg      config.ImportConfig
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(repo repository.LeadRepository, importer *services.Importer, cfg config.ImportConfig) *ImportHandler {
	return &ImportHandler{
		repo:     repo,
		importer: importer,
		cfg:      cfg,
	}
}

// ImportResponse is the per-row report returned to the uploader.
type ImportResponse struct {
	Inserted int                    `json:"inserted"`
	Rejected []services.RejectedRow `json:"rejected"`
}

// HandleImportLeads handles POST /leads/import. The upload is a
// multipart form with a "file" CSV field. The handler tokenizes the CSV
// and enforces the header set and row cap; per-row validation and
// partitioning belong to the Importer. Accepted rows are persisted in
// one transaction regardless of how many other rows were rejected.
func (h *ImportHandler) HandleImportLeads(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, ctx, http.StatusBadRequest, "missing or unreadable 'file' upload")
		return
	}
	defer file.Close()

	rows, err := h.readRows(file)
	if err != nil {
		respondError(w, ctx, http.StatusBadRequest, err.Error())
		return
	}

	outcome := h.importer.ReconcileBatch(rows)

	if err := h.repo.CreateLeadBatch(ctx, outcome.Accepted, ownerFromRequest(r)); err != nil {
		logger.LogError(ctx, "Failed to persist imported leads", err, logrus.Fields{
			"accepted": len(outcome.Accepted),
		})
		respondError(w, ctx, http.StatusServiceUnavailable, "database error")
		return
	}

	logger.Info(ctx, "Import completed", logrus.Fields{
		"rows":     len(rows),
		"inserted": len(outcome.Accepted),
		"rejected": len(outcome.Rejected),
	})

	respondJSON(w, ctx, http.StatusOK, ImportResponse{
		Inserted: len(outcome.Accepted),
		Rejected: outcome.Rejected,
	})
}

// readRows tokenizes the uploaded CSV into raw records keyed by the
// header names. Structural problems (bad header, uneven rows, too many
// rows) reject the whole upload; content problems are left to the
// validator so they can be reported per row.
func (h *ImportHandler) readRows(file io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("CSV file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %v", err)
	}

	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	rows := []map[string]string{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed CSV near row %d: %v", len(rows)+1, err)
		}

		if len(rows) >= h.cfg.MaxRows {
			return nil, fmt.Errorf("CSV exceeds the maximum of %d rows", h.cfg.MaxRows)
		}

		row := make(map[string]string, len(header))
		for i, column := range header {
			row[column] = record[i]
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// checkHeader verifies the upload uses exactly the known column set.
func checkHeader(header []string) error {
	known := make(map[string]bool, len(csvHeader))
	for _, column := range csvHeader {
		known[column] = true
	}

	seen := make(map[string]bool, len(header))
	for _, column := range header {
		if !known[column] {
			return fmt.Errorf("unknown CSV column %q", column)
		}
		if seen[column] {
			return fmt.Errorf("duplicate CSV column %q", column)
		}
		seen[column] = true
	}

	for _, column := range csvHeader {
		if !seen[column] {
			return fmt.Errorf("missing CSV column %q", column)
		}
	}

	return nil
}

// HandleExportLeads handles GET /leads/export, streaming the filtered
// lead list as a CSV download with the same column set as import.
func (h *ImportHandler) HandleExportLeads(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := filterFromQuery(r)
	filter.Page = 1
	filter.PageSize = h.cfg.MaxRows * 10 // export is not paginated

	leads, _, err := h.repo.ListLeads(ctx, filter)
	if err != nil {
		logger.LogError(ctx, "Failed to export leads", err, nil)
		respondError(w, ctx, http.StatusServiceUnavailable, "database error")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="leads.csv"`)

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		logger.LogError(ctx, "Failed to write CSV header", err, nil)
		return
	}

	for _, lead := range leads {
		if err := writer.Write(exportRecord(lead)); err != nil {
			logger.LogError(ctx, "Failed to write CSV row", err, logrus.Fields{"lead_id": lead.ID.String()})
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		logger.LogError(ctx, "Failed to flush CSV export", err, nil)
	}
}

func exportRecord(lead *models.Lead) []string {
	return []string{
		lead.FullName,
		lead.Email,
		lead.Phone,
		string(lead.City),
		string(lead.PropertyType),
		string(lead.BHK),
		string(lead.Purpose),
		formatBudget(lead.BudgetMin),
		formatBudget(lead.BudgetMax),
		string(lead.Timeline),
		string(lead.Source),
		lead.Notes,
		strings.Join(lead.Tags, ","),
		string(lead.Status),
	}
}

func formatBudget(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

// ownerFromRequest attributes imported rows to the caller. Identity
// management lives outside this service, so the header is trusted as-is.
func ownerFromRequest(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}
