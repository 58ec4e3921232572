package services

import (
	"github.com/aayush1303/Estatesync/internal/models"
)

// RejectedRow describes one import row that failed validation. Row is
// the 1-based position of the row in the uploaded batch.
type RejectedRow struct {
	Row    int      `json:"row"`
	Errors []string `json:"errors"`
}

// ImportOutcome is the per-row report for one bulk import call. Both
// sequences preserve the input row order.
type ImportOutcome struct {
	Accepted []models.Lead `json:"accepted"`
	Rejected []RejectedRow `json:"rejected"`
}

// Importer reconciles a batch of externally-parsed CSV rows into
// accepted leads and per-row rejections. It is a pure function of its
// input batch: no state survives between calls, so a single Importer
// may serve concurrent requests.
type Importer struct {
	validator *Validator
}

// NewImporter creates a new Importer instance
func NewImporter(validator *Validator) *Importer {
	return &Importer{
		validator: validator,
	}
}

// ReconcileBatch validates every row of the batch independently and
// partitions the results. Rows are numbered from 1 in input order. A
// failing row never blocks the rest of the batch; the full batch is
// always processed and every row's fate reported. An empty batch yields
// an empty outcome. Whether accepted rows are persisted when some rows
// were rejected is the caller's decision, not the reconciler's.
func (i *Importer) ReconcileBatch(rows []map[string]string) *ImportOutcome {
	outcome := &ImportOutcome{
		Accepted: []models.Lead{},
		Rejected: []RejectedRow{},
	}

	for idx, row := range rows {
		lead, fieldErrors := i.validator.Validate(row)
		if len(fieldErrors) > 0 {
			outcome.Rejected = append(outcome.Rejected, RejectedRow{
				Row:    idx + 1,
				Errors: models.FlattenFieldErrors(fieldErrors),
			})
			continue
		}

		outcome.Accepted = append(outcome.Accepted, *lead)
	}

	return outcome
}
