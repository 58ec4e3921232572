package services

import (
	"strconv"
	"strings"

	"github.com/aayush1303/Estatesync/internal/models"
)

// LeadInput is the typed intermediate between a raw string record (CSV
// row or form submission) and a validated Lead. Enum-valued fields stay
// strings here so the validator can report unknown values verbatim.
type LeadInput struct {
	FullName      string
	Email         string
	Phone         string
	City          string
	PropertyType  string
	BHK           string
	Purpose       string
	BudgetMin     *int64
	BudgetMax     *int64
	Timeline      string
	Source        string
	Status        string
	Notes         string
	Tags          []string
	AttachmentURL string
}

// Normalizer converts raw string records into a LeadInput. All values
// arrive as strings, so normalization runs before any type or enum check.
type Normalizer struct{}

// NewNormalizer creates a new Normalizer instance
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize trims every string field, treats blanks as absent, parses
// budgets, splits tags and fills the status default. It never mutates
// the input map.
func (n *Normalizer) Normalize(raw map[string]string) *LeadInput {
	input := &LeadInput{
		FullName:      strings.TrimSpace(raw["fullName"]),
		Email:         strings.TrimSpace(raw["email"]),
		Phone:         strings.TrimSpace(raw["phone"]),
		City:          strings.TrimSpace(raw["city"]),
		PropertyType:  strings.TrimSpace(raw["propertyType"]),
		BHK:           strings.TrimSpace(raw["bhk"]),
		Purpose:       strings.TrimSpace(raw["purpose"]),
		Timeline:      strings.TrimSpace(raw["timeline"]),
		Source:        strings.TrimSpace(raw["source"]),
		Status:        strings.TrimSpace(raw["status"]),
		Notes:         strings.TrimSpace(raw["notes"]),
		AttachmentURL: strings.TrimSpace(raw["attachmentUrl"]),
	}

	input.BudgetMin = n.ParseBudget(raw["budgetMin"])
	input.BudgetMax = n.ParseBudget(raw["budgetMax"])
	input.Tags = n.NormalizeTags(raw["tags"])

	if input.Status == "" {
		input.Status = string(models.LeadStatusNew)
	}

	return input
}

// ParseBudget parses an optional budget string into an integer. A value
// that is present but not a valid integer is treated as absent; this
// leniency matches how budgets are accepted from CSV imports, where
// stray formatting should not reject the row.
func (n *Normalizer) ParseBudget(value string) *int64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil
	}

	return &parsed
}

// NormalizeTags splits a comma-separated tag string, trims each piece
// and drops empties, preserving input order. Duplicates are kept.
func (n *Normalizer) NormalizeTags(value string) []string {
	tags := []string{}

	for _, piece := range strings.Split(value, ",") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		tags = append(tags, piece)
	}

	return tags
}
