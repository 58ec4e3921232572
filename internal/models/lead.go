package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JSONB is a custom type for PostgreSQL JSONB columns
type JSONB map[string]interface{}

// Value implements the driver.Valuer interface for JSONB
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface for JSONB
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to unmarshal JSONB value: %v", value)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}

	*j = result
	return nil
}

// Lead is a validated buyer lead record. Optional string fields use the
// empty string as "absent"; optional budgets use nil pointers.
type Lead struct {
	ID            uuid.UUID    `json:"id" db:"id"`
	FullName      string       `json:"fullName" db:"full_name"`
	Email         string       `json:"email,omitempty" db:"email"`
	Phone         string       `json:"phone" db:"phone"`
	City          City         `json:"city" db:"city"`
	PropertyType  PropertyType `json:"propertyType" db:"property_type"`
	BHK           BHK          `json:"bhk,omitempty" db:"bhk"`
	Purpose       Purpose      `json:"purpose" db:"purpose"`
	BudgetMin     *int64       `json:"budgetMin,omitempty" db:"budget_min"`
	BudgetMax     *int64       `json:"budgetMax,omitempty" db:"budget_max"`
	Timeline      Timeline     `json:"timeline" db:"timeline"`
	Source        Source       `json:"source" db:"source"`
	Status        LeadStatus   `json:"status" db:"status"`
	Notes         string       `json:"notes,omitempty" db:"notes"`
	Tags          []string     `json:"tags" db:"tags"`
	AttachmentURL string       `json:"attachmentUrl,omitempty" db:"attachment_url"`
	OwnerID       string       `json:"ownerId,omitempty" db:"owner_id"`
	CreatedAt     time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time    `json:"updatedAt" db:"updated_at"`
}

// LeadHistory is an audit record of a single edit to a lead. Diff maps
// changed field names to {"old": ..., "new": ...} pairs.
type LeadHistory struct {
	ID        int64     `json:"id" db:"id"`
	LeadID    uuid.UUID `json:"lead_id" db:"lead_id"`
	ChangedBy string    `json:"changed_by" db:"changed_by"`
	ChangedAt time.Time `json:"changed_at" db:"changed_at"`
	Diff      JSONB     `json:"diff" db:"diff"`
}

// Diff compares the lead against a proposed replacement and returns the
// changed fields as a JSONB map of old/new pairs. An empty map means the
// two records are identical apart from timestamps and identifiers.
func (l *Lead) Diff(next *Lead) JSONB {
	diff := make(JSONB)

	add := func(field string, oldVal, newVal interface{}) {
		diff[field] = map[string]interface{}{"old": oldVal, "new": newVal}
	}

	if l.FullName != next.FullName {
		add("fullName", l.FullName, next.FullName)
	}
	if l.Email != next.Email {
		add("email", l.Email, next.Email)
	}
	if l.Phone != next.Phone {
		add("phone", l.Phone, next.Phone)
	}
	if l.City != next.City {
		add("city", string(l.City), string(next.City))
	}
	if l.PropertyType != next.PropertyType {
		add("propertyType", string(l.PropertyType), string(next.PropertyType))
	}
	if l.BHK != next.BHK {
		add("bhk", string(l.BHK), string(next.BHK))
	}
	if l.Purpose != next.Purpose {
		add("purpose", string(l.Purpose), string(next.Purpose))
	}
	if !equalBudget(l.BudgetMin, next.BudgetMin) {
		add("budgetMin", budgetValue(l.BudgetMin), budgetValue(next.BudgetMin))
	}
	if !equalBudget(l.BudgetMax, next.BudgetMax) {
		add("budgetMax", budgetValue(l.BudgetMax), budgetValue(next.BudgetMax))
	}
	if l.Timeline != next.Timeline {
		add("timeline", string(l.Timeline), string(next.Timeline))
	}
	if l.Source != next.Source {
		add("source", string(l.Source), string(next.Source))
	}
	if l.Status != next.Status {
		add("status", string(l.Status), string(next.Status))
	}
	if l.Notes != next.Notes {
		add("notes", l.Notes, next.Notes)
	}
	if !equalTags(l.Tags, next.Tags) {
		add("tags", l.Tags, next.Tags)
	}
	if l.AttachmentURL != next.AttachmentURL {
		add("attachmentUrl", l.AttachmentURL, next.AttachmentURL)
	}

	return diff
}

func equalBudget(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func budgetValue(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func equalTags(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
