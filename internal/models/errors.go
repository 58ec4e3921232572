package models

import (
	"errors"
	"fmt"
)

// ErrLeadNotFound is returned when no lead exists for the requested ID.
var ErrLeadNotFound = errors.New("lead not found")

// ErrStaleLead is returned when an update carries an updated_at that no
// longer matches the stored row. The caller should re-fetch and retry.
var ErrStaleLead = errors.New("lead was modified by someone else")

// FieldError is a single validation failure, tagged with the name of the
// offending field. It is carried as data, never panicked.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewFieldError creates a new FieldError
func NewFieldError(field, message string) FieldError {
	return FieldError{Field: field, Message: message}
}

// FlattenFieldErrors renders a list of field errors into the
// human-readable strings shown in import reports.
func FlattenFieldErrors(errs []FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Error())
	}
	return out
}
