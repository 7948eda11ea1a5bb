// Package apperr holds error shapes shared across the storefront domains.
package apperr

import "fmt"

// FieldError is a user-correctable validation failure on a single input field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Reason) }

func Invalid(field, reason string) *FieldError {
	return &FieldError{Field: field, Reason: reason}
}
