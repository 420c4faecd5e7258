package apperr

import (
	"errors"
	"strings"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrDuplicateEmail   = errors.New("an account with this email already exists")
	ErrNotFound         = errors.New("record not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrTransient        = errors.New("service temporarily unavailable, try again")
)

type FieldIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError carries the per-field problems of a rejected input. It
// matches ErrValidation with errors.Is.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Field+": "+issue.Reason)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func Invalid(field, reason string) error {
	return &ValidationError{Issues: []FieldIssue{{Field: field, Reason: reason}}}
}

// Issues extracts field issues from err, or nil when err is not a
// validation failure.
func Issues(err error) []FieldIssue {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Issues
	}
	return nil
}

func IsTransient(err error) bool { return errors.Is(err, ErrTransient) }
