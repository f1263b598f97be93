package domain

import (
	"fmt"
	"strings"
)

// NotFoundError represents a missing resource. The Resource field
// distinguishes causes (unknown manifestation, unknown anexo, anexo file
// missing on disk).
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError regardless of Resource.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// FieldIssue is a single failing field of a rejected submission.
type FieldIssue struct {
	Campo    string
	Mensagem string
}

// ValidationError carries every failing field of a submission, not just the
// first, so the caller can surface all of them at once.
type ValidationError struct {
	Issues []FieldIssue
}

func (e ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, i := range e.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", i.Campo, i.Mensagem))
	}
	return "invalid submission: " + strings.Join(parts, "; ")
}

// Is enables errors.Is matching on ValidationError.
func (e ValidationError) Is(target error) bool {
	_, ok := target.(ValidationError)
	if ok {
		return true
	}
	_, ok = target.(*ValidationError)
	return ok
}

// ErrValidation is the sentinel error for rejected submissions.
var ErrValidation = ValidationError{}
