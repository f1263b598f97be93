// Package protocol generates and validates the human-readable intake
// identifiers assigned to manifestations.
package protocol

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var pattern = regexp.MustCompile(`^OUV-\d{4}-[0-9a-f]{8}$`)

// New returns a fresh protocol identifier in the form
// OUV-<4-digit year>-<8 lowercase hex chars>. The suffix is random, so
// identifiers are unique by construction and never reused.
func New() string {
	return NewAt(time.Now())
}

// NewAt is New with an explicit intake time.
func NewAt(t time.Time) string {
	suffix := uuid.New().String()[:8]
	return fmt.Sprintf("OUV-%04d-%s", t.Year(), suffix)
}

// Valid reports whether s is a well-formed protocol identifier.
func Valid(s string) bool {
	return pattern.MatchString(s)
}
