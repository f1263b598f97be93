// Package upload validates candidate attachments against the portal's fixed
// media-type allow-list and size ceiling.
package upload

import "fmt"

// MaxFileSize is the per-file ceiling.
const MaxFileSize = 25 * 1024 * 1024 // 25 MiB

var acceptedTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"image/png":  true,
	"image/jpeg": true,
	"audio/mpeg": true,
	"video/mp4":  true,
}

// RejectionError explains why a candidate file was refused.
type RejectionError struct {
	Name   string
	Reason string
}

func (e RejectionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Reason)
}

// Validate decides accept (nil) or reject for a single candidate file. Pure:
// no side effects, the caller decides whether to surface the reason.
func Validate(name, mediaType string, sizeBytes int64) error {
	if !acceptedTypes[mediaType] {
		return RejectionError{Name: name, Reason: "tipo de arquivo não permitido"}
	}
	if sizeBytes > MaxFileSize {
		return RejectionError{Name: name, Reason: "arquivo excede 25MB"}
	}
	return nil
}

// Candidate is what ValidateAll needs to know about one file in a batch.
type Candidate struct {
	Name      string
	MediaType string
	SizeBytes int64
}

// ValidateAll applies Validate to a batch with the continue policy: one bad
// file does not block the others. It returns the indexes of accepted
// candidates in order, plus one error per rejected candidate.
func ValidateAll(candidates []Candidate) (accepted []int, rejected []error) {
	for i, c := range candidates {
		if err := Validate(c.Name, c.MediaType, c.SizeBytes); err != nil {
			rejected = append(rejected, err)
			continue
		}
		accepted = append(accepted, i)
	}
	return accepted, rejected
}
