// Package storage persists attachment and audio bytes on the local
// filesystem, keyed by generated names so original names never touch disk.
package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/participa-df/ouvidoria/internal/domain"
)

type FilesystemStore struct {
	baseDir string
}

func NewFilesystemStore(baseDir string) *FilesystemStore {
	return &FilesystemStore{baseDir: baseDir}
}

// Save streams r into <baseDir>/<kind>/<uuid><ext> and returns the path
// relative to baseDir plus the byte count. The extension is kept from the
// original name for serving convenience; everything else is discarded.
func (s *FilesystemStore) Save(ctx context.Context, kind, originalName string, r io.Reader) (string, int64, error) {
	dir := filepath.Join(s.baseDir, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, errors.Wrap(err, "failed to create storage directory")
	}

	name := uuid.NewString() + filepath.Ext(originalName)
	rel := filepath.Join(kind, name)
	full := filepath.Join(s.baseDir, rel)

	f, err := os.Create(full)
	if err != nil {
		return "", 0, errors.Wrap(err, "failed to create storage file")
	}

	written, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(full)
		return "", 0, errors.Wrap(err, "failed to write storage file")
	}

	return rel, written, nil
}

// Open resolves a stored path to a read stream. A path that no longer exists
// (store/filesystem drift) is reported as a distinct not-found, never an
// unhandled error. The caller closes the stream.
func (s *FilesystemStore) Open(path string) (io.ReadCloser, error) {
	full := filepath.Join(s.baseDir, path)

	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.NotFoundError{Resource: "arquivo do anexo"}
		}
		return nil, errors.Wrap(err, "failed to open storage file")
	}
	return f, nil
}
