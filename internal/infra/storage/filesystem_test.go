package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/participa-df/ouvidoria/internal/domain"
)

func TestSaveAndOpenRoundtrip(t *testing.T) {
	store := NewFilesystemStore(t.TempDir())

	path, size, err := store.Save(context.Background(), "anexos", "laudo.pdf", strings.NewReader("conteúdo"))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if size == 0 {
		t.Fatal("expected non-zero byte count")
	}
	if filepath.Ext(path) != ".pdf" {
		t.Errorf("expected extension kept, got %q", path)
	}
	if strings.Contains(path, "laudo") {
		t.Errorf("original name must not reach disk, got %q", path)
	}

	stream, err := store.Open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer stream.Close()
	data, _ := io.ReadAll(stream)
	if string(data) != "conteúdo" {
		t.Errorf("roundtrip = %q", data)
	}
}

func TestSaveDistinctNamesForDuplicates(t *testing.T) {
	store := NewFilesystemStore(t.TempDir())

	a, _, _ := store.Save(context.Background(), "anexos", "same.pdf", strings.NewReader("x"))
	b, _, _ := store.Save(context.Background(), "anexos", "same.pdf", strings.NewReader("x"))
	if a == b {
		t.Fatalf("identical uploads must not collide, both at %q", a)
	}
}

func TestOpenMissingFileIsNotFound(t *testing.T) {
	base := t.TempDir()
	store := NewFilesystemStore(base)

	path, _, err := store.Save(context.Background(), "anexos", "laudo.pdf", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	os.Remove(filepath.Join(base, path))

	_, err = store.Open(path)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("drifted path must report not-found, got %v", err)
	}
	var nf domain.NotFoundError
	if !errors.As(err, &nf) || nf.Resource != "arquivo do anexo" {
		t.Fatalf("expected the file-missing resource, got %+v", err)
	}
}
