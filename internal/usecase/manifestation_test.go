package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/participa-df/ouvidoria"
	"github.com/participa-df/ouvidoria/internal/domain"
	"github.com/participa-df/ouvidoria/protocol"
)

// --- mocks ---

type mockManifestationRepo struct {
	created *domain.Manifestation
	stored  map[string]domain.Manifestation
	err     error
}

func (m *mockManifestationRepo) Create(ctx context.Context, mf *domain.Manifestation) error {
	if m.err != nil {
		return m.err
	}
	m.created = mf
	return nil
}

func (m *mockManifestationRepo) GetByID(ctx context.Context, id string) (domain.Manifestation, error) {
	mf, ok := m.stored[id]
	if !ok {
		return domain.Manifestation{}, domain.NotFoundError{Resource: "manifestação"}
	}
	return mf, nil
}

type mockBlobStore struct {
	saved int
}

func (m *mockBlobStore) Save(ctx context.Context, kind, originalName string, r io.Reader) (string, int64, error) {
	n, _ := io.Copy(io.Discard, r)
	m.saved++
	return fmt.Sprintf("uploads/%s/%d", kind, m.saved), n, nil
}

func (m *mockBlobStore) Open(path string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("bytes")), nil
}

type mockDispatcher struct {
	events []IngestEvent
	err    error
}

func (m *mockDispatcher) Dispatch(ctx context.Context, event IngestEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

type mockNotifier struct {
	events []ouvidoria.Event
}

func (m *mockNotifier) Publish(ctx context.Context, event ouvidoria.Event) error {
	m.events = append(m.events, event)
	return nil
}

func newUsecase() (*ManifestationUsecase, *mockManifestationRepo, *mockBlobStore, *mockDispatcher, *mockNotifier) {
	repo := &mockManifestationRepo{}
	store := &mockBlobStore{}
	dispatcher := &mockDispatcher{}
	notifier := &mockNotifier{}
	return NewManifestationUsecase(repo, store, dispatcher, notifier), repo, store, dispatcher, notifier
}

// --- tests ---

func TestIngestRejectsShortFields(t *testing.T) {
	uc, repo, _, _, _ := newUsecase()

	_, err := uc.Ingest(context.Background(), IngestInput{Assunto: "ab", Conteudo: "abcd"})

	var verr domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Issues) != 2 {
		t.Fatalf("expected every failing field listed, got %+v", verr.Issues)
	}
	if verr.Issues[0].Campo != "assunto" || verr.Issues[1].Campo != "conteudo" {
		t.Fatalf("unexpected issue fields: %+v", verr.Issues)
	}
	if repo.created != nil {
		t.Fatal("rejected submission must not be persisted")
	}
}

func TestIngestMinimumLengthBoundary(t *testing.T) {
	uc, _, _, _, _ := newUsecase()

	if _, err := uc.Ingest(context.Background(), IngestInput{Assunto: "abc", Conteudo: "abcde"}); err != nil {
		t.Fatalf("minimum lengths 3/5 must pass, got %v", err)
	}
}

func TestIngestAssignsProtocolAndDefaults(t *testing.T) {
	uc, repo, _, _, _ := newUsecase()

	res, err := uc.Ingest(context.Background(), IngestInput{
		Assunto:  "Buraco na rua",
		Conteudo: "Há um buraco grande na Rua X",
		Anonimo:  true,
	})
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	if !protocol.Valid(res.Protocolo) {
		t.Errorf("protocol %q does not match format", res.Protocolo)
	}
	if res.PossuiAudio || res.QuantidadeAnexos != 0 {
		t.Errorf("unexpected derived flags: %+v", res)
	}

	m := repo.created
	if m == nil {
		t.Fatal("manifestation not persisted")
	}
	if m.Status != domain.StatusRecebido {
		t.Errorf("status = %q, want recebido", m.Status)
	}
	if m.PrazoResposta == nil || !m.PrazoResposta.After(m.CreatedAt) {
		t.Error("response deadline must be set after creation time")
	}
	if m.Cidadao != nil {
		t.Error("anonymous manifestation must not carry citizen data")
	}
}

func TestIngestProtocolsPairwiseDistinct(t *testing.T) {
	uc, _, _, _, _ := newUsecase()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		res, err := uc.Ingest(context.Background(), IngestInput{Assunto: "abc", Conteudo: "abcde"})
		if err != nil {
			t.Fatalf("ingest failed: %v", err)
		}
		if seen[res.Protocolo] {
			t.Fatalf("protocol %q assigned twice", res.Protocolo)
		}
		seen[res.Protocolo] = true
	}
}

func TestIngestStoresBlobsAndCounts(t *testing.T) {
	uc, repo, store, dispatcher, notifier := newUsecase()

	res, err := uc.Ingest(context.Background(), IngestInput{
		Assunto:  "Assunto válido",
		Conteudo: "Conteúdo válido",
		Audio:    bytes.NewReader([]byte("webm-bytes")),
		Anexos: []AnexoInput{
			{Name: "foto.png", MediaType: "image/png", Content: strings.NewReader("png")},
			{Name: "laudo.pdf", MediaType: "application/pdf", Content: strings.NewReader("pdf")},
		},
	})
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	if !res.PossuiAudio || res.QuantidadeAnexos != 2 {
		t.Fatalf("derived flags wrong: %+v", res)
	}
	if store.saved != 3 {
		t.Fatalf("expected 3 blobs stored (audio + 2 anexos), got %d", store.saved)
	}
	if len(repo.created.Anexos) != 2 {
		t.Fatalf("expected 2 anexo records, got %d", len(repo.created.Anexos))
	}
	for _, a := range repo.created.Anexos {
		if a.ID == "" || a.StoragePath == "" {
			t.Errorf("anexo record incomplete: %+v", a)
		}
	}

	if len(dispatcher.events) != 1 || dispatcher.events[0].QuantidadeAnexos != 2 {
		t.Fatalf("classification dispatch missing or wrong: %+v", dispatcher.events)
	}
	if len(notifier.events) != 1 || notifier.events[0].Status != ouvidoria.StatusRecebido {
		t.Fatalf("status event missing or wrong: %+v", notifier.events)
	}
}

func TestIngestCitizenAttachedWhenNotAnonymous(t *testing.T) {
	uc, repo, _, _, _ := newUsecase()

	_, err := uc.Ingest(context.Background(), IngestInput{
		Assunto:  "Assunto válido",
		Conteudo: "Conteúdo válido",
		Anonimo:  false,
		Cidadao:  &domain.Cidadao{Nome: "Maria", Email: "maria@example.com"},
	})
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	if repo.created.Cidadao == nil || repo.created.Cidadao.Nome != "Maria" {
		t.Fatalf("citizen not attached: %+v", repo.created.Cidadao)
	}
}

func TestIngestDispatchFailureIsNotFatal(t *testing.T) {
	repo := &mockManifestationRepo{}
	uc := NewManifestationUsecase(repo, &mockBlobStore{}, &mockDispatcher{err: errors.New("broker down")}, &mockNotifier{})

	res, err := uc.Ingest(context.Background(), IngestInput{Assunto: "abc", Conteudo: "abcde"})
	if err != nil {
		t.Fatalf("dispatch failure must not fail the ingestion: %v", err)
	}
	if res.Protocolo == "" || repo.created == nil {
		t.Fatal("manifestation must still be created")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	uc, _, _, _, _ := newUsecase()

	_, err := uc.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}
