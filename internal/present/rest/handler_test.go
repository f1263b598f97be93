package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/participa-df/ouvidoria"
	"github.com/participa-df/ouvidoria/internal/domain"
	"github.com/participa-df/ouvidoria/internal/usecase"
	"github.com/participa-df/ouvidoria/protocol"
)

// --- mocks ---

type mockManifestationRepo struct {
	created *domain.Manifestation
	stored  map[string]domain.Manifestation
}

func (m *mockManifestationRepo) Create(ctx context.Context, mf *domain.Manifestation) error {
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

type mockAnexoRepo struct {
	anexos map[string]domain.Anexo
}

func (m *mockAnexoRepo) Get(ctx context.Context, id string) (domain.Anexo, error) {
	a, ok := m.anexos[id]
	if !ok {
		return domain.Anexo{}, domain.NotFoundError{Resource: "anexo"}
	}
	return a, nil
}

type mockBlobStore struct {
	missing map[string]bool
	saves   int
}

func (m *mockBlobStore) Save(ctx context.Context, kind, originalName string, r io.Reader) (string, int64, error) {
	n, _ := io.Copy(io.Discard, r)
	m.saves++
	return fmt.Sprintf("uploads/%s/%d", kind, m.saves), n, nil
}

func (m *mockBlobStore) Open(path string) (io.ReadCloser, error) {
	if m.missing[path] {
		return nil, domain.NotFoundError{Resource: "arquivo do anexo"}
	}
	return io.NopCloser(strings.NewReader("anexo-bytes")), nil
}

func newTestServer(manRepo *mockManifestationRepo, anexoRepo *mockAnexoRepo, store *mockBlobStore) *echo.Echo {
	manUC := usecase.NewManifestationUsecase(manRepo, store, nil, nil)
	anexoUC := usecase.NewAnexoUsecase(anexoRepo, store)
	h := NewHandler(manUC, anexoUC, nil)

	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][]filePart) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for field, parts := range files {
		for _, p := range parts {
			header := textproto.MIMEHeader{}
			header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, p.name))
			header.Set("Content-Type", p.mediaType)
			fw, err := w.CreatePart(header)
			if err != nil {
				t.Fatalf("create part: %v", err)
			}
			fw.Write([]byte(p.content))
		}
	}
	w.Close()
	return body, w.FormDataContentType()
}

type filePart struct {
	name      string
	mediaType string
	content   string
}

// --- tests ---

func TestSubmitRejectsShortFieldsListingAll(t *testing.T) {
	e := newTestServer(&mockManifestationRepo{}, &mockAnexoRepo{}, &mockBlobStore{})

	body, contentType := multipartBody(t, map[string]string{
		"assunto":  "ab",
		"conteudo": "abcd",
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/manifestacao", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", res.Code, res.Body.String())
	}

	var errRes ouvidoria.ErrorResponse
	if err := json.Unmarshal(res.Body.Bytes(), &errRes); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errRes.Erro != "Dados inválidos" {
		t.Errorf("erro = %q", errRes.Erro)
	}
	if len(errRes.Detalhes) != 2 {
		t.Fatalf("expected every failing field listed, got %+v", errRes.Detalhes)
	}
	if errRes.Detalhes[0].Campo != "assunto" || errRes.Detalhes[1].Campo != "conteudo" {
		t.Errorf("unexpected issues: %+v", errRes.Detalhes)
	}
}

func TestSubmitEndToEnd(t *testing.T) {
	repo := &mockManifestationRepo{}
	e := newTestServer(repo, &mockAnexoRepo{}, &mockBlobStore{})

	body, contentType := multipartBody(t, map[string]string{
		"assunto":  "Buraco na rua",
		"conteudo": "Há um buraco grande na Rua X",
		"anonimo":  "true",
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/manifestacao", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)

	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", res.Code, res.Body.String())
	}

	var sub ouvidoria.SubmitResponse
	if err := json.Unmarshal(res.Body.Bytes(), &sub); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !protocol.Valid(sub.Protocolo) {
		t.Errorf("protocolo %q does not match format", sub.Protocolo)
	}
	if sub.Status != "recebido" {
		t.Errorf("status = %q", sub.Status)
	}
	if sub.Manifestacao.PossuiAudio || sub.Manifestacao.QuantidadeAnexos != 0 {
		t.Errorf("derived flags wrong: %+v", sub.Manifestacao)
	}
	if !sub.Manifestacao.Anonimo {
		t.Error("anonimo=true must be honored")
	}
	if repo.created == nil || repo.created.Protocolo != sub.Protocolo {
		t.Error("manifestation not persisted with the returned protocol")
	}
}

func TestSubmitAnonimoRequiresLiteralTrue(t *testing.T) {
	for _, value := range []string{"", "false", "TRUE", "1", "yes"} {
		repo := &mockManifestationRepo{}
		e := newTestServer(repo, &mockAnexoRepo{}, &mockBlobStore{})

		fields := map[string]string{"assunto": "abc", "conteudo": "abcde"}
		if value != "" {
			fields["anonimo"] = value
		}
		body, contentType := multipartBody(t, fields, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/manifestacao", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		res := httptest.NewRecorder()
		e.ServeHTTP(res, req)

		if res.Code != http.StatusCreated {
			t.Fatalf("anonimo=%q: expected 201 got %d", value, res.Code)
		}
		if repo.created.Anonimo {
			t.Errorf("anonimo=%q must parse as false", value)
		}
	}
}

func TestSubmitCountsFilesAndSkipsRejected(t *testing.T) {
	repo := &mockManifestationRepo{}
	store := &mockBlobStore{}
	e := newTestServer(repo, &mockAnexoRepo{}, store)

	body, contentType := multipartBody(t, map[string]string{
		"assunto":  "Assunto válido",
		"conteudo": "Conteúdo válido",
	}, map[string][]filePart{
		"audio": {{name: "manifestacao.webm", mediaType: "audio/webm", content: "webm-bytes"}},
		"anexos": {
			{name: "laudo.pdf", mediaType: "application/pdf", content: "pdf"},
			{name: "virus.exe", mediaType: "application/x-msdownload", content: "mz"},
			{name: "foto.png", mediaType: "image/png", content: "png"},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/manifestacao", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)

	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", res.Code, res.Body.String())
	}

	var sub ouvidoria.SubmitResponse
	json.Unmarshal(res.Body.Bytes(), &sub)
	if !sub.Manifestacao.PossuiAudio {
		t.Error("audio part must set possuiAudio")
	}
	if sub.Manifestacao.QuantidadeAnexos != 2 {
		t.Errorf("quantidadeAnexos = %d, want 2 (rejected part skipped)", sub.Manifestacao.QuantidadeAnexos)
	}
	if store.saves != 3 {
		t.Errorf("expected audio + 2 anexos stored, got %d", store.saves)
	}
}

func TestDetailFound(t *testing.T) {
	repo := &mockManifestationRepo{stored: map[string]domain.Manifestation{
		"m1": {
			ID:        "m1",
			Protocolo: "OUV-2026-0a1b2c3d",
			Assunto:   "Buraco na rua",
			Status:    domain.StatusRecebido,
			Anexos:    []domain.Anexo{{ID: "a1", Tipo: "application/pdf", NomeOriginal: "laudo.pdf"}},
		},
	}}
	e := newTestServer(repo, &mockAnexoRepo{}, &mockBlobStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/manifestacao/m1", nil)
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}

	var detail ouvidoria.ManifestacaoDetail
	if err := json.Unmarshal(res.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if detail.Protocolo != "OUV-2026-0a1b2c3d" || len(detail.Anexos) != 1 {
		t.Errorf("unexpected detail: %+v", detail)
	}
}

func TestDetailNotFound(t *testing.T) {
	e := newTestServer(&mockManifestationRepo{}, &mockAnexoRepo{}, &mockBlobStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/manifestacao/missing", nil)
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", res.Code)
	}
}

func TestAnexoStream(t *testing.T) {
	anexoRepo := &mockAnexoRepo{anexos: map[string]domain.Anexo{
		"a1": {ID: "a1", Tipo: "application/pdf", NomeOriginal: "laudo.pdf", StoragePath: "uploads/anexos/a1"},
	}}
	e := newTestServer(&mockManifestationRepo{}, anexoRepo, &mockBlobStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/anexos/a1", nil)
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}
	if got := res.Header().Get(echo.HeaderContentType); got != "application/pdf" {
		t.Errorf("content type = %q", got)
	}
	if !strings.Contains(res.Header().Get(echo.HeaderContentDisposition), "laudo.pdf") {
		t.Error("original name missing from content disposition")
	}
	if res.Body.String() != "anexo-bytes" {
		t.Errorf("body = %q", res.Body.String())
	}
}

func TestAnexoNotFoundCausesAreDistinct(t *testing.T) {
	anexoRepo := &mockAnexoRepo{anexos: map[string]domain.Anexo{
		"gone": {ID: "gone", StoragePath: "uploads/anexos/gone"},
	}}
	store := &mockBlobStore{missing: map[string]bool{"uploads/anexos/gone": true}}
	e := newTestServer(&mockManifestationRepo{}, anexoRepo, store)

	// Unknown id.
	req := httptest.NewRequest(http.MethodGet, "/api/anexos/unknown", nil)
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", res.Code)
	}
	var unknownRes ouvidoria.ErrorResponse
	json.Unmarshal(res.Body.Bytes(), &unknownRes)

	// Metadata present, file missing on disk.
	req = httptest.NewRequest(http.MethodGet, "/api/anexos/gone", nil)
	res = httptest.NewRecorder()
	e.ServeHTTP(res, req)
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", res.Code)
	}
	var missingRes ouvidoria.ErrorResponse
	json.Unmarshal(res.Body.Bytes(), &missingRes)

	if unknownRes.Erro == missingRes.Erro {
		t.Fatalf("causes must be distinguishable, both %q", unknownRes.Erro)
	}
}
