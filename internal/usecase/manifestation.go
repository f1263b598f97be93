package usecase

import (
	"context"
	"io"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/participa-df/ouvidoria"
	"github.com/participa-df/ouvidoria/internal/domain"
	"github.com/participa-df/ouvidoria/protocol"
)

const (
	minAssuntoLen  = 3
	minConteudoLen = 5

	// Statutory answer window for ombudsman manifestations.
	responseWindow = 30 * 24 * time.Hour
)

// AnexoInput is one attachment part of a submission.
type AnexoInput struct {
	Name      string
	MediaType string
	SizeBytes int64
	Content   io.Reader
}

// IngestInput is the parsed multipart submission handed to Ingest.
type IngestInput struct {
	Assunto  string
	Conteudo string
	Anonimo  bool
	Cidadao  *domain.Cidadao
	Audio    io.Reader
	Anexos   []AnexoInput
}

// IngestResult acknowledges a created manifestation.
type IngestResult struct {
	Protocolo        string
	Assunto          string
	Conteudo         string
	Anonimo          bool
	PossuiAudio      bool
	QuantidadeAnexos int
}

type ManifestationUsecase struct {
	repo       ManifestationRepository
	store      BlobStore
	dispatcher Dispatcher
	notifier   Notifier
}

func NewManifestationUsecase(
	repo ManifestationRepository,
	store BlobStore,
	dispatcher Dispatcher,
	notifier Notifier,
) *ManifestationUsecase {
	return &ManifestationUsecase{
		repo:       repo,
		store:      store,
		dispatcher: dispatcher,
		notifier:   notifier,
	}
}

// Ingest validates the submission, assigns a protocol and persists the
// manifestation with its blobs. Downstream dispatch and realtime
// notification are best effort: their failures are logged, never surfaced.
func (uc *ManifestationUsecase) Ingest(ctx context.Context, input IngestInput) (IngestResult, error) {
	if err := validate(input); err != nil {
		return IngestResult{}, err
	}

	now := time.Now().UTC()
	prazo := now.Add(responseWindow)

	m := domain.Manifestation{
		ID:            uuid.NewString(),
		Protocolo:     protocol.NewAt(now),
		Assunto:       input.Assunto,
		Conteudo:      input.Conteudo,
		Anonimo:       input.Anonimo,
		Status:        domain.StatusRecebido,
		CreatedAt:     now,
		PrazoResposta: &prazo,
	}

	if !input.Anonimo && input.Cidadao != nil {
		m.Cidadao = input.Cidadao
	}

	if input.Audio != nil {
		path, _, err := uc.store.Save(ctx, "audio", "manifestacao.webm", input.Audio)
		if err != nil {
			return IngestResult{}, errors.Wrap(err, "failed to store audio")
		}
		m.PossuiAudio = true
		m.AudioPath = path
	}

	for _, a := range input.Anexos {
		path, size, err := uc.store.Save(ctx, "anexos", a.Name, a.Content)
		if err != nil {
			return IngestResult{}, errors.Wrap(err, "failed to store attachment")
		}
		m.Anexos = append(m.Anexos, domain.Anexo{
			ID:           uuid.NewString(),
			Tipo:         a.MediaType,
			NomeOriginal: a.Name,
			StoragePath:  path,
			SizeBytes:    size,
		})
	}

	if err := uc.repo.Create(ctx, &m); err != nil {
		return IngestResult{}, errors.Wrap(err, "failed to persist manifestation")
	}

	event := IngestEvent{
		Protocolo:        m.Protocolo,
		Assunto:          m.Assunto,
		Conteudo:         m.Conteudo,
		Anonimo:          m.Anonimo,
		PossuiAudio:      m.PossuiAudio,
		QuantidadeAnexos: len(m.Anexos),
	}
	if uc.dispatcher != nil {
		if err := uc.dispatcher.Dispatch(ctx, event); err != nil {
			slog.WarnContext(
				ctx, "Failed to dispatch manifestation downstream",
				slog.String("protocolo", m.Protocolo),
				slog.String("error", err.Error()),
				slog.String("module", "manifestation"),
			)
		}
	}
	if uc.notifier != nil {
		err := uc.notifier.Publish(ctx, ouvidoria.Event{
			Protocolo: m.Protocolo,
			Status:    string(m.Status),
			Timestamp: now,
		})
		if err != nil {
			slog.WarnContext(
				ctx, "Failed to publish status event",
				slog.String("protocolo", m.Protocolo),
				slog.String("error", err.Error()),
				slog.String("module", "manifestation"),
			)
		}
	}

	return IngestResult{
		Protocolo:        m.Protocolo,
		Assunto:          m.Assunto,
		Conteudo:         m.Conteudo,
		Anonimo:          m.Anonimo,
		PossuiAudio:      m.PossuiAudio,
		QuantidadeAnexos: len(m.Anexos),
	}, nil
}

// GetByID fetches a single stored manifestation for display and tracking.
func (uc *ManifestationUsecase) GetByID(ctx context.Context, id string) (domain.Manifestation, error) {
	return uc.repo.GetByID(ctx, id)
}

func validate(input IngestInput) error {
	var issues []domain.FieldIssue
	if utf8.RuneCountInString(input.Assunto) < minAssuntoLen {
		issues = append(issues, domain.FieldIssue{Campo: "assunto", Mensagem: "Assunto obrigatório"})
	}
	if utf8.RuneCountInString(input.Conteudo) < minConteudoLen {
		issues = append(issues, domain.FieldIssue{Campo: "conteudo", Mensagem: "Conteúdo obrigatório"})
	}
	if len(issues) > 0 {
		return domain.ValidationError{Issues: issues}
	}
	return nil
}
