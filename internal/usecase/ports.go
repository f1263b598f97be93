package usecase

import (
	"context"
	"io"

	"github.com/participa-df/ouvidoria"
	"github.com/participa-df/ouvidoria/internal/domain"
)

// ManifestationRepository defines persistence for manifestations.
type ManifestationRepository interface {
	Create(ctx context.Context, m *domain.Manifestation) error
	GetByID(ctx context.Context, id string) (domain.Manifestation, error)
}

// AnexoRepository defines metadata lookup for stored attachments.
type AnexoRepository interface {
	Get(ctx context.Context, id string) (domain.Anexo, error)
}

// BlobStore persists attachment and audio bytes outside the database. Open
// reports a missing path as domain.NotFoundError so store/filesystem drift is
// distinguishable from an unknown id.
type BlobStore interface {
	Save(ctx context.Context, kind, originalName string, r io.Reader) (path string, size int64, err error)
	Open(path string) (io.ReadCloser, error)
}

// IngestEvent is the payload handed to the downstream classification and
// routing system after a successful intake.
type IngestEvent struct {
	Protocolo        string `json:"protocolo"`
	Assunto          string `json:"assunto"`
	Conteudo         string `json:"conteudo"`
	Anonimo          bool   `json:"anonimo"`
	PossuiAudio      bool   `json:"possuiAudio"`
	QuantidadeAnexos int    `json:"quantidadeAnexos"`
}

// Dispatcher forwards ingested manifestations downstream.
type Dispatcher interface {
	Dispatch(ctx context.Context, event IngestEvent) error
}

// Notifier publishes status events to realtime tracking subscribers.
type Notifier interface {
	Publish(ctx context.Context, event ouvidoria.Event) error
}
