package usecase

import (
	"context"
	"io"

	"github.com/participa-df/ouvidoria/internal/domain"
)

type AnexoUsecase struct {
	repo  AnexoRepository
	store BlobStore
}

func NewAnexoUsecase(repo AnexoRepository, store BlobStore) *AnexoUsecase {
	return &AnexoUsecase{repo: repo, store: store}
}

// GetStream resolves a stored attachment to a byte stream plus its metadata
// record. An unknown id and a metadata record whose file is missing on disk
// report distinct not-found causes. The caller pipes and closes the stream.
func (uc *AnexoUsecase) GetStream(ctx context.Context, id string) (io.ReadCloser, domain.Anexo, error) {
	anexo, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, domain.Anexo{}, err
	}

	stream, err := uc.store.Open(anexo.StoragePath)
	if err != nil {
		return nil, domain.Anexo{}, err
	}

	return stream, anexo, nil
}
