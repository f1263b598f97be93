package repository

import (
	"context"
	"encoding/json"

	"github.com/bradfitz/gomemcache/memcache"
	"gorm.io/gorm"

	"github.com/participa-df/ouvidoria/internal/domain"
	"github.com/participa-df/ouvidoria/internal/infra/database/models"
)

const anexoCacheTTL = 600 // seconds; anexo metadata is immutable after intake

// cachedAnexo carries the fields the domain type hides from API output.
type cachedAnexo struct {
	ID           string `json:"id"`
	Tipo         string `json:"tipo"`
	NomeOriginal string `json:"nomeOriginal"`
	Caminho      string `json:"caminho"`
	Tamanho      int64  `json:"tamanho"`
}

type AnexoRepository struct {
	db *gorm.DB
	mc *memcache.Client
}

// NewAnexoRepository builds the metadata lookup. mc may be nil to disable
// caching.
func NewAnexoRepository(db *gorm.DB, mc *memcache.Client) *AnexoRepository {
	return &AnexoRepository{db: db, mc: mc}
}

func (r *AnexoRepository) Get(ctx context.Context, id string) (domain.Anexo, error) {
	if r.mc != nil {
		if item, err := r.mc.Get(anexoCacheKey(id)); err == nil {
			var cached cachedAnexo
			if err := json.Unmarshal(item.Value, &cached); err == nil {
				return domain.Anexo{
					ID:           cached.ID,
					Tipo:         cached.Tipo,
					NomeOriginal: cached.NomeOriginal,
					StoragePath:  cached.Caminho,
					SizeBytes:    cached.Tamanho,
				}, nil
			}
		}
	}

	var record models.Anexo
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&record).Error
	if err != nil {
		return domain.Anexo{}, domain.NotFoundError{Resource: "anexo"}
	}

	if r.mc != nil {
		payload, err := json.Marshal(cachedAnexo{
			ID:           record.ID,
			Tipo:         record.Tipo,
			NomeOriginal: record.NomeOriginal,
			Caminho:      record.Caminho,
			Tamanho:      record.Tamanho,
		})
		if err == nil {
			r.mc.Set(&memcache.Item{
				Key:        anexoCacheKey(id),
				Value:      payload,
				Expiration: anexoCacheTTL,
			})
		}
	}

	return domain.Anexo{
		ID:           record.ID,
		Tipo:         record.Tipo,
		NomeOriginal: record.NomeOriginal,
		StoragePath:  record.Caminho,
		SizeBytes:    record.Tamanho,
	}, nil
}

func anexoCacheKey(id string) string {
	return "anexo:" + id
}
