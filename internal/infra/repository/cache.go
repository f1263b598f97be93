package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/participa-df/ouvidoria/internal/domain"
	"github.com/participa-df/ouvidoria/internal/usecase"
)

const manifestationCacheTTL = 5 * time.Minute

// CachedManifestationRepository is a redis read-through decorator over the
// detail read path. Cached entries are the display view; blob storage paths
// stay out of the cache and are resolved through AnexoRepository instead.
type CachedManifestationRepository struct {
	inner usecase.ManifestationRepository
	rdb   *redis.Client
}

func NewCachedManifestationRepository(inner usecase.ManifestationRepository, rdb *redis.Client) *CachedManifestationRepository {
	return &CachedManifestationRepository{inner: inner, rdb: rdb}
}

func (r *CachedManifestationRepository) Create(ctx context.Context, m *domain.Manifestation) error {
	if err := r.inner.Create(ctx, m); err != nil {
		return err
	}

	// Lookups accept either key; drop both.
	if err := r.rdb.Del(ctx, "manifestacao:"+m.ID, "manifestacao:"+m.Protocolo).Err(); err != nil {
		slog.WarnContext(
			ctx, "Manifestation cache invalidation failed",
			slog.String("error", err.Error()),
			slog.String("module", "repository"),
		)
	}

	return nil
}

func (r *CachedManifestationRepository) GetByID(ctx context.Context, id string) (domain.Manifestation, error) {
	key := "manifestacao:" + id

	cached, err := r.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var m domain.Manifestation
		if err := json.Unmarshal(cached, &m); err == nil {
			return m, nil
		}
	} else if err != redis.Nil {
		slog.WarnContext(
			ctx, "Manifestation cache read failed",
			slog.String("error", err.Error()),
			slog.String("module", "repository"),
		)
	}

	m, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return domain.Manifestation{}, err
	}

	if payload, err := json.Marshal(m); err == nil {
		if err := r.rdb.Set(ctx, key, payload, manifestationCacheTTL).Err(); err != nil {
			slog.WarnContext(
				ctx, "Manifestation cache write failed",
				slog.String("error", err.Error()),
				slog.String("module", "repository"),
			)
		}
	}

	return m, nil
}
