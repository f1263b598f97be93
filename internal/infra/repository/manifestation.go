package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/participa-df/ouvidoria/internal/domain"
	"github.com/participa-df/ouvidoria/internal/infra/database/models"
)

type ManifestationRepository struct {
	db *gorm.DB
}

func NewManifestationRepository(db *gorm.DB) *ManifestationRepository {
	return &ManifestationRepository{db: db}
}

func (r *ManifestationRepository) Create(ctx context.Context, m *domain.Manifestation) error {
	record := models.Manifestacao{
		ID:            m.ID,
		Protocolo:     m.Protocolo,
		Assunto:       m.Assunto,
		Conteudo:      m.Conteudo,
		Anonimo:       m.Anonimo,
		Status:        string(m.Status),
		PossuiAudio:   m.PossuiAudio,
		AudioPath:     m.AudioPath,
		PrazoResposta: m.PrazoResposta,
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if m.Cidadao != nil {
			cidadao := models.Cidadao{
				ID:    m.Cidadao.ID,
				Nome:  m.Cidadao.Nome,
				Email: m.Cidadao.Email,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.Assignments(map[string]any{"nome": cidadao.Nome, "email": cidadao.Email}),
			}).Create(&cidadao).Error; err != nil {
				return err
			}
			record.CidadaoID = &cidadao.ID
		}

		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		for _, a := range m.Anexos {
			anexo := models.Anexo{
				ID:             a.ID,
				ManifestacaoID: record.ID,
				Tipo:           a.Tipo,
				NomeOriginal:   a.NomeOriginal,
				Caminho:        a.StoragePath,
				Tamanho:        a.SizeBytes,
			}
			if err := tx.Create(&anexo).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *ManifestationRepository) GetByID(ctx context.Context, id string) (domain.Manifestation, error) {
	var record models.Manifestacao
	err := r.db.WithContext(ctx).
		Preload("Cidadao").
		Preload("Anexos").
		Preload("Respostas").
		Where("id = ?", id).
		Take(&record).Error
	if err == nil {
		return toDomain(record), nil
	}

	// Tracking links carry the protocol, so fall back to it.
	err = r.db.WithContext(ctx).
		Preload("Cidadao").
		Preload("Anexos").
		Preload("Respostas").
		Where("protocolo = ?", id).
		Take(&record).Error
	if err == nil {
		return toDomain(record), nil
	}

	return domain.Manifestation{}, domain.NotFoundError{Resource: "manifestação"}
}

func toDomain(record models.Manifestacao) domain.Manifestation {
	m := domain.Manifestation{
		ID:            record.ID,
		Protocolo:     record.Protocolo,
		Assunto:       record.Assunto,
		Conteudo:      record.Conteudo,
		Anonimo:       record.Anonimo,
		Status:        domain.ParseStatus(record.Status),
		CreatedAt:     record.CDate,
		PrazoResposta: record.PrazoResposta,
		PossuiAudio:   record.PossuiAudio,
		AudioPath:     record.AudioPath,
		Anexos:        make([]domain.Anexo, 0, len(record.Anexos)),
	}

	if record.Cidadao != nil && !record.Anonimo {
		m.Cidadao = &domain.Cidadao{
			ID:    record.Cidadao.ID,
			Nome:  record.Cidadao.Nome,
			Email: record.Cidadao.Email,
		}
	}

	for _, a := range record.Anexos {
		m.Anexos = append(m.Anexos, domain.Anexo{
			ID:           a.ID,
			Tipo:         a.Tipo,
			NomeOriginal: a.NomeOriginal,
			StoragePath:  a.Caminho,
			SizeBytes:    a.Tamanho,
		})
	}

	for _, resp := range record.Respostas {
		m.Respostas = append(m.Respostas, domain.Resposta{
			ID:        resp.ID,
			Texto:     resp.Texto,
			Autor:     resp.Autor,
			CreatedAt: resp.CDate,
		})
	}

	return m
}
