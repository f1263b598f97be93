package models

import (
	"time"
)

type Cidadao struct {
	ID    string `json:"id" gorm:"primaryKey;type:text"`
	Nome  string `json:"nome" gorm:"type:text;not null"`
	Email string `json:"email" gorm:"type:text;index"`
}

type Manifestacao struct {
	ID            string     `json:"id" gorm:"primaryKey;type:text"`
	Protocolo     string     `json:"protocolo" gorm:"type:text;index:manifestacao_protocolo,unique"`
	Assunto       string     `json:"assunto" gorm:"type:text"`
	Conteudo      string     `json:"conteudo" gorm:"type:text"`
	Anonimo       bool       `json:"anonimo" gorm:"type:boolean;not null;default:false"`
	Status        string     `json:"status" gorm:"type:text;not null;default:'recebido';index"`
	PossuiAudio   bool       `json:"possuiAudio" gorm:"type:boolean;not null;default:false"`
	AudioPath     string     `json:"-" gorm:"type:text"`
	PrazoResposta *time.Time `json:"prazoResposta" gorm:"type:timestamp with time zone"`
	CidadaoID     *string    `json:"-" gorm:"type:text;index"`
	Cidadao       *Cidadao   `json:"cidadao" gorm:"foreignKey:CidadaoID"`
	Anexos        []Anexo    `json:"anexos" gorm:"foreignKey:ManifestacaoID;constraint:OnDelete:CASCADE;"`
	Respostas     []Resposta `json:"respostas" gorm:"foreignKey:ManifestacaoID;constraint:OnDelete:CASCADE;"`
	CDate         time.Time  `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Anexo struct {
	ID             string    `json:"id" gorm:"primaryKey;type:text"`
	ManifestacaoID string    `json:"manifestacaoID" gorm:"type:text;index;not null"`
	Tipo           string    `json:"tipo" gorm:"type:text"`
	NomeOriginal   string    `json:"nomeOriginal" gorm:"type:text"`
	Caminho        string    `json:"-" gorm:"type:text;not null"`
	Tamanho        int64     `json:"tamanho" gorm:"type:bigint;not null;default:0"`
	CDate          time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Resposta struct {
	ID             string    `json:"id" gorm:"primaryKey;type:text"`
	ManifestacaoID string    `json:"manifestacaoID" gorm:"type:text;index;not null"`
	Texto          string    `json:"texto" gorm:"type:text"`
	Autor          string    `json:"autor" gorm:"type:text"`
	CDate          time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}
