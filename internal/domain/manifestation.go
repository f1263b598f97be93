package domain

import "time"

// Status is the lifecycle state of a stored manifestation. Transitions are
// made by the external case-management process, never by this service.
type Status string

const (
	StatusRecebido  Status = "recebido"
	StatusEmAnalise Status = "em_analise"
	StatusConcluido Status = "concluido"
)

// ParseStatus maps a stored string onto a known Status, defaulting to
// StatusRecebido for anything unrecognized.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusEmAnalise:
		return StatusEmAnalise
	case StatusConcluido:
		return StatusConcluido
	default:
		return StatusRecebido
	}
}

// Cidadao identifies the author of a non-anonymous manifestation.
type Cidadao struct {
	ID    string `json:"id,omitempty"`
	Nome  string `json:"nome"`
	Email string `json:"email"`
}

// Anexo is the metadata record of a stored attachment. The bytes themselves
// live in the blob store under StoragePath.
type Anexo struct {
	ID           string `json:"id"`
	Tipo         string `json:"tipo"`
	NomeOriginal string `json:"nomeOriginal"`
	StoragePath  string `json:"-"`
	SizeBytes    int64  `json:"-"`
}

// Resposta is one entry of the response thread appended by case management.
type Resposta struct {
	ID        string    `json:"id"`
	Texto     string    `json:"texto"`
	Autor     string    `json:"autor"`
	CreatedAt time.Time `json:"createdAt"`
}

// Manifestation is a citizen-submitted record. Immutable after creation
// except for status changes and response appends, both owned by the external
// case-management process.
type Manifestation struct {
	ID            string     `json:"id"`
	Protocolo     string     `json:"protocolo"`
	Assunto       string     `json:"assunto"`
	Conteudo      string     `json:"conteudo"`
	Anonimo       bool       `json:"anonimo"`
	Status        Status     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	PrazoResposta *time.Time `json:"prazoResposta,omitempty"`
	Cidadao       *Cidadao   `json:"cidadao,omitempty"`
	Anexos        []Anexo    `json:"anexos"`
	Respostas     []Resposta `json:"respostas,omitempty"`
	PossuiAudio   bool       `json:"possuiAudio"`
	AudioPath     string     `json:"-"`
}
