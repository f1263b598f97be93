package ouvidoria

import (
	"time"
)

// StatusRecebido is the status every manifestation is created with.
const StatusRecebido = "recebido"

// Issue describes a single failing field of a rejected submission.
type Issue struct {
	Campo    string `json:"campo"`
	Mensagem string `json:"mensagem"`
}

// ErrorResponse is the error envelope returned by the API.
type ErrorResponse struct {
	Erro     string  `json:"erro"`
	Detalhes []Issue `json:"detalhes,omitempty"`
}

// ManifestacaoEcho echoes the validated fields of an accepted submission
// back to the caller, plus flags derived from the file parts.
type ManifestacaoEcho struct {
	Assunto          string `json:"assunto"`
	Conteudo         string `json:"conteudo"`
	Anonimo          bool   `json:"anonimo"`
	PossuiAudio      bool   `json:"possuiAudio"`
	QuantidadeAnexos int    `json:"quantidadeAnexos"`
}

// SubmitResponse is the created-resource acknowledgment of the ingestion
// endpoint.
type SubmitResponse struct {
	Protocolo    string           `json:"protocolo"`
	Status       string           `json:"status"`
	Manifestacao ManifestacaoEcho `json:"manifestacao"`
}

// AnexoDetail is an attachment entry on the tracking read.
type AnexoDetail struct {
	ID           string `json:"id"`
	Tipo         string `json:"tipo"`
	NomeOriginal string `json:"nomeOriginal"`
}

// CidadaoDetail identifies the citizen behind a non-anonymous manifestation.
type CidadaoDetail struct {
	Nome  string `json:"nome"`
	Email string `json:"email"`
}

// RespostaDetail is one entry of the response thread appended by the
// case-management process.
type RespostaDetail struct {
	ID        string    `json:"id"`
	Texto     string    `json:"texto"`
	Autor     string    `json:"autor"`
	CreatedAt time.Time `json:"createdAt"`
}

// ManifestacaoDetail is the tracking-page view of a stored manifestation.
type ManifestacaoDetail struct {
	ID            string           `json:"id"`
	Protocolo     string           `json:"protocolo"`
	Assunto       string           `json:"assunto"`
	Conteudo      string           `json:"conteudo"`
	Status        string           `json:"status"`
	CreatedAt     time.Time        `json:"createdAt"`
	PrazoResposta *time.Time       `json:"prazoResposta,omitempty"`
	Anexos        []AnexoDetail    `json:"anexos"`
	Cidadao       *CidadaoDetail   `json:"cidadao,omitempty"`
	Respostas     []RespostaDetail `json:"respostas,omitempty"`
}

// Event is a realtime status notification pushed to tracking subscribers.
type Event struct {
	Protocolo string    `json:"protocolo"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
