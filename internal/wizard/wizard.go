// Package wizard owns the in-progress manifestation draft across the ordered
// submission steps and enforces the transition rules between them.
package wizard

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/participa-df/ouvidoria/internal/domain"
	"github.com/participa-df/ouvidoria/internal/upload"
)

// Step is a wizard position. Step 1 (identification) belongs to the external
// identity flow, so the numbering starts at 2 as in the portal UI.
type Step int

const (
	StepDados     Step = 2
	StepAnexos    Step = 3
	StepRevisao   Step = 4
	StepConcluido Step = 5
)

// DictationTarget is the single field currently receiving live
// speech-to-text output.
type DictationTarget int

const (
	DictationNone DictationTarget = iota
	DictationAssunto
	DictationConteudo
)

// Dictator is the narrow command interface over the speech adapter. The
// wizard never owns its internal state.
type Dictator interface {
	Start() error
	Stop() error
}

// Submitter hands a completed draft to the ingestion endpoint and returns
// the assigned protocol.
type Submitter interface {
	Submit(ctx context.Context, draft domain.Draft) (protocolo string, err error)
}

// ErrNotAtReview rejects a submit issued outside the review step.
var ErrNotAtReview = errors.New("submission only allowed from the review step")

// ErrEmptyDraft blocks submission of a wholly empty draft. Any single
// non-empty field permits submission; this leniency is deliberate.
var ErrEmptyDraft = errors.New("nothing to submit")

// Wizard is the client-side submission state machine. One instance per
// session; at most one ingestion request in flight.
type Wizard struct {
	submitter Submitter
	dict      Dictator

	mu        sync.Mutex
	step      Step
	draft     domain.Draft
	active    DictationTarget
	inFlight  bool
	protocolo string
}

// New mounts the wizard on the data step with an empty draft. dict may be
// nil when the host lacks the recognition capability; dictation then stays
// unavailable while the rest of the form works.
func New(submitter Submitter, dict Dictator) *Wizard {
	return &Wizard{submitter: submitter, dict: dict, step: StepDados}
}

// Step returns the current wizard position.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Draft returns a snapshot of the in-progress draft.
func (w *Wizard) Draft() domain.Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// Protocolo returns the protocol of the last successful submission, shown on
// the terminal confirmation view.
func (w *Wizard) Protocolo() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.protocolo
}

// Next advances Dados→Anexos→Revisao. Unconditional: no field is mandatory
// to advance. Past Revisao only Submit moves forward.
func (w *Wizard) Next() {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.step {
	case StepDados:
		w.step = StepAnexos
	case StepAnexos:
		w.step = StepRevisao
	}
}

// Back retreats Revisao→Anexos→Dados. All collected fields are preserved.
func (w *Wizard) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.step {
	case StepRevisao:
		w.step = StepAnexos
	case StepAnexos:
		w.step = StepDados
	}
}

// SetAssunto replaces the draft subject.
func (w *Wizard) SetAssunto(s string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Assunto = s
}

// SetConteudo replaces the draft body.
func (w *Wizard) SetConteudo(s string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Conteudo = s
}

// SetAnonimo toggles the anonymity flag.
func (w *Wizard) SetAnonimo(v bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Anonimo = v
}

// SetLocalizacao attaches an optional geographic reference.
func (w *Wizard) SetLocalizacao(l *domain.LatLng) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Localizacao = l
}

// AddAnexos validates each candidate and appends the accepted ones to the
// draft in order. One bad file does not block the others; the rejections come
// back for the UI to surface.
func (w *Wizard) AddAnexos(files []domain.FileRef) []error {
	var rejected []error
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, f := range files {
		if err := upload.Validate(f.Name, f.MediaType, f.SizeBytes); err != nil {
			rejected = append(rejected, err)
			continue
		}
		w.draft.Anexos = append(w.draft.Anexos, f)
	}
	return rejected
}

// RemoveAnexo drops the attachment at the given position. Out-of-range
// positions are ignored.
func (w *Wizard) RemoveAnexo(i int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i < 0 || i >= len(w.draft.Anexos) {
		return
	}
	w.draft.Anexos = append(w.draft.Anexos[:i], w.draft.Anexos[i+1:]...)
}

// SetAudio replaces the recorded audio, discarding any previous capture.
func (w *Wizard) SetAudio(c domain.AudioCapture) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Audio = &c
}

// DiscardAudio clears the recorded audio without replacement.
func (w *Wizard) DiscardAudio() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Audio = nil
}

// StartDictation makes target the active dictation field. Starting dictation
// on one field while the other is mid-dictation stops the first; only one
// field receives speech output at a time.
func (w *Wizard) StartDictation(target DictationTarget) error {
	w.mu.Lock()
	prev := w.active
	w.active = target
	w.mu.Unlock()

	if w.dict == nil || target == DictationNone {
		return nil
	}
	if prev != DictationNone && prev != target {
		if err := w.dict.Stop(); err != nil {
			return errors.Wrap(err, "failed to stop previous dictation")
		}
	}
	return w.dict.Start()
}

// StopDictation ends the active dictation session, if any.
func (w *Wizard) StopDictation() error {
	w.mu.Lock()
	active := w.active
	w.active = DictationNone
	w.mu.Unlock()

	if w.dict == nil || active == DictationNone {
		return nil
	}
	return w.dict.Stop()
}

// ActiveDictation returns the field currently receiving speech output.
func (w *Wizard) ActiveDictation() DictationTarget {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// HandleTranscript routes a transcript update into the active dictation
// field. Updates arriving with no active field are dropped.
func (w *Wizard) HandleTranscript(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.active {
	case DictationAssunto:
		w.draft.Assunto = text
	case DictationConteudo:
		w.draft.Conteudo = text
	}
}

// CanSubmit reports whether the submit control is enabled: at the review
// step, no request in flight, and at least one field filled in.
func (w *Wizard) CanSubmit() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step == StepRevisao && !w.inFlight && !w.draft.Empty()
}

// Submit hands the draft to the ingestion endpoint. Re-entrant calls while a
// request is pending are ignored. On success the draft is atomically replaced
// with an empty one and the wizard parks on the terminal confirmation view;
// on failure the draft is preserved so the user can retry.
func (w *Wizard) Submit(ctx context.Context) (string, error) {
	w.mu.Lock()
	if w.step != StepRevisao {
		w.mu.Unlock()
		return "", ErrNotAtReview
	}
	if w.inFlight {
		w.mu.Unlock()
		return "", nil
	}
	if w.draft.Empty() {
		w.mu.Unlock()
		return "", ErrEmptyDraft
	}
	w.inFlight = true
	draft := w.draft
	w.mu.Unlock()

	protocolo, err := w.submitter.Submit(ctx, draft)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.inFlight = false
	if err != nil {
		return "", err
	}

	w.draft = domain.Draft{}
	w.active = DictationNone
	w.step = StepConcluido
	w.protocolo = protocolo
	return protocolo, nil
}

// NewSubmission leaves the confirmation view and resets to the data step
// with a fresh draft. The wizard never auto-returns there on its own.
func (w *Wizard) NewSubmission() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepConcluido {
		return
	}
	w.step = StepDados
	w.protocolo = ""
	w.draft = domain.Draft{}
}
