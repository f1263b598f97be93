// Package speech adapts an external continuous speech-recognition capability
// into a transcript stream with spoken punctuation normalized away.
package speech

import (
	"sync"
)

// Language is the single recognition variant the portal supports.
const Language = "pt-BR"

// Result is one recognition segment. Segments arrive provisional first and
// may later be re-delivered marked final.
type Result struct {
	Transcript string
	Final      bool
}

// Engine is the injected recognition capability (the browser's native speech
// API behind a bridge, or a fake in tests). Implementations run continuously
// with interim results enabled and invoke the handler on every recognition
// update: each call carries the segments newly marked final since the last
// call, followed by all currently provisional segments.
type Engine interface {
	Start(onUpdate func(results []Result)) error
	Stop() error
}

// Transcriber accumulates final segments across updates and streams the
// normalized transcript (final buffer plus provisional tail) to the sink on
// every update. Capability detection happens once at construction: with a nil
// engine the transcriber is a permanent no-op.
type Transcriber struct {
	engine Engine
	onText func(text string)

	mu        sync.Mutex
	finalText string
}

// NewTranscriber wires the engine to the caller-supplied sink. onText is
// called repeatedly with a growing, partially-provisional string, not just
// once at the end.
func NewTranscriber(engine Engine, onText func(text string)) *Transcriber {
	return &Transcriber{engine: engine, onText: onText}
}

// Supported reports whether a recognition capability was available at
// construction time.
func (t *Transcriber) Supported() bool {
	return t.engine != nil
}

// Start resets the accumulated final text and begins recognition. No-op when
// the capability is absent.
func (t *Transcriber) Start() error {
	if t.engine == nil {
		return nil
	}
	t.mu.Lock()
	t.finalText = ""
	t.mu.Unlock()
	return t.engine.Start(t.handleUpdate)
}

// Stop ends the recognition session. No-op when the capability is absent.
func (t *Transcriber) Stop() error {
	if t.engine == nil {
		return nil
	}
	return t.engine.Stop()
}

func (t *Transcriber) handleUpdate(results []Result) {
	t.mu.Lock()
	interim := ""
	for _, r := range results {
		if r.Final {
			t.finalText += r.Transcript + " "
		} else {
			interim += r.Transcript
		}
	}
	text := Normalize(t.finalText + interim)
	t.mu.Unlock()

	t.onText(text)
}
