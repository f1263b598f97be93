// Package recorder wraps microphone acquisition and chunk assembly into a
// single in-memory audio capture.
package recorder

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/participa-df/ouvidoria/internal/domain"
)

// ErrMicrophoneUnavailable signals that the microphone could not be acquired
// (absent hardware or denied permission). The rest of the form stays usable.
var ErrMicrophoneUnavailable = errors.New("microphone unavailable")

// ErrAlreadyRecording signals a start while a session is active. Acquiring a
// second microphone session is not supported; stop first.
var ErrAlreadyRecording = errors.New("recording already in progress")

// ChunkStream delivers buffered audio chunks from an acquired microphone.
// Close releases the hardware resource and closes the Chunks channel after
// the final chunk.
type ChunkStream interface {
	Chunks() <-chan []byte
	Close() error
}

// Microphone is the injected capture capability.
type Microphone interface {
	Acquire(ctx context.Context) (ChunkStream, error)
}

// Recorder buffers chunks between Start and Stop and assembles them into one
// audio/webm capture. States: idle, recording, idle again after Stop.
type Recorder struct {
	mic        Microphone
	onRecorded func(domain.AudioCapture)

	mu        sync.Mutex
	stream    ChunkStream
	chunks    [][]byte
	startedAt time.Time
	drained   chan struct{}
}

// New builds an idle recorder. onRecorded receives the finished capture when
// Stop is called; it may be nil.
func New(mic Microphone, onRecorded func(domain.AudioCapture)) *Recorder {
	return &Recorder{mic: mic, onRecorded: onRecorded}
}

// Recording reports whether a session is active.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stream != nil
}

// Elapsed is the display value for the running session. Zero when idle; no
// effect on recorder state.
func (r *Recorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stream == nil {
		return 0
	}
	return time.Since(r.startedAt)
}

// Start acquires the microphone and begins buffering chunks.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stream != nil {
		return ErrAlreadyRecording
	}

	stream, err := r.mic.Acquire(ctx)
	if err != nil {
		return errors.Wrap(ErrMicrophoneUnavailable, err.Error())
	}

	r.stream = stream
	r.chunks = nil
	r.startedAt = time.Now()
	r.drained = make(chan struct{})

	go r.drain(stream, r.drained)

	return nil
}

func (r *Recorder) drain(stream ChunkStream, drained chan struct{}) {
	defer close(drained)
	for chunk := range stream.Chunks() {
		if len(chunk) == 0 {
			continue
		}
		r.mu.Lock()
		r.chunks = append(r.chunks, chunk)
		r.mu.Unlock()
	}
}

// Stop releases the microphone, finalizes the buffered chunks into one
// capture and emits it through the callback.
func (r *Recorder) Stop() (domain.AudioCapture, error) {
	r.mu.Lock()
	stream := r.stream
	drained := r.drained
	r.mu.Unlock()

	if stream == nil {
		return domain.AudioCapture{}, errors.New("not recording")
	}

	if err := stream.Close(); err != nil {
		return domain.AudioCapture{}, errors.Wrap(err, "failed to release microphone")
	}
	<-drained

	r.mu.Lock()
	var size int
	for _, c := range r.chunks {
		size += len(c)
	}
	buf := make([]byte, 0, size)
	for _, c := range r.chunks {
		buf = append(buf, c...)
	}
	r.stream = nil
	r.chunks = nil
	r.startedAt = time.Time{}
	r.mu.Unlock()

	capture := domain.AudioCapture{Bytes: buf, MimeType: domain.AudioMimeType}
	if r.onRecorded != nil {
		r.onRecorded(capture)
	}
	return capture, nil
}

// Close releases the microphone without producing a capture. Safe to call on
// teardown even if Stop was never reached.
func (r *Recorder) Close() error {
	r.mu.Lock()
	stream := r.stream
	drained := r.drained
	r.stream = nil
	r.chunks = nil
	r.startedAt = time.Time{}
	r.mu.Unlock()

	if stream == nil {
		return nil
	}
	err := stream.Close()
	<-drained
	return err
}
