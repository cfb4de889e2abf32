// Package speech defines the narrow contract between the assistant and the
// host's capture/playback engines, and guards against overlapping capture
// sessions.
package speech

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/semaphore"
)

// Recognizer converts one spoken utterance into text. Implementations are
// host-provided; the assistant only consumes the transcript.
type Recognizer interface {
	// Listen blocks until one utterance has been captured or ctx is done.
	Listen(ctx context.Context) (string, error)
}

// Speaker voices a reply.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Session serializes capture: at most one Listen runs at a time. Starting
// while a capture is active is a warning no-op; a new capture is possible
// only after the previous one has fully ended.
type Session struct {
	rec    Recognizer
	sem    *semaphore.Weighted
	logger *slog.Logger
}

// NewSession wraps a recognizer with the single-capture guard.
func NewSession(rec Recognizer, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		rec:    rec,
		sem:    semaphore.NewWeighted(1),
		logger: logger,
	}
}

// Listen captures one utterance. The second concurrent call returns
// (started=false) without touching the recognizer.
func (s *Session) Listen(ctx context.Context) (text string, started bool, err error) {
	if !s.sem.TryAcquire(1) {
		s.logger.Warn("speech capture already active, ignoring start")
		return "", false, nil
	}
	defer s.sem.Release(1)

	text, err = s.rec.Listen(ctx)
	return text, true, err
}

// Active reports whether a capture is currently running.
func (s *Session) Active() bool {
	if s.sem.TryAcquire(1) {
		s.sem.Release(1)
		return false
	}
	return true
}

// NopSpeaker discards all speech. Used when voice replies are disabled.
type NopSpeaker struct{}

// Speak implements Speaker.
func (NopSpeaker) Speak(context.Context, string) error { return nil }

// WriterSpeaker prints speech lines to a writer. The REPL uses it so spoken
// replies stay visible on hosts without a TTS engine.
type WriterSpeaker struct {
	W io.Writer
}

// Speak implements Speaker.
func (s WriterSpeaker) Speak(_ context.Context, text string) error {
	if text == "" {
		return nil
	}
	_, err := fmt.Fprintf(s.W, "🔊 %s\n", text)
	return err
}
