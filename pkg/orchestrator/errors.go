package orchestrator

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is the client-input error for a missing utterance. It
// is surfaced immediately; the model service is never invoked.
var ErrEmptyInput = errors.New("orchestrator: user_input is required")

// UpstreamError marks a failure of an external collaborator (the
// language-model, TTS, or STT service). It is never disguised as a
// conversational reply and is never retried by the extraction loop.
type UpstreamError struct {
	// Service names the failing collaborator ("llm", "tts", "stt").
	Service string
	Err     error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("orchestrator: %s service failed: %v", e.Service, e.Err)
}

// Unwrap returns the underlying error.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}
