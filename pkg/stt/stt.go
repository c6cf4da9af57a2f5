// Package stt provides the boundary to the SHATO speech-to-text service.
//
// The service records microphone audio between Start and Stop calls and
// returns a Whisper transcription on Stop. This core never touches
// audio itself; it only drives the service and consumes the text.
package stt

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrNoBaseURL is returned when the service URL is missing.
	ErrNoBaseURL = errors.New("stt: base URL required")

	// ErrServiceUnavailable is returned when the service is unreachable.
	ErrServiceUnavailable = errors.New("stt: service unavailable")
)

// Transcriber is the speech-to-text capability.
type Transcriber interface {
	// Start begins a recording session.
	Start(ctx context.Context) error

	// Stop ends the session and returns the transcription.
	Stop(ctx context.Context) (string, error)

	// Health checks service connectivity.
	Health(ctx context.Context) error
}

// APIError represents an error response from the STT service.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("stt: API error %d: %s", e.StatusCode, e.Message)
}
