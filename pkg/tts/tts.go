// Package tts provides the boundary to the SHATO text-to-speech service.
//
// The service wraps Parler TTS behind an HTTP API; this package talks to
// it through the Provider interface so callers (and tests) never depend
// on a live model.
//
// Example usage:
//
//	provider, _ := tts.NewClient(tts.WithBaseURL("http://tts-service:8003"))
//	defer provider.Close()
//
//	result, _ := provider.Synthesize(ctx, "Heading to the bedrooms now")
//	// result.Audio contains WAV audio bytes
package tts

import (
	"context"
	"time"
)

// Provider defines the TTS provider interface.
type Provider interface {
	// Synthesize converts text to audio, returning the complete audio
	// buffer.
	Synthesize(ctx context.Context, text string) (*AudioResult, error)

	// Health checks provider connectivity.
	Health(ctx context.Context) error

	// Close releases any resources held by the provider.
	Close() error
}

// AudioResult represents a complete audio synthesis result.
type AudioResult struct {
	// Audio contains WAV audio bytes.
	Audio []byte

	// SampleRate in Hz as reported by the service.
	SampleRate int

	// Duration is the audio playback duration reported by the service.
	Duration time.Duration

	// LatencyMs is the synthesis round-trip time in milliseconds.
	LatencyMs int64
}
