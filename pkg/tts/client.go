package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shatolabs/shato/internal/httpc"
)

// Config holds client configuration.
type Config struct {
	// BaseURL is the TTS service URL, e.g. "http://tts-service:8003".
	BaseURL string

	// VoiceDescription overrides the service's default voice, when set.
	VoiceDescription string

	// Timeout bounds a synthesis round trip.
	Timeout time.Duration

	// Logger is the structured logger.
	Logger *slog.Logger
}

// Option is a functional option for configuring the client.
type Option func(*Config)

// WithBaseURL sets the service base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithVoiceDescription sets a custom voice description.
func WithVoiceDescription(desc string) Option {
	return func(c *Config) { c.VoiceDescription = desc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns sensible defaults for the bundled TTS service.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "http://tts-service:8003",
		Timeout: 60 * time.Second,
		Logger:  slog.Default(),
	}
}

// Client talks to the SHATO TTS service over HTTP.
type Client struct {
	baseURL string
	voice   string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a TTS service client.
func NewClient(opts ...Option) (*Client, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.BaseURL == "" {
		return nil, ErrNoBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		voice:   cfg.VoiceDescription,
		http:    httpc.NewClient(cfg.Timeout),
		logger:  cfg.Logger.With("component", "tts.client"),
	}, nil
}

type synthesizeRequest struct {
	Text             string `json:"text"`
	CorrelationID    string `json:"correlation_id,omitempty"`
	VoiceDescription string `json:"voice_description,omitempty"`
}

type synthesizeResponse struct {
	AudioData  string `json:"audio_data"`
	DurationMs int64  `json:"duration_ms"`
	SampleRate int    `json:"sample_rate"`
}

// Synthesize converts text to WAV audio via the service.
func (c *Client) Synthesize(ctx context.Context, text string) (*AudioResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	start := time.Now()

	payload, err := json.Marshal(synthesizeRequest{
		Text:             text,
		VoiceDescription: c.voice,
	})
	if err != nil {
		return nil, fmt.Errorf("tts: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/synthesize", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("tts: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "synthesis failed"}
	}

	var result synthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("tts: decode response: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(result.AudioData)
	if err != nil {
		return nil, fmt.Errorf("tts: decode audio: %w", err)
	}

	latency := time.Since(start).Milliseconds()
	c.logger.Debug("synthesis complete",
		"chars", len(text),
		"duration_ms", result.DurationMs,
		"latency_ms", latency)

	return &AudioResult{
		Audio:      audio,
		SampleRate: result.SampleRate,
		Duration:   time.Duration(result.DurationMs) * time.Millisecond,
		LatencyMs:  latency,
	}, nil
}

// Health checks service connectivity.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("tts: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return ErrServiceUnavailable
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Message: "health check failed"}
	}
	return nil
}

// Close releases client resources.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// Verify Client implements Provider at compile time.
var _ Provider = (*Client)(nil)
