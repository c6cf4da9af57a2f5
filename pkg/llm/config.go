package llm

import (
	"log/slog"
	"time"
)

// Config holds client configuration.
type Config struct {
	// BaseURL is the language-model service URL,
	// e.g. "http://llm-service:8002".
	BaseURL string

	// Timeout bounds a single generation round trip. Generation is the
	// slowest hop in the pipeline, so this is generous by default.
	Timeout time.Duration

	// Logger is the structured logger for request-level logging.
	Logger *slog.Logger
}

// Option is a functional option for configuring the client.
type Option func(*Config)

// WithBaseURL sets the service base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns sensible defaults for the bundled llm-service.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "http://llm-service:8002",
		Timeout: 120 * time.Second,
		Logger:  slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}
