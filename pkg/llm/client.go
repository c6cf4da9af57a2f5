package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shatolabs/shato/internal/httpc"
)

const providerClient = "client"

// Client talks to the SHATO llm-service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a language-model service client.
func NewClient(opts ...Option) (*Client, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if cfg.BaseURL == "" {
		return nil, ErrNoBaseURL
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		http:    httpc.NewClient(cfg.Timeout),
		logger:  cfg.Logger.With("component", "llm.client"),
	}, nil
}

// Generate asks the model service for a response to one attempt.
// The returned text is handed to the extraction layer unparsed.
func (c *Client) Generate(ctx context.Context, req *Request) (*Response, error) {
	if strings.TrimSpace(req.UserInput) == "" {
		return nil, ErrEmptyInput
	}

	start := time.Now()

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, WrapError(providerClient, fmt.Errorf("encode request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/generate_response", bytes.NewReader(payload))
	if err != nil {
		return nil, WrapError(providerClient, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if req.CorrelationID != "" {
		httpReq.Header.Set("X-Correlation-ID", req.CorrelationID)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, WrapError(providerClient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, WrapError(providerClient, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, WrapError(providerClient, &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		})
	}

	latency := time.Since(start).Milliseconds()
	c.logger.Debug("generation complete",
		"correlation_id", req.CorrelationID,
		"retry", req.RetryContext != "",
		"latency_ms", latency)

	return &Response{
		Text:      string(body),
		LatencyMs: latency,
	}, nil
}

// Health checks service connectivity.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return WrapError(providerClient, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return WrapError(providerClient, ErrServiceUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return WrapError(providerClient, &APIError{StatusCode: resp.StatusCode, Message: "health check failed"})
	}
	return nil
}

// Close releases client resources.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// Verify Client implements Service at compile time.
var _ Service = (*Client)(nil)
