package stt

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shatolabs/shato/internal/httpc"
)

// Client talks to the SHATO STT service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates an STT service client.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}
	if timeout <= 0 {
		timeout = httpc.DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httpc.NewClient(timeout),
	}, nil
}

// Start begins a recording session.
func (c *Client) Start(ctx context.Context) error {
	resp, err := c.post(ctx, "/start")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

type stopResponse struct {
	Status        string `json:"status"`
	Transcription string `json:"transcription"`
}

// Stop ends the session and returns the transcription.
func (c *Client) Stop(ctx context.Context) (string, error) {
	resp, err := c.post(ctx, "/stop")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result stopResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("stt: decode response: %w", err)
	}
	return strings.TrimSpace(result.Transcription), nil
}

// Health checks service connectivity.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("stt: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return ErrServiceUnavailable
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Message: "health check failed"}
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("stt: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stt: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "request failed"}
	}
	return resp, nil
}

// Verify Client implements Transcriber at compile time.
var _ Transcriber = (*Client)(nil)
