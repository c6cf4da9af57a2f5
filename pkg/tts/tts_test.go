package tts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientSynthesize(t *testing.T) {
	wav := []byte("RIFF fake wav bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/synthesize" {
			t.Errorf("Expected /synthesize, got %s", r.URL.Path)
		}

		var req synthesizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Text != "Heading to the bedrooms now" {
			t.Errorf("unexpected text: %q", req.Text)
		}

		json.NewEncoder(w).Encode(synthesizeResponse{
			AudioData:  base64.StdEncoding.EncodeToString(wav),
			DurationMs: 1500,
			SampleRate: 24000,
		})
	}))
	defer server.Close()

	client, err := NewClient(WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	result, err := client.Synthesize(context.Background(), "Heading to the bedrooms now")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if string(result.Audio) != string(wav) {
		t.Error("audio bytes did not round-trip")
	}
	if result.SampleRate != 24000 {
		t.Errorf("expected 24000 Hz, got %d", result.SampleRate)
	}
	if result.Duration != 1500*time.Millisecond {
		t.Errorf("unexpected duration: %s", result.Duration)
	}
}

func TestClientSynthesizeEmptyText(t *testing.T) {
	client, _ := NewClient(WithBaseURL("http://localhost:1"))
	if _, err := client.Synthesize(context.Background(), "  "); !errors.Is(err, ErrEmptyText) {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
}

func TestClientSynthesizeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, _ := NewClient(WithBaseURL(server.URL))
	_, err := client.Synthesize(context.Background(), "hello")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if !apiErr.IsServerError() {
		t.Error("503 should classify as server error")
	}
}

func TestMockRecordsTexts(t *testing.T) {
	mock := &Mock{}
	ctx := context.Background()

	if _, err := mock.Synthesize(ctx, "one"); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if _, err := mock.Synthesize(ctx, "two"); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	texts := mock.Texts()
	if len(texts) != 2 || texts[0] != "one" || texts[1] != "two" {
		t.Errorf("unexpected recorded texts: %v", texts)
	}
}
