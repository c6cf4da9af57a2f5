package stt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/start":
			w.Write([]byte(`{"status": "recording_started"}`))
		case "/stop":
			w.Write([]byte(`{"status": "recording_stopped", "transcription": " go to the kitchen "}`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client, err := NewClient(server.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	ctx := context.Background()
	if err := client.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	text, err := client.Stop(ctx)
	if err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if text != "go to the kitchen" {
		t.Errorf("expected trimmed transcription, got %q", text)
	}
}

func TestClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient("", time.Second); err != ErrNoBaseURL {
		t.Errorf("expected ErrNoBaseURL, got %v", err)
	}
}

func TestMockSessions(t *testing.T) {
	mock := &Mock{Transcription: "hello robot"}
	ctx := context.Background()

	mock.Start(ctx)
	text, err := mock.Stop(ctx)
	if err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if text != "hello robot" {
		t.Errorf("unexpected transcription: %q", text)
	}

	started, stopped := mock.Sessions()
	if started != 1 || stopped != 1 {
		t.Errorf("expected 1/1 sessions, got %d/%d", started, stopped)
	}
}
