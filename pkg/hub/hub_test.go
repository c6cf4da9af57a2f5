package hub

import (
	"encoding/json"
	"testing"
	"time"
)

func TestBroadcastFanOut(t *testing.T) {
	h := New("test")
	go h.Run()
	defer h.Stop()

	c := &Client{hub: h, send: make(chan []byte, 4)}
	h.register <- c

	if err := h.BroadcastJSON(map[string]string{"stage": "received"}); err != nil {
		t.Fatalf("BroadcastJSON failed: %v", err)
	}

	select {
	case msg := <-c.send:
		var decoded map[string]string
		if err := json.Unmarshal(msg, &decoded); err != nil {
			t.Fatalf("decode broadcast: %v", err)
		}
		if decoded["stage"] != "received" {
			t.Errorf("unexpected message: %v", decoded)
		}
	case <-time.After(time.Second):
		t.Fatal("broadcast never reached the client")
	}
}

func TestStopTerminatesRun(t *testing.T) {
	h := New("test")
	stopped := make(chan struct{})
	go func() {
		h.Run()
		close(stopped)
	}()

	c := &Client{hub: h, send: make(chan []byte, 1)}
	h.register <- c

	h.Stop()
	h.Stop() // idempotent

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("hub loop did not stop")
	}

	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("expected the send channel to close on shutdown")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel not closed on shutdown")
	}

	if h.ClientCount() != 0 {
		t.Errorf("expected no clients after shutdown, got %d", h.ClientCount())
	}
}
