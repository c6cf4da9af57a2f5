package stt

import (
	"context"
	"sync"
)

// Mock implements Transcriber for testing.
type Mock struct {
	// Transcription is returned by Stop.
	Transcription string

	// Err fails every call when set.
	Err error

	mu      sync.Mutex
	started int
	stopped int
}

// Start records the call.
func (m *Mock) Start(ctx context.Context) error {
	m.mu.Lock()
	m.started++
	m.mu.Unlock()
	return m.Err
}

// Stop records the call and returns the scripted transcription.
func (m *Mock) Stop(ctx context.Context) (string, error) {
	m.mu.Lock()
	m.stopped++
	m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	return m.Transcription, nil
}

// Health returns Err.
func (m *Mock) Health(ctx context.Context) error { return m.Err }

// Sessions returns the start and stop call counts.
func (m *Mock) Sessions() (started, stopped int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started, m.stopped
}

// Verify Mock implements Transcriber at compile time.
var _ Transcriber = (*Mock)(nil)
