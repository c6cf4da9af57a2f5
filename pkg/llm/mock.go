package llm

import (
	"context"
	"sync"
)

// Mock implements Service for testing.
type Mock struct {
	// GenerateFunc is called when Generate is invoked.
	GenerateFunc func(ctx context.Context, req *Request) (*Response, error)

	// HealthFunc is called when Health is invoked.
	HealthFunc func(ctx context.Context) error

	// CloseFunc is called when Close is invoked.
	CloseFunc func() error

	mu    sync.Mutex
	calls []*Request
}

// Generate calls GenerateFunc and records the request.
func (m *Mock) Generate(ctx context.Context, req *Request) (*Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return &Response{Text: `{"response": "ok", "command": null, "command_params": null}`}, nil
}

// Health calls HealthFunc.
func (m *Mock) Health(ctx context.Context) error {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// Close calls CloseFunc.
func (m *Mock) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Calls returns the recorded Generate requests in order.
func (m *Mock) Calls() []*Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Request, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of Generate invocations.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Reset clears recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Scripted returns a mock that yields the given raw outputs in order,
// one per Generate call, repeating the last one if attempts exceed the
// script. Useful for driving the retry loop deterministically.
func Scripted(outputs ...string) *Mock {
	i := 0
	return &Mock{
		GenerateFunc: func(ctx context.Context, req *Request) (*Response, error) {
			out := outputs[len(outputs)-1]
			if i < len(outputs) {
				out = outputs[i]
			}
			i++
			return &Response{Text: out}, nil
		},
	}
}

// Failing returns a mock whose Generate always fails with err.
func Failing(err error) *Mock {
	return &Mock{
		GenerateFunc: func(ctx context.Context, req *Request) (*Response, error) {
			return nil, err
		},
		HealthFunc: func(ctx context.Context) error {
			return err
		},
	}
}

// Verify Mock implements Service at compile time.
var _ Service = (*Mock)(nil)
