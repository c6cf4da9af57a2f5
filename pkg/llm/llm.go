// Package llm provides the boundary to the SHATO language-model service.
//
// The service is an opaque, non-deterministic collaborator: it takes a
// user utterance (plus optional corrective retry context) and returns
// free-form text expected to encode a command name and parameters. This
// package only moves requests and raw text across that boundary; parsing
// and validation live upstream in pkg/extract and pkg/validate.
//
// Example usage:
//
//	svc, _ := llm.NewClient(
//	    llm.WithBaseURL("http://llm-service:8002"),
//	    llm.WithTimeout(2*time.Minute),
//	)
//	defer svc.Close()
//
//	resp, _ := svc.Generate(ctx, &llm.Request{UserInput: "go to the kitchen"})
package llm

import "context"

// Service is the injectable capability the extraction loop calls
// through. Tests substitute a Mock returning scripted outputs.
type Service interface {
	// Generate produces the model's raw text output for one attempt.
	Generate(ctx context.Context, req *Request) (*Response, error)

	// Health checks service connectivity.
	Health(ctx context.Context) error

	// Close releases any resources held by the service client.
	Close() error
}

// Request is one generation request.
type Request struct {
	// UserInput is the original utterance. Required.
	UserInput string `json:"user_input"`

	// RetryContext carries corrective feedback from a failed validation
	// round. Empty on the first attempt.
	RetryContext string `json:"retry_context,omitempty"`

	// CorrelationID tags the request for end-to-end tracing.
	CorrelationID string `json:"correlation_id,omitempty"`
}

// Response is the model's raw output for one attempt.
type Response struct {
	// Text is the model output as received. The extraction layer
	// attempts a best-effort structural parse of it.
	Text string

	// LatencyMs is the round-trip time in milliseconds.
	LatencyMs int64
}
