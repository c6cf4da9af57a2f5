package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shatolabs/shato/pkg/command"
	"github.com/shatolabs/shato/pkg/llm"
	"github.com/shatolabs/shato/pkg/validate"
)

func newLoop(svc llm.Service, opts ...LoopOption) *Loop {
	v := validate.New(command.NewSchema(command.DefaultBounds, nil))
	return NewLoop(svc, v, opts...)
}

const (
	validMove   = `{"response": "On my way", "command": "move_to", "command_params": {"x": 5, "y": 7}}`
	invalidSpin = `{"response": "Spinning", "command": "rotate", "command_params": {"angle": 400, "direction": "clockwise"}}`
	validSpin   = `{"response": "Spinning", "command": "rotate", "command_params": {"angle": 40, "direction": "clockwise"}}`
	chatReply   = `{"response": "I can't fly, sorry!", "command": null, "command_params": null}`
)

func TestLoopFirstAttemptSuccess(t *testing.T) {
	mock := llm.Scripted(validMove)
	outcome, err := newLoop(mock).Run(context.Background(), "test-1", "Go to coordinates 5, 7")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if outcome.Status != StatusCommand {
		t.Fatalf("expected StatusCommand, got %v", outcome.Status)
	}
	if outcome.Command.Kind() != command.KindMoveTo {
		t.Errorf("expected move_to, got %s", outcome.Command.Kind())
	}
	if outcome.Reply != "On my way" {
		t.Errorf("unexpected reply: %q", outcome.Reply)
	}
	if mock.CallCount() != 1 {
		t.Errorf("expected 1 model call, got %d", mock.CallCount())
	}
	if len(outcome.Attempts) != 1 {
		t.Errorf("expected 1 attempt recorded, got %d", len(outcome.Attempts))
	}
}

// An utterance classified NotACommand must never trigger a retry.
func TestLoopNoCommandNoRetry(t *testing.T) {
	mock := llm.Scripted(chatReply)
	outcome, err := newLoop(mock).Run(context.Background(), "test-2", "Fly to the moon")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if outcome.Status != StatusNoCommand {
		t.Fatalf("expected StatusNoCommand, got %v", outcome.Status)
	}
	if _, ok := outcome.Command.(command.None); !ok {
		t.Errorf("expected None command, got %T", outcome.Command)
	}
	if mock.CallCount() != 1 {
		t.Errorf("no-command must not retry: got %d calls", mock.CallCount())
	}
}

func TestLoopRetryWithFeedback(t *testing.T) {
	mock := llm.Scripted(invalidSpin, validSpin)
	outcome, err := newLoop(mock).Run(context.Background(), "test-3", "Spin around 400 degrees")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if outcome.Status != StatusCommand {
		t.Fatalf("expected StatusCommand after retry, got %v", outcome.Status)
	}

	calls := mock.Calls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 model calls, got %d", len(calls))
	}
	if calls[0].RetryContext != "" {
		t.Error("first attempt must not carry retry context")
	}
	if !strings.Contains(calls[1].RetryContext, "angle must be in (0, 360]") {
		t.Errorf("retry context should carry the angle reason, got %q", calls[1].RetryContext)
	}
	if calls[1].UserInput != "Spin around 400 degrees" {
		t.Errorf("retry must resend the original input, got %q", calls[1].UserInput)
	}

	if outcome.Attempts[0].Feedback == "" {
		t.Error("first attempt should record the feedback it produced")
	}
	if outcome.Attempts[1].Feedback != "" {
		t.Error("terminal attempt should carry no feedback")
	}
}

// A model that never produces a valid command consumes exactly the
// attempt budget, then exhausts.
func TestLoopRetryBound(t *testing.T) {
	for _, budget := range []int{1, 2, 4} {
		mock := llm.Scripted(invalidSpin)
		outcome, err := newLoop(mock, WithMaxAttempts(budget)).Run(context.Background(), "test-4", "Spin")
		if err != nil {
			t.Fatalf("budget %d: Run failed: %v", budget, err)
		}
		if outcome.Status != StatusExhausted {
			t.Errorf("budget %d: expected StatusExhausted, got %v", budget, outcome.Status)
		}
		if mock.CallCount() != budget {
			t.Errorf("budget %d: expected exactly %d calls, got %d", budget, budget, mock.CallCount())
		}
		if len(outcome.Attempts) != budget {
			t.Errorf("budget %d: expected %d recorded attempts, got %d", budget, budget, len(outcome.Attempts))
		}
	}
}

func TestLoopUnparseableOutputIsRetried(t *testing.T) {
	mock := llm.Scripted(`{"response": broken`, validMove)
	outcome, err := newLoop(mock).Run(context.Background(), "test-5", "Go to 5, 7")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if outcome.Status != StatusCommand {
		t.Fatalf("expected recovery after unparseable output, got %v", outcome.Status)
	}
	if mock.CallCount() != 2 {
		t.Errorf("expected 2 calls, got %d", mock.CallCount())
	}
}

// Service failures are infrastructure errors: propagated immediately,
// never absorbed into the retry budget.
func TestLoopServiceErrorPropagates(t *testing.T) {
	boom := errors.New("connection refused")
	mock := llm.Failing(boom)

	outcome, err := newLoop(mock).Run(context.Background(), "test-6", "Go to 5, 7")
	if err == nil {
		t.Fatal("expected an error")
	}
	if outcome != nil {
		t.Error("no outcome should accompany an infrastructure error")
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped service error, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("infrastructure errors must not be retried: got %d calls", mock.CallCount())
	}
}

func TestLoopCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock := llm.Scripted(invalidSpin)
	_, err := newLoop(mock).Run(ctx, "test-7", "Spin")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if mock.CallCount() != 0 {
		t.Errorf("cancelled context must not reach the model: got %d calls", mock.CallCount())
	}
}
