// Package extract drives the extraction-retry loop: repeated calls to
// the language-model service, feeding validation failures back as
// corrective context, until a valid command emerges, the input is
// classified as conversational, or the attempt budget is exhausted.
//
// Retries here are reserved strictly for semantic correction. A failing
// model service is an infrastructure error and propagates immediately;
// the loop never retries transport failures.
package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shatolabs/shato/pkg/command"
	"github.com/shatolabs/shato/pkg/llm"
	"github.com/shatolabs/shato/pkg/validate"
)

// DefaultMaxAttempts is the total attempt budget per request,
// including the first attempt.
const DefaultMaxAttempts = 2

// Status is the loop's terminal state.
type Status int

const (
	// StatusCommand means a valid command was extracted.
	StatusCommand Status = iota

	// StatusNoCommand means the utterance was conversational or out of
	// capability; absence of a command is not an error.
	StatusNoCommand

	// StatusExhausted means the attempt budget was consumed without a
	// valid command emerging.
	StatusExhausted
)

func (s Status) String() string {
	switch s {
	case StatusCommand:
		return "command"
	case StatusNoCommand:
		return "no_command"
	case StatusExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Attempt records one round of the loop.
type Attempt struct {
	// RawOutput is the model's text as received.
	RawOutput string

	// Reply is the conversational text parsed from the output.
	Reply string

	// Candidate is the parsed command attempt, zero when the output
	// was unparseable.
	Candidate validate.Candidate

	// Verdict is the validator's classification.
	Verdict validate.Verdict

	// Feedback is the corrective context fed into the next attempt,
	// empty on the final one.
	Feedback string
}

// Outcome is the loop's terminal result.
type Outcome struct {
	Status Status

	// Command is set when Status is StatusCommand.
	Command command.Command

	// Reply is the model's text accompanying the terminal attempt.
	Reply string

	// Attempts is the full attempt sequence, oldest first. It is owned
	// by the request that ran the loop and discarded with it.
	Attempts []Attempt
}

// Loop runs bounded extract-validate-retry rounds against a
// language-model service. The zero attempt budget is DefaultMaxAttempts.
// A Loop is stateless across requests and safe for concurrent use.
type Loop struct {
	svc         llm.Service
	validator   *validate.Validator
	maxAttempts int
	logger      *slog.Logger
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithMaxAttempts sets the total attempt budget (minimum 1).
func WithMaxAttempts(n int) LoopOption {
	return func(l *Loop) {
		if n >= 1 {
			l.maxAttempts = n
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) LoopOption {
	return func(l *Loop) { l.logger = log }
}

// NewLoop creates an extraction loop over the given model service and
// validator.
func NewLoop(svc llm.Service, v *validate.Validator, opts ...LoopOption) *Loop {
	l := &Loop{
		svc:         svc,
		validator:   v,
		maxAttempts: DefaultMaxAttempts,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run executes the loop for one utterance. The returned error is
// non-nil only for infrastructure failures (service error, timeout,
// cancellation); validation failures are absorbed into the outcome.
func (l *Loop) Run(ctx context.Context, correlationID, userInput string) (*Outcome, error) {
	log := l.logger.With("correlation_id", correlationID)

	attempts := make([]Attempt, 0, l.maxAttempts)
	feedback := ""

	for n := 1; n <= l.maxAttempts; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := l.svc.Generate(ctx, &llm.Request{
			UserInput:     userInput,
			RetryContext:  feedback,
			CorrelationID: correlationID,
		})
		if err != nil {
			return nil, fmt.Errorf("extract: attempt %d: %w", n, err)
		}

		attempt := Attempt{RawOutput: resp.Text}
		parsed := parseCandidate(resp.Text, l.validator.Schema())
		if parsed.Err != "" {
			attempt.Verdict = validate.Verdict{
				Kind:    validate.Invalid,
				Reasons: []string{parsed.Err},
			}
		} else {
			attempt.Reply = parsed.Reply
			attempt.Candidate = parsed.Candidate
			attempt.Verdict = l.validator.Validate(parsed.Candidate)
		}

		switch attempt.Verdict.Kind {
		case validate.Valid:
			attempts = append(attempts, attempt)
			log.Info("command extracted",
				"attempt", n,
				"command", attempt.Verdict.Command.Kind())
			return &Outcome{
				Status:   StatusCommand,
				Command:  attempt.Verdict.Command,
				Reply:    attempt.Reply,
				Attempts: attempts,
			}, nil

		case validate.NotACommand:
			attempts = append(attempts, attempt)
			log.Info("no command in utterance", "attempt", n)
			return &Outcome{
				Status:   StatusNoCommand,
				Command:  command.None{},
				Reply:    attempt.Reply,
				Attempts: attempts,
			}, nil

		case validate.Invalid:
			if n < l.maxAttempts {
				feedback = BuildFeedback(attempt.Verdict.Reasons)
				attempt.Feedback = feedback
			}
			attempts = append(attempts, attempt)
			log.Info("validation failed",
				"attempt", n,
				"reasons", attempt.Verdict.Reasons,
				"retrying", n < l.maxAttempts)
		}
	}

	last := attempts[len(attempts)-1]
	return &Outcome{
		Status:   StatusExhausted,
		Reply:    last.Reply,
		Attempts: attempts,
	}, nil
}
