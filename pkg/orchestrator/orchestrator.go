// Package orchestrator is the entry point for a single user utterance.
//
// It assigns a correlation ID, guards the input, drives the
// extraction-retry loop, dispatches validated commands, and maps the
// loop's terminal state to a response. Each request owns its context
// exclusively; nothing is shared between concurrent requests.
package orchestrator

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shatolabs/shato/pkg/extract"
	"github.com/shatolabs/shato/pkg/tts"
	"github.com/shatolabs/shato/pkg/validate"
)

// Fallback reply texts. The model normally supplies its own phrasing;
// these cover outputs that carried a command but no reply text, and the
// exhausted terminal state.
const (
	defaultChatReply    = "I'm ready to help with robot commands!"
	defaultConfirmReply = "Command received."
	exhaustedReply      = "Sorry, I couldn't turn that into a valid robot command. Could you rephrase it?"
)

// IDGenerator produces correlation IDs. Injected at construction so
// requests stay independently testable.
type IDGenerator func() string

// ShortID is the default generator: the first 8 characters of a random
// UUID, matching the tracing format used across the SHATO services.
func ShortID() string {
	return uuid.NewString()[:8]
}

// Event is one step of a request's lifecycle, published to observers
// (the dashboard activity feed).
type Event struct {
	Time          time.Time `json:"time"`
	CorrelationID string    `json:"correlation_id"`
	Stage         string    `json:"stage"`
	Detail        string    `json:"detail,omitempty"`
}

// RequestContext carries the per-request state for one end-to-end
// interaction. It is created at request entry, owned exclusively by
// that request, and discarded once the response is returned.
type RequestContext struct {
	CorrelationID string
	UserInput     string
	StartedAt     time.Time

	// Outcome holds the extraction loop's terminal result, including
	// the attempt sequence.
	Outcome *extract.Outcome
}

// Result is the response shape returned to the caller.
type Result struct {
	CorrelationID string `json:"correlation_id"`

	// Response is the human-readable reply.
	Response string `json:"response"`

	// Command is the validated command name, empty when the utterance
	// was conversational.
	Command string `json:"command,omitempty"`

	// CommandParams is the wire parameter map for the command.
	CommandParams map[string]any `json:"command_params,omitempty"`

	// ValidationMessage reports the dispatch outcome for commands.
	ValidationMessage string `json:"validation_result,omitempty"`

	// Exhausted is the internal diagnostic marker distinguishing a
	// failed extraction from ordinary conversation.
	Exhausted bool `json:"-"`

	// Audio is the synthesized spoken reply, when TTS is enabled.
	Audio []byte `json:"-"`

	DurationMs int64 `json:"duration_ms"`
}

// Orchestrator routes utterances through the extraction loop and maps
// terminal states to responses.
type Orchestrator struct {
	loop     *extract.Loop
	dispatch Dispatcher
	newID    IDGenerator
	speech   tts.Provider
	onEvent  func(Event)
	logger   *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithIDGenerator injects a correlation-ID generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(o *Orchestrator) { o.newID = gen }
}

// WithDispatcher injects the command consumer.
func WithDispatcher(d Dispatcher) Option {
	return func(o *Orchestrator) { o.dispatch = d }
}

// WithTTS enables spoken replies through the given provider.
func WithTTS(p tts.Provider) Option {
	return func(o *Orchestrator) { o.speech = p }
}

// WithEventObserver registers a lifecycle event callback. The callback
// must not block; it runs on the request goroutine.
func WithEventObserver(fn func(Event)) Option {
	return func(o *Orchestrator) { o.onEvent = fn }
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = log }
}

// New creates an orchestrator over the given extraction loop.
func New(loop *extract.Loop, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		loop:   loop,
		newID:  ShortID,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.dispatch == nil {
		o.dispatch = NewSimulator(o.logger)
	}
	return o
}

// Process handles one utterance end to end. It returns ErrEmptyInput
// for blank input without invoking any service, an *UpstreamError when
// a collaborator fails, and a Result otherwise — including the
// exhausted case, which is a polite reply with the diagnostic marker
// set, not an error.
func (o *Orchestrator) Process(ctx context.Context, userInput string) (*Result, error) {
	input := strings.TrimSpace(userInput)
	if input == "" {
		return nil, ErrEmptyInput
	}

	req := &RequestContext{
		CorrelationID: o.newID(),
		UserInput:     input,
		StartedAt:     time.Now(),
	}
	log := o.logger.With("correlation_id", req.CorrelationID)

	log.Info("request received", "user_input", input)
	o.publish(req, "received", input)

	outcome, err := o.loop.Run(ctx, req.CorrelationID, input)
	if err != nil {
		if ctx.Err() != nil {
			// The caller abandoned the request; nothing to surface.
			return nil, ctx.Err()
		}
		log.Error("model service failed", "error", err)
		o.publish(req, "upstream_error", err.Error())
		return nil, &UpstreamError{Service: "llm", Err: err}
	}
	req.Outcome = outcome

	for i, a := range outcome.Attempts {
		o.publish(req, "attempt", attemptDetail(i+1, a))
	}

	result, err := o.resolve(ctx, req, log)
	if err != nil {
		return nil, err
	}

	result.DurationMs = time.Since(req.StartedAt).Milliseconds()
	o.speak(ctx, req, result, log)

	log.Info("request completed",
		"status", outcome.Status.String(),
		"command", result.Command,
		"duration_ms", result.DurationMs)
	o.publish(req, "resolved", outcome.Status.String())

	return result, nil
}

// resolve maps the loop's terminal state to a Result.
func (o *Orchestrator) resolve(ctx context.Context, req *RequestContext, log *slog.Logger) (*Result, error) {
	outcome := req.Outcome
	result := &Result{CorrelationID: req.CorrelationID}

	switch outcome.Status {
	case extract.StatusCommand:
		cmd := outcome.Command
		msg, err := o.dispatch.Dispatch(ctx, req.CorrelationID, cmd)
		if err != nil {
			log.Error("dispatch failed", "command", cmd.Kind(), "error", err)
			return nil, &UpstreamError{Service: "dispatch", Err: err}
		}
		result.Response = outcome.Reply
		if result.Response == "" {
			result.Response = defaultConfirmReply
		}
		result.Command = cmd.Kind()
		result.CommandParams = cmd.Params()
		result.ValidationMessage = msg

	case extract.StatusNoCommand:
		result.Response = outcome.Reply
		if result.Response == "" {
			result.Response = defaultChatReply
		}

	case extract.StatusExhausted:
		last := outcome.Attempts[len(outcome.Attempts)-1]
		log.Warn("extraction exhausted",
			"attempts", len(outcome.Attempts),
			"last_reasons", last.Verdict.Reasons)
		result.Response = exhaustedReply
		result.Exhausted = true
	}

	return result, nil
}

// speak synthesizes the spoken reply when TTS is configured. Synthesis
// failure degrades to a text-only response rather than failing the
// request.
func (o *Orchestrator) speak(ctx context.Context, req *RequestContext, result *Result, log *slog.Logger) {
	if o.speech == nil || result.Response == "" {
		return
	}
	audio, err := o.speech.Synthesize(ctx, result.Response)
	if err != nil {
		log.Warn("tts synthesis failed", "error", err)
		return
	}
	result.Audio = audio.Audio
}

func (o *Orchestrator) publish(req *RequestContext, stage, detail string) {
	if o.onEvent == nil {
		return
	}
	o.onEvent(Event{
		Time:          time.Now(),
		CorrelationID: req.CorrelationID,
		Stage:         stage,
		Detail:        detail,
	})
}

func attemptDetail(n int, a extract.Attempt) string {
	prefix := "attempt " + strconv.Itoa(n)
	switch a.Verdict.Kind {
	case validate.Valid:
		return prefix + ": valid " + a.Verdict.Command.Kind()
	case validate.NotACommand:
		return prefix + ": conversational"
	default:
		return prefix + ": invalid (" + strings.Join(a.Verdict.Reasons, "; ") + ")"
	}
}
