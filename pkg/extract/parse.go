package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shatolabs/shato/pkg/command"
	"github.com/shatolabs/shato/pkg/validate"
)

// envelope is the structured shape the model is trained to emit.
type envelope struct {
	Response string         `json:"response"`
	Command  any            `json:"command"`
	Params   map[string]any `json:"command_params"`
}

// parseResult is the outcome of a best-effort structural parse of raw
// model output.
type parseResult struct {
	// Reply is the conversational text accompanying the output.
	Reply string

	// Candidate is the parsed command attempt. Name is empty for
	// conversational output.
	Candidate validate.Candidate

	// Err is a generic reason when the output could not be parsed at
	// all. Parse failure is a validation failure, not a crash.
	Err string
}

// parseCandidate extracts a command candidate from raw model text.
// The model normally emits a JSON envelope, but the parse tolerates
// minor format variance: code fences, prose around the JSON object, and
// word-number parameter values ("five" instead of 5). Output with no
// JSON object at all is treated as a plain conversational reply;
// output that starts an object and never closes it is a parse failure,
// not a reply.
func parseCandidate(raw string, schema *command.Schema) parseResult {
	text := stripFences(strings.TrimSpace(raw))

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 {
		// No structure at all: a bare chat reply.
		return parseResult{Reply: text}
	}
	if end <= start {
		return parseResult{Err: "output was not a parseable command object: unterminated JSON object"}
	}

	var env envelope
	if err := json.Unmarshal([]byte(text[start:end+1]), &env); err != nil {
		return parseResult{Err: fmt.Sprintf("output was not a parseable command object: %v", err)}
	}

	name := ""
	switch v := env.Command.(type) {
	case string:
		name = strings.TrimSpace(v)
	case nil:
		// Conversational reply.
	default:
		return parseResult{Err: fmt.Sprintf("command name must be a string, got %T", v)}
	}

	candidate := validate.Candidate{Name: name, Params: env.Params}
	if spec, ok := schema.Lookup(name); ok {
		candidate.Params = normalizeWordNumbers(env.Params, spec)
	}
	return parseResult{Reply: env.Response, Candidate: candidate}
}

// stripFences removes a surrounding markdown code fence if present.
func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// wordNumbers covers the small-number vocabulary the model falls back
// to when it echoes the user's phrasing instead of a numeral.
var wordNumbers = map[string]float64{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13,
	"fourteen": 14, "fifteen": 15, "sixteen": 16, "seventeen": 17,
	"eighteen": 18, "nineteen": 19, "twenty": 20,
	"thirty": 30, "forty": 40, "fifty": 50, "sixty": 60,
	"seventy": 70, "eighty": 80, "ninety": 90, "hundred": 100,
	"once": 1, "twice": 2,
}

// normalizeWordNumbers replaces word-number string values of numeric
// parameters with their numeric equivalents so the validator only ever
// sees normalized values. String parameters (a route literally named
// "one") and undeclared parameters pass through untouched.
func normalizeWordNumbers(params map[string]any, spec command.Spec) map[string]any {
	if params == nil {
		return nil
	}
	out := make(map[string]any, len(params))
	for k, v := range params {
		if p, ok := spec.Param(k); ok && p.Type != command.TypeString {
			if s, ok := v.(string); ok {
				if n, ok := wordNumbers[strings.ToLower(strings.TrimSpace(s))]; ok {
					out[k] = n
					continue
				}
			}
		}
		out[k] = v
	}
	return out
}
