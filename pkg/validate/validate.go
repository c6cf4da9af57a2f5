// Package validate checks candidate robot commands against the command
// schema and produces a verdict.
//
// The validator is a pure function over (candidate, schema): it holds no
// state and is safe to call concurrently from many requests. Violations
// are accumulated rather than returned fail-fast so one round of retry
// feedback can address every problem at once.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shatolabs/shato/pkg/command"
)

// Candidate is an unvalidated, parsed attempt at a command, produced
// from raw model output.
type Candidate struct {
	// Name is the claimed command name. Empty means the model produced
	// a conversational reply with no command.
	Name string

	// Params maps parameter names to raw values as decoded from the
	// model's output.
	Params map[string]any
}

// Kind classifies a verdict.
type Kind int

const (
	// Valid means every structural and range constraint is satisfied.
	Valid Kind = iota

	// Invalid means one or more field-level constraints failed.
	Invalid

	// NotACommand means the candidate carries no recognizable command
	// name; the utterance is conversational, not a retry trigger.
	NotACommand
)

// Verdict is the validator's classification of a candidate.
type Verdict struct {
	Kind Kind

	// Command is set when Kind is Valid.
	Command command.Command

	// Reasons holds the ordered field-level failures when Kind is
	// Invalid. The order is deterministic: declared parameter order,
	// then unexpected parameters sorted by name.
	Reasons []string
}

// IsValid reports whether the candidate passed.
func (v Verdict) IsValid() bool { return v.Kind == Valid }

// Validator validates candidates against a command schema.
type Validator struct {
	schema *command.Schema
}

// New creates a validator over the given schema.
func New(schema *command.Schema) *Validator {
	return &Validator{schema: schema}
}

// Schema returns the command table this validator enforces.
func (v *Validator) Schema() *command.Schema {
	return v.schema
}

// Validate classifies a candidate. It never returns an error and has no
// side effects; a candidate that cannot be a command yields NotACommand,
// a malformed one yields Invalid with every violation listed.
func (v *Validator) Validate(c Candidate) Verdict {
	name := strings.TrimSpace(c.Name)
	if name == "" || name == command.KindNone {
		return Verdict{Kind: NotACommand}
	}

	spec, ok := v.schema.Lookup(name)
	if !ok {
		// Unrecognized names are conversational output, not failures
		// the model should be re-prompted over.
		return Verdict{Kind: NotACommand}
	}

	var reasons []string
	vals := make(map[string]any, len(spec.Params))

	for _, p := range spec.Params {
		raw, present := c.Params[p.Name]
		if !present {
			if p.Required {
				reasons = append(reasons, fmt.Sprintf("missing required parameter %q", p.Name))
				continue
			}
			coerced, err := p.Coerce(p.Default)
			if err != nil {
				// A broken default is a schema bug, not model output.
				reasons = append(reasons, err.Error())
				continue
			}
			vals[p.Name] = coerced
			continue
		}

		coerced, err := p.Coerce(raw)
		if err != nil {
			reasons = append(reasons, err.Error())
			continue
		}
		if err := p.CheckValue(coerced); err != nil {
			reasons = append(reasons, err.Error())
			continue
		}
		vals[p.Name] = coerced
	}

	if extra := extraParams(spec, c.Params); len(extra) > 0 {
		for _, name := range extra {
			reasons = append(reasons, fmt.Sprintf("unexpected parameter %q", name))
		}
	}

	if len(reasons) > 0 {
		return Verdict{Kind: Invalid, Reasons: reasons}
	}

	cmd, err := v.schema.Build(name, vals)
	if err != nil {
		return Verdict{Kind: Invalid, Reasons: []string{err.Error()}}
	}
	return Verdict{Kind: Valid, Command: cmd}
}

// extraParams returns parameter names not declared by the spec, sorted
// for deterministic reason ordering.
func extraParams(spec command.Spec, params map[string]any) []string {
	var extra []string
	for name := range params {
		if _, ok := spec.Param(name); !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return extra
}
