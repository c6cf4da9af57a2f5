package validate

import (
	"reflect"
	"strings"
	"testing"

	"github.com/shatolabs/shato/pkg/command"
)

func newValidator() *Validator {
	return New(command.NewSchema(command.DefaultBounds, nil))
}

func TestValidateMoveTo(t *testing.T) {
	v := newValidator()

	verdict := v.Validate(Candidate{
		Name:   "move_to",
		Params: map[string]any{"x": 5.0, "y": 7.0},
	})
	if !verdict.IsValid() {
		t.Fatalf("expected valid, got %v: %v", verdict.Kind, verdict.Reasons)
	}
	move, ok := verdict.Command.(command.MoveTo)
	if !ok {
		t.Fatalf("expected MoveTo, got %T", verdict.Command)
	}
	if move.X != 5 || move.Y != 7 {
		t.Errorf("unexpected command: %+v", move)
	}
}

// Every command kind with any required field missing must come back
// Invalid, never Valid.
func TestSchemaCompleteness(t *testing.T) {
	v := newValidator()
	schema := command.NewSchema(command.DefaultBounds, nil)

	full := map[string]map[string]any{
		"move_to":      {"x": 1.0, "y": 2.0},
		"rotate":       {"angle": 90.0, "direction": "clockwise"},
		"start_patrol": {"route": "bedrooms", "speed": "medium", "repeat_count": 2},
	}

	for name, params := range full {
		spec, _ := schema.Lookup(name)
		for _, p := range spec.Params {
			if !p.Required {
				continue
			}
			partial := make(map[string]any, len(params)-1)
			for k, val := range params {
				if k != p.Name {
					partial[k] = val
				}
			}

			verdict := v.Validate(Candidate{Name: name, Params: partial})
			if verdict.Kind != Invalid {
				t.Errorf("%s missing %s: expected Invalid, got %v", name, p.Name, verdict.Kind)
				continue
			}
			found := false
			for _, r := range verdict.Reasons {
				if strings.Contains(r, p.Name) {
					found = true
				}
			}
			if !found {
				t.Errorf("%s missing %s: no reason names the field: %v", name, p.Name, verdict.Reasons)
			}
		}
	}
}

func TestRangeEnforcement(t *testing.T) {
	v := newValidator()

	verdict := v.Validate(Candidate{
		Name:   "rotate",
		Params: map[string]any{"angle": 400.0, "direction": "clockwise"},
	})
	if verdict.Kind != Invalid {
		t.Fatalf("rotate(400) expected Invalid, got %v", verdict.Kind)
	}
	if len(verdict.Reasons) != 1 || !strings.Contains(verdict.Reasons[0], "angle") {
		t.Errorf("expected an angle reason, got %v", verdict.Reasons)
	}

	verdict = v.Validate(Candidate{
		Name:   "rotate",
		Params: map[string]any{"angle": 90.0, "direction": "clockwise"},
	})
	if !verdict.IsValid() {
		t.Errorf("rotate(90) expected Valid, got %v: %v", verdict.Kind, verdict.Reasons)
	}

	// Range endpoints: the max is inclusive, the min is not.
	verdict = v.Validate(Candidate{
		Name:   "rotate",
		Params: map[string]any{"angle": 360.0, "direction": "clockwise"},
	})
	if !verdict.IsValid() {
		t.Errorf("rotate(360) expected Valid, got %v: %v", verdict.Kind, verdict.Reasons)
	}

	verdict = v.Validate(Candidate{
		Name:   "rotate",
		Params: map[string]any{"angle": 0.0, "direction": "clockwise"},
	})
	if verdict.Kind != Invalid {
		t.Errorf("rotate(0) expected Invalid, got %v", verdict.Kind)
	}
}

func TestRepeatCountSentinel(t *testing.T) {
	v := newValidator()

	verdict := v.Validate(Candidate{
		Name:   "start_patrol",
		Params: map[string]any{"route": "bedrooms", "repeat_count": -1.0},
	})
	if !verdict.IsValid() {
		t.Fatalf("repeat_count -1 expected Valid, got %v: %v", verdict.Kind, verdict.Reasons)
	}
	if verdict.Command.(command.StartPatrol).RepeatCount != command.RepeatForever {
		t.Error("expected the continuous-patrol sentinel to survive")
	}

	verdict = v.Validate(Candidate{
		Name:   "start_patrol",
		Params: map[string]any{"route": "bedrooms", "repeat_count": 0.0},
	})
	if verdict.Kind != Invalid {
		t.Errorf("repeat_count 0 expected Invalid, got %v", verdict.Kind)
	}
}

func TestOptionalDefaults(t *testing.T) {
	v := newValidator()

	verdict := v.Validate(Candidate{
		Name:   "start_patrol",
		Params: map[string]any{"route": "bedrooms"},
	})
	if !verdict.IsValid() {
		t.Fatalf("expected Valid, got %v: %v", verdict.Kind, verdict.Reasons)
	}
	patrol := verdict.Command.(command.StartPatrol)
	if patrol.Speed != command.SpeedMedium {
		t.Errorf("expected default speed medium, got %s", patrol.Speed)
	}
	if patrol.RepeatCount != 1 {
		t.Errorf("expected default repeat_count 1, got %d", patrol.RepeatCount)
	}
}

func TestNotACommand(t *testing.T) {
	v := newValidator()

	for _, name := range []string{"", "none", "fly_to_moon", "  "} {
		verdict := v.Validate(Candidate{Name: name})
		if verdict.Kind != NotACommand {
			t.Errorf("name %q: expected NotACommand, got %v", name, verdict.Kind)
		}
	}
}

func TestAccumulatesAllViolations(t *testing.T) {
	v := newValidator()

	verdict := v.Validate(Candidate{
		Name: "rotate",
		Params: map[string]any{
			"angle":     "lots",
			"direction": "sideways",
			"velocity":  3,
		},
	})
	if verdict.Kind != Invalid {
		t.Fatalf("expected Invalid, got %v", verdict.Kind)
	}
	if len(verdict.Reasons) != 3 {
		t.Fatalf("expected 3 accumulated reasons, got %d: %v", len(verdict.Reasons), verdict.Reasons)
	}
	// Declared params first, unexpected params last.
	if !strings.Contains(verdict.Reasons[0], "angle") ||
		!strings.Contains(verdict.Reasons[1], "direction") ||
		!strings.Contains(verdict.Reasons[2], "velocity") {
		t.Errorf("unexpected reason order: %v", verdict.Reasons)
	}
}

// Two validations of the same candidate must produce identical ordered
// reasons, so retry feedback is reproducible.
func TestDeterministicReasons(t *testing.T) {
	v := newValidator()
	candidate := Candidate{
		Name: "start_patrol",
		Params: map[string]any{
			"repeat_count": 0.0,
			"speed":        "ludicrous",
			"zig":          1,
			"zag":          2,
		},
	}

	first := v.Validate(candidate)
	for i := 0; i < 50; i++ {
		again := v.Validate(candidate)
		if !reflect.DeepEqual(first.Reasons, again.Reasons) {
			t.Fatalf("reasons differ between runs:\n%v\n%v", first.Reasons, again.Reasons)
		}
	}
}

func TestNumericStringCoercion(t *testing.T) {
	v := newValidator()

	verdict := v.Validate(Candidate{
		Name:   "move_to",
		Params: map[string]any{"x": "5", "y": "7.5"},
	})
	if !verdict.IsValid() {
		t.Fatalf("numeric strings should coerce, got %v: %v", verdict.Kind, verdict.Reasons)
	}
	move := verdict.Command.(command.MoveTo)
	if move.X != 5 || move.Y != 7.5 {
		t.Errorf("unexpected coordinates: %+v", move)
	}
}

func TestWorkspaceBounds(t *testing.T) {
	v := New(command.NewSchema(command.Bounds{XMin: 0, XMax: 10, YMin: 0, YMax: 10}, nil))

	verdict := v.Validate(Candidate{
		Name:   "move_to",
		Params: map[string]any{"x": 50.0, "y": 5.0},
	})
	if verdict.Kind != Invalid {
		t.Fatalf("out-of-workspace x expected Invalid, got %v", verdict.Kind)
	}
	if !strings.Contains(verdict.Reasons[0], "x must be in") {
		t.Errorf("expected a range reason for x, got %v", verdict.Reasons)
	}
}
