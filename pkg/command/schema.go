package command

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParamType is the declared type of a command parameter.
type ParamType int

const (
	// TypeFloat accepts JSON numbers and numeric strings.
	TypeFloat ParamType = iota
	// TypeInt accepts whole JSON numbers and integer strings.
	TypeInt
	// TypeString accepts strings.
	TypeString
)

func (t ParamType) String() string {
	switch t {
	case TypeFloat:
		return "number"
	case TypeInt:
		return "integer"
	case TypeString:
		return "string"
	default:
		return "unknown"
	}
}

// ParamSpec declares one parameter of a command kind: its type and the
// value constraint the validator enforces.
type ParamSpec struct {
	Name     string
	Type     ParamType
	Required bool

	// Default is applied for optional parameters that are absent.
	Default any

	// Min/Max bound numeric values. Nil means unbounded on that side.
	// Min is exclusive when ExclusiveMin is set.
	Min          *float64
	Max          *float64
	ExclusiveMin bool

	// Sentinels are values allowed outside the numeric range
	// (repeat_count -1 meaning "forever").
	Sentinels []int

	// Enum restricts string values to this set after alias mapping.
	Enum []string

	// Aliases map accepted input spellings to canonical enum values.
	Aliases map[string]string

	// NonEmpty rejects strings that trim to "".
	NonEmpty bool
}

// Spec declares one command kind.
type Spec struct {
	Name        string
	Description string
	Params      []ParamSpec
}

// Param looks up a parameter declaration by name.
func (s Spec) Param(name string) (ParamSpec, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p, true
		}
	}
	return ParamSpec{}, false
}

// Bounds is the workspace coordinate range for move_to.
type Bounds struct {
	XMin, XMax float64
	YMin, YMax float64
}

// DefaultBounds is the workspace used when none is configured.
var DefaultBounds = Bounds{XMin: -100, XMax: 100, YMin: -100, YMax: 100}

// DefaultRoutes are the patrol routes the stock SHATO home map knows.
var DefaultRoutes = []string{"first_floor", "bedrooms", "second_floor"}

// Schema is the declarative command table. It is immutable after
// construction and safe for concurrent use.
type Schema struct {
	specs  map[string]Spec
	order  []string
	routes map[string]bool
}

// NewSchema builds the command table for the given workspace and known
// patrol routes. Empty routes falls back to DefaultRoutes.
func NewSchema(ws Bounds, routes []string) *Schema {
	if len(routes) == 0 {
		routes = DefaultRoutes
	}
	known := make(map[string]bool, len(routes))
	for _, r := range routes {
		known[strings.ToLower(r)] = true
	}

	angleMin, angleMax := 0.0, 360.0
	repeatMin := 1.0

	specs := []Spec{
		{
			Name:        KindMoveTo,
			Description: "Navigate to a coordinate in the workspace",
			Params: []ParamSpec{
				{Name: "x", Type: TypeFloat, Required: true, Min: &ws.XMin, Max: &ws.XMax},
				{Name: "y", Type: TypeFloat, Required: true, Min: &ws.YMin, Max: &ws.YMax},
			},
		},
		{
			Name:        KindRotate,
			Description: "Rotate in place by an angle in degrees",
			Params: []ParamSpec{
				{Name: "angle", Type: TypeFloat, Required: true, Min: &angleMin, Max: &angleMax, ExclusiveMin: true},
				{
					Name: "direction", Type: TypeString, Required: true,
					Enum:    []string{DirectionClockwise, DirectionCounterClockwise},
					Aliases: map[string]string{"counter_clockwise": DirectionCounterClockwise},
				},
			},
		},
		{
			Name:        KindStartPatrol,
			Description: "Patrol a route a number of times, or forever",
			Params: []ParamSpec{
				{Name: "route", Type: TypeString, Required: true, NonEmpty: true},
				{
					Name: "speed", Type: TypeString, Default: SpeedMedium,
					Enum: []string{SpeedSlow, SpeedMedium, SpeedFast},
				},
				{
					Name: "repeat_count", Type: TypeInt, Default: 1,
					Min: &repeatMin, Sentinels: []int{RepeatForever},
				},
			},
		},
	}

	table := make(map[string]Spec, len(specs))
	order := make([]string, 0, len(specs))
	for _, s := range specs {
		table[s.Name] = s
		order = append(order, s.Name)
	}

	return &Schema{specs: table, order: order, routes: known}
}

// Lookup returns the spec for a claimed command name.
func (s *Schema) Lookup(name string) (Spec, bool) {
	spec, ok := s.specs[name]
	return spec, ok
}

// Names returns the known command names in declaration order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Specs returns all command specs in declaration order.
func (s *Schema) Specs() []Spec {
	out := make([]Spec, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.specs[name])
	}
	return out
}

// KnownRoute reports whether a route id is in the configured route set.
// Matching is case-insensitive with spaces treated as underscores, so
// "second floor" matches the "second_floor" route id.
func (s *Schema) KnownRoute(route string) bool {
	key := strings.ToLower(strings.TrimSpace(route))
	if s.routes[key] {
		return true
	}
	return s.routes[strings.ReplaceAll(key, " ", "_")]
}

// Coerce converts a raw parameter value to the spec's declared type.
// It accepts JSON numbers, json.Number, Go numerics, and numeric
// strings; it does not do natural-language number parsing (that is the
// extraction layer's job). The returned value is float64 for TypeFloat,
// int for TypeInt, string for TypeString.
func (p ParamSpec) Coerce(raw any) (any, error) {
	switch p.Type {
	case TypeFloat:
		f, ok := toFloat(raw)
		if !ok {
			return nil, fmt.Errorf("%s must be a number, got %v", p.Name, describe(raw))
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%s must be a finite number", p.Name)
		}
		return f, nil

	case TypeInt:
		f, ok := toFloat(raw)
		if !ok || f != math.Trunc(f) {
			return nil, fmt.Errorf("%s must be an integer, got %v", p.Name, describe(raw))
		}
		return int(f), nil

	case TypeString:
		str, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%s must be a string, got %v", p.Name, describe(raw))
		}
		if canonical, ok := p.Aliases[strings.ToLower(strings.TrimSpace(str))]; ok {
			return canonical, nil
		}
		return str, nil

	default:
		return nil, fmt.Errorf("%s has unknown type", p.Name)
	}
}

// CheckValue enforces the range, enum, or non-empty constraint on an
// already-coerced value. Returns a human-readable reason on violation.
func (p ParamSpec) CheckValue(v any) error {
	switch p.Type {
	case TypeFloat:
		return p.checkNumber(v.(float64))
	case TypeInt:
		n := v.(int)
		for _, s := range p.Sentinels {
			if n == s {
				return nil
			}
		}
		return p.checkNumber(float64(n))
	case TypeString:
		str := v.(string)
		if p.NonEmpty && strings.TrimSpace(str) == "" {
			return fmt.Errorf("%s must not be empty", p.Name)
		}
		if len(p.Enum) > 0 {
			for _, allowed := range p.Enum {
				if str == allowed {
					return nil
				}
			}
			return fmt.Errorf("%s must be one of [%s], got %q", p.Name, strings.Join(p.Enum, ", "), str)
		}
	}
	return nil
}

func (p ParamSpec) checkNumber(f float64) error {
	if p.Min != nil {
		if p.ExclusiveMin && f <= *p.Min {
			return fmt.Errorf("%s must be in %s, got %g", p.Name, p.rangeString(), f)
		}
		if !p.ExclusiveMin && f < *p.Min {
			return fmt.Errorf("%s must be in %s, got %g", p.Name, p.rangeString(), f)
		}
	}
	if p.Max != nil && f > *p.Max {
		return fmt.Errorf("%s must be in %s, got %g", p.Name, p.rangeString(), f)
	}
	return nil
}

// rangeString renders the declared range, e.g. "(0, 360]" or "[-100, 100]".
func (p ParamSpec) rangeString() string {
	open, lo := "[", "-inf"
	if p.Min != nil {
		lo = strconv.FormatFloat(*p.Min, 'g', -1, 64)
		if p.ExclusiveMin {
			open = "("
		}
	} else {
		open = "("
	}
	hi, closing := "+inf", ")"
	if p.Max != nil {
		hi = strconv.FormatFloat(*p.Max, 'g', -1, 64)
		closing = "]"
	}
	s := open + lo + ", " + hi + closing
	if len(p.Sentinels) > 0 {
		parts := make([]string, len(p.Sentinels))
		for i, v := range p.Sentinels {
			parts[i] = strconv.Itoa(v)
		}
		s += " or " + strings.Join(parts, "/")
	}
	return s
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// describe renders a raw value for error messages without dumping
// arbitrary structures.
func describe(raw any) string {
	switch v := raw.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case nil:
		return "null"
	case map[string]any, []any:
		return fmt.Sprintf("%T", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
