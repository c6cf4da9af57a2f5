package command

import (
	"fmt"
	"strings"
)

// Build materializes a typed Command from coerced, constraint-checked
// parameter values. Callers must have run every value through
// ParamSpec.Coerce and ParamSpec.CheckValue first; Build only shapes
// the result.
func (s *Schema) Build(name string, vals map[string]any) (Command, error) {
	switch name {
	case KindMoveTo:
		return MoveTo{
			X: vals["x"].(float64),
			Y: vals["y"].(float64),
		}, nil

	case KindRotate:
		return Rotate{
			Angle:     vals["angle"].(float64),
			Direction: vals["direction"].(string),
		}, nil

	case KindStartPatrol:
		route := strings.TrimSpace(vals["route"].(string))
		return StartPatrol{
			Route:       route,
			Speed:       vals["speed"].(string),
			RepeatCount: vals["repeat_count"].(int),
			KnownRoute:  s.KnownRoute(route),
		}, nil

	case KindNone:
		return None{}, nil

	default:
		return nil, fmt.Errorf("command: no builder for %q", name)
	}
}
