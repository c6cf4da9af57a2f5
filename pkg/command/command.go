// Package command defines the robot command vocabulary for shato.
//
// The package is the single source of truth for what constitutes a
// structurally valid command: per command kind it declares the parameter
// set, each parameter's type, and its value constraint. The validator
// layers range checks on top of this table; adding a command kind means
// adding a table entry, not touching validation or retry logic.
package command

import "fmt"

// Command kind names as they appear on the wire.
const (
	KindMoveTo      = "move_to"
	KindRotate      = "rotate"
	KindStartPatrol = "start_patrol"

	// KindNone marks a conversational utterance with no actionable command.
	KindNone = "none"
)

// Rotation directions. CounterClockwise is the wire spelling the
// hardware consumes; "counter_clockwise" is accepted as input and
// normalized to it.
const (
	DirectionClockwise        = "clockwise"
	DirectionCounterClockwise = "counter-clockwise"
)

// Patrol speeds.
const (
	SpeedSlow   = "slow"
	SpeedMedium = "medium"
	SpeedFast   = "fast"
)

// RepeatForever is the repeat_count sentinel meaning "patrol indefinitely".
const RepeatForever = -1

// Command is a validated robot instruction ready for dispatch.
// Anything implementing this interface has passed every schema and
// range constraint for its kind.
type Command interface {
	// Kind returns the command name (e.g., "move_to").
	Kind() string

	// Params returns the parameter map in the wire shape consumed by
	// the hardware dispatch boundary.
	Params() map[string]any
}

// MoveTo drives the robot to a coordinate within the workspace.
type MoveTo struct {
	X float64
	Y float64
}

// Kind returns "move_to".
func (MoveTo) Kind() string { return KindMoveTo }

// Params returns the wire parameter map.
func (c MoveTo) Params() map[string]any {
	return map[string]any{"x": c.X, "y": c.Y}
}

func (c MoveTo) String() string {
	return fmt.Sprintf("move_to(x=%g, y=%g)", c.X, c.Y)
}

// Rotate turns the robot in place.
type Rotate struct {
	// Angle in degrees, in (0, 360].
	Angle float64

	// Direction is DirectionClockwise or DirectionCounterClockwise.
	Direction string
}

// Kind returns "rotate".
func (Rotate) Kind() string { return KindRotate }

// Params returns the wire parameter map.
func (c Rotate) Params() map[string]any {
	return map[string]any{"angle": c.Angle, "direction": c.Direction}
}

func (c Rotate) String() string {
	return fmt.Sprintf("rotate(angle=%g, direction=%s)", c.Angle, c.Direction)
}

// StartPatrol sends the robot on a patrol route.
type StartPatrol struct {
	// Route names the patrol route. Known route ids come from
	// configuration; free-text routes are permitted.
	Route string

	// Speed is slow, medium, or fast.
	Speed string

	// RepeatCount is a positive loop count or RepeatForever.
	RepeatCount int

	// KnownRoute is true when Route matched the configured route set.
	KnownRoute bool
}

// Kind returns "start_patrol".
func (StartPatrol) Kind() string { return KindStartPatrol }

// Params returns the wire parameter map.
func (c StartPatrol) Params() map[string]any {
	return map[string]any{
		"route":        c.Route,
		"speed":        c.Speed,
		"repeat_count": c.RepeatCount,
	}
}

func (c StartPatrol) String() string {
	return fmt.Sprintf("start_patrol(route=%q, speed=%s, repeat_count=%d)", c.Route, c.Speed, c.RepeatCount)
}

// None is the absence of a command: the utterance was conversational,
// a question, or out of capability.
type None struct{}

// Kind returns "none".
func (None) Kind() string { return KindNone }

// Params returns nil; there is nothing to dispatch.
func (None) Params() map[string]any { return nil }

func (None) String() string { return "none" }
