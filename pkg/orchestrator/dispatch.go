package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shatolabs/shato/pkg/command"
)

// Dispatcher consumes validated commands. The default implementation
// simulates the robot; a real deployment wires the hardware bridge
// here. Anything reaching Dispatch has passed every schema constraint.
type Dispatcher interface {
	Dispatch(ctx context.Context, correlationID string, cmd command.Command) (string, error)
}

// Simulator logs what the robot would do and returns a status message.
type Simulator struct {
	logger *slog.Logger
}

// NewSimulator creates a simulating dispatcher.
func NewSimulator(logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Simulator{logger: logger.With("component", "simulator")}
}

// Dispatch simulates execution of a validated command.
func (s *Simulator) Dispatch(ctx context.Context, correlationID string, cmd command.Command) (string, error) {
	var msg string
	switch c := cmd.(type) {
	case command.MoveTo:
		msg = fmt.Sprintf("Robot navigating to coordinates (%g, %g)", c.X, c.Y)
	case command.Rotate:
		msg = fmt.Sprintf("Robot rotating %g degrees %s", c.Angle, c.Direction)
	case command.StartPatrol:
		repeat := fmt.Sprintf("%d time(s)", c.RepeatCount)
		if c.RepeatCount == command.RepeatForever {
			repeat = "continuously"
		}
		msg = fmt.Sprintf("Robot starting %s patrol at %s speed, repeating %s", c.Route, c.Speed, repeat)
	default:
		return "", fmt.Errorf("orchestrator: no dispatch handler for %q", cmd.Kind())
	}

	s.logger.Info("simulated robot action",
		"correlation_id", correlationID,
		"command", cmd.Kind(),
		"action", msg)
	return msg, nil
}

// Verify Simulator implements Dispatcher at compile time.
var _ Dispatcher = (*Simulator)(nil)
