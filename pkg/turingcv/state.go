package turingcv

import "github.com/bft-labs/turingcv/internal/app"

// State is the lifecycle state of a TuringCV instance.
type State int

const (
	// StateStopped means the instance is not running.
	StateStopped State = iota
	// StateStarting means Start was called and the clock loop is launching.
	StateStarting
	// StateRunning means clock edges are being handled.
	StateRunning
	// StateStopping means Stop was called and shutdown is in progress.
	StateStopping
	// StateCrashed means the instance stopped on an error.
	StateCrashed
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateCrashed:
		return "crashed"
	default:
		return "unknown"
	}
}

func convertState(s app.State) State {
	switch s {
	case app.StateStopped:
		return StateStopped
	case app.StateStarting:
		return StateStarting
	case app.StateRunning:
		return StateRunning
	case app.StateStopping:
		return StateStopping
	case app.StateCrashed:
		return StateCrashed
	default:
		return StateStopped
	}
}
