package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownBody indicates a body handle that was never spawned.
	ErrUnknownBody = errors.New("sim: unknown body")

	// ErrUnknownObstacle indicates an obstacle handle that was never added.
	ErrUnknownObstacle = errors.New("sim: unknown obstacle")

	// ErrInvalidParams indicates world parameters the scheduler cannot run with.
	ErrInvalidParams = errors.New("sim: invalid world parameters")

	// ErrInvalidRun indicates a non-positive frame step or duration.
	ErrInvalidRun = errors.New("sim: invalid run config")

	// ErrUnstable indicates a body position or velocity became NaN or Inf.
	ErrUnstable = errors.New("sim: simulation unstable (NaN or Inf detected)")
)

// RunError wraps an error with the frame it happened on.
type RunError struct {
	Frame   int
	Time    float64
	Wrapped error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %v", e.Frame, e.Time, e.Wrapped)
}

func (e *RunError) Unwrap() error {
	return e.Wrapped
}
