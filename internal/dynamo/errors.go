package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for network operations.
var (
	// ErrInvalidState indicates a node position or velocity became NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrCapacity indicates the graph already holds its maximum node count.
	ErrCapacity = errors.New("dynamo: node capacity reached")

	// ErrUnknownNode indicates an index or id that does not name a node.
	ErrUnknownNode = errors.New("dynamo: unknown node")
)

// StepError wraps an error with the frame it occurred on.
type StepError struct {
	Frame   int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("frame %d (t=%.1f): %v", e.Frame, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
