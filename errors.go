package bloch

import (
	"errors"
	"fmt"
)

// ErrInvalidState is matched by every *InvalidStateError through errors.Is.
var ErrInvalidState = errors.New("invalid qubit state")

/*
InvalidStateError reports amplitudes or angles that do not describe a pure
qubit state. The offending values are never corrected; the caller has to
fix its input.
*/
type InvalidStateError struct {
	Norm      float64 // |alpha|^2 + |beta|^2, or the rejected value
	Tolerance float64
	Reason    string
}

func (e *InvalidStateError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", ErrInvalidState, e.Reason)
	}

	return fmt.Sprintf(
		"%s: |alpha|^2 + |beta|^2 = %g, want 1 within %g",
		ErrInvalidState, e.Norm, e.Tolerance,
	)
}

func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}

// ErrPoolClosed resolves jobs scheduled on, or still queued in, a closed pool.
var ErrPoolClosed = errors.New("pool closed")
