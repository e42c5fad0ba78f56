package pattern

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates a session configuration that cannot produce frames.
	ErrInvalidConfig = errors.New("pattern: invalid configuration")

	// ErrUnknownPattern indicates a pattern kind with no registered generator.
	ErrUnknownPattern = errors.New("pattern: unknown pattern")
)

// FrameError wraps an error with the frame it happened on.
type FrameError struct {
	Index   int
	Time    float64
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d (t=%.3fs): %v", e.Index, e.Time, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
