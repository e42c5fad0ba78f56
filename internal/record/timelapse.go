package record

import (
	"fmt"

	"github.com/EricPacefactory/Station-Test-Patterns/internal/pattern"
)

// Timelapse forwards one of every Factor frames to the wrapped sink.
// Fractional factors are supported: 1.5 keeps two of every three frames.
type Timelapse struct {
	Sink
	step  float64
	count float64
}

// NewTimelapse wraps s. A factor of 1 forwards every frame; factors below 1
// would need duplicated frames and are rejected.
func NewTimelapse(s Sink, factor float64) (*Timelapse, error) {
	if factor < 1 {
		return nil, fmt.Errorf("timelapse factor must be at least 1, got %g", factor)
	}
	return &Timelapse{Sink: s, step: 1 / factor}, nil
}

func (t *Timelapse) WriteFrame(f *pattern.Frame) error {
	t.count += t.step
	if t.count < 1-1e-9 {
		return nil
	}
	t.count -= 1
	return t.Sink.WriteFrame(f)
}

func (t *Timelapse) Abort() error {
	return Discard(t.Sink)
}

func (t *Timelapse) Path() string {
	if n, ok := t.Sink.(Named); ok {
		return n.Path()
	}
	return ""
}
