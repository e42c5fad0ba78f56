package preview

import (
	"github.com/EricPacefactory/Station-Test-Patterns/internal/pattern"
	"github.com/EricPacefactory/Station-Test-Patterns/internal/record"
)

// Null discards frames, counting them. It backs headless runs.
type Null struct {
	Frames int
	Last   *pattern.Frame
	closed bool
}

func (n *Null) WriteFrame(f *pattern.Frame) error {
	if n.closed {
		return record.ErrClosed
	}
	n.Frames++
	n.Last = f
	return nil
}

func (n *Null) Close() error {
	n.closed = true
	return nil
}
