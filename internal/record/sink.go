package record

import "github.com/EricPacefactory/Station-Test-Patterns/internal/pattern"

// Sink consumes frames in order.
type Sink interface {
	WriteFrame(f *pattern.Frame) error
	Close() error
}

// Aborter is implemented by sinks that can throw away partial output.
// Abort releases the sink like Close but never publishes the output.
type Aborter interface {
	Abort() error
}

// Discard releases s without keeping its output when it supports that.
func Discard(s Sink) error {
	if a, ok := s.(Aborter); ok {
		return a.Abort()
	}
	return s.Close()
}

// Named is implemented by sinks that report where their output went.
type Named interface {
	Path() string
}
