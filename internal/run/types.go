package run

import (
	"time"

	"github.com/EricPacefactory/Station-Test-Patterns/internal/pattern"
)

// Observer sees every generated frame before it is written to the sinks.
type Observer interface {
	OnFrame(f *pattern.Frame) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f *pattern.Frame) error

func (fn ObserverFunc) OnFrame(f *pattern.Frame) error { return fn(f) }

type Config struct {
	Pattern pattern.Config
	// Realtime paces frames at the configured frame rate instead of
	// generating them as fast as possible.
	Realtime bool
}

// StopReason says why a run ended.
type StopReason string

const (
	Completed StopReason = "completed"
	Cancelled StopReason = "cancelled"
	Stopped   StopReason = "stopped"
	Failed    StopReason = "failed"
)

type Result struct {
	Frames  int
	Elapsed time.Duration
	Reason  StopReason
	Metrics map[string]float64
}
