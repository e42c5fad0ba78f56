package pattern

import (
	"fmt"
	"slices"
	"strings"

	"github.com/EricPacefactory/Station-Test-Patterns/internal/clock"
)

// NoiseKind selects the distribution used by noise regions.
type NoiseKind string

const (
	// NoiseDefault lets each pattern pick its own distribution.
	NoiseDefault NoiseKind = ""
	// NoiseUniform draws one uniform grey level per pixel.
	NoiseUniform NoiseKind = "uniform"
	// NoiseColor draws each channel independently.
	NoiseColor NoiseKind = "color"
	// NoiseBlurred is colour noise smoothed with a box blur.
	NoiseBlurred NoiseKind = "blurred"
	// NoiseSimplex is an OpenSimplex field drifting over time with per-frame grain.
	NoiseSimplex NoiseKind = "simplex"
)

// NoiseKinds lists the selectable distributions.
var NoiseKinds = []NoiseKind{NoiseUniform, NoiseColor, NoiseBlurred, NoiseSimplex}

// DefaultBlinkPeriods are the label periods of the station mosaic, in seconds.
var DefaultBlinkPeriods = []float64{1, 5, 15, 60}

// Config is the session configuration. It is created once per run and
// passed by value to every Generate call; nothing in this package mutates it.
type Config struct {
	Width        int
	Height       int
	FPS          float64
	Duration     float64
	BlinkPeriods []float64
	Noise        NoiseKind
	BlurRadius   int
	Seed         int64
}

// Validate reports the first problem that would prevent frame generation.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: canvas must be at least 1x1, got %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: frame rate must be positive, got %g", ErrInvalidConfig, c.FPS)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidConfig, c.Duration)
	}
	if len(c.BlinkPeriods) == 0 {
		return fmt.Errorf("%w: at least one blink period is required", ErrInvalidConfig)
	}
	for _, p := range c.BlinkPeriods {
		if p <= 0 {
			return fmt.Errorf("%w: blink period must be positive, got %g", ErrInvalidConfig, p)
		}
	}
	if c.Noise != NoiseDefault && !slices.Contains(NoiseKinds, c.Noise) {
		return fmt.Errorf("%w: unknown noise kind %q", ErrInvalidConfig, c.Noise)
	}
	if c.BlurRadius < 0 {
		return fmt.Errorf("%w: blur radius must not be negative, got %d", ErrInvalidConfig, c.BlurRadius)
	}
	if c.TotalFrames() == 0 {
		return fmt.Errorf("%w: %gs at %g fps produces no frames", ErrInvalidConfig, c.Duration, c.FPS)
	}
	return nil
}

// TotalFrames is the number of frames in the run.
func (c Config) TotalFrames() int {
	return clock.TotalFrames(c.Duration, c.FPS)
}

// FrameTime is the elapsed time of frame k.
func (c Config) FrameTime(k int) float64 {
	return clock.Step(k, c.FPS)
}

// Periods returns a copy of the blink periods so callers cannot alias the
// configuration's slice.
func (c Config) Periods() []float64 {
	return slices.Clone(c.BlinkPeriods)
}

func (c Config) noiseOr(def NoiseKind) NoiseKind {
	if c.Noise == NoiseDefault {
		return def
	}
	return c.Noise
}

func (c Config) blurOr(def int) int {
	if c.BlurRadius == 0 {
		return def
	}
	return c.BlurRadius
}

// ParseNoiseKind converts a flag value into a NoiseKind.
func ParseNoiseKind(s string) (NoiseKind, error) {
	k := NoiseKind(strings.ToLower(strings.TrimSpace(s)))
	if k == NoiseDefault || slices.Contains(NoiseKinds, k) {
		return k, nil
	}
	return NoiseDefault, fmt.Errorf("%w: unknown noise kind %q", ErrInvalidConfig, s)
}

// PeriodLabel formats a blink period the way it is drawn on screen, e.g. "15s".
func PeriodLabel(p float64) string {
	return fmt.Sprintf("%gs", p)
}
