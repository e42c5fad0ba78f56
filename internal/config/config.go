package config

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/EricPacefactory/Station-Test-Patterns/internal/pattern"
)

const (
	DefaultPattern    = "cycle_mosaic_1"
	DefaultWidth      = 300
	DefaultHeight     = 345
	DefaultFPS        = 30.0
	DefaultLengthMins = 5.0
	DefaultOutput     = "cycle_mosaic_1.mp4"
	DefaultPreview    = "auto"
	DefaultDataDir    = ".testpatterns/runs"
)

type Config struct {
	Pattern      string    `yaml:"pattern"`
	Width        int       `yaml:"width"`
	Height       int       `yaml:"height"`
	FPS          float64   `yaml:"fps"`
	LengthMins   float64   `yaml:"length_mins"`
	Seconds      float64   `yaml:"seconds,omitempty"`
	BlinkPeriods []float64 `yaml:"blink_periods"`
	Noise        string    `yaml:"noise,omitempty"`
	Blur         int       `yaml:"blur,omitempty"`
	Seed         int64     `yaml:"seed"`

	Record    RecordConfig `yaml:"record"`
	Preview   string       `yaml:"preview"`
	Realtime  bool         `yaml:"realtime"`
	DataDir   string       `yaml:"data_dir"`
	SaveTruth bool         `yaml:"save_truth"`
}

type RecordConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Output    string  `yaml:"output"`
	Codec     string  `yaml:"codec,omitempty"`
	Timelapse float64 `yaml:"timelapse"`
}

func DefaultConfig() *Config {
	return &Config{
		Pattern:      DefaultPattern,
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		FPS:          DefaultFPS,
		LengthMins:   DefaultLengthMins,
		BlinkPeriods: slices.Clone(pattern.DefaultBlinkPeriods),
		Record: RecordConfig{
			Output:    DefaultOutput,
			Timelapse: 1,
		},
		Preview:   DefaultPreview,
		Realtime:  true,
		DataDir:   DefaultDataDir,
		SaveTruth: true,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Duration is the run length in seconds. Seconds wins over LengthMins.
func (c *Config) Duration() float64 {
	if c.Seconds > 0 {
		return c.Seconds
	}
	return c.LengthMins * 60
}

// PatternConfig is the session configuration handed to the generator.
func (c *Config) PatternConfig() pattern.Config {
	return pattern.Config{
		Width:        c.Width,
		Height:       c.Height,
		FPS:          c.FPS,
		Duration:     c.Duration(),
		BlinkPeriods: slices.Clone(c.BlinkPeriods),
		Noise:        pattern.NoiseKind(c.Noise),
		BlurRadius:   c.Blur,
		Seed:         c.Seed,
	}
}

// Validate checks everything that can be checked without touching the
// filesystem or starting a subprocess.
func (c *Config) Validate() error {
	if !slices.Contains(pattern.Kinds(), pattern.Kind(c.Pattern)) {
		return fmt.Errorf("%w: %s", pattern.ErrUnknownPattern, c.Pattern)
	}
	if c.Seconds < 0 || (c.Seconds == 0 && c.LengthMins <= 0) {
		return fmt.Errorf("%w: length must be positive", pattern.ErrInvalidConfig)
	}
	if c.Record.Timelapse < 1 {
		return fmt.Errorf("%w: timelapse factor must be at least 1, got %g", pattern.ErrInvalidConfig, c.Record.Timelapse)
	}
	if c.Record.Enabled && c.Record.Output == "" {
		return fmt.Errorf("%w: recording needs an output path", pattern.ErrInvalidConfig)
	}
	return c.PatternConfig().Validate()
}
