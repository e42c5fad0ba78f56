package config

import (
	"slices"
	"sort"
)

var Presets = map[string]*Config{
	// The station pattern: 5 minutes at 300x345, 30 fps.
	"cycle_mosaic_1": {
		Pattern: "cycle_mosaic_1", Width: 300, Height: 345, FPS: 30, LengthMins: 5,
		BlinkPeriods: []float64{1, 5, 15, 60},
	},
	"smoke": {
		Pattern: "blink_basic", Width: 120, Height: 90, FPS: 10, Seconds: 2,
		BlinkPeriods: []float64{1},
	},
	"hd": {
		Pattern: "cycle_mosaic_1", Width: 1280, Height: 720, FPS: 30, LengthMins: 5,
		BlinkPeriods: []float64{1, 5, 15, 60},
	},
	"long_blink": {
		Pattern: "blink_basic", Width: 640, Height: 360, FPS: 15, LengthMins: 30,
		BlinkPeriods: []float64{60, 300, 900},
		Noise:        "simplex",
	},
}

// GetPreset returns a copy of the named preset layered over the defaults,
// or nil when there is no such preset.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Pattern = p.Pattern
	cfg.Width, cfg.Height = p.Width, p.Height
	cfg.FPS = p.FPS
	cfg.LengthMins, cfg.Seconds = p.LengthMins, p.Seconds
	cfg.BlinkPeriods = slices.Clone(p.BlinkPeriods)
	cfg.Noise = p.Noise
	cfg.Blur = p.Blur
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
