package pattern

import (
	"bytes"
	"errors"
	"image"
	"testing"
)

func testConfig() Config {
	return Config{
		Width:        300,
		Height:       345,
		FPS:          30,
		Duration:     2,
		BlinkPeriods: []float64{1, 5, 15, 60},
		Seed:         42,
	}
}

func mustNew(t *testing.T, kind Kind, cfg Config) Pattern {
	t.Helper()
	p, err := New(kind, cfg)
	if err != nil {
		t.Fatalf("new %s: %v", kind, err)
	}
	return p
}

func regionPixels(img *image.RGBA, r image.Rectangle) []byte {
	var out []byte
	for y := r.Min.Y; y < r.Max.Y; y++ {
		start := img.PixOffset(r.Min.X, y)
		out = append(out, img.Pix[start:start+r.Dx()*4]...)
	}
	return out
}

func litPixels(img *image.RGBA, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := img.RGBAAt(x, y)
			if c.R != 0 || c.G != 0 || c.B != 0 {
				n++
			}
		}
	}
	return n
}

func TestBlinkSequence(t *testing.T) {
	cfg := Config{Width: 120, Height: 90, FPS: 10, Duration: 2, BlinkPeriods: []float64{1}, Seed: 1}
	gen := mustNew(t, BlinkBasic, cfg)
	label := rows(image.Rect(0, 0, cfg.Width, cfg.Height), []int{1, 1, 1})[0]

	for k := 0; k < cfg.TotalFrames(); k++ {
		want := (k/5)%2 == 0
		f := gen.Generate(cfg.FrameTime(k), cfg)

		if got := f.Truth.Bool(BlinkName(1)); got != want {
			t.Errorf("frame %d: visible=%v, want %v", k, got, want)
		}
		lit := litPixels(f.Image, label)
		if want && lit == 0 {
			t.Errorf("frame %d: label should be drawn", k)
		}
		if !want && lit != 0 {
			t.Errorf("frame %d: label cell should be black, %d pixels lit", k, lit)
		}
	}
}

func TestMosaicBlinkTruth(t *testing.T) {
	cfg := testConfig()
	gen := mustNew(t, CycleMosaic1, cfg)

	tests := []struct {
		t       float64
		visible map[float64]bool
	}{
		{0, map[float64]bool{1: true, 5: true, 15: true, 60: true}},
		{0.5, map[float64]bool{1: false, 5: true, 15: true, 60: true}},
		{2.5, map[float64]bool{1: false, 5: false, 15: true, 60: true}},
		{5.2, map[float64]bool{1: true, 5: true, 15: true, 60: true}},
		{7.6, map[float64]bool{1: false, 5: false, 15: false, 60: true}},
		{30, map[float64]bool{1: true, 5: true, 15: true, 60: false}},
	}

	for _, tt := range tests {
		f := gen.Generate(tt.t, cfg)
		for p, want := range tt.visible {
			if got := f.Truth.Bool(BlinkName(p)); got != want {
				t.Errorf("t=%.1f period %v: visible=%v, want %v", tt.t, p, got, want)
			}
		}
	}
}

func TestEveryPixelAssigned(t *testing.T) {
	sizes := []image.Point{{300, 345}, {1, 1}, {7, 3}, {64, 480}}

	for _, kind := range Kinds() {
		for _, sz := range sizes {
			cfg := testConfig()
			cfg.Width, cfg.Height = sz.X, sz.Y
			gen := mustNew(t, kind, cfg)
			f := gen.Generate(3.3, cfg)

			if f.Image.Bounds().Dx() != sz.X || f.Image.Bounds().Dy() != sz.Y {
				t.Fatalf("%s %v: got bounds %v", kind, sz, f.Image.Bounds())
			}
			for i := 3; i < len(f.Image.Pix); i += 4 {
				if f.Image.Pix[i] != 0xff {
					t.Fatalf("%s %v: pixel %d not opaque", kind, sz, i/4)
				}
			}
		}
	}
}

func TestNoiseChangesBetweenFrames(t *testing.T) {
	cfg := testConfig()

	for _, kind := range Kinds() {
		for _, noise := range append([]NoiseKind{NoiseDefault}, NoiseKinds...) {
			cfg.Noise = noise
			gen := mustNew(t, kind, cfg)
			rs := rows(image.Rect(0, 0, cfg.Width, cfg.Height), []int{1, 1, 1})
			region := rs[2]
			if kind == CycleMosaic1 {
				region = rows(image.Rect(0, 0, cfg.Width, cfg.Height), mosaicRows)[8]
			}

			a := regionPixels(gen.Generate(1.0, cfg).Image, region)
			b := regionPixels(gen.Generate(1.1, cfg).Image, region)
			if bytes.Equal(a, b) {
				t.Errorf("%s/%s: noise region identical across frames", kind, noise)
			}
		}
	}
}

func TestColorCycleDeterministic(t *testing.T) {
	cfg := testConfig()
	a := mustNew(t, BlinkBasic, cfg)
	cfg2 := cfg
	cfg2.Seed = 7
	b := mustNew(t, BlinkBasic, cfg2)
	hueRow := rows(image.Rect(0, 0, cfg.Width, cfg.Height), []int{1, 1, 1})[1]

	for _, tm := range []float64{0, 1.7, 4.2, 9.99, 123.4} {
		fa := a.Generate(tm, cfg)
		fb := b.Generate(tm, cfg2)
		if !bytes.Equal(regionPixels(fa.Image, hueRow), regionPixels(fb.Image, hueRow)) {
			t.Errorf("t=%v: hue region differs between generators", tm)
		}
		ha, _ := fa.Truth.Get("hue")
		hb, _ := fb.Truth.Get("hue")
		if ha != hb {
			t.Errorf("t=%v: hue %v != %v", tm, ha, hb)
		}
	}
}

func TestMosaicPaletteSteps(t *testing.T) {
	cfg := testConfig()
	gen := mustNew(t, CycleMosaic1, cfg)

	tests := []struct {
		t    float64
		name string
		want float64
	}{
		{0, "primary", 0},
		{3.9, "primary", 0},
		{4, "primary", 1},
		{8, "secondary", 2},
		{12, "secondary", 0},
		{2, "saturation", 1},
		{10, "saturation", 0},
		{5, "brightness", 5},
		{6, "brightness", 0},
	}

	for _, tt := range tests {
		f := gen.Generate(tt.t, cfg)
		got, ok := f.Truth.Get(tt.name)
		if !ok {
			t.Fatalf("%s not recorded", tt.name)
		}
		if got != tt.want {
			t.Errorf("t=%v %s: got %v, want %v", tt.t, tt.name, got, tt.want)
		}
	}
}

func TestMosaicScrollOffsets(t *testing.T) {
	cfg := testConfig()
	gen := mustNew(t, CycleMosaic1, cfg)

	f := gen.Generate(cfg.FrameTime(45), cfg)
	want := map[string]float64{"scroll_fast": 45, "scroll_medium": 6, "scroll_slow": 3}
	for name, v := range want {
		if got, _ := f.Truth.Get(name); got != v {
			t.Errorf("%s: got %v, want %v", name, got, v)
		}
	}
}

func TestMosaicBlinkNoiseHoldsPerEpoch(t *testing.T) {
	cfg := testConfig()
	gen := mustNew(t, CycleMosaic1, cfg)
	row := rows(image.Rect(0, 0, cfg.Width, cfg.Height), mosaicRows)[7]

	a := regionPixels(gen.Generate(0.1, cfg).Image, row)
	b := regionPixels(gen.Generate(3.9, cfg).Image, row)
	c := regionPixels(gen.Generate(4.1, cfg).Image, row)

	if !bytes.Equal(a, b) {
		t.Error("blink noise changed within an epoch")
	}
	if bytes.Equal(b, c) {
		t.Error("blink noise did not change on the falling edge")
	}
}

func TestRowsTile(t *testing.T) {
	for _, h := range []int{1, 9, 100, 345, 1080} {
		rs := rows(image.Rect(0, 0, 10, h), mosaicRows)
		if rs[0].Min.Y != 0 || rs[len(rs)-1].Max.Y != h {
			t.Fatalf("height %d: rows do not span canvas", h)
		}
		for i := 1; i < len(rs); i++ {
			if rs[i].Min.Y != rs[i-1].Max.Y {
				t.Fatalf("height %d: gap between rows %d and %d", h, i-1, i)
			}
		}
	}

	rs := rows(image.Rect(0, 0, 300, 345), mosaicRows)
	for i, r := range rs {
		if r.Dy() != mosaicRows[i] {
			t.Errorf("row %d: height %d, want %d", i, r.Dy(), mosaicRows[i])
		}
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -1 }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"zero duration", func(c *Config) { c.Duration = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -2 }},
		{"no periods", func(c *Config) { c.BlinkPeriods = nil }},
		{"zero period", func(c *Config) { c.BlinkPeriods = []float64{1, 0} }},
		{"unknown noise", func(c *Config) { c.Noise = "pink" }},
		{"negative blur", func(c *Config) { c.BlurRadius = -1 }},
		{"too short", func(c *Config) { c.Duration = 0.001 }},
	}

	if err := testConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestUnknownPattern(t *testing.T) {
	_, err := New("cycle_mosaic_9", testConfig())
	if !errors.Is(err, ErrUnknownPattern) {
		t.Errorf("expected ErrUnknownPattern, got %v", err)
	}
}

func TestSeedIsResolved(t *testing.T) {
	cfg := testConfig()
	cfg.Seed = 0
	gen := mustNew(t, BlinkBasic, cfg)
	if gen.Seed() == 0 {
		t.Error("expected a time-based seed")
	}
}
