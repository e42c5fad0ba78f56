package pattern

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/EricPacefactory/Station-Test-Patterns/internal/clock"
)

// Palette is a named colour sequence advancing Rate steps per second.
type Palette struct {
	Name   string
	Rate   float64
	Colors []colorful.Color
}

// At returns the palette slot and colour shown at t.
func (p Palette) At(t float64) (int, color.RGBA) {
	i := clock.Index(t, p.Rate, len(p.Colors))
	return i, toRGBA(p.Colors[i])
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func hexes(ss ...string) []colorful.Color {
	cs := make([]colorful.Color, len(ss))
	for i, s := range ss {
		cs[i] = mustHex(s)
	}
	return cs
}

// The mosaic colour row: primaries and secondaries step every 4s,
// saturation every 2s and brightness every second.
var (
	PrimaryPalette    = Palette{Name: "primary", Rate: 0.25, Colors: hexes("#ff0000", "#00ff00", "#0000ff")}
	SecondaryPalette  = Palette{Name: "secondary", Rate: 0.25, Colors: hexes("#ffff00", "#ff00ff", "#00ffff")}
	SaturationPalette = Palette{Name: "saturation", Rate: 0.5, Colors: hexes("#7d7d7d", "#9c785e", "#bb733e", "#db6d1f", "#fa6800")}
	BrightnessPalette = Palette{Name: "brightness", Rate: 1, Colors: hexes("#000000", "#323232", "#646464", "#969696", "#c8c8c8", "#fafafa")}
)

// HueCycle rotates hue once every 1/Rate seconds at full saturation and value.
type HueCycle struct {
	Rate float64
}

// At returns the hue in degrees and the colour shown at t.
func (h HueCycle) At(t float64) (float64, color.RGBA) {
	turns := t * h.Rate
	hue := (turns - float64(int64(turns))) * 360
	if hue < 0 {
		hue += 360
	}
	return hue, toRGBA(colorful.Hsv(hue, 1, 1))
}
