package pattern

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/EricPacefactory/Station-Test-Patterns/internal/clock"
)

// Row heights of the mosaic at its native 300x345 size.
var mosaicRows = []int{50, 50, 50, 15, 15, 15, 50, 50, 50}

const (
	fig8Radius       = 6
	fig8NativeHeight = 50
	fig8XFreq        = 1.0 / 4.0
	fig8YFreq        = 2 * fig8XFreq

	blinkNoisePeriod = 8.0
	textOverlay      = 0.1
	continuousBlur   = 5
)

// scrollBar is a square wave whose spatial period grows left to right.
type scrollBar struct {
	name        string
	minPeriod   float64
	maxPeriod   float64
	stepsPerSec func(cfg Config) float64
}

var scrollBars = []scrollBar{
	{name: "scroll_fast", minPeriod: 0.01, maxPeriod: 0.05, stepsPerSec: func(cfg Config) float64 { return cfg.FPS }},
	{name: "scroll_medium", minPeriod: 0.02, maxPeriod: 0.1, stepsPerSec: func(Config) float64 { return 4 }},
	{name: "scroll_slow", minPeriod: 0.05, maxPeriod: 0.2, stepsPerSec: func(Config) float64 { return 2 }},
}

// profile returns the on/off pattern of one bar row for width w.
func (s scrollBar) profile(w int) []bool {
	row := make([]bool, w)
	for x := range row {
		u := 0.0
		if w > 1 {
			u = float64(x) / float64(w-1)
		}
		period := s.minPeriod + (s.maxPeriod-s.minPeriod)*u
		row[x] = math.Sin(2*math.Pi*u/period) > 0
	}
	return row
}

type mosaic struct {
	base
	profiles map[int][][]bool
}

func newMosaic(cfg Config) (*mosaic, error) {
	b, err := newBase(cfg)
	if err != nil {
		return nil, err
	}
	return &mosaic{base: b, profiles: make(map[int][][]bool)}, nil
}

func (m *mosaic) Name() string { return string(CycleMosaic1) }

func (m *mosaic) Generate(t float64, cfg Config) *Frame {
	f, dc := m.newFrame(t, cfg)
	img := f.Image
	rs := rows(img.Bounds(), mosaicRows)

	m.drawBlinkText(dc, rs[0], rs[1], t, cfg, &f.Truth)
	m.drawFigure8(dc, img, rs[2], t, &f.Truth)
	for i, bar := range scrollBars {
		m.drawScroll(img, rs[3+i], bar, i, t, cfg, &f.Truth)
	}
	m.drawColors(img, rs[6], t, &f.Truth)
	m.drawBlinkNoise(img, rs[7], t, &f.Truth)

	text := imaging.Crop(img, rs[0])
	m.noise.fill(img, rs[8], cfg.noiseOr(NoiseBlurred), cfg.blurOr(continuousBlur), t)
	addWeighted(img, rs[8], text, textOverlay)

	return f
}

// drawBlinkText draws each period label twice: bright in hi, dim in lo.
func (m *mosaic) drawBlinkText(dc *gg.Context, hi, lo image.Rectangle, t float64, cfg Config, tr *Truth) {
	periods := cfg.BlinkPeriods
	hiCells := columns(hi, len(periods))
	loCells := columns(lo, len(periods))
	for i, p := range periods {
		visible := clock.SquareWave{Period: p}.High(t)
		tr.addBool(BlinkName(p), visible)
		if !visible {
			continue
		}
		label := PeriodLabel(p)
		drawLabel(dc, hiCells[i], label, highContrast, m.faces.faceFor(hiCells[i]))
		drawLabel(dc, loCells[i], label, lowContrast, m.faces.faceFor(loCells[i]))
	}
}

func sin01(t, freq float64) float64 {
	return (1 + math.Sin(2*math.Pi*t*freq)) / 2
}

// drawFigure8 moves a dot along a 1:2 Lissajous path; the lower half of the
// row is covered by gradient noise.
func (m *mosaic) drawFigure8(dc *gg.Context, img *image.RGBA, r image.Rectangle, t float64, tr *Truth) {
	rad := math.Max(2, math.Round(float64(fig8Radius*r.Dy())/fig8NativeHeight))
	w, h := float64(r.Dx()), float64(r.Dy())
	x := math.Floor(rad + (w-2*rad)*sin01(t, fig8XFreq))
	y := math.Floor(rad + (h-2*rad)*sin01(t, fig8YFreq))
	tr.add("dot_x", x)
	tr.add("dot_y", y)

	dc.Push()
	dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), w, h)
	dc.Clip()
	drawDot(dc, float64(r.Min.X)+x, float64(r.Min.Y)+y, rad)
	dc.ResetClip()
	dc.Pop()

	lower := image.Rect(r.Min.X, r.Min.Y+r.Dy()/2, r.Max.X, r.Max.Y)
	addGradientNoise(m.noise.rng, img, lower)
}

func (m *mosaic) profile(bar, w int) []bool {
	ps, ok := m.profiles[w]
	if !ok {
		ps = make([][]bool, len(scrollBars))
		for i, b := range scrollBars {
			ps[i] = b.profile(w)
		}
		m.profiles[w] = ps
	}
	return ps[bar]
}

// drawScroll shifts the bar right by one pixel per step.
func (m *mosaic) drawScroll(img *image.RGBA, r image.Rectangle, bar scrollBar, idx int, t float64, cfg Config, tr *Truth) {
	w := r.Dx()
	if w == 0 {
		return
	}
	offset := clock.Index(t, bar.stepsPerSec(cfg), w)
	tr.add(bar.name, float64(offset))
	prof := m.profile(idx, w)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := img.PixOffset(r.Min.X, y)
		for x := 0; x < w; x++ {
			var v uint8
			if prof[((x-offset)%w+w)%w] {
				v = 0xff
			}
			d := row + x*4
			img.Pix[d] = v
			img.Pix[d+1] = v
			img.Pix[d+2] = v
			img.Pix[d+3] = 0xff
		}
	}
	addGradientNoise(m.noise.rng, img, r)
}

func (m *mosaic) drawColors(img *image.RGBA, r image.Rectangle, t float64, tr *Truth) {
	palettes := []Palette{PrimaryPalette, SecondaryPalette, SaturationPalette, BrightnessPalette}
	cells := columns(r, len(palettes))
	for i, p := range palettes {
		idx, c := p.At(t)
		tr.add(p.Name, float64(idx))
		fillRect(img, cells[i], c)
		addGradientNoise(m.noise.rng, img, cells[i])
	}
}

// drawBlinkNoise shows colour noise that is replaced on every falling edge
// of an 8s square wave.
func (m *mosaic) drawBlinkNoise(img *image.RGBA, r image.Rectangle, t float64, tr *Truth) {
	epoch := (clock.SquareWave{Period: blinkNoisePeriod}.Phase(t) + 1) / 2
	tr.add("noise_epoch", float64(epoch))
	fillFrom(m.noise.epoch(epoch), img, r)
}
