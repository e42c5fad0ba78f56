package pattern

import "github.com/EricPacefactory/Station-Test-Patterns/internal/clock"

// basicHueRate is one full hue rotation every 10 seconds.
const basicHueRate = 0.1

// basic stacks three equal rows: blinking labels, a hue-cycling block and a
// noise block.
type basic struct {
	base
	hue HueCycle
}

func newBasic(cfg Config) (*basic, error) {
	b, err := newBase(cfg)
	if err != nil {
		return nil, err
	}
	return &basic{base: b, hue: HueCycle{Rate: basicHueRate}}, nil
}

func (b *basic) Name() string { return string(BlinkBasic) }

func (b *basic) Generate(t float64, cfg Config) *Frame {
	f, dc := b.newFrame(t, cfg)
	rs := rows(f.Image.Bounds(), []int{1, 1, 1})

	cells := columns(rs[0], len(cfg.BlinkPeriods))
	for i, p := range cfg.BlinkPeriods {
		visible := clock.SquareWave{Period: p}.High(t)
		f.Truth.addBool(BlinkName(p), visible)
		if visible {
			drawLabel(dc, cells[i], PeriodLabel(p), highContrast, b.faces.faceFor(cells[i]))
		}
	}

	hue, c := b.hue.At(t)
	f.Truth.add("hue", hue)
	fillRect(f.Image, rs[1], c)

	b.noise.fill(f.Image, rs[2], cfg.noiseOr(NoiseUniform), cfg.blurOr(3), t)

	return f
}
