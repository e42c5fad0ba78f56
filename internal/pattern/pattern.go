package pattern

import (
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/fogleman/gg"
)

// Pattern generates frames from elapsed time and a session configuration.
type Pattern interface {
	Name() string
	Generate(t float64, cfg Config) *Frame
	Seed() int64
}

// Kind names a registered pattern.
type Kind string

const (
	CycleMosaic1 Kind = "cycle_mosaic_1"
	BlinkBasic   Kind = "blink_basic"
)

type registration struct {
	summary string
	build   func(cfg Config) (Pattern, error)
}

type Registry struct {
	patterns map[Kind]registration
}

func NewRegistry() *Registry {
	r := &Registry{patterns: make(map[Kind]registration)}

	r.patterns[CycleMosaic1] = registration{
		summary: "blinking text, figure-8 dot, scrolling bars, colour cycling and noise rows",
		build:   func(cfg Config) (Pattern, error) { return newMosaic(cfg) },
	}
	r.patterns[BlinkBasic] = registration{
		summary: "blinking labels over a hue-cycling block and a noise block",
		build:   func(cfg Config) (Pattern, error) { return newBasic(cfg) },
	}

	return r
}

func (r *Registry) Get(kind Kind, cfg Config) (Pattern, error) {
	reg, ok := r.patterns[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPattern, kind)
	}
	return reg.build(cfg)
}

func (r *Registry) Summary(kind Kind) string {
	return r.patterns[kind].summary
}

func (r *Registry) List() []Kind {
	kinds := make([]Kind, 0, len(r.patterns))
	for k := range r.patterns {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

var defaultRegistry = NewRegistry()

// New builds a generator of the given kind from the default registry.
func New(kind Kind, cfg Config) (Pattern, error) {
	return defaultRegistry.Get(kind, cfg)
}

// Kinds lists the patterns in the default registry.
func Kinds() []Kind {
	return defaultRegistry.List()
}

// Summary describes a pattern in the default registry.
func Summary(kind Kind) string {
	return defaultRegistry.Summary(kind)
}

// base carries what every generator shares: its noise stream and fonts.
type base struct {
	noise *noiseSource
	faces *typeface
}

func newBase(cfg Config) (base, error) {
	faces, err := newTypeface()
	if err != nil {
		return base{}, fmt.Errorf("load font: %w", err)
	}
	return base{noise: newNoiseSource(cfg.Seed), faces: faces}, nil
}

func (b base) Seed() int64 { return b.noise.seed }

// newFrame allocates an opaque black canvas so no pixel is left unassigned.
func (b base) newFrame(t float64, cfg Config) (*Frame, *gg.Context) {
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	fillRect(img, img.Bounds(), color.RGBA{A: 255})
	return &Frame{Time: t, Image: img}, gg.NewContextForRGBA(img)
}

// rows splits r vertically in proportion to weights. The rows tile r
// exactly; rounding is absorbed by cumulative placement.
func rows(r image.Rectangle, weights []int) []image.Rectangle {
	total := 0
	for _, w := range weights {
		total += w
	}
	out := make([]image.Rectangle, len(weights))
	acc := 0
	top := r.Min.Y
	for i, w := range weights {
		acc += w
		bottom := r.Min.Y + (r.Dy()*acc+total/2)/total
		if i == len(weights)-1 {
			bottom = r.Max.Y
		}
		out[i] = image.Rect(r.Min.X, top, r.Max.X, bottom)
		top = bottom
	}
	return out
}

// columns splits r into n equal-width cells tiling r exactly.
func columns(r image.Rectangle, n int) []image.Rectangle {
	out := make([]image.Rectangle, n)
	left := r.Min.X
	for i := 0; i < n; i++ {
		right := r.Min.X + r.Dx()*(i+1)/n
		out[i] = image.Rect(left, r.Min.Y, right, r.Max.Y)
		left = right
	}
	return out
}
