package record

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"math"
	"os"

	"github.com/EricPacefactory/Station-Test-Patterns/internal/pattern"
)

// MaxGIFBytes caps the paletted frames a GIF sink holds in memory before
// encoding them on Close.
const MaxGIFBytes = 512 << 20

// GIFFrameLimit is the most frames of width x height a GIF sink accepts.
func GIFFrameLimit(width, height int) int {
	return frameLimit(MaxGIFBytes, width, height)
}

func frameLimit(budget, width, height int) int {
	return max(1, budget/max(1, width*height))
}

// CheckLength fails when frames of width x height cannot be written to
// target. Only GIF output buffers the whole run.
func CheckLength(target Target, width, height, frames int) error {
	if target.Format != FormatGIF {
		return nil
	}
	if limit := GIFFrameLimit(width, height); frames > limit {
		return fmt.Errorf("%w: %d frames of %dx%d exceed the gif limit of %d; record to a video container or use --timelapse",
			ErrTooLong, frames, width, height, limit)
	}
	return nil
}

// GIF collects frames and encodes an animated GIF on Close. Frames are
// quantised to the Plan9 palette without dithering so flat regions stay flat.
type GIF struct {
	path   string
	delay  int
	budget int
	anim   gif.GIF
	closed bool
}

// NewGIF returns a GIF sink for path. GIF delays are in hundredths of a
// second, so the frame rate is rounded to the nearest representable delay.
func NewGIF(path string, fps float64) (*GIF, error) {
	if err := CheckWritable(path); err != nil {
		return nil, err
	}
	delay := int(math.Max(1, math.Round(100/fps)))
	return &GIF{path: path, delay: delay, budget: MaxGIFBytes, anim: gif.GIF{LoopCount: 0}}, nil
}

func (g *GIF) Path() string { return g.path }

// Frames is the number of frames buffered so far.
func (g *GIF) Frames() int { return len(g.anim.Image) }

func (g *GIF) WriteFrame(f *pattern.Frame) error {
	if g.closed {
		return ErrClosed
	}
	b := f.Image.Bounds()
	if limit := frameLimit(g.budget, b.Dx(), b.Dy()); len(g.anim.Image) >= limit {
		return fmt.Errorf("%w: gif holds at most %d frames of %dx%d", ErrTooLong, limit, b.Dx(), b.Dy())
	}
	p := image.NewPaletted(b, palette.Plan9)
	draw.Draw(p, b, f.Image, b.Min, draw.Src)
	g.anim.Image = append(g.anim.Image, p)
	g.anim.Delay = append(g.anim.Delay, g.delay)
	return nil
}

func (g *GIF) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	if len(g.anim.Image) == 0 {
		return nil
	}

	tmp := tempPath(g.path)
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotWritable, err)
	}
	if err := gif.EncodeAll(out, &g.anim); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode gif: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	g.anim = gif.GIF{}
	return publish(tmp, g.path)
}

// Abort drops the buffered frames.
func (g *GIF) Abort() error {
	g.closed = true
	g.anim = gif.GIF{}
	return nil
}
