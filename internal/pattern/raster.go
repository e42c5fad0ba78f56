package pattern

import (
	"image"
	"image/color"
	"math/rand/v2"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
)

// newBuffer allocates a w x h scratch image at the origin.
func newBuffer(w, h int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

// blit copies the colour of src into img at r.Min and makes every copied
// pixel opaque. src must match r's size.
func blit(img *image.RGBA, r image.Rectangle, src *image.RGBA) {
	for y := 0; y < r.Dy(); y++ {
		row := img.PixOffset(r.Min.X, r.Min.Y+y)
		srow := src.PixOffset(0, y)
		for x := 0; x < r.Dx(); x++ {
			d, s := row+x*4, srow+x*4
			img.Pix[d] = src.Pix[s]
			img.Pix[d+1] = src.Pix[s+1]
			img.Pix[d+2] = src.Pix[s+2]
			img.Pix[d+3] = 0xff
		}
	}
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	c.A = 0xff
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := img.PixOffset(r.Min.X, y)
		for x := 0; x < r.Dx(); x++ {
			d := row + x*4
			img.Pix[d] = c.R
			img.Pix[d+1] = c.G
			img.Pix[d+2] = c.B
			img.Pix[d+3] = c.A
		}
	}
}

func fillRandom(rng *rand.Rand, buf []uint8) {
	for i := 0; i < len(buf); i += 8 {
		v := rng.Uint64()
		for j := 0; j < 8 && i+j < len(buf); j++ {
			buf[i+j] = uint8(v >> (8 * j))
		}
	}
}

func addSat(a, b uint8) uint8 {
	s := uint16(a) + uint16(b)
	if s > 0xff {
		return 0xff
	}
	return uint8(s)
}

func clampByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}

// boxBlur averages every channel over a k x k window; borders repeat the
// edge pixel. Alpha is not meaningful in the result.
func boxBlur(src *image.RGBA, k int) *image.RGBA {
	if k <= 1 {
		return src
	}
	return blur.Box(src, float64(k-1)/2)
}

func gray(r, g, b uint8) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}

// gradientRamp is 0 over the left eighth, 1 over the right eighth and
// linear in between.
func gradientRamp(x, w int) float64 {
	if w <= 1 {
		return 1
	}
	v := -0.25 + 1.5*float64(x)/float64(w-1)
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// addGradientNoise adds blurred grey noise to r, weak on the left and
// saturating on the right.
func addGradientNoise(rng *rand.Rand, img *image.RGBA, r image.Rectangle) {
	if r.Empty() {
		return
	}
	n := newBuffer(r.Dx(), r.Dy())
	fillRandom(rng, n.Pix)
	n = boxBlur(n, 3)
	for y := 0; y < r.Dy(); y++ {
		row := img.PixOffset(r.Min.X, r.Min.Y+y)
		for x := 0; x < r.Dx(); x++ {
			s := n.PixOffset(x, y)
			g := uint8(gray(n.Pix[s], n.Pix[s+1], n.Pix[s+2]) * gradientRamp(x, r.Dx()))
			d := row + x*4
			img.Pix[d] = addSat(img.Pix[d], g)
			img.Pix[d+1] = addSat(img.Pix[d+1], g)
			img.Pix[d+2] = addSat(img.Pix[d+2], g)
		}
	}
}

// addWeighted adds weight*overlay to img under r with saturation. overlay
// is scaled to r with nearest-neighbour sampling.
func addWeighted(img *image.RGBA, r image.Rectangle, overlay image.Image, weight float64) {
	if r.Empty() || overlay.Bounds().Empty() {
		return
	}
	scaled := imaging.Resize(overlay, r.Dx(), r.Dy(), imaging.NearestNeighbor)
	for y := 0; y < r.Dy(); y++ {
		row := img.PixOffset(r.Min.X, r.Min.Y+y)
		srow := scaled.PixOffset(0, y)
		for x := 0; x < r.Dx(); x++ {
			d, s := row+x*4, srow+x*4
			for c := 0; c < 3; c++ {
				img.Pix[d+c] = clampByte(float64(img.Pix[d+c]) + weight*float64(scaled.Pix[s+c]))
			}
		}
	}
}
