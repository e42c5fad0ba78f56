package pattern

import (
	"image"
	"math/rand/v2"
	"time"

	"github.com/ojrac/opensimplex-go"
)

const (
	simplexScale = 0.06
	simplexSpeed = 0.8
	simplexGrain = 24
)

// noiseSource owns all randomness of a generator.
type noiseSource struct {
	seed    int64
	rng     *rand.Rand
	simplex opensimplex.Noise
}

func newNoiseSource(seed int64) *noiseSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &noiseSource{
		seed:    seed,
		rng:     rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15)),
		simplex: opensimplex.NewNormalized(seed),
	}
}

// epoch returns a stream that depends only on the seed and the epoch, for
// regions that hold still between refreshes.
func (n *noiseSource) epoch(e int) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(n.seed), uint64(e)+1))
}

// fill writes fresh noise of the given kind into r.
func (n *noiseSource) fill(img *image.RGBA, r image.Rectangle, kind NoiseKind, blur int, t float64) {
	if r.Empty() {
		return
	}
	b := newBuffer(r.Dx(), r.Dy())
	switch kind {
	case NoiseUniform:
		grey := make([]uint8, r.Dx()*r.Dy())
		fillRandom(n.rng, grey)
		for i, g := range grey {
			b.Pix[i*4] = g
			b.Pix[i*4+1] = g
			b.Pix[i*4+2] = g
		}
	case NoiseSimplex:
		for y := 0; y < r.Dy(); y++ {
			for x := 0; x < r.Dx(); x++ {
				v := n.simplex.Eval3(float64(x)*simplexScale, float64(y)*simplexScale, t*simplexSpeed)
				grain := float64(n.rng.IntN(2*simplexGrain+1) - simplexGrain)
				g := clampByte(v*255 + grain)
				d := b.PixOffset(x, y)
				b.Pix[d] = g
				b.Pix[d+1] = g
				b.Pix[d+2] = g
			}
		}
	case NoiseBlurred:
		fillRandom(n.rng, b.Pix)
		b = boxBlur(b, blur)
	default:
		fillRandom(n.rng, b.Pix)
	}
	blit(img, r, b)
}

// fillFrom writes colour noise from rng into r.
func fillFrom(rng *rand.Rand, img *image.RGBA, r image.Rectangle) {
	if r.Empty() {
		return
	}
	b := newBuffer(r.Dx(), r.Dy())
	fillRandom(rng, b.Pix)
	blit(img, r, b)
}
