// Package pattern generates the frames of synthetic station test videos.
//
// A [Pattern] turns an elapsed time and an immutable [Config] into a fully
// populated [Frame]. Frames are composed from independent elements:
//
//   - blinking text labels, visible for the first half of each period
//   - noise regions re-randomised on every call
//   - colour-cycle regions stepping through a palette or rotating hue
//   - scrolling bars and a figure-8 dot (cycle_mosaic_1 only)
//
// Patterns are looked up by [Kind] through [New]:
//
//	gen, err := pattern.New(pattern.CycleMosaic1, cfg)
//	frame := gen.Generate(1.5, cfg)
//	visible := frame.Truth.Bool("blink_1s")
//
// # Determinism
//
// Everything except noise is a pure function of (t, cfg). Noise is drawn
// from the generator's own PRNG stream, seeded from [Config.Seed]. Blink
// noise, which only changes every 8 seconds, is derived from the seed and
// the 8-second epoch so it is reproducible for a given seed.
//
// # Thread Safety
//
// Generators are NOT safe for concurrent use because of the noise stream.
// Create one generator per goroutine.
package pattern
