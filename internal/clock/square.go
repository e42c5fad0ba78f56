package clock

import "math"

// snapTol is the relative distance from an integer within which a value is
// treated as that integer. It only absorbs float rounding, so times that
// land on a toggle boundary are not pushed back into the previous half.
const snapTol = 1e-12

// floorSnap is math.Floor, except that x within snapTol of an integer
// returns that integer.
func floorSnap(x float64) int {
	r := math.Round(x)
	if math.Abs(x-r) <= snapTol*math.Max(1, math.Abs(x)) {
		return int(r)
	}
	return int(math.Floor(x))
}

// Edge is the transition seen by a square wave between two sample times.
type Edge int

const (
	None Edge = iota
	Rising
	Falling
)

func (e Edge) String() string {
	switch e {
	case Rising:
		return "rising"
	case Falling:
		return "falling"
	default:
		return "none"
	}
}

// SquareWave is high on [0, Period/2) and low on [Period/2, Period),
// repeating. Period is in seconds.
type SquareWave struct {
	Period float64
}

// Phase returns the index of the half period containing t. Even phases are
// high.
func (w SquareWave) Phase(t float64) int {
	if w.Period <= 0 {
		return 0
	}
	return floorSnap(t / (w.Period / 2))
}

// High reports whether the wave is high at t. Exact toggle boundaries belong
// to the half period that starts there.
func (w SquareWave) High(t float64) bool {
	return w.Phase(t)%2 == 0
}

// Edge returns the transition between prev and t. If several toggles fall in
// between, the state at t decides the direction.
func (w SquareWave) Edge(prev, t float64) Edge {
	if w.Phase(prev) == w.Phase(t) {
		return None
	}
	if w.High(t) {
		return Rising
	}
	return Falling
}

// Toggles counts the toggles in (prev, t].
func (w SquareWave) Toggles(prev, t float64) int {
	n := w.Phase(t) - w.Phase(prev)
	if n < 0 {
		return -n
	}
	return n
}

// Index returns floor(t * rate) mod n, the slot of a cycle advancing rate
// times per second through n entries.
func Index(t, rate float64, n int) int {
	if n <= 0 {
		return 0
	}
	i := floorSnap(t*rate) % n
	if i < 0 {
		i += n
	}
	return i
}

// Step returns the time of frame k at fps frames per second.
func Step(k int, fps float64) float64 {
	return float64(k) / fps
}

// TotalFrames returns the number of frames in duration seconds at fps.
func TotalFrames(duration, fps float64) int {
	return int(math.Round(duration * fps))
}
