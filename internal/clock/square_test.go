package clock

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSquareWaveHigh(t *testing.T) {
	tests := []struct {
		period float64
		t      float64
		high   bool
	}{
		{1, 0, true},
		{1, 0.49, true},
		{1, 0.5, false},
		{1, 0.99, false},
		{1, 1.0, true},
		{5, 2.4, true},
		{5, 2.5, false},
		{15, 7.5, false},
		{60, 29.9, true},
		{60, 30, false},
		{60, 61, true},
		{1, 0.4999999999, true},
		{60, 29.99999999, true},
	}

	for _, tt := range tests {
		w := SquareWave{Period: tt.period}
		assert.Equal(t, tt.high, w.High(tt.t), "period %.0f at t=%v", tt.period, tt.t)
	}
}

func TestSquareWaveSnapsRoundingOnly(t *testing.T) {
	a, b := 0.7, 0.6
	below := a - b // 0.09999999999999998
	w := SquareWave{Period: 0.2}
	assert.Less(t, below, 0.1)
	assert.False(t, w.High(below), "rounding below a toggle belongs to the next half")
	assert.Equal(t, 1, w.Phase(below))

	near := 0.1 - 1e-9
	assert.True(t, w.High(near), "a real time just before the toggle is still high")
	assert.Equal(t, 0, w.Phase(near))
}

func TestSquareWaveMatchesModulo(t *testing.T) {
	for _, p := range []float64{1, 5, 15, 60} {
		w := SquareWave{Period: p}
		for k := 0; k < 3000; k++ {
			tm := Step(k, 30)
			want := math.Mod(tm, p) < p/2
			if w.High(tm) != want {
				t.Fatalf("period %v frame %d: high=%v want %v", p, k, w.High(tm), want)
			}
		}
	}
}

func TestSquareWaveTogglesTwicePerPeriod(t *testing.T) {
	for _, p := range []float64{1, 5, 15, 60} {
		w := SquareWave{Period: p}
		assert.Equal(t, 2, w.Toggles(0.25, 0.25+p), "period %v", p)
	}
}

func TestSquareWaveEdge(t *testing.T) {
	w := SquareWave{Period: 2}

	assert.Equal(t, None, w.Edge(0.1, 0.9))
	assert.Equal(t, Falling, w.Edge(0.9, 1.1))
	assert.Equal(t, Rising, w.Edge(1.9, 2.1))
	assert.Equal(t, "falling", Falling.String())
}

func TestIndex(t *testing.T) {
	assert.Equal(t, 0, Index(0, 0.25, 3))
	assert.Equal(t, 0, Index(3.99, 0.25, 3))
	assert.Equal(t, 1, Index(4, 0.25, 3))
	assert.Equal(t, 0, Index(12, 0.25, 3))
	assert.Equal(t, 5, Index(5, 1, 6))
	assert.Equal(t, 0, Index(1, 1, 0))
}

func TestStepNoDrift(t *testing.T) {
	assert.Equal(t, 0.5, Step(15, 30))
	assert.Equal(t, 100.0, Step(3000, 30))
	assert.Equal(t, 20, TotalFrames(2, 10))
	assert.Equal(t, 9000, TotalFrames(300, 30))
}
