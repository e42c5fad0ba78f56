// Package clock provides the timing primitives used to drive test patterns.
//
// A [SquareWave] describes an element that toggles twice per period:
// high for the first half, low for the second. Frame times are derived from
// an integer frame index with [Step] so long runs do not accumulate drift.
//
//	blink := clock.SquareWave{Period: 5}
//	for k := 0; k < clock.TotalFrames(60, 30); k++ {
//	    t := clock.Step(k, 30)
//	    if blink.High(t) {
//	        // draw the label
//	    }
//	}
package clock
