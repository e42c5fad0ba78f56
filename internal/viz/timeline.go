package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/EricPacefactory/Station-Test-Patterns/internal/clock"
	"github.com/EricPacefactory/Station-Test-Patterns/internal/pattern"
)

// Series is one element's state sampled over a run.
type Series struct {
	Name   string
	Values []float64
}

// SeriesFromTruth pivots per-frame truth records into one series per
// element, in the order the elements were first recorded.
func SeriesFromTruth(frames []pattern.Truth) []Series {
	var order []string
	idx := make(map[string]int)
	for _, tr := range frames {
		for _, s := range tr {
			if _, ok := idx[s.Name]; !ok {
				idx[s.Name] = len(order)
				order = append(order, s.Name)
			}
		}
	}

	out := make([]Series, len(order))
	for i, name := range order {
		out[i] = Series{Name: name, Values: make([]float64, len(frames))}
	}
	for k, tr := range frames {
		for _, s := range tr {
			out[idx[s.Name]].Values[k] = s.Value
		}
	}
	return out
}

// Sample generates frames of gen every step seconds up to duration and
// returns their truth records.
func Sample(gen pattern.Pattern, cfg pattern.Config, duration, step float64) ([]pattern.Truth, []float64, error) {
	if step <= 0 || duration <= 0 {
		return nil, nil, fmt.Errorf("%w: step and duration must be positive", pattern.ErrInvalidConfig)
	}
	n := clock.TotalFrames(duration, 1/step)
	truths := make([]pattern.Truth, 0, n)
	times := make([]float64, 0, n)
	for k := 0; k < n; k++ {
		t := clock.Step(k, 1/step)
		truths = append(truths, gen.Generate(t, cfg).Truth)
		times = append(times, t)
	}
	return truths, times, nil
}

// PlotSeries draws each series as its own asciigraph chart.
func PlotSeries(series []Series, width, height int) string {
	var sb strings.Builder
	for _, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		opts := []asciigraph.Option{
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Caption(s.Name),
			asciigraph.Precision(0),
		}
		if isBinary(s.Values) {
			opts = append(opts, asciigraph.LowerBound(0), asciigraph.UpperBound(1))
		}
		sb.WriteString(asciigraph.Plot(s.Values, opts...))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func isBinary(vs []float64) bool {
	for _, v := range vs {
		if v != 0 && v != 1 {
			return false
		}
	}
	return true
}

// Edge is a visibility transition of one blink period.
type Edge struct {
	Time   float64
	Period float64
	Kind   clock.Edge
}

func (e Edge) String() string {
	return fmt.Sprintf("%8.2fs  %-4s %s", e.Time, pattern.PeriodLabel(e.Period), e.Kind)
}

// Edges lists every rising and falling edge of the given blink periods seen
// when sampling every step seconds up to duration.
func Edges(periods []float64, duration, step float64) []Edge {
	var out []Edge
	if step <= 0 {
		return out
	}
	n := clock.TotalFrames(duration, 1/step)
	for k := 1; k < n; k++ {
		prev, t := clock.Step(k-1, 1/step), clock.Step(k, 1/step)
		for _, p := range periods {
			if e := (clock.SquareWave{Period: p}).Edge(prev, t); e != clock.None {
				out = append(out, Edge{Time: t, Period: p, Kind: e})
			}
		}
	}
	return out
}
