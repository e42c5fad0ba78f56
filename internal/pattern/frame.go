package pattern

import "image"

// Frame is one generated picture plus the state of every element in it.
type Frame struct {
	Index int
	Time  float64
	Image *image.RGBA
	Truth Truth
}

// Sample is the state of one element in a frame.
type Sample struct {
	Name  string
	Value float64
}

// Truth records element states in drawing order. It is the ground truth a
// capture/analysis system is expected to recover from the video.
type Truth []Sample

func (tr *Truth) add(name string, v float64) {
	*tr = append(*tr, Sample{Name: name, Value: v})
}

func (tr *Truth) addBool(name string, b bool) {
	v := 0.0
	if b {
		v = 1
	}
	tr.add(name, v)
}

// Get returns the value recorded under name.
func (tr Truth) Get(name string) (float64, bool) {
	for _, s := range tr {
		if s.Name == name {
			return s.Value, true
		}
	}
	return 0, false
}

// Bool reports whether name was recorded as true (non-zero).
func (tr Truth) Bool(name string) bool {
	v, ok := tr.Get(name)
	return ok && v != 0
}

// Names lists the recorded element names in drawing order.
func (tr Truth) Names() []string {
	names := make([]string, len(tr))
	for i, s := range tr {
		names[i] = s.Name
	}
	return names
}

// BlinkName is the truth key of the blink label with period p.
func BlinkName(p float64) string {
	return "blink_" + PeriodLabel(p)
}
