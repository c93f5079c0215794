package metrics

import "math"

// Window is a caller-owned bounded sample sequence. Appending past the
// maximum evicts the oldest samples, which is what keeps memory flat under
// indefinite live operation.
type Window struct {
	max     int
	samples []Sample
}

// NewWindow creates a window holding at most max samples. A max below 1 is
// treated as 1.
func NewWindow(max int) *Window {
	if max < 1 {
		max = 1
	}
	return &Window{max: max}
}

// MaxSamplesFor translates a retention duration into a sample count for a
// given tick interval.
func MaxSamplesFor(minutes float64, intervalMs int64) int {
	if minutes <= 0 || intervalMs <= 0 {
		return 0
	}
	return int(math.Floor(minutes * 60000 / float64(intervalMs)))
}

// Append adds a sample and trims oldest-first to the maximum.
func (w *Window) Append(s Sample) {
	w.samples = append(w.samples, s)
	if len(w.samples) > w.max {
		w.samples = w.samples[len(w.samples)-w.max:]
	}
}

// SetMax changes the retention bound, trimming immediately if needed.
func (w *Window) SetMax(max int) {
	if max < 1 {
		max = 1
	}
	w.max = max
	if len(w.samples) > w.max {
		w.samples = w.samples[len(w.samples)-w.max:]
	}
}

// Len returns the number of retained samples.
func (w *Window) Len() int { return len(w.samples) }

// Samples returns a copy of the retained samples, oldest first.
func (w *Window) Samples() []Sample {
	out := make([]Sample, len(w.samples))
	copy(out, w.samples)
	return out
}
