package input

import "time"

// DefaultWindow is how far back a release looks when estimating velocity.
const DefaultWindow = 100 * time.Millisecond

// VelocityTracker estimates release velocity from recent pointer positions.
// Only samples inside the window count, so a pointer that stopped before it
// was lifted releases at zero velocity.
type VelocityTracker struct {
	Window  time.Duration
	samples []sample
}

type sample struct {
	at  time.Time
	pos float64 // px along the scroll axis
}

// Add records the pointer at pos and drops samples outside the window.
func (v *VelocityTracker) Add(at time.Time, pos float64) {
	v.prune(at)
	v.samples = append(v.samples, sample{at: at, pos: pos})
}

// Velocity in px/s as of now. Fewer than two samples in the window gives 0.
func (v *VelocityTracker) Velocity(now time.Time) float64 {
	v.prune(now)
	if len(v.samples) < 2 {
		return 0
	}
	first, last := v.samples[0], v.samples[len(v.samples)-1]
	span := last.at.Sub(first.at).Seconds()
	if span <= 0 {
		return 0
	}
	return (last.pos - first.pos) / span
}

func (v *VelocityTracker) Reset() { v.samples = v.samples[:0] }

func (v *VelocityTracker) prune(now time.Time) {
	w := v.Window
	if w <= 0 {
		w = DefaultWindow
	}
	cutoff := now.Add(-w)
	kept := v.samples[:0] // reuse underlying array
	for _, s := range v.samples {
		if !s.at.Before(cutoff) {
			kept = append(kept, s)
		}
	}
	v.samples = kept
}
