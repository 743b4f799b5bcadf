// Package snap lands the tape exactly on a tick after a gesture settles.
package snap

import (
	"math"
	"time"
)

// DefaultDuration matches a platform scroller's default animation length.
const DefaultDuration = 250 * time.Millisecond

// Correction returns the signed px still needed to move residual onto the
// nearer tick boundary: 0 or ±spacing. Exact half-way ties stay put.
func Correction(residual, spacing float64) float64 {
	if residual == 0 || spacing <= 0 {
		return 0
	}
	half := spacing / 2
	switch {
	case math.Abs(residual) <= half:
		return -residual
	case residual > 0:
		return spacing - residual
	default:
		return -spacing - residual
	}
}

// Corrector starts fixed-length corrective animations.
type Corrector struct {
	Duration time.Duration
}

// Trajectory interpolates from 0 to its target over a fixed duration.
type Trajectory struct {
	target   float64
	duration time.Duration
	last     float64
	done     bool
}

// Start returns a trajectory covering correction px.
func (c Corrector) Start(correction float64) *Trajectory {
	d := c.Duration
	if d <= 0 {
		d = DefaultDuration
	}
	return &Trajectory{target: correction, duration: d, done: correction == 0}
}

// Sample mirrors momentum.Trajectory.Sample: it yields the increment since the
// last sample and reports done on the sample that reaches the target. The
// increments always sum to exactly the target.
func (t *Trajectory) Sample(elapsed time.Duration) (delta float64, done bool) {
	if t.done {
		return 0, true
	}
	var pos float64
	if elapsed >= t.duration {
		pos = t.target
		t.done = true
	} else {
		p := max(float64(elapsed)/float64(t.duration), 0)
		pos = t.target * easeOut(p)
	}
	delta = pos - t.last
	t.last = pos
	return delta, t.done
}

// easeOut is a quadratic deceleration over [0, 1].
func easeOut(p float64) float64 {
	return 1 - (1-p)*(1-p)
}

func (t *Trajectory) Target() float64         { return t.target }
func (t *Trajectory) Duration() time.Duration { return t.duration }
func (t *Trajectory) Done() bool              { return t.done }
