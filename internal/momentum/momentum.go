// Package momentum simulates a fling: the scroll that keeps going after the
// pointer is released, decaying exponentially against friction.
package momentum

import (
	"errors"
	"math"
	"time"
)

// ErrNotEligible is returned by Start when the release velocity is too slow to
// fling. It is a branch, not a failure: callers snap instead.
var ErrNotEligible = errors.New("release velocity below fling threshold")

const (
	DefaultMinVelocity  = 200.0  // px/s
	DefaultMaxVelocity  = 8000.0 // px/s
	DefaultTimeConstant = 325 * time.Millisecond
	DefaultStopVelocity = 10.0 // px/s
)

// Simulator holds the fling tuning. The zero value uses the defaults.
type Simulator struct {
	MinVelocity  float64
	MaxVelocity  float64
	TimeConstant time.Duration
	StopVelocity float64
}

// Trajectory is one fling. It is advanced with Sample once per frame and
// discarded when Sample reports done.
type Trajectory struct {
	velocity float64 // px/s, signed, capped
	tau      float64 // seconds
	start    float64 // absolute px at release
	lo, hi   float64 // absolute px bounds
	duration float64 // seconds until velocity decays below the stop threshold
	last     float64 // cumulative offset already emitted
	done     bool
}

// Start begins a fling from currentOffset (absolute px) clamped to [lo, hi].
func (s Simulator) Start(velocity, currentOffset, lo, hi float64) (*Trajectory, error) {
	s = s.withDefaults()
	if math.IsNaN(velocity) || math.Abs(velocity) < s.MinVelocity {
		return nil, ErrNotEligible
	}
	if math.Abs(velocity) > s.MaxVelocity {
		velocity = math.Copysign(s.MaxVelocity, velocity)
	}
	tau := s.TimeConstant.Seconds()
	return &Trajectory{
		velocity: velocity,
		tau:      tau,
		start:    currentOffset,
		lo:       lo,
		hi:       hi,
		duration: tau * math.Log(math.Abs(velocity)/s.StopVelocity),
	}, nil
}

func (s Simulator) withDefaults() Simulator {
	if s.MinVelocity <= 0 {
		s.MinVelocity = DefaultMinVelocity
	}
	if s.MaxVelocity <= 0 {
		s.MaxVelocity = DefaultMaxVelocity
	}
	if s.MaxVelocity < s.MinVelocity {
		s.MaxVelocity = s.MinVelocity
	}
	if s.TimeConstant <= 0 {
		s.TimeConstant = DefaultTimeConstant
	}
	if s.StopVelocity <= 0 {
		s.StopVelocity = DefaultStopVelocity
	}
	if s.StopVelocity > s.MinVelocity {
		s.StopVelocity = s.MinVelocity
	}
	return s
}

// Sample returns the offset travelled since the previous sample. elapsed is
// measured from the start of the fling. Once done is true the trajectory has
// stopped, either decayed or pinned to a bound, and further samples return 0.
func (t *Trajectory) Sample(elapsed time.Duration) (delta float64, done bool) {
	if t.done {
		return 0, true
	}
	sec := max(elapsed.Seconds(), 0)
	if sec >= t.duration {
		sec = t.duration
		t.done = true
	}
	pos := t.offsetAt(sec)

	// clip to the scrollable extent; hitting it ends the fling
	abs := t.start + pos
	if abs <= t.lo && t.velocity < 0 {
		pos = t.lo - t.start
		t.done = true
	} else if abs >= t.hi && t.velocity > 0 {
		pos = t.hi - t.start
		t.done = true
	}

	delta = pos - t.last
	t.last = pos
	return delta, t.done
}

func (t *Trajectory) offsetAt(sec float64) float64 {
	return t.velocity * t.tau * (1 - math.Exp(-sec/t.tau))
}

// Velocity is the instantaneous velocity at elapsed, in px/s.
func (t *Trajectory) Velocity(elapsed time.Duration) float64 {
	return t.velocity * math.Exp(-max(elapsed.Seconds(), 0)/t.tau)
}

// Distance is the total offset the fling covers if no bound interrupts it.
func (t *Trajectory) Distance() float64 { return t.offsetAt(t.duration) }

// Duration is the unclipped lifetime of the fling.
func (t *Trajectory) Duration() time.Duration {
	return time.Duration(t.duration * float64(time.Second))
}

func (t *Trajectory) Done() bool { return t.done }
