// Package gesture orchestrates drag, fling and snap-back over a scroll
// accumulator.
//
// The controller is not safe for concurrent use. Input events and frame ticks
// must be delivered from the same goroutine, which is how both terminal
// backends drive it.
package gesture

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/jask/rulerview/internal/momentum"
	"github.com/jask/rulerview/internal/scroll"
	"github.com/jask/rulerview/internal/snap"
)

// State of the gesture machine. Idle is the only quiescent state.
type State uint8

const (
	Idle State = iota
	Dragging
	Flinging
	SnappingBack
)

func (s State) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case Flinging:
		return "flinging"
	case SnappingBack:
		return "snapping_back"
	default:
		return "idle"
	}
}

// Controller owns the scroll state for the lifetime of the widget.
type Controller struct {
	acc        *scroll.Accumulator
	sim        momentum.Simulator
	corrector  snap.Corrector
	correction bool
	log        *zap.Logger
	onChange   func(old, new int)

	state   State
	fling   *momentum.Trajectory
	snap    *snap.Trajectory
	elapsed time.Duration
}

// Option configures a Controller.
type Option func(*Controller)

func WithSimulator(s momentum.Simulator) Option { return func(c *Controller) { c.sim = s } }
func WithCorrector(s snap.Corrector) Option     { return func(c *Controller) { c.corrector = s } }

// WithCorrection toggles snap-back. When off the tape rests wherever the
// gesture leaves it.
func WithCorrection(on bool) Option { return func(c *Controller) { c.correction = on } }

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithOnChange registers a callback fired when the tick index changes through
// dragging, flinging or snapping.
func WithOnChange(fn func(old, new int)) Option { return func(c *Controller) { c.onChange = fn } }

// New returns an idle controller driving acc.
func New(acc *scroll.Accumulator, opts ...Option) *Controller {
	c := &Controller{acc: acc, correction: true, log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Press starts a drag. Any running fling or snap is dropped where it is.
func (c *Controller) Press() {
	if c.fling != nil || c.snap != nil {
		c.log.Debug("animation interrupted", zap.Stringer("state", c.state))
	}
	c.fling, c.snap = nil, nil
	c.transition(Dragging)
}

// Move applies a drag delta in px. Moves outside a drag are ignored.
func (c *Controller) Move(deltaPx float64) {
	if c.state != Dragging {
		c.log.Debug("move ignored", zap.Stringer("state", c.state), zap.Float64("delta", deltaPx))
		return
	}
	c.apply(deltaPx)
}

// Release ends a drag. A fast enough release flings; otherwise the tape snaps
// onto the nearest tick.
func (c *Controller) Release(velocityPxPerSec float64) {
	if c.state != Dragging {
		return
	}
	lo, hi := c.acc.Axis().Bounds()
	tr, err := c.sim.Start(velocityPxPerSec, c.acc.Offset(), lo, hi)
	if err != nil {
		if !errors.Is(err, momentum.ErrNotEligible) {
			c.log.Warn("fling rejected", zap.Error(err))
		}
		c.settle()
		return
	}
	c.fling, c.elapsed = tr, 0
	c.log.Debug("fling started", zap.Float64("velocity", velocityPxPerSec), zap.Float64("distance", tr.Distance()))
	c.transition(Flinging)
}

// Cancel ends a drag the way a zero-velocity release would.
func (c *Controller) Cancel() {
	if c.state == Dragging {
		c.Release(0)
	}
}

// Frame advances the running animation by dt and reports whether another
// frame is needed.
func (c *Controller) Frame(dt time.Duration) bool {
	switch c.state {
	case Flinging:
		c.elapsed += dt
		d, done := c.fling.Sample(c.elapsed)
		c.apply(d)
		if done {
			c.fling = nil
			c.settle()
		}
	case SnappingBack:
		c.elapsed += dt
		d, done := c.snap.Sample(c.elapsed)
		c.apply(d)
		if done {
			c.snap = nil
			old := c.acc.State().Index
			c.notify(old, c.acc.Align().Index)
			c.transition(Idle)
		}
	}
	return c.Active()
}

// JumpTo moves to index with no residual, dropping any animation. A drag in
// progress keeps going from the new position.
func (c *Controller) JumpTo(index int) scroll.State {
	c.fling, c.snap = nil, nil
	if c.state != Dragging {
		c.transition(Idle)
	}
	return c.acc.Reset(index)
}

// settle decides what follows a drag or a fling.
func (c *Controller) settle() {
	res := c.acc.State().Residual
	if !c.correction || res == 0 {
		c.transition(Idle)
		return
	}
	corr := snap.Correction(res, c.acc.Axis().TickSpacing())
	c.snap, c.elapsed = c.corrector.Start(corr), 0
	c.log.Debug("snap started", zap.Float64("residual", res), zap.Float64("correction", corr))
	c.transition(SnappingBack)
}

func (c *Controller) apply(deltaPx float64) {
	if deltaPx == 0 {
		return
	}
	old := c.acc.State().Index
	c.notify(old, c.acc.ApplyDelta(deltaPx).Index)
}

func (c *Controller) notify(old, cur int) {
	if old != cur && c.onChange != nil {
		c.onChange(old, cur)
	}
}

func (c *Controller) transition(to State) {
	if c.state == to {
		return
	}
	c.log.Debug("gesture transition", zap.Stringer("from", c.state), zap.Stringer("to", to))
	c.state = to
}

func (c *Controller) State() State { return c.state }

// Scroll is the committed scroll state.
func (c *Controller) Scroll() scroll.State { return c.acc.State() }

// Active reports whether an animation is running.
func (c *Controller) Active() bool { return c.state == Flinging || c.state == SnappingBack }

// SnapTarget is the correction of the running snap, or 0.
func (c *Controller) SnapTarget() float64 {
	if c.snap == nil {
		return 0
	}
	return c.snap.Target()
}
