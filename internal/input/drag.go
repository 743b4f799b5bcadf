// Package input turns terminal pointer and key events into the ruler's input
// stream of press, move and release along one axis.
package input

import (
	"time"

	"github.com/jask/rulerview/internal/canvas"
)

// Drag follows one pointer drag in cell coordinates.
//
// Moving the pointer towards the start of the axis (left, or up on a vertical
// ruler) pulls larger values under the indicator, so it yields a positive
// delta.
type Drag struct {
	Orientation canvas.Orientation
	PxPerCell   float64
	Tracker     VelocityTracker

	active bool
	last   int
	pos    float64
}

// Begin starts a drag at cell (x, y).
func (d *Drag) Begin(x, y int, at time.Time) {
	d.active = true
	d.last = d.along(x, y)
	d.pos = 0
	d.Tracker.Reset()
	d.Tracker.Add(at, 0)
}

// Move reports the px delta since the previous event. ok is false outside a
// drag or when the pointer stayed in the same cell along the axis.
func (d *Drag) Move(x, y int, at time.Time) (deltaPx float64, ok bool) {
	if !d.active {
		return 0, false
	}
	cur := d.along(x, y)
	cells := cur - d.last
	d.last = cur
	if cells == 0 {
		return 0, false
	}
	deltaPx = -float64(cells) * d.pxPerCell()
	d.pos += deltaPx
	d.Tracker.Add(at, d.pos)
	return deltaPx, true
}

// End finishes the drag and returns the release velocity in px/s.
func (d *Drag) End(at time.Time) (velocity float64, ok bool) {
	if !d.active {
		return 0, false
	}
	d.active = false
	return d.Tracker.Velocity(at), true
}

func (d *Drag) Active() bool { return d.active }

// Abort drops the drag without a release.
func (d *Drag) Abort() { d.active = false }

func (d *Drag) along(x, y int) int {
	if d.Orientation == canvas.Vertical {
		return y
	}
	return x
}

func (d *Drag) pxPerCell() float64 {
	if d.PxPerCell <= 0 {
		return 1
	}
	return d.PxPerCell
}
