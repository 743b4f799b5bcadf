// Package scroll turns pixel deltas into tick index advancement.
package scroll

import (
	"math"

	"github.com/jask/rulerview/internal/axis"
)

// State is the committed scroll position: the tick nearest the indicator and
// the drag progress not yet absorbed into it.
type State struct {
	Index    int
	Residual float64 // px, |Residual| < tick spacing
}

// Accumulator owns a State. Positive deltas increase the value.
type Accumulator struct {
	axis  *axis.Axis
	state State
}

// NewAccumulator starts at index, clamped into the axis.
func NewAccumulator(ax *axis.Axis, index int) *Accumulator {
	return &Accumulator{axis: ax, state: State{Index: ax.ClampIndex(index)}}
}

// ApplyDelta folds deltaPx into the state. The tape hard-stops at either end:
// motion past a bound is discarded and the residual zeroed.
func (a *Accumulator) ApplyDelta(deltaPx float64) State {
	if math.IsNaN(deltaPx) || math.IsInf(deltaPx, 0) {
		return a.state
	}
	s := &a.state
	lo, hi := a.axis.MinIndex(), a.axis.MaxIndex()
	if (s.Index == lo && deltaPx < 0) || (s.Index == hi && deltaPx > 0) {
		s.Residual = 0
		return *s
	}

	spacing := a.axis.TickSpacing()
	r := s.Residual + deltaPx
	rem := math.Mod(r, spacing)
	// one tick past a bound is enough to trigger the hard stop below
	whole := math.Round((r - rem) / spacing)
	next := min(max(float64(s.Index)+whole, float64(lo)-1), float64(hi)+1)
	s.Index = int(next)
	s.Residual = rem

	if s.Index <= lo {
		if s.Index < lo || s.Residual < 0 {
			s.Residual = 0
		}
		s.Index = lo
	}
	if s.Index >= hi {
		if s.Index > hi || s.Residual > 0 {
			s.Residual = 0
		}
		s.Index = hi
	}
	if s.Residual == 0 {
		s.Residual = 0 // drop negative zero
	}
	return *s
}

// Align folds a residual that floating point left a hair away from a tick
// boundary back onto it. It ends every snap.
func (a *Accumulator) Align() State {
	spacing := a.axis.TickSpacing()
	switch r := a.state.Residual; {
	case math.Abs(r) < alignEpsilon:
		a.state.Residual = 0
	case math.Abs(spacing-r) < alignEpsilon:
		a.state.Residual = 0
		a.state.Index = a.axis.ClampIndex(a.state.Index + 1)
	case math.Abs(spacing+r) < alignEpsilon:
		a.state.Residual = 0
		a.state.Index = a.axis.ClampIndex(a.state.Index - 1)
	}
	return a.state
}

const alignEpsilon = 1e-6

// Reset moves to index (clamped) with no residual.
func (a *Accumulator) Reset(index int) State {
	a.state = State{Index: a.axis.ClampIndex(index)}
	return a.state
}

func (a *Accumulator) State() State { return a.state }

func (a *Accumulator) Axis() *axis.Axis { return a.axis }

// Value is derived from the index, never accumulated.
func (a *Accumulator) Value() float64 { return a.axis.Value(a.state.Index) }

// Offset is the absolute scroll position in px.
func (a *Accumulator) Offset() float64 {
	return a.axis.OffsetOf(a.state.Index) + a.state.Residual
}

// AtBound reports whether the index sits on either end of the axis.
func (a *Accumulator) AtBound() bool {
	return a.state.Index == a.axis.MinIndex() || a.state.Index == a.axis.MaxIndex()
}
