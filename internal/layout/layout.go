// Package layout projects a scroll state onto the visible tick marks.
//
// Every call recomputes the sequence from the axis and the committed scroll
// state; nothing is cached between frames, so the projection always agrees
// with the value model.
package layout

import (
	"iter"
	"math"

	"github.com/jask/rulerview/internal/axis"
	"github.com/jask/rulerview/internal/scroll"
)

// Kind classifies a tick.
type Kind uint8

const (
	Minor Kind = iota
	Major
	Labeled // a major tick that carries a label
)

func (k Kind) String() string {
	switch k {
	case Major:
		return "major"
	case Labeled:
		return "labeled"
	default:
		return "minor"
	}
}

// Tick describes one visible tick mark.
type Tick struct {
	Index int
	Pos   float64 // px along the scroll axis
	Kind  Kind
	Alpha uint8

	// Set for Labeled ticks only.
	Value      float64
	Text       string
	Suppressed bool // label hidden to keep clear of the centre readout
}

// Label is a label that should be drawn.
type Label struct {
	Index int
	Pos   float64
	Alpha uint8
	Value float64
	Text  string
}

// Layout holds the projection parameters.
//
// LabelClearance is the distance in px around the indicator inside which
// labels are suppressed: a labeled tick with |Pos-center| < LabelClearance is
// marked Suppressed and left out of Labels. Zero disables suppression.
type Layout struct {
	Axis           *axis.Axis
	LabelClearance float64
}

// New returns a Layout with the default clearance of one label interval.
func New(ax *axis.Axis) Layout {
	return Layout{Axis: ax, LabelClearance: DefaultClearance(ax)}
}

// DefaultClearance is one label interval in px.
func DefaultClearance(ax *axis.Axis) float64 {
	return float64(ax.LabelInterval()) * ax.TickSpacing()
}

// Ticks yields the visible ticks for a viewport extentPx long, ordered by
// position. Indices outside the axis are skipped.
func (l Layout) Ticks(extentPx float64, st scroll.State) iter.Seq[Tick] {
	return func(yield func(Tick) bool) {
		if extentPx <= 0 || l.Axis == nil {
			return
		}
		spacing := l.Axis.TickSpacing()
		center := extentPx / 2
		half := int(math.Floor(center / spacing))
		index := st.Index - half
		pos := center - float64(half)*spacing - st.Residual

		for i := 0; i <= 2*half; i, index, pos = i+1, index+1, pos+spacing {
			if !l.Axis.Contains(index) {
				continue
			}
			t := Tick{Index: index, Pos: pos, Kind: l.kind(index), Alpha: Alpha(pos, center)}
			if t.Kind == Labeled {
				t.Value = l.Axis.Value(index)
				t.Text = l.Axis.Format(index)
				t.Suppressed = math.Abs(pos-center) < l.LabelClearance
			}
			if !yield(t) {
				return
			}
		}
	}
}

// Labels yields the labels to draw: labeled ticks outside the clearance.
func (l Layout) Labels(extentPx float64, st scroll.State) iter.Seq[Label] {
	return func(yield func(Label) bool) {
		for t := range l.Ticks(extentPx, st) {
			if t.Kind != Labeled || t.Suppressed {
				continue
			}
			if !yield(Label{Index: t.Index, Pos: t.Pos, Alpha: t.Alpha, Value: t.Value, Text: t.Text}) {
				return
			}
		}
	}
}

// Visible collects Ticks into a slice.
func (l Layout) Visible(extentPx float64, st scroll.State) []Tick {
	var out []Tick
	for t := range l.Ticks(extentPx, st) {
		out = append(out, t)
	}
	return out
}

func (l Layout) kind(index int) Kind {
	switch {
	case l.Axis.IsLabeled(index):
		return Labeled
	case l.Axis.IsMajor(index):
		return Major
	default:
		return Minor
	}
}

// Alpha fades linearly from opaque at center to transparent at the edges.
func Alpha(pos, center float64) uint8 {
	if center <= 0 {
		return 0
	}
	a := 255 - math.Floor(255*math.Abs(pos-center)/center)
	return uint8(min(max(a, 0), 255))
}
