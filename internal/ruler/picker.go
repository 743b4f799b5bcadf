// Package ruler is the widget facade: it ties an axis, a gesture controller
// and a tick layout together behind the value API that adapters use.
//
// Adapters own no physics. They translate their input events into Press, Move,
// Release and Cancel, call Frame from their frame clock, and implement Sink to
// draw what Render hands them.
package ruler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/jask/rulerview/internal/axis"
	"github.com/jask/rulerview/internal/gesture"
	"github.com/jask/rulerview/internal/layout"
	"github.com/jask/rulerview/internal/momentum"
	"github.com/jask/rulerview/internal/scroll"
	"github.com/jask/rulerview/internal/snap"
)

// Sink receives draw calls. Positions are px along the scroll axis; the core
// never picks colours, fonts or text shaping.
type Sink interface {
	DrawTick(pos float64, kind layout.Kind, alpha uint8)
	DrawLabel(pos float64, alpha uint8, text string)
	// DrawIndicator draws the fixed centre line and the live value readout.
	DrawIndicator(pos float64, text string)
}

// Store persists the current value between runs.
type Store interface {
	// LoadValue reports ok=false when nothing has been saved under key.
	LoadValue(ctx context.Context, key string) (value float64, ok bool, err error)
	SaveValue(ctx context.Context, key string, value float64) error
}

// DefaultName keys the value in a Store when no name is configured.
const DefaultName = "default"

// Picker is a ruler widget. Like gesture.Controller it must be driven from a
// single goroutine.
type Picker struct {
	name       string
	axis       *axis.Axis
	ctrl       *gesture.Controller
	layout     layout.Layout
	log        *zap.Logger
	sim        momentum.Simulator
	corrector  snap.Corrector
	correction bool
	clearance  float64 // <0 selects one label interval
	listener   func(float64)
}

// Option configures a Picker.
type Option func(*Picker)

func WithName(name string) Option {
	return func(p *Picker) {
		if name != "" {
			p.name = name
		}
	}
}

// WithPhysics sets the fling and snap tuning and whether snapping is on.
func WithPhysics(sim momentum.Simulator, c snap.Corrector, correction bool) Option {
	return func(p *Picker) { p.sim, p.corrector, p.correction = sim, c, correction }
}

// WithLabelClearance sets the label suppression distance in px. Zero disables
// suppression; a negative value selects one label interval.
func WithLabelClearance(px float64) Option { return func(p *Picker) { p.clearance = px } }

func WithLogger(l *zap.Logger) Option {
	return func(p *Picker) {
		if l != nil {
			p.log = l
		}
	}
}

// New builds a picker positioned at initial. A NaN initial value selects the
// middle of the range; values outside it are clamped.
func New(ax *axis.Axis, initial float64, opts ...Option) *Picker {
	p := &Picker{name: DefaultName, axis: ax, correction: true, clearance: -1, log: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	if math.IsNaN(initial) {
		initial = (ax.Min() + ax.Max()) / 2
	}
	p.build(ax, p.clampLogged(initial))
	return p
}

func (p *Picker) build(ax *axis.Axis, index int) {
	p.axis = ax
	p.layout = layout.Layout{Axis: ax, LabelClearance: p.clearance}
	if p.clearance < 0 {
		p.layout.LabelClearance = layout.DefaultClearance(ax)
	}
	p.ctrl = gesture.New(scroll.NewAccumulator(ax, index),
		gesture.WithSimulator(p.sim),
		gesture.WithCorrector(p.corrector),
		gesture.WithCorrection(p.correction),
		gesture.WithLogger(p.log.Named("gesture")),
		gesture.WithOnChange(p.changed),
	)
}

func (p *Picker) clampLogged(v float64) int {
	idx, err := p.axis.ToIndexStrict(v)
	if err != nil {
		p.log.Warn("value out of range, clamped",
			zap.Float64("value", v),
			zap.Float64("clamped", p.axis.Value(idx)),
			zap.Error(err))
	}
	return idx
}

func (p *Picker) changed(_, cur int) {
	if p.listener != nil {
		p.listener(p.axis.Value(cur))
	}
}

// OnValueChanged registers fn to run whenever dragging, flinging or snapping
// moves the value. It does not fire for SetValue or for frames that leave the
// value unchanged.
func (p *Picker) OnValueChanged(fn func(float64)) { p.listener = fn }

// Value is the current quantized value.
func (p *Picker) Value() float64 { return p.axis.Value(p.ctrl.Scroll().Index) }

// Text is the current value formatted for display.
func (p *Picker) Text() string { return p.axis.Format(p.ctrl.Scroll().Index) }

// SetValue moves to v, clamping values outside the axis. Only NaN is refused.
func (p *Picker) SetValue(v float64) error {
	if math.IsNaN(v) {
		return &axis.OutOfRangeError{Value: v, Min: p.axis.Min(), Max: p.axis.Max()}
	}
	p.ctrl.JumpTo(p.clampLogged(v))
	return nil
}

// Reconfigure swaps in a new axis, keeping the current value where the new
// range allows it. A running fling or snap stops on the clamped tick; a drag
// in progress keeps going from there with no residual.
func (p *Picker) Reconfigure(ax *axis.Axis) {
	v := p.Value()
	dragging := p.ctrl.State() == gesture.Dragging
	p.axis = ax
	p.build(ax, p.clampLogged(v))
	if dragging {
		p.ctrl.Press()
	}
}

func (p *Picker) Press()                      { p.ctrl.Press() }
func (p *Picker) Move(deltaPx float64)        { p.ctrl.Move(deltaPx) }
func (p *Picker) Release(velocity float64)    { p.ctrl.Release(velocity) }
func (p *Picker) Cancel()                     { p.ctrl.Cancel() }
func (p *Picker) Frame(dt time.Duration) bool { return p.ctrl.Frame(dt) }

func (p *Picker) State() gesture.State  { return p.ctrl.State() }
func (p *Picker) Active() bool          { return p.ctrl.Active() }
func (p *Picker) Scroll() scroll.State  { return p.ctrl.Scroll() }
func (p *Picker) Axis() *axis.Axis      { return p.axis }
func (p *Picker) Layout() layout.Layout { return p.layout }
func (p *Picker) Name() string          { return p.name }

// Render draws one frame for a viewport extentPx long.
func (p *Picker) Render(extentPx float64, sink Sink) {
	st := p.ctrl.Scroll()
	for t := range p.layout.Ticks(extentPx, st) {
		sink.DrawTick(t.Pos, t.Kind, t.Alpha)
	}
	for l := range p.layout.Labels(extentPx, st) {
		sink.DrawLabel(l.Pos, l.Alpha, l.Text)
	}
	sink.DrawIndicator(extentPx/2, p.Text())
}

// Load restores the value saved under the picker's name. A store with nothing
// saved leaves the picker where it is.
func (p *Picker) Load(ctx context.Context, s Store) error {
	v, ok, err := s.LoadValue(ctx, p.name)
	if err != nil {
		return fmt.Errorf("load value %q: %w", p.name, err)
	}
	if !ok {
		p.log.Debug("no saved value", zap.String("name", p.name))
		return nil
	}
	if err := p.SetValue(v); err != nil && !errors.Is(err, axis.ErrOutOfRange) {
		return err
	}
	return nil
}

// Save stores the current value under the picker's name.
func (p *Picker) Save(ctx context.Context, s Store) error {
	if err := s.SaveValue(ctx, p.name, p.Value()); err != nil {
		return fmt.Errorf("save value %q: %w", p.name, err)
	}
	return nil
}
