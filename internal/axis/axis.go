// Package axis models the quantized value range of a ruler.
//
// Values are never accumulated in floating point. Every reported value is
// recomputed from an integer tick index and rounded half-up on its decimal
// representation, so a step of 0.1 round-trips exactly.
package axis

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Config describes an axis before validation.
type Config struct {
	Min         float64
	Max         float64
	Step        float64
	TickSpacing float64 // px between adjacent ticks
	MajorEvery  int     // minor ticks per major tick
	LabelEvery  int     // major ticks per labeled tick
	Unit        string
}

// Axis is an immutable quantized range. Construct with New.
type Axis struct {
	step        decimal.Decimal
	decimals    int32
	minIndex    int
	maxIndex    int
	tickSpacing float64
	majorEvery  int
	labelEvery  int
	unit        string
}

// New validates cfg and builds an Axis. Invalid configurations return a
// *ConfigurationError; nothing is silently corrected.
func New(cfg Config) (*Axis, error) {
	switch {
	case math.IsNaN(cfg.Min) || math.IsInf(cfg.Min, 0):
		return nil, configErr("min", "must be finite, got %v", cfg.Min)
	case math.IsNaN(cfg.Max) || math.IsInf(cfg.Max, 0):
		return nil, configErr("max", "must be finite, got %v", cfg.Max)
	case cfg.Min > cfg.Max:
		return nil, configErr("min", "bounds inverted: %v > %v", cfg.Min, cfg.Max)
	case math.IsNaN(cfg.Step) || math.IsInf(cfg.Step, 0) || cfg.Step <= 0:
		return nil, configErr("step", "must be positive, got %v", cfg.Step)
	case math.IsNaN(cfg.TickSpacing) || math.IsInf(cfg.TickSpacing, 0) || cfg.TickSpacing <= 0:
		return nil, configErr("tick_spacing", "must be positive, got %v", cfg.TickSpacing)
	case cfg.MajorEvery < 1:
		return nil, configErr("major_every", "must be at least 1, got %d", cfg.MajorEvery)
	case cfg.LabelEvery < 1:
		return nil, configErr("label_every", "must be at least 1, got %d", cfg.LabelEvery)
	}

	step := decimal.NewFromFloat(cfg.Step)
	decimals := -step.Exponent()
	if decimals < 0 {
		decimals = 0
	}
	a := &Axis{
		step:        step,
		decimals:    decimals,
		tickSpacing: cfg.TickSpacing,
		majorEvery:  cfg.MajorEvery,
		labelEvery:  cfg.LabelEvery,
		unit:        cfg.Unit,
	}
	a.minIndex = a.ToIndex(cfg.Min)
	a.maxIndex = a.ToIndex(cfg.Max)
	if float64(a.minIndex) < -maxAbsIndex || float64(a.maxIndex) > maxAbsIndex {
		return nil, configErr("step", "range [%v, %v] needs more than 2^53 ticks at step %v", cfg.Min, cfg.Max, cfg.Step)
	}
	if a.minIndex > a.maxIndex {
		return nil, configErr("step", "range [%v, %v] holds no tick at step %v", cfg.Min, cfg.Max, cfg.Step)
	}
	return a, nil
}

// maxAbsIndex keeps every index and its offset exact in a float64.
const maxAbsIndex = 1 << 53

var (
	intMax = decimal.NewFromInt(math.MaxInt)
	intMin = decimal.NewFromInt(math.MinInt)
)

// ToIndex returns round(value/step). The result is not clamped to the axis,
// but it saturates at the int range, so infinities and huge values stay on
// their own side of it.
func (a *Axis) ToIndex(value float64) int {
	switch {
	case math.IsNaN(value):
		return a.minIndex
	case math.IsInf(value, 1):
		return math.MaxInt
	case math.IsInf(value, -1):
		return math.MinInt
	}
	q := decimal.NewFromFloat(value).Div(a.step).Round(0)
	switch {
	case q.GreaterThan(intMax):
		return math.MaxInt
	case q.LessThan(intMin):
		return math.MinInt
	}
	return int(q.IntPart())
}

// ToIndexStrict is ToIndex for callers that require the value to lie inside
// [Min, Max]. Values outside return an *OutOfRangeError alongside the clamped
// index.
func (a *Axis) ToIndexStrict(value float64) (int, error) {
	if math.IsNaN(value) {
		return a.minIndex, &OutOfRangeError{Value: value, Min: a.Min(), Max: a.Max()}
	}
	idx := a.ToIndex(value)
	if idx < a.minIndex || idx > a.maxIndex {
		return a.ClampIndex(idx), &OutOfRangeError{Value: value, Min: a.Min(), Max: a.Max()}
	}
	return idx, nil
}

// ClampIndex clamps index into [MinIndex, MaxIndex].
func (a *Axis) ClampIndex(index int) int {
	return min(max(index, a.minIndex), a.maxIndex)
}

// Value returns index*step rounded half-up to Decimals digits.
func (a *Axis) Value(index int) float64 {
	return a.decimal(index).InexactFloat64()
}

// Format renders the value at index with exactly Decimals fraction digits and
// the unit suffix.
func (a *Axis) Format(index int) string {
	var b strings.Builder
	b.WriteString(a.decimal(index).StringFixed(a.decimals))
	b.WriteString(a.unit)
	return b.String()
}

func (a *Axis) decimal(index int) decimal.Decimal {
	return decimal.NewFromInt(int64(index)).Mul(a.step).Round(a.decimals)
}

// Contains reports whether index lies inside the axis.
func (a *Axis) Contains(index int) bool {
	return index >= a.minIndex && index <= a.maxIndex
}

// OffsetOf is the absolute scroll offset in px of the tick at index.
func (a *Axis) OffsetOf(index int) float64 {
	return float64(index) * a.tickSpacing
}

// Bounds returns the scrollable extent in px.
func (a *Axis) Bounds() (lo, hi float64) {
	return a.OffsetOf(a.minIndex), a.OffsetOf(a.maxIndex)
}

// IsMajor reports whether the tick at index is drawn as a major tick.
func (a *Axis) IsMajor(index int) bool { return index%a.majorEvery == 0 }

// IsLabeled reports whether the tick at index carries a label.
func (a *Axis) IsLabeled(index int) bool { return index%a.LabelInterval() == 0 }

func (a *Axis) MinIndex() int { return a.minIndex }
func (a *Axis) MaxIndex() int { return a.maxIndex }

// Min and Max are the quantized bounds.
func (a *Axis) Min() float64 { return a.Value(a.minIndex) }
func (a *Axis) Max() float64 { return a.Value(a.maxIndex) }

func (a *Axis) Step() float64        { return a.step.InexactFloat64() }
func (a *Axis) Decimals() int        { return int(a.decimals) }
func (a *Axis) TickSpacing() float64 { return a.tickSpacing }
func (a *Axis) MajorEvery() int      { return a.majorEvery }
func (a *Axis) LabelEvery() int      { return a.labelEvery }
func (a *Axis) Unit() string         { return a.unit }

// LabelInterval is the number of ticks between labels.
func (a *Axis) LabelInterval() int { return a.majorEvery * a.labelEvery }
