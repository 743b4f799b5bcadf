package scroll

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/rulerview/internal/axis"
)

func newAxis(t *testing.T) *axis.Axis {
	t.Helper()
	a, err := axis.New(axis.Config{Min: 0, Max: 100, Step: 0.1, TickSpacing: 8, MajorEvery: 5, LabelEvery: 2})
	require.NoError(t, err)
	return a
}

func TestApplyDeltaWholeTicks(t *testing.T) {
	t.Parallel()

	ax := newAxis(t)
	acc := NewAccumulator(ax, ax.ToIndex(50.0))
	s := acc.ApplyDelta(40)
	require.Equal(t, 505, s.Index)
	require.Equal(t, 0.0, s.Residual)
	require.Equal(t, 50.5, acc.Value())

	s = acc.ApplyDelta(360)
	require.Equal(t, 550, s.Index)
	require.Equal(t, 55.0, acc.Value())
}

func TestApplyDeltaKeepsRemainder(t *testing.T) {
	t.Parallel()

	ax := newAxis(t)
	acc := NewAccumulator(ax, 500)

	s := acc.ApplyDelta(11)
	require.Equal(t, State{Index: 501, Residual: 3}, s)

	s = acc.ApplyDelta(-5)
	require.Equal(t, State{Index: 501, Residual: -2}, s)

	s = acc.ApplyDelta(-17)
	require.Equal(t, State{Index: 499, Residual: -3}, s)
}

func TestHardStopAtMax(t *testing.T) {
	t.Parallel()

	ax := newAxis(t)
	acc := NewAccumulator(ax, ax.ToIndex(100.0))
	for _, d := range []float64{1, 7.5, 8, 400} {
		s := acc.ApplyDelta(d)
		require.Equal(t, 100.0, acc.Value())
		require.Equal(t, 0.0, s.Residual)
	}
}

func TestHardStopAtMin(t *testing.T) {
	t.Parallel()

	ax := newAxis(t)
	acc := NewAccumulator(ax, 3)
	s := acc.ApplyDelta(-100)
	require.Equal(t, State{Index: 0, Residual: 0}, s)

	s = acc.ApplyDelta(-3)
	require.Equal(t, State{Index: 0, Residual: 0}, s)

	s = acc.ApplyDelta(5)
	require.Equal(t, State{Index: 0, Residual: 5}, s)
}

func TestClampZeroesResidual(t *testing.T) {
	t.Parallel()

	ax := newAxis(t)
	acc := NewAccumulator(ax, 998)
	s := acc.ApplyDelta(8*5 + 3)
	require.Equal(t, State{Index: 1000, Residual: 0}, s)
}

func TestBoundedAccumulation(t *testing.T) {
	t.Parallel()

	ax := newAxis(t)
	rng := rand.New(rand.NewPCG(7, 11))
	acc := NewAccumulator(ax, 500)
	for i := 0; i < 20000; i++ {
		d := (rng.Float64() - 0.5) * 200
		s := acc.ApplyDelta(d)
		require.GreaterOrEqual(t, s.Index, ax.MinIndex())
		require.LessOrEqual(t, s.Index, ax.MaxIndex())
		require.Less(t, math.Abs(s.Residual), ax.TickSpacing())
		if s.Index == ax.MaxIndex() {
			require.LessOrEqual(t, s.Residual, 0.0)
		}
		if s.Index == ax.MinIndex() {
			require.GreaterOrEqual(t, s.Residual, 0.0)
		}
	}
}

func TestDeterministicUnderBatching(t *testing.T) {
	t.Parallel()

	ax := newAxis(t)
	rng := rand.New(rand.NewPCG(3, 5))
	for i := 0; i < 500; i++ {
		start := 100 + rng.IntN(800)
		d1 := float64(rng.IntN(161) - 80)
		d2 := float64(rng.IntN(161) - 80)

		split := NewAccumulator(ax, start)
		split.ApplyDelta(d1)
		split.ApplyDelta(d2)

		joined := NewAccumulator(ax, start)
		joined.ApplyDelta(d1 + d2)

		require.Equal(t, joined.State(), split.State(), "start=%d d1=%v d2=%v", start, d1, d2)
	}
}

func TestAlign(t *testing.T) {
	t.Parallel()

	ax := newAxis(t)
	acc := NewAccumulator(ax, 500)
	acc.ApplyDelta(8 - 1e-9)
	s := acc.Align()
	require.Equal(t, State{Index: 501, Residual: 0}, s)

	acc.ApplyDelta(1e-9)
	s = acc.Align()
	require.Equal(t, State{Index: 501, Residual: 0}, s)

	acc.ApplyDelta(3)
	s = acc.Align()
	require.Equal(t, State{Index: 501, Residual: 3}, s, "a real residual is left alone")
}

func TestResetClamps(t *testing.T) {
	t.Parallel()

	ax := newAxis(t)
	acc := NewAccumulator(ax, 500)
	acc.ApplyDelta(3)
	require.Equal(t, State{Index: 1000}, acc.Reset(5000))
	require.Equal(t, 8000.0, acc.Offset())
	require.True(t, acc.AtBound())
}

func TestApplyDeltaHugeDeltas(t *testing.T) {
	t.Parallel()

	ax := newAxis(t)
	acc := NewAccumulator(ax, 500)
	require.Equal(t, State{Index: 1000}, acc.ApplyDelta(math.MaxFloat64))
	require.Equal(t, State{Index: 0}, acc.ApplyDelta(-math.MaxFloat64))
	require.Equal(t, State{Index: 0}, acc.ApplyDelta(math.Inf(1)), "infinite deltas are ignored")
}
