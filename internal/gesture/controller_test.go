package gesture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jask/rulerview/internal/axis"
	"github.com/jask/rulerview/internal/momentum"
	"github.com/jask/rulerview/internal/scroll"
)

const frame = 16 * time.Millisecond

type changes struct{ seen [][2]int }

func (c *changes) record(old, cur int) { c.seen = append(c.seen, [2]int{old, cur}) }

func newController(t *testing.T, start int, opts ...Option) (*Controller, *changes) {
	t.Helper()
	ax, err := axis.New(axis.Config{Min: 0, Max: 100, Step: 0.1, TickSpacing: 8, MajorEvery: 5, LabelEvery: 2})
	require.NoError(t, err)
	ch := &changes{}
	opts = append([]Option{
		WithLogger(zaptest.NewLogger(t)),
		WithSimulator(momentum.Simulator{MinVelocity: 200}),
		WithOnChange(ch.record),
	}, opts...)
	return New(scroll.NewAccumulator(ax, start), opts...), ch
}

func runUntilIdle(t *testing.T, c *Controller) int {
	t.Helper()
	for i := 1; i <= 1000; i++ {
		if !c.Frame(frame) {
			return i
		}
	}
	t.Fatal("animation never settled")
	return 0
}

func TestSlowReleaseSnapsBack(t *testing.T) {
	t.Parallel()

	c, ch := newController(t, 500)
	require.Equal(t, Idle, c.State())

	c.Press()
	require.Equal(t, Dragging, c.State())
	c.Move(3)
	c.Release(50)

	require.Equal(t, SnappingBack, c.State())
	require.Equal(t, -3.0, c.SnapTarget())

	runUntilIdle(t, c)
	require.Equal(t, Idle, c.State())
	require.Equal(t, scroll.State{Index: 500}, c.Scroll())
	require.Empty(t, ch.seen)
}

func TestSnapRoundsToNextTick(t *testing.T) {
	t.Parallel()

	c, ch := newController(t, 500)
	c.Press()
	c.Move(-5)
	c.Release(0)
	require.Equal(t, SnappingBack, c.State())
	require.Equal(t, -3.0, c.SnapTarget())

	runUntilIdle(t, c)
	require.Equal(t, scroll.State{Index: 499}, c.Scroll())
	require.Equal(t, [][2]int{{500, 499}}, ch.seen)
}

func TestReleaseOnTickGoesIdle(t *testing.T) {
	t.Parallel()

	c, _ := newController(t, 500)
	c.Press()
	c.Move(16)
	c.Release(10)
	require.Equal(t, Idle, c.State())
	require.Equal(t, scroll.State{Index: 502}, c.Scroll())
	require.False(t, c.Frame(frame))
}

func TestFlingThenSnap(t *testing.T) {
	t.Parallel()

	c, ch := newController(t, 500)
	c.Press()
	c.Move(2)
	c.Release(2500)
	require.Equal(t, Flinging, c.State())

	runUntilIdle(t, c)
	require.Equal(t, Idle, c.State())
	st := c.Scroll()
	require.Zero(t, st.Residual)
	require.Greater(t, st.Index, 500)
	require.NotEmpty(t, ch.seen)
	require.Equal(t, st.Index, ch.seen[len(ch.seen)-1][1])
}

func TestFlingStopsAtMax(t *testing.T) {
	t.Parallel()

	c, _ := newController(t, 990)
	c.Press()
	c.Release(8000)
	require.Equal(t, Flinging, c.State())
	runUntilIdle(t, c)
	require.Equal(t, scroll.State{Index: 1000}, c.Scroll())
}

func TestFlingStopsAtMin(t *testing.T) {
	t.Parallel()

	c, _ := newController(t, 10)
	c.Press()
	c.Release(-8000)
	runUntilIdle(t, c)
	require.Equal(t, scroll.State{Index: 0}, c.Scroll())
}

func TestPressInterruptsFling(t *testing.T) {
	t.Parallel()

	c, _ := newController(t, 500)
	c.Press()
	c.Release(3000)
	require.True(t, c.Frame(frame))
	require.True(t, c.Frame(frame))
	mid := c.Scroll()

	c.Press()
	require.Equal(t, Dragging, c.State())
	require.False(t, c.Frame(frame))
	require.Equal(t, mid, c.Scroll(), "a held tape does not move")
}

func TestPressInterruptsSnap(t *testing.T) {
	t.Parallel()

	c, _ := newController(t, 500)
	c.Press()
	c.Move(3)
	c.Release(0)
	c.Frame(frame)
	c.Press()
	require.Equal(t, Dragging, c.State())
	require.Zero(t, c.SnapTarget())
}

func TestCorrectionDisabled(t *testing.T) {
	t.Parallel()

	c, _ := newController(t, 500, WithCorrection(false))
	c.Press()
	c.Move(3)
	c.Release(0)
	require.Equal(t, Idle, c.State())
	require.Equal(t, scroll.State{Index: 500, Residual: 3}, c.Scroll())
}

func TestCancelSnaps(t *testing.T) {
	t.Parallel()

	c, _ := newController(t, 500)
	c.Press()
	c.Move(5)
	c.Cancel()
	require.Equal(t, SnappingBack, c.State())
	require.Equal(t, 3.0, c.SnapTarget())
	runUntilIdle(t, c)
	require.Equal(t, scroll.State{Index: 501}, c.Scroll())
}

func TestEventsOutsideDragIgnored(t *testing.T) {
	t.Parallel()

	c, ch := newController(t, 500)
	c.Move(40)
	c.Release(5000)
	c.Cancel()
	require.Equal(t, Idle, c.State())
	require.Equal(t, scroll.State{Index: 500}, c.Scroll())
	require.Empty(t, ch.seen)
}

func TestDragNotifiesOncePerChange(t *testing.T) {
	t.Parallel()

	c, ch := newController(t, 500)
	c.Press()
	for range 8 {
		c.Move(1)
	}
	c.Move(1)
	require.Equal(t, [][2]int{{500, 501}}, ch.seen)
}

func TestJumpToDropsAnimation(t *testing.T) {
	t.Parallel()

	c, _ := newController(t, 500)
	c.Press()
	c.Release(3000)
	st := c.JumpTo(5000)
	require.Equal(t, scroll.State{Index: 1000}, st)
	require.Equal(t, Idle, c.State())
	require.False(t, c.Frame(frame))
}
