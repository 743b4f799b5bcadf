package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jask/rulerview/internal/axis"
	"github.com/jask/rulerview/internal/canvas"
	"github.com/jask/rulerview/internal/gesture"
	"github.com/jask/rulerview/internal/ruler"
)

type detents struct{ major, minor int }

func (d *detents) Detent(major bool) {
	if major {
		d.major++
	} else {
		d.minor++
	}
}

type harness struct {
	m     *Model
	clock time.Time
	clk   *detents
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	ax, err := axis.New(axis.Config{Min: 0, Max: 100, Step: 0.1, TickSpacing: 8, MajorEvery: 5, LabelEvery: 2, Unit: "kg"})
	require.NoError(t, err)

	h := &harness{clock: time.Unix(1_700_000_000, 0), clk: &detents{}}
	opts.Clicker = h.clk
	opts.Logger = zaptest.NewLogger(t)
	opts.FrameInterval = 16 * time.Millisecond
	h.m = New(ruler.New(ax, 50), opts)
	h.m.now = func() time.Time { return h.clock }
	h.send(tea.WindowSizeMsg{Width: 80, Height: 10})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	_, cmd := h.m.Update(msg)
	return cmd
}

func (h *harness) key(k tea.KeyType) tea.Cmd { return h.send(tea.KeyMsg{Type: k}) }

func (h *harness) runes(s string) tea.Cmd {
	return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) mouse(action tea.MouseAction, button tea.MouseButton, x, y int) tea.Cmd {
	return h.send(tea.MouseMsg{X: x, Y: y, Action: action, Button: button})
}

// settle plays frames until the model stops asking for them.
func (h *harness) settle(t *testing.T, cmd tea.Cmd) int {
	t.Helper()
	for i := 0; i < 1000; i++ {
		if cmd == nil {
			return i
		}
		h.clock = h.clock.Add(16 * time.Millisecond)
		cmd = h.send(frameMsg(h.clock))
	}
	t.Fatal("animation never settled")
	return 0
}

func (h *harness) value() float64 { return h.m.Picker().Value() }

func TestArrowKeysNudgeOneTick(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	require.Nil(t, h.key(tea.KeyRight))
	require.Equal(t, 50.1, h.value())
	require.Nil(t, h.runes("h"))
	require.Nil(t, h.runes("h"))
	require.Equal(t, 49.9, h.value())
	require.Equal(t, 3, h.clk.minor+h.clk.major)
	require.Equal(t, 1, h.clk.major, "50.0 is a major tick")
}

func TestHomeEnd(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.key(tea.KeyEnd)
	require.Equal(t, 100.0, h.value())
	h.key(tea.KeyHome)
	require.Equal(t, 0.0, h.value())
	require.Zero(t, h.clk.minor+h.clk.major, "jumps are not gestures")
}

func TestKeyboardFling(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	cmd := h.key(tea.KeyShiftRight)
	require.NotNil(t, cmd)
	require.Equal(t, gesture.Flinging, h.m.Picker().State())

	frames := h.settle(t, cmd)
	require.Greater(t, frames, 1)
	require.Equal(t, gesture.Idle, h.m.Picker().State())
	require.Greater(t, h.value(), 50.0)
	require.Zero(t, h.m.Picker().Scroll().Residual)
}

func TestMouseDragAndSnap(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{PxPerCell: 4})
	require.Nil(t, h.mouse(tea.MouseActionPress, tea.MouseButtonLeft, 40, 3))
	require.Equal(t, gesture.Dragging, h.m.Picker().State())

	h.clock = h.clock.Add(10 * time.Millisecond)
	h.mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 38, 3)
	require.Equal(t, 50.1, h.value())

	h.clock = h.clock.Add(10 * time.Millisecond)
	h.mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 37, 3)
	require.Equal(t, 4.0, h.m.Picker().Scroll().Residual)

	// held still long enough that the release carries no velocity
	h.clock = h.clock.Add(time.Second)
	cmd := h.mouse(tea.MouseActionRelease, tea.MouseButtonNone, 37, 3)
	require.NotNil(t, cmd)
	require.Equal(t, gesture.SnappingBack, h.m.Picker().State())

	h.settle(t, cmd)
	require.Equal(t, 50.1, h.value())
	require.Equal(t, gesture.Idle, h.m.Picker().State())
}

func TestFastDragFlings(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{PxPerCell: 4})
	h.mouse(tea.MouseActionPress, tea.MouseButtonLeft, 60, 3)
	for x := 58; x >= 40; x -= 2 {
		h.clock = h.clock.Add(5 * time.Millisecond)
		h.mouse(tea.MouseActionMotion, tea.MouseButtonLeft, x, 3)
	}
	dragged := h.value()
	cmd := h.mouse(tea.MouseActionRelease, tea.MouseButtonNone, 40, 3)
	require.Equal(t, gesture.Flinging, h.m.Picker().State())
	h.settle(t, cmd)
	require.Greater(t, h.value(), dragged)
}

func TestWheelNudges(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.mouse(tea.MouseActionPress, tea.MouseButtonWheelUp, 0, 0)
	h.mouse(tea.MouseActionPress, tea.MouseButtonWheelUp, 0, 0)
	h.mouse(tea.MouseActionPress, tea.MouseButtonWheelDown, 0, 0)
	require.Equal(t, 50.1, h.value())
}

func TestKeysIgnoredDuringDrag(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.mouse(tea.MouseActionPress, tea.MouseButtonLeft, 10, 1)
	h.key(tea.KeyRight)
	require.Equal(t, 50.0, h.value())
	require.Equal(t, gesture.Dragging, h.m.Picker().State())
}

func TestViewAndQuit(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	view := h.m.View()
	require.Contains(t, view, "50.0kg")
	require.Contains(t, view, "default")
	require.NotContains(t, view, "fling up")

	h.runes("?")
	require.Contains(t, h.m.View(), "fling up")

	cmd := h.runes("q")
	require.NotNil(t, cmd)
	require.Equal(t, tea.QuitMsg{}, cmd())
	require.Empty(t, h.m.View())
}

func TestVerticalLayout(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{Orientation: canvas.Vertical, Gravity: canvas.Left})
	cols, rows := h.m.grid.Size()
	require.Equal(t, verticalCols, cols)
	require.Equal(t, 8, rows)

	h.mouse(tea.MouseActionPress, tea.MouseButtonLeft, 3, 5)
	h.mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 3, 3)
	require.Equal(t, 50.1, h.value())
}

func TestViewBeforeSize(t *testing.T) {
	t.Parallel()

	ax, err := axis.New(axis.Config{Min: 0, Max: 10, Step: 1, TickSpacing: 8, MajorEvery: 5, LabelEvery: 1})
	require.NoError(t, err)
	m := New(ruler.New(ax, 5), Options{})
	require.Empty(t, m.View())
	require.NotNil(t, m.Init())
}
