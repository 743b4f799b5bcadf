// Package tui is the bubbletea front end. It feeds mouse drags and keys into a
// ruler.Picker, paces animation frames with tea.Tick and draws through a
// canvas.Grid.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jask/rulerview/internal/canvas"
	"github.com/jask/rulerview/internal/input"
	"github.com/jask/rulerview/internal/ruler"
)

// Detenter is told about every tick the value crosses.
type Detenter interface {
	Detent(major bool)
}

// Options configures the front end. Zero fields take defaults.
type Options struct {
	Orientation   canvas.Orientation
	Gravity       canvas.Gravity
	PxPerCell     float64
	FrameInterval time.Duration
	FlingVelocity float64 // px/s for keyboard flings
	Clicker       Detenter
	Logger        *zap.Logger
}

const (
	defaultPxPerCell     = 4
	defaultFrameInterval = time.Second / 60
	defaultFlingVelocity = 2500
	verticalCols         = 16
	horizontalRows       = 6
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f5c2e7"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
)

type frameMsg time.Time

// Model is the bubbletea model for one picker.
type Model struct {
	picker *ruler.Picker
	opts   Options
	log    *zap.Logger
	keys   keyMap
	help   help.Model
	drag   input.Drag
	grid   *canvas.Grid
	now    func() time.Time

	width, height int
	ticking       bool
	lastFrame     time.Time
	quitting      bool
}

func New(p *ruler.Picker, opts Options) *Model {
	if opts.PxPerCell <= 0 {
		opts.PxPerCell = defaultPxPerCell
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = defaultFrameInterval
	}
	if opts.FlingVelocity <= 0 {
		opts.FlingVelocity = defaultFlingVelocity
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	m := &Model{
		picker: p,
		opts:   opts,
		log:    opts.Logger,
		keys:   newKeyMap(),
		help:   help.New(),
		drag:   input.Drag{Orientation: opts.Orientation, PxPerCell: opts.PxPerCell},
		now:    time.Now,
	}
	p.OnValueChanged(m.valueChanged)
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.SetWindowTitle("rulerview: " + m.picker.Name())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.resize()
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	case frameMsg:
		return m, m.frame(time.Time(msg))
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.drag.Abort()
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return nil
	}
	if m.drag.Active() {
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		return m.nudge(1)
	case key.Matches(msg, m.keys.Down):
		return m.nudge(-1)
	case key.Matches(msg, m.keys.FlingUp):
		return m.fling(m.opts.FlingVelocity)
	case key.Matches(msg, m.keys.FlingDn):
		return m.fling(-m.opts.FlingVelocity)
	case key.Matches(msg, m.keys.Min):
		_ = m.picker.SetValue(m.picker.Axis().Min())
	case key.Matches(msg, m.keys.Max):
		_ = m.picker.SetValue(m.picker.Axis().Max())
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	now := m.now()
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelUp:
		return m.nudge(1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelDown:
		return m.nudge(-1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.drag.Begin(msg.X, msg.Y, now)
		m.picker.Press()
	case msg.Action == tea.MouseActionMotion:
		if d, ok := m.drag.Move(msg.X, msg.Y, now); ok {
			m.picker.Move(d)
		}
	case msg.Action == tea.MouseActionRelease:
		if v, ok := m.drag.End(now); ok {
			m.log.Debug("release", zap.Float64("velocity", v))
			m.picker.Release(v)
			return m.startFrames()
		}
	}
	return nil
}

// nudge moves by whole ticks as a tiny drag so any running animation is
// interrupted the same way a press would.
func (m *Model) nudge(ticks int) tea.Cmd {
	m.picker.Press()
	m.picker.Move(float64(ticks) * m.picker.Axis().TickSpacing())
	m.picker.Release(0)
	return m.startFrames()
}

func (m *Model) fling(velocity float64) tea.Cmd {
	m.picker.Press()
	m.picker.Release(velocity)
	return m.startFrames()
}

func (m *Model) startFrames() tea.Cmd {
	if !m.picker.Active() || m.ticking {
		return nil
	}
	m.ticking = true
	m.lastFrame = m.now()
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.opts.FrameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *Model) frame(t time.Time) tea.Cmd {
	dt := t.Sub(m.lastFrame)
	if dt <= 0 || dt > 4*m.opts.FrameInterval {
		dt = m.opts.FrameInterval
	}
	m.lastFrame = t
	if m.picker.Frame(dt) {
		return m.tick()
	}
	m.ticking = false
	return nil
}

func (m *Model) valueChanged(v float64) {
	if m.opts.Clicker == nil {
		return
	}
	ax := m.picker.Axis()
	m.opts.Clicker.Detent(ax.IsMajor(ax.ToIndex(v)))
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	helpLines := 1
	if m.help.ShowAll {
		helpLines = len(m.keys.FullHelp()[0])
	}
	avail := max(m.height-1-helpLines, 1)
	cols, rows := m.width, min(avail, horizontalRows)
	if m.opts.Orientation == canvas.Vertical {
		cols, rows = min(m.width, verticalCols), avail
	}
	m.grid = canvas.NewGrid(cols, rows, m.opts.PxPerCell, m.opts.Orientation, m.opts.Gravity)
}

func (m *Model) View() string {
	if m.quitting || m.grid == nil {
		return ""
	}
	m.grid.Clear()
	m.picker.Render(m.grid.Extent(), m.grid)
	title := titleStyle.Render(m.picker.Name()) + " " + mutedStyle.Render(m.picker.State().String())
	return lipgloss.JoinVertical(lipgloss.Left, title, m.grid.Styled(), m.help.View(m.keys))
}

// Picker exposes the driven picker, mainly so the caller can save it on exit.
func (m *Model) Picker() *ruler.Picker { return m.picker }
