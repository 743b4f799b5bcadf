// Package tcellview is a second terminal front end that talks to tcell
// directly. It owns its frame clock: one select loop receives polled events
// and ticker frames, so the picker is only ever touched from that loop.
package tcellview

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/jask/rulerview/internal/canvas"
	"github.com/jask/rulerview/internal/input"
	"github.com/jask/rulerview/internal/ruler"
)

// Detenter is told about every tick the value crosses.
type Detenter interface {
	Detent(major bool)
}

type Options struct {
	Orientation   canvas.Orientation
	Gravity       canvas.Gravity
	PxPerCell     float64
	FrameInterval time.Duration
	FlingVelocity float64
	Clicker       Detenter
	Logger        *zap.Logger
}

// View draws a picker on a tcell screen.
type View struct {
	screen  tcell.Screen
	picker  *ruler.Picker
	opts    Options
	log     *zap.Logger
	drag    input.Drag
	grid    *canvas.Grid
	buttons tcell.ButtonMask
	dirty   bool
}

func New(screen tcell.Screen, p *ruler.Picker, opts Options) *View {
	if opts.PxPerCell <= 0 {
		opts.PxPerCell = 4
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = time.Second / 60
	}
	if opts.FlingVelocity <= 0 {
		opts.FlingVelocity = 2500
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	v := &View{
		screen: screen,
		picker: p,
		opts:   opts,
		log:    opts.Logger,
		drag:   input.Drag{Orientation: opts.Orientation, PxPerCell: opts.PxPerCell},
		dirty:  true,
	}
	p.OnValueChanged(v.valueChanged)
	return v
}

// Run initialises the screen and drives the picker until the user quits or
// ctx is done. The screen is finalised on return.
func (v *View) Run(ctx context.Context) error {
	if err := v.screen.Init(); err != nil {
		return err
	}
	defer v.screen.Fini()
	v.screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents)
	v.screen.SetTitle("rulerview: " + v.picker.Name())
	v.resize()

	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return // screen finalised
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(v.opts.FrameInterval)
	defer ticker.Stop()
	last := time.Now()

	v.draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !v.handle(ev) {
				return nil
			}
		case now := <-ticker.C:
			dt := min(now.Sub(last), 4*v.opts.FrameInterval)
			last = now
			v.frame(dt)
		}
		if v.dirty {
			v.draw()
		}
	}
}

// handle applies one event and reports whether to keep running.
func (v *View) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ev)
	case *tcell.EventMouse:
		v.handleMouse(ev)
	case *tcell.EventResize:
		v.screen.Sync()
		v.resize()
	}
	return true
}

func (v *View) handleKey(ev *tcell.EventKey) bool {
	switch {
	case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC,
		ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
		return false
	case v.drag.Active():
		return true
	}
	shift := ev.Modifiers()&tcell.ModShift != 0
	switch ev.Key() {
	case tcell.KeyRight, tcell.KeyUp:
		v.step(1, shift)
	case tcell.KeyLeft, tcell.KeyDown:
		v.step(-1, shift)
	case tcell.KeyHome:
		_ = v.picker.SetValue(v.picker.Axis().Min())
	case tcell.KeyEnd:
		_ = v.picker.SetValue(v.picker.Axis().Max())
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'l', 'k':
			v.step(1, false)
		case 'h', 'j':
			v.step(-1, false)
		case 'L', 'K':
			v.step(1, true)
		case 'H', 'J':
			v.step(-1, true)
		case 'g':
			_ = v.picker.SetValue(v.picker.Axis().Min())
		case 'G':
			_ = v.picker.SetValue(v.picker.Axis().Max())
		}
	}
	v.dirty = true
	return true
}

// step nudges one tick, or flings when fling is set.
func (v *View) step(dir int, fling bool) {
	v.picker.Press()
	if fling {
		v.picker.Release(float64(dir) * v.opts.FlingVelocity)
		return
	}
	v.picker.Move(float64(dir) * v.picker.Axis().TickSpacing())
	v.picker.Release(0)
}

// handleMouse turns tcell's button state snapshots into press, move and
// release transitions.
func (v *View) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	at := ev.When()
	btn := ev.Buttons()
	was := v.buttons&tcell.Button1 != 0
	down := btn&tcell.Button1 != 0
	v.buttons = btn

	switch {
	case btn&tcell.WheelUp != 0:
		v.step(1, false)
	case btn&tcell.WheelDown != 0:
		v.step(-1, false)
	case down && !was:
		v.drag.Begin(x, y, at)
		v.picker.Press()
	case down && was:
		if d, ok := v.drag.Move(x, y, at); ok {
			v.picker.Move(d)
		}
	case !down && was:
		if d, ok := v.drag.Move(x, y, at); ok {
			v.picker.Move(d)
		}
		if vel, ok := v.drag.End(at); ok {
			v.log.Debug("release", zap.Float64("velocity", vel))
			v.picker.Release(vel)
		}
	default:
		return
	}
	v.dirty = true
}

func (v *View) frame(dt time.Duration) {
	if !v.picker.Active() {
		return
	}
	v.picker.Frame(dt)
	v.dirty = true
}

func (v *View) valueChanged(val float64) {
	if v.opts.Clicker == nil {
		return
	}
	ax := v.picker.Axis()
	v.opts.Clicker.Detent(ax.IsMajor(ax.ToIndex(val)))
}

func (v *View) resize() {
	w, h := v.screen.Size()
	rows := max(h-2, 1)
	cols := w
	if v.opts.Orientation == canvas.Vertical {
		cols = min(w, 16)
	} else {
		rows = min(rows, 6)
	}
	v.grid = canvas.NewGrid(cols, rows, v.opts.PxPerCell, v.opts.Orientation, v.opts.Gravity)
	v.dirty = true
}

func (v *View) draw() {
	v.dirty = false
	v.screen.Clear()
	bg := tcell.GetColor(string(canvas.ColorBackground))
	title := tcell.StyleDefault.Bold(true).Foreground(tcell.GetColor(string(canvas.ColorIndicator)))
	muted := tcell.StyleDefault.Foreground(tcell.GetColor(string(canvas.Shade(140))))
	v.text(0, 0, v.picker.Name()+" ", title)
	v.text(len([]rune(v.picker.Name()))+1, 0, v.picker.State().String(), muted)

	v.grid.Clear()
	v.picker.Render(v.grid.Extent(), v.grid)
	for y, row := range v.grid.Rows() {
		for x, c := range row {
			st := tcell.StyleDefault.Background(bg).Foreground(tcell.GetColor(string(c.Color())))
			if c.Role == canvas.RoleReadout {
				st = st.Bold(true)
			}
			v.screen.SetContent(x, y+1, c.Rune, nil, st)
		}
	}
	_, h := v.screen.Size()
	v.text(0, h-1, "←/→ tick  H/L fling  g/G min/max  q quit", muted)
	v.screen.Show()
}

func (v *View) text(x, y int, s string, st tcell.Style) {
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, st)
		x++
	}
}
