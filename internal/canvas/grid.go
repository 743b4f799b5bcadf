// Package canvas rasterises ruler draw calls onto a terminal cell grid.
//
// The core works in pixels; a Grid divides them by PxPerCell to find a cell.
// Along the cross axis every mark grows inward from the gravity edge: minor
// ticks are one cell long, major ticks two, the indicator three, and labels sit
// on the row (or column) after that.
package canvas

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/rulerview/internal/layout"
)

type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

// ParseOrientation accepts "horizontal" and "vertical".
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(s) {
	case "", "horizontal":
		return Horizontal, nil
	case "vertical":
		return Vertical, nil
	}
	return Horizontal, fmt.Errorf("unknown orientation %q", s)
}

// Gravity is the edge the tape hangs from. Horizontal rulers use Top or
// Bottom, vertical ones Left or Right.
type Gravity uint8

const (
	Bottom Gravity = iota
	Top
	Left
	Right
)

func ParseGravity(s string) (Gravity, error) {
	switch strings.ToLower(s) {
	case "", "bottom":
		return Bottom, nil
	case "top":
		return Top, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return Bottom, fmt.Errorf("unknown gravity %q", s)
}

type Role uint8

const (
	RoleEmpty Role = iota
	RoleTick
	RoleLabel
	RoleIndicator
	RoleReadout
)

// Cell is one terminal cell.
type Cell struct {
	Rune  rune
	Alpha uint8
	Role  Role
}

const (
	minorLen     = 1
	majorLen     = 2
	indicatorLen = 3
	textOffset   = indicatorLen
)

// Grid implements ruler.Sink.
type Grid struct {
	cols, rows int
	pxPerCell  float64
	orient     Orientation
	gravity    Gravity
	cells      [][]Cell
}

// NewGrid returns a blank grid. Gravity that does not fit the orientation
// falls back to Bottom or Left.
func NewGrid(cols, rows int, pxPerCell float64, o Orientation, g Gravity) *Grid {
	if pxPerCell <= 0 {
		pxPerCell = 1
	}
	switch {
	case o == Horizontal && g != Top:
		g = Bottom
	case o == Vertical && g != Right:
		g = Left
	}
	grid := &Grid{cols: max(cols, 0), rows: max(rows, 0), pxPerCell: pxPerCell, orient: o, gravity: g}
	grid.cells = make([][]Cell, grid.rows)
	for r := range grid.cells {
		grid.cells[r] = make([]Cell, grid.cols)
	}
	grid.Clear()
	return grid
}

// Extent is the grid's length along the scroll axis in px.
func (g *Grid) Extent() float64 {
	if g.orient == Vertical {
		return float64(g.rows) * g.pxPerCell
	}
	return float64(g.cols) * g.pxPerCell
}

// Cells converts a px distance to whole cells, truncating.
func (g *Grid) Cells(px float64) int { return int(px / g.pxPerCell) }

func (g *Grid) PxPerCell() float64       { return g.pxPerCell }
func (g *Grid) Size() (cols, rows int)   { return g.cols, g.rows }
func (g *Grid) Orientation() Orientation { return g.orient }

// Clear blanks every cell.
func (g *Grid) Clear() {
	for r := range g.cells {
		for c := range g.cells[r] {
			g.cells[r][c] = Cell{Rune: ' '}
		}
	}
}

// Rows exposes the cells row by row. The slices alias the grid.
func (g *Grid) Rows() [][]Cell { return g.cells }

func (g *Grid) DrawTick(pos float64, kind layout.Kind, alpha uint8) {
	n := minorLen
	if kind != layout.Minor {
		n = majorLen
	}
	g.mark(pos, n, Cell{Rune: g.tickRune(), Alpha: alpha, Role: RoleTick})
}

func (g *Grid) DrawLabel(pos float64, alpha uint8, text string) {
	g.text(pos, text, Cell{Alpha: alpha, Role: RoleLabel})
}

// DrawIndicator draws the centre line over the tick at pos. Horizontal rulers
// put the readout on its own row past the labels; vertical ones on the
// indicator's row.
func (g *Grid) DrawIndicator(pos float64, text string) {
	g.mark(pos, indicatorLen, Cell{Rune: g.indicatorRune(), Alpha: 255, Role: RoleIndicator})
	if g.orient == Vertical {
		g.text(pos, text, Cell{Alpha: 255, Role: RoleReadout})
		return
	}
	along := g.along(pos)
	g.put(along-utf8.RuneCountInString(text)/2, textOffset+1, text, Cell{Alpha: 255, Role: RoleReadout})
}

func (g *Grid) along(pos float64) int { return int(math.Floor(pos / g.pxPerCell)) }

// mark fills n cells inward from the gravity edge. A fainter mark never
// overwrites a brighter one in the same cell.
func (g *Grid) mark(pos float64, n int, c Cell) {
	along := g.along(pos)
	for depth := range n {
		r, col, ok := g.locate(along, depth)
		if !ok {
			continue
		}
		cur := g.cells[r][col]
		if cur.Role == RoleIndicator || (cur.Role == RoleTick && cur.Alpha > c.Alpha) {
			continue
		}
		g.cells[r][col] = c
	}
}

func (g *Grid) text(pos float64, text string, style Cell) {
	along := g.along(pos)
	if g.orient == Vertical {
		g.put(along, textOffset, text, style)
		return
	}
	g.put(along-utf8.RuneCountInString(text)/2, textOffset, text, style)
}

// put writes text starting at the given along position and depth. Horizontal
// text runs along the tape. Vertical rulers write each label across the tape
// on the label's own row, reading left to right from either edge.
func (g *Grid) put(along, depth int, text string, style Cell) {
	n := utf8.RuneCountInString(text)
	i := 0
	for _, ch := range text {
		var r, col int
		switch {
		case g.orient == Horizontal:
			r, col, _ = g.locate(along+i, depth)
		case g.gravity == Right:
			r, col = along, g.cols-depth-n+i
		default:
			r, col = along, depth+i
		}
		i++
		if r < 0 || r >= g.rows || col < 0 || col >= g.cols || g.cells[r][col].Role == RoleIndicator {
			continue
		}
		c := style
		c.Rune = ch
		g.cells[r][col] = c
	}
}

// locate maps an along-axis cell and a depth from the gravity edge to a row
// and column.
func (g *Grid) locate(along, depth int) (row, col int, ok bool) {
	switch g.gravity {
	case Top:
		row, col = depth, along
	case Left:
		row, col = along, depth
	case Right:
		row, col = along, g.cols-1-depth
	default:
		row, col = g.rows-1-depth, along
	}
	ok = row >= 0 && row < g.rows && col >= 0 && col < g.cols
	return row, col, ok
}

func (g *Grid) tickRune() rune {
	if g.orient == Vertical {
		return '─'
	}
	return '│'
}

func (g *Grid) indicatorRune() rune {
	if g.orient == Vertical {
		return '━'
	}
	return '┃'
}

// String renders the grid as plain text, one line per row.
func (g *Grid) String() string {
	var b strings.Builder
	for i, row := range g.cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, c := range row {
			b.WriteRune(c.Rune)
		}
	}
	return b.String()
}

// Styled renders the grid with colours. Runs of cells sharing a colour are
// styled together.
func (g *Grid) Styled() string {
	var b strings.Builder
	for i, row := range g.cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		var run strings.Builder
		var color lipgloss.Color
		flush := func() {
			if run.Len() == 0 {
				return
			}
			st := lipgloss.NewStyle().Foreground(color)
			if color == ColorReadout {
				st = st.Bold(true)
			}
			b.WriteString(st.Render(run.String()))
			run.Reset()
		}
		for _, c := range row {
			cc := c.Color()
			if c.Role == RoleEmpty {
				cc = ColorBackground
			}
			if cc != color {
				flush()
				color = cc
			}
			run.WriteRune(c.Rune)
		}
		flush()
	}
	return b.String()
}
