package termcore

import (
	"image/color"
	"strings"
)

// Style is the resolved look of a run of cells. Colors are concrete:
// palette lookups, bold brightening, dim, reverse and hidden are applied.
type Style struct {
	Fg        color.RGBA
	Bg        color.RGBA
	Underline color.RGBA
	// Flags keeps the text decoration bits (bold, italic, underline
	// variants, strike, blink). Reverse and hidden are already folded into
	// the colors.
	Flags    CellFlags
	Selected bool
	Link     Hyperlink
}

// DrawRun is a horizontal run of cells sharing one Style.
// Cells is the number of columns covered; wide characters count twice.
type DrawRun struct {
	Row   int
	Col   int
	Cells int
	Text  string
	Style Style
}

// CursorOverlay describes how to draw the cursor.
type CursorOverlay struct {
	Row     int
	Col     int
	Width   int // 2 on a wide character
	Shape   CursorShape
	Blink   bool
	Visible bool
	// Hollow asks for an outline block, used when the host is unfocused.
	Hollow bool
	Color  color.RGBA
}

// Frame is what changed since the previous frame.
type Frame struct {
	Rows int
	Cols int
	// Full is set when every row was repainted.
	Full bool
	// Runs cover every repainted row from column 0 to the last column.
	Runs   []DrawRun
	Cursor CursorOverlay

	Background color.RGBA
	Title      string

	// Exited is set once the child process has ended; the host may draw an
	// "ended" indicator. ExitCode is -1 when unknown.
	Exited   bool
	ExitCode int
}

// Surface is the drawing capability the host provides.
type Surface interface {
	DrawRun(run DrawRun)
	DrawCursor(cursor CursorOverlay)
}

// Paint draws the frame's runs, then the cursor.
func (f Frame) Paint(s Surface) {
	for _, run := range f.Runs {
		s.DrawRun(run)
	}
	if f.Cursor.Visible {
		s.DrawCursor(f.Cursor)
	}
}

// RepaintedRows returns the rows the frame repaints, in ascending order.
func (f Frame) RepaintedRows() []int {
	var rows []int
	last := -1
	for _, run := range f.Runs {
		if run.Row != last {
			rows = append(rows, run.Row)
			last = run.Row
		}
	}
	return rows
}

// Renderer turns screen damage into frames. It remembers where the cursor
// and selection were drawn so they are erased when they move.
// A Renderer must be used with a single Screen.
type Renderer struct {
	prevCursorRow int
	prevSelected  []int
}

// NewRenderer creates a renderer.
func NewRenderer() *Renderer {
	return &Renderer{prevCursorRow: -1}
}

// Frame collects the runs of every damaged row plus the rows of the current
// and previous cursor and selection, then clears the screen's damage.
func (r *Renderer) Frame(s *Screen, focused bool) Frame {
	rows, cols := s.Size()
	f := Frame{
		Rows:       rows,
		Cols:       cols,
		Background: s.palette.Background,
		Title:      s.title,
		ExitCode:   -1,
	}

	repaint := make([]bool, rows)
	mark := func(row int) {
		if row >= 0 && row < rows {
			repaint[row] = true
		}
	}

	dirty, all := s.Dirty()
	f.Full = all
	for _, row := range dirty {
		mark(row)
	}

	f.Cursor = cursorOverlay(s, focused)
	if f.Cursor.Visible {
		mark(f.Cursor.Row)
	}
	mark(r.prevCursorRow)

	selected := s.selectedViewRows()
	for _, row := range selected {
		mark(row)
	}
	for _, row := range r.prevSelected {
		mark(row)
	}

	for row := 0; row < rows; row++ {
		if repaint[row] {
			f.Runs = appendRowRuns(f.Runs, s, row)
		}
	}

	r.prevCursorRow = -1
	if f.Cursor.Visible {
		r.prevCursorRow = f.Cursor.Row
	}
	r.prevSelected = selected
	s.ClearDamage()
	return f
}

func cursorOverlay(s *Screen, focused bool) CursorOverlay {
	c := s.cursor
	o := CursorOverlay{
		Row:     c.Row + s.viewOffset,
		Col:     c.Col,
		Width:   1,
		Shape:   c.Style.Shape(),
		Blink:   c.Style.Blinking() || s.modes.Has(ModeBlinkingCursor),
		Visible: s.modes.Has(ModeShowCursor) && s.viewOffset == 0,
		Hollow:  !focused,
		Color:   s.palette.Cursor,
	}
	if cell := s.active.Cell(c.Row, c.Col); cell != nil && cell.IsWide() {
		o.Width = 2
	}
	return o
}

// appendRowRuns splits viewport row vr into runs of identical style.
func appendRowRuns(runs []DrawRun, s *Screen, vr int) []DrawRun {
	line := s.viewLine(vr)
	contentRow := vr - s.viewOffset

	var (
		sb    strings.Builder
		cur   DrawRun
		open  bool
		blank = NewCell()
	)
	flush := func() {
		if open {
			cur.Text = sb.String()
			runs = append(runs, cur)
			sb.Reset()
			open = false
		}
	}

	for col := 0; col < s.cols; col++ {
		cell := &blank
		if col < len(line) {
			cell = &line[col]
		}
		if cell.IsWideSpacer() {
			if open {
				cur.Cells++
			}
			continue
		}

		style := resolveStyle(&s.palette, cell)
		style.Selected = s.IsSelected(contentRow, col)
		if !open || style != cur.Style {
			flush()
			cur = DrawRun{Row: vr, Col: col, Style: style}
			open = true
		}
		ch := cell.Char
		if ch == 0 {
			ch = ' '
		}
		sb.WriteRune(ch)
		cur.Cells++
	}
	flush()
	return runs
}

const styleFlags = CellFlagBold | CellFlagDim | CellFlagItalic | CellFlagAnyUnderline |
	CellFlagBlinkSlow | CellFlagBlinkFast | CellFlagStrike

// resolveStyle computes the concrete colors of a cell.
func resolveStyle(p *Palette, cell *Cell) Style {
	fgColor := cell.Fg
	if cell.HasFlag(CellFlagBold) {
		if nc, ok := fgColor.(NamedColor); ok && nc.Name >= 0 && nc.Name < 8 {
			fgColor = NamedColor{Name: nc.Name + 8}
		}
	}
	fg := p.Resolve(fgColor, true)
	bg := p.Resolve(cell.Bg, false)
	if cell.HasFlag(CellFlagDim) {
		fg = dim(fg)
	}
	if cell.HasFlag(CellFlagReverse) {
		fg, bg = bg, fg
	}
	if cell.HasFlag(CellFlagHidden) {
		fg = bg
	}

	underline := fg
	if cell.UnderlineColor != nil {
		underline = p.Resolve(cell.UnderlineColor, true)
	}

	return Style{
		Fg:        fg,
		Bg:        bg,
		Underline: underline,
		Flags:     cell.Flags & styleFlags,
		Link:      cell.Link,
	}
}
