package termcore

import (
	"fmt"
	"image/color"
	"net/url"

	"github.com/danielgatis/go-ansicode"
)

// Apply performs one decoded action against the screen.
// Out-of-range arguments are clamped; Apply never fails.
func (s *Screen) Apply(a Action) {
	switch a := a.(type) {
	case Print:
		s.print(a.Rune)
	case LineFeed:
		s.lineFeed()
	case NextLine:
		s.carriageReturn()
		s.lineFeed()
	case ReverseIndex:
		s.reverseIndex()
	case CarriageReturn:
		s.carriageReturn()
	case Backspace:
		s.cursor.pendingWrap = false
		if s.cursor.Col > 0 {
			s.cursor.Col--
		}
	case Tab:
		s.cursor.pendingWrap = false
		for i := 0; i < a.N; i++ {
			s.cursor.Col = s.active.NextTabStop(s.cursor.Col)
		}
	case BackTab:
		s.cursor.pendingWrap = false
		for i := 0; i < a.N; i++ {
			s.cursor.Col = s.active.PrevTabStop(s.cursor.Col)
		}
	case Bell:
		s.emit(BellRung{})

	case CursorPosition:
		s.gotoPos(a.Row, a.Col)
	case CursorRow:
		s.gotoPos(a.Row, s.cursor.Col)
	case CursorColumn:
		s.cursor.pendingWrap = false
		s.cursor.Col = clamp(a.Col, 0, s.cols-1)
	case CursorRelative:
		s.moveRelative(a)

	case EraseInLine:
		s.eraseInLine(a.Mode)
	case EraseInDisplay:
		s.eraseInDisplay(a.Mode)
	case EraseChars:
		s.cursor.pendingWrap = false
		s.active.ClearRowRange(s.cursor.Row, s.cursor.Col, s.cursor.Col+max(a.N, 1), s.template.Cell)
	case InsertChars:
		s.cursor.pendingWrap = false
		s.active.InsertBlanks(s.cursor.Row, s.cursor.Col, max(a.N, 1), s.template.Cell)
	case DeleteChars:
		s.cursor.pendingWrap = false
		s.active.DeleteChars(s.cursor.Row, s.cursor.Col, max(a.N, 1), s.template.Cell)
	case InsertLines:
		if s.inScrollRegion() {
			s.active.InsertLines(s.cursor.Row, max(a.N, 1), s.scrollBottom, s.template.Cell)
			s.cursor.Col = 0
			s.cursor.pendingWrap = false
		}
	case DeleteLines:
		if s.inScrollRegion() {
			s.active.DeleteLines(s.cursor.Row, max(a.N, 1), s.scrollBottom, s.template.Cell)
			s.cursor.Col = 0
			s.cursor.pendingWrap = false
		}
	case ScrollUp:
		s.scrollUp(max(a.N, 1))
	case ScrollDown:
		s.active.ScrollDown(s.scrollTop, s.scrollBottom, max(a.N, 1), s.template.Cell)
	case SetScrollRegion:
		s.setScrollRegion(a.Top, a.Bottom)

	case SetAttributes:
		for _, attr := range a.Attrs {
			applyAttr(&s.template, attr)
		}
	case SetMode:
		s.setMode(a.Mode, a.Enable)
	case SwitchScreen:
		s.switchScreen(a)
	case SetMouseTracking:
		if a.Enable {
			s.modes.MouseTracking = a.Tracking
		} else if s.modes.MouseTracking == a.Tracking {
			s.modes.MouseTracking = MouseTrackingNone
		}
	case SetMouseEncoding:
		if a.Enable {
			s.modes.MouseEncoding = a.Encoding
		} else if s.modes.MouseEncoding == a.Encoding {
			s.modes.MouseEncoding = MouseEncodingDefault
		}

	case SaveCursor:
		s.saveCursor()
	case RestoreCursor:
		s.restoreCursor()
	case SetCursorStyle:
		s.cursor.Style = a.Style
		s.active.MarkDirty(s.cursor.Row)

	case SetTitle:
		s.setTitle(a.Title)
	case PushTitle:
		if len(s.titleStack) >= maxTitleStack {
			s.titleStack = s.titleStack[1:]
		}
		s.titleStack = append(s.titleStack, s.title)
	case PopTitle:
		if n := len(s.titleStack); n > 0 {
			title := s.titleStack[n-1]
			s.titleStack = s.titleStack[:n-1]
			s.setTitle(title)
		}

	case SetPaletteColor:
		s.palette.Set(a.Index, a.Color)
		s.active.MarkAllDirty()
	case ResetPaletteColor:
		s.palette.Reset(a.Index)
		s.active.MarkAllDirty()
	case SetHyperlink:
		s.template.Link = a.Link
	case SetWorkingDirectory:
		s.setWorkingDirectory(a.URI)
	case ClipboardWrite:
		s.emit(ClipboardWriteRequested{Selection: a.Selection, Text: string(a.Data)})
	case ShellMark:
		s.addPromptMark(a)
	case RequestReport:
		s.report(a)

	case SetTabStop:
		s.active.SetTabStop(s.cursor.Col)
	case ClearTabStops:
		switch a.Mode {
		case ansicode.TabulationClearModeCurrent:
			s.active.ClearTabStop(s.cursor.Col)
		case ansicode.TabulationClearModeAll:
			s.active.ClearAllTabStops()
		}
	case DesignateCharset:
		if a.Slot >= CharsetIndexG0 && a.Slot <= CharsetIndexG3 {
			s.charsets[a.Slot] = a.Charset
		}
	case ShiftCharset:
		if a.Slot >= CharsetIndexG0 && a.Slot <= CharsetIndexG3 {
			s.activeCharset = a.Slot
		}

	case Reset:
		s.fullReset()
	case SoftReset:
		s.softReset()
	case AlignmentTest:
		s.active.FillWithE()
		s.scrollTop = 0
		s.scrollBottom = s.rows
		s.cursor.Row, s.cursor.Col = 0, 0
		s.cursor.pendingWrap = false
	}
}

// --- Printing ---

// print writes a rune at the cursor using the current template and charset.
// Zero-width runes are dropped.
func (s *Screen) print(r rune) {
	r = s.charsets[s.activeCharset].translate(r)
	width := runeWidth(r)
	if width <= 0 {
		return
	}
	if width > 2 {
		width = 2
	}
	if width > s.cols {
		return
	}

	autowrap := s.modes.Has(ModeLineWrap)
	if s.cursor.pendingWrap {
		s.cursor.pendingWrap = false
		if autowrap {
			s.wrapLine()
		}
	}

	if s.cursor.Col+width > s.cols {
		if autowrap {
			s.wrapLine()
		} else {
			s.cursor.Col = s.cols - width
		}
	}

	row, col := s.cursor.Row, s.cursor.Col
	buf := s.active

	if s.modes.Has(ModeInsert) {
		buf.InsertBlanks(row, col, width, s.template.Cell)
	}

	s.splitWide(row, col)
	if width == 2 {
		s.splitWide(row, col+1)
	}

	cell := s.template.Cell
	cell.Char = r
	cell.Flags &^= CellFlagWideChar | CellFlagWideCharSpacer
	if width == 2 {
		cell.Flags |= CellFlagWideChar
	}
	buf.SetCell(row, col, cell)

	if width == 2 {
		spacer := NewCell()
		spacer.Char = 0
		spacer.Bg = s.template.Bg
		spacer.Flags = CellFlagWideCharSpacer
		buf.SetCell(row, col+1, spacer)
	}

	next := col + width
	if next >= s.cols {
		s.cursor.Col = s.cols - 1
		s.cursor.pendingWrap = autowrap
	} else {
		s.cursor.Col = next
	}
}

// wrapLine marks the cursor row as soft-wrapped and moves to the next line.
func (s *Screen) wrapLine() {
	s.active.SetWrapped(s.cursor.Row, true)
	s.cursor.Col = 0
	s.index()
}

// splitWide blanks the other half of a wide character about to be overwritten at col.
func (s *Screen) splitWide(row, col int) {
	buf := s.active
	cell := buf.Cell(row, col)
	if cell == nil {
		return
	}
	if cell.IsWideSpacer() {
		if left := buf.Cell(row, col-1); left != nil && left.IsWide() {
			left.Char = ' '
			left.ClearFlag(CellFlagWideChar)
		}
	}
	if cell.IsWide() {
		if right := buf.Cell(row, col+1); right != nil && right.IsWideSpacer() {
			right.Char = ' '
			right.ClearFlag(CellFlagWideCharSpacer)
		}
	}
}

// --- Line movement and scrolling ---

func (s *Screen) carriageReturn() {
	s.cursor.Col = 0
	s.cursor.pendingWrap = false
}

// lineFeed moves down one row; under LNM it also returns to column 0.
func (s *Screen) lineFeed() {
	s.cursor.pendingWrap = false
	s.active.SetWrapped(s.cursor.Row, false)
	if s.modes.Has(ModeLineFeedNewLine) {
		s.cursor.Col = 0
	}
	s.index()
}

// index moves the cursor down, scrolling the region when on its bottom margin.
func (s *Screen) index() {
	switch {
	case s.cursor.Row == s.scrollBottom-1:
		s.scrollUp(1)
	case s.cursor.Row < s.rows-1:
		s.cursor.Row++
	}
}

func (s *Screen) reverseIndex() {
	s.cursor.pendingWrap = false
	switch {
	case s.cursor.Row == s.scrollTop:
		s.active.ScrollDown(s.scrollTop, s.scrollBottom, 1, s.template.Cell)
	case s.cursor.Row > 0:
		s.cursor.Row--
	}
}

// scrollUp is the single scroll path. Lines leaving a full-height region of
// the primary screen go to scrollback.
func (s *Screen) scrollUp(n int) {
	if n > s.scrollBottom-s.scrollTop {
		n = s.scrollBottom - s.scrollTop
	}
	if n <= 0 {
		return
	}
	toHistory := s.active == s.primary && s.scrollTop == 0
	s.active.ScrollUp(s.scrollTop, s.scrollBottom, n, toHistory, s.template.Cell)
	if toHistory {
		s.onScrollback(n)
	}
}

// onScrollback keeps selection and viewport attached to content that moved
// n lines up into history.
func (s *Screen) onScrollback(n int) {
	if n <= 0 {
		return
	}
	history := s.primary.ScrollbackLen()
	if s.viewOffset > 0 {
		s.viewOffset = clamp(s.viewOffset+n, 0, history)
		s.active.MarkAllDirty()
	}
	if s.selection.Active {
		s.selection.shift(-n, history)
	}
	s.shiftPromptMarks(-n)
}

func (s *Screen) onScrollbackCleared() {
	s.viewOffset = 0
	if s.selection.Active && s.selection.top() < 0 {
		s.selection = Selection{}
	}
	s.shiftPromptMarks(0)
	s.active.MarkAllDirty()
}

func (s *Screen) inScrollRegion() bool {
	return s.cursor.Row >= s.scrollTop && s.cursor.Row < s.scrollBottom
}

// setScrollingRegion takes 1-based inclusive margins; 0 selects the screen edge.
// Invalid regions are ignored. The cursor moves home.
func (s *Screen) setScrollRegion(top, bottom int) {
	if top <= 0 {
		top = 1
	}
	if bottom <= 0 || bottom > s.rows {
		bottom = s.rows
	}
	if top >= bottom {
		return
	}
	s.scrollTop = top - 1
	s.scrollBottom = bottom
	s.gotoPos(0, 0)
}

// --- Cursor ---

// gotoPos moves to an absolute position, relative to the top margin in origin mode.
func (s *Screen) gotoPos(row, col int) {
	s.cursor.pendingWrap = false
	minRow, maxRow := 0, s.rows-1
	if s.modes.Has(ModeOrigin) {
		row += s.scrollTop
		minRow, maxRow = s.scrollTop, s.scrollBottom-1
	}
	s.cursor.Row = clamp(row, minRow, maxRow)
	s.cursor.Col = clamp(col, 0, s.cols-1)
}

// moveRelative moves the cursor; vertical moves stop at the margins when
// they start inside the scroll region.
func (s *Screen) moveRelative(a CursorRelative) {
	s.cursor.pendingWrap = false
	row := s.cursor.Row
	switch {
	case a.Rows < 0:
		top := 0
		if row >= s.scrollTop {
			top = s.scrollTop
		}
		row = max(row+a.Rows, top)
	case a.Rows > 0:
		bottom := s.rows - 1
		if row < s.scrollBottom {
			bottom = s.scrollBottom - 1
		}
		row = min(row+a.Rows, bottom)
	}
	s.cursor.Row = row
	if a.LineStart {
		s.cursor.Col = 0
	} else {
		s.cursor.Col = clamp(s.cursor.Col+a.Cols, 0, s.cols-1)
	}
}

func (s *Screen) savedIndex() int {
	if s.active == s.alternate {
		return 1
	}
	return 0
}

func (s *Screen) saveCursor() {
	s.saved[s.savedIndex()] = &SavedCursor{
		Row:          s.cursor.Row,
		Col:          s.cursor.Col,
		Attrs:        s.template,
		OriginMode:   s.modes.Has(ModeOrigin),
		CharsetIndex: s.activeCharset,
		Charsets:     s.charsets,
		pendingWrap:  s.cursor.pendingWrap,
	}
}

// restoreCursor restores the saved state, or homes the cursor with default
// attributes when nothing was saved.
func (s *Screen) restoreCursor() {
	saved := s.saved[s.savedIndex()]
	if saved == nil {
		s.cursor.Row, s.cursor.Col = 0, 0
		s.cursor.pendingWrap = false
		s.template = NewCellTemplate()
		s.modes.Flags &^= ModeOrigin
		s.charsets = [4]Charset{}
		s.activeCharset = CharsetIndexG0
		return
	}

	s.cursor.Row = clamp(saved.Row, 0, s.rows-1)
	s.cursor.Col = clamp(saved.Col, 0, s.cols-1)
	s.cursor.pendingWrap = saved.pendingWrap
	s.template = saved.Attrs
	if saved.OriginMode {
		s.modes.Flags |= ModeOrigin
	} else {
		s.modes.Flags &^= ModeOrigin
	}
	s.activeCharset = saved.CharsetIndex
	s.charsets = saved.Charsets
}

// --- Erasing ---

func (s *Screen) eraseInLine(mode ansicode.LineClearMode) {
	s.cursor.pendingWrap = false
	row, col := s.cursor.Row, s.cursor.Col
	blank := s.template.Cell
	switch mode {
	case ansicode.LineClearModeRight:
		s.active.ClearRowRange(row, col, s.cols, blank)
		s.active.SetWrapped(row, false)
	case ansicode.LineClearModeLeft:
		s.active.ClearRowRange(row, 0, col+1, blank)
	case ansicode.LineClearModeAll:
		s.active.ClearRow(row, blank)
	}
}

func (s *Screen) eraseInDisplay(mode ansicode.ClearMode) {
	s.cursor.pendingWrap = false
	row, col := s.cursor.Row, s.cursor.Col
	blank := s.template.Cell
	switch mode {
	case ansicode.ClearModeBelow:
		s.active.ClearRowRange(row, col, s.cols, blank)
		s.active.SetWrapped(row, false)
		for r := row + 1; r < s.rows; r++ {
			s.active.ClearRow(r, blank)
		}
	case ansicode.ClearModeAbove:
		for r := 0; r < row; r++ {
			s.active.ClearRow(r, blank)
		}
		s.active.ClearRowRange(row, 0, col+1, blank)
	case ansicode.ClearModeAll:
		s.active.ClearAll(blank)
	case ansicode.ClearModeSaved:
		s.ClearScrollback()
	}
}

// --- Modes ---

func (s *Screen) setMode(mode TerminalMode, enable bool) {
	if enable {
		s.modes.Flags |= mode
	} else {
		s.modes.Flags &^= mode
	}

	switch mode {
	case ModeOrigin:
		s.gotoPos(0, 0)
	case ModeLineWrap:
		if !enable {
			s.cursor.pendingWrap = false
		}
	case ModeShowCursor, ModeBlinkingCursor:
		s.active.MarkDirty(s.cursor.Row)
	}
}

// switchScreen enters or leaves the alternate screen. The primary buffer is
// not touched while the alternate one is displayed.
func (s *Screen) switchScreen(a SwitchScreen) {
	blank := s.template.Cell
	if a.Alternate {
		if s.active == s.alternate {
			return
		}
		if a.SaveCursor {
			s.saveCursor()
		}
		s.active = s.alternate
		s.modes.Flags |= ModeAlternateScreen
		if a.Clear {
			s.alternate.ClearAll(blank)
		}
	} else {
		if s.active != s.alternate {
			return
		}
		if a.Clear {
			s.alternate.ClearAll(blank)
		}
		s.active = s.primary
		s.modes.Flags &^= ModeAlternateScreen
		if a.SaveCursor {
			s.restoreCursor()
		}
	}
	s.cursor.pendingWrap = false
	s.selection = Selection{}
	s.viewOffset = 0
	s.active.MarkAllDirty()
}

// --- Metadata ---

func (s *Screen) setTitle(title string) {
	if title == s.title {
		return
	}
	s.title = title
	s.emit(TitleChanged{Title: title})
}

// setWorkingDirectory accepts a file:// URI (OSC 7) or a bare path.
func (s *Screen) setWorkingDirectory(uri string) {
	path := uri
	if u, err := url.Parse(uri); err == nil && u.Scheme == "file" {
		path = u.Path
	}
	if path == "" || path == s.workingDir {
		return
	}
	s.workingDir = path
	s.emit(WorkingDirectoryChanged{Path: path})
}

// report writes the answer to a status or identification query.
func (s *Screen) report(a RequestReport) {
	switch a.Kind {
	case ReportStatus:
		s.respond("\x1b[0n")
	case ReportCursorPosition:
		row := s.cursor.Row
		if s.modes.Has(ModeOrigin) {
			row -= s.scrollTop
		}
		s.respond(fmt.Sprintf("\x1b[%d;%dR", row+1, s.cursor.Col+1))
	case ReportPrimaryDA:
		s.respond("\x1b[?62;22c")
	case ReportSecondaryDA:
		s.respond("\x1b[>1;10;0c")
	case ReportTextAreaChars:
		s.respond(fmt.Sprintf("\x1b[8;%d;%dt", s.rows, s.cols))
	case ReportTextAreaPixels:
		w, h := s.sizeProvider.WindowSizePixels()
		s.respond(fmt.Sprintf("\x1b[4;%d;%dt", h, w))
	case ReportCellPixels:
		w, h := s.sizeProvider.CellSizePixels()
		s.respond(fmt.Sprintf("\x1b[6;%d;%dt", h, w))
	case ReportForegroundColor:
		s.respond(colorReport(10, s.palette.Foreground, a.Terminator))
	case ReportBackgroundColor:
		s.respond(colorReport(11, s.palette.Background, a.Terminator))
	case ReportCursorColor:
		s.respond(colorReport(12, s.palette.Cursor, a.Terminator))
	}
}

func colorReport(code int, c color.Color, terminator string) string {
	if terminator == "" {
		terminator = "\x1b\\"
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("\x1b]%d;rgb:%04x/%04x/%04x%s", code, r, g, b, terminator)
}

// --- Reset ---

// fullReset returns the screen to its power-on state (RIS). Scrollback is kept.
func (s *Screen) fullReset() {
	s.primary.ClearAll(NewCell())
	s.alternate.ClearAll(NewCell())
	s.primary.ResetTabStops()
	s.alternate.ResetTabStops()
	s.active = s.primary
	s.resetState()
	s.palette = NewPalette()
	s.selection = Selection{}
	s.viewOffset = 0
	s.marks = nil
	s.primary.MarkAllDirty()
}

// softReset resets modes and attributes but keeps screen content (DECSTR).
func (s *Screen) softReset() {
	s.modes.Flags &^= ModeInsert | ModeOrigin | ModeCursorKeys | ModeKeypadApplication
	s.modes.Flags |= ModeLineWrap | ModeShowCursor
	s.template = NewCellTemplate()
	s.charsets = [4]Charset{}
	s.activeCharset = CharsetIndexG0
	s.scrollTop = 0
	s.scrollBottom = s.rows
	s.saved[s.savedIndex()] = nil
	s.cursor.pendingWrap = false
	s.active.MarkDirty(s.cursor.Row)
}
