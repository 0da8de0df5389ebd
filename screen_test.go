package termcore

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"
)

func TestNewScreenDefaults(t *testing.T) {
	s := NewScreen()

	if s.Rows() != DEFAULT_ROWS || s.Cols() != DEFAULT_COLS {
		t.Errorf("expected %dx%d, got %dx%d", DEFAULT_ROWS, DEFAULT_COLS, s.Rows(), s.Cols())
	}
	if !s.HasMode(ModeLineWrap) {
		t.Error("expected line wrap on by default")
	}
	if !s.CursorVisible() {
		t.Error("expected cursor visible by default")
	}
	if s.IsAlternateScreen() {
		t.Error("expected primary screen")
	}
	top, bottom := s.ScrollRegion()
	if top != 0 || bottom != DEFAULT_ROWS {
		t.Errorf("expected full scroll region, got %d-%d", top, bottom)
	}
}

func TestScreenPrint(t *testing.T) {
	s := NewScreen(WithSize(24, 80))
	s.WriteString("Hello")

	if got := s.LineContent(0); got != "Hello" {
		t.Errorf("expected 'Hello', got %q", got)
	}
	row, col := s.CursorPos()
	if row != 0 || col != 5 {
		t.Errorf("expected cursor at (0,5), got (%d,%d)", row, col)
	}
}

func TestScreenPendingWrap(t *testing.T) {
	s := NewScreen(WithSize(3, 5))
	s.WriteString("abcde")

	row, col := s.CursorPos()
	if row != 0 || col != 4 {
		t.Errorf("expected cursor held at (0,4), got (%d,%d)", row, col)
	}
	if s.IsWrapped(0) {
		t.Error("expected no wrap before the next character")
	}

	s.WriteString("f")
	if got := s.LineContent(1); got != "f" {
		t.Errorf("expected 'f' on row 1, got %q", got)
	}
	if !s.IsWrapped(0) {
		t.Error("expected row 0 to be soft-wrapped")
	}
	row, col = s.CursorPos()
	if row != 1 || col != 1 {
		t.Errorf("expected cursor at (1,1), got (%d,%d)", row, col)
	}
}

func TestScreenPendingWrapClearedByCarriageReturn(t *testing.T) {
	s := NewScreen(WithSize(3, 5))
	s.WriteString("abcde\rX")

	if got := s.LineContent(0); got != "Xbcde" {
		t.Errorf("expected 'Xbcde', got %q", got)
	}
	if s.IsWrapped(0) {
		t.Error("expected no wrap")
	}
}

func TestScreenNoAutowrap(t *testing.T) {
	s := NewScreen(WithSize(3, 5))
	s.WriteString("\x1b[?7l")
	s.WriteString("abcdefg")

	if got := s.LineContent(0); got != "abcdg" {
		t.Errorf("expected 'abcdg', got %q", got)
	}
	if got := s.LineContent(1); got != "" {
		t.Errorf("expected empty row 1, got %q", got)
	}
}

func TestScreenLineFeedEvictsOneLine(t *testing.T) {
	s := NewScreen(WithSize(4, 10))
	for i := 0; i < 4; i++ {
		s.WriteString("line" + string(rune('0'+i)) + "\r\n")
	}

	if s.ScrollbackLen() != 1 {
		t.Fatalf("expected 1 scrollback line, got %d", s.ScrollbackLen())
	}
	if got := lineText(s.ScrollbackLine(0)); got != "line0" {
		t.Errorf("expected 'line0' in scrollback, got %q", got)
	}
	if got := s.LineContent(0); got != "line1" {
		t.Errorf("expected 'line1' on row 0, got %q", got)
	}
	if got := s.LineContent(-1); got != "line0" {
		t.Errorf("expected 'line0' at row -1, got %q", got)
	}
}

func TestScreenScrollRegionDoesNotFeedHistory(t *testing.T) {
	s := NewScreen(WithSize(5, 10))
	s.WriteString("top\r\n")
	s.WriteString("\x1b[2;4r")
	s.WriteString("\x1b[4;1H")
	for i := 0; i < 5; i++ {
		s.WriteString("x\n")
	}

	if s.ScrollbackLen() != 0 {
		t.Errorf("expected no scrollback, got %d", s.ScrollbackLen())
	}
	if got := s.LineContent(0); got != "top" {
		t.Errorf("expected 'top' to stay, got %q", got)
	}
}

func TestScreenSetScrollRegionInvalid(t *testing.T) {
	s := NewScreen(WithSize(10, 10))
	s.WriteString("\x1b[5;5r")

	top, bottom := s.ScrollRegion()
	if top != 0 || bottom != 10 {
		t.Errorf("expected region unchanged, got %d-%d", top, bottom)
	}

	s.WriteString("\x1b[3;6H\x1b[2;5r")
	top, bottom = s.ScrollRegion()
	if top != 1 || bottom != 5 {
		t.Errorf("expected region 1-5, got %d-%d", top, bottom)
	}
	row, col := s.CursorPos()
	if row != 0 || col != 0 {
		t.Errorf("expected cursor home, got (%d,%d)", row, col)
	}
}

func TestScreenAlternateScreen(t *testing.T) {
	s := NewScreen(WithSize(5, 20))
	s.WriteString("primary\r\nline")
	row, col := s.CursorPos()

	s.WriteString("\x1b[?1049h")
	if !s.IsAlternateScreen() {
		t.Fatal("expected alternate screen")
	}
	if got := s.LineContent(0); got != "" {
		t.Errorf("expected blank alternate screen, got %q", got)
	}
	s.WriteString("\x1b[Halt")
	for i := 0; i < 10; i++ {
		s.WriteString("\r\n")
	}
	if s.ScrollbackLen() != 0 {
		t.Errorf("expected alternate screen not to feed scrollback, got %d", s.ScrollbackLen())
	}

	s.WriteString("\x1b[?1049l")
	if s.IsAlternateScreen() {
		t.Fatal("expected primary screen")
	}
	if got := s.LineContent(0); got != "primary" {
		t.Errorf("expected primary content restored, got %q", got)
	}
	if got := s.LineContent(1); got != "line" {
		t.Errorf("expected 'line', got %q", got)
	}
	r, c := s.CursorPos()
	if r != row || c != col {
		t.Errorf("expected cursor (%d,%d) restored, got (%d,%d)", row, col, r, c)
	}
	if _, all := s.Dirty(); !all {
		t.Error("expected full damage after switching screens")
	}
}

func TestScreenSavedCursorPerBuffer(t *testing.T) {
	s := NewScreen(WithSize(10, 20))
	s.WriteString("\x1b[3;4H\x1b7")
	s.WriteString("\x1b[?47h\x1b[6;6H\x1b7\x1b[H\x1b8")

	row, col := s.CursorPos()
	if row != 5 || col != 5 {
		t.Errorf("expected alternate saved cursor (5,5), got (%d,%d)", row, col)
	}

	s.WriteString("\x1b[?47l\x1b8")
	row, col = s.CursorPos()
	if row != 2 || col != 3 {
		t.Errorf("expected primary saved cursor (2,3), got (%d,%d)", row, col)
	}
}

func TestScreenRestoreWithoutSave(t *testing.T) {
	s := NewScreen(WithSize(10, 20))
	s.WriteString("\x1b[1m\x1b[5;5H\x1b8X")

	row, col := s.CursorPos()
	if row != 0 || col != 1 {
		t.Errorf("expected cursor home then advanced, got (%d,%d)", row, col)
	}
	cell, _ := s.Cell(0, 0)
	if cell.HasFlag(CellFlagBold) {
		t.Error("expected default attributes after restore without save")
	}
}

func TestScreenDamage(t *testing.T) {
	s := NewScreen(WithSize(10, 20))
	s.ClearDamage()

	s.WriteString("\x1b[4;1Hx")
	rows, all := s.Dirty()
	if all {
		t.Error("expected partial damage")
	}
	if len(rows) != 1 || rows[0] != 3 {
		t.Errorf("expected damage on row 3, got %v", rows)
	}

	s.ClearDamage()
	if s.HasDirty() {
		t.Error("expected no damage after clear")
	}

	s.WriteString("\x1b[2J")
	if _, all := s.Dirty(); !all {
		t.Error("expected full damage after erase display")
	}
}

func TestScreenEraseInLine(t *testing.T) {
	s := NewScreen(WithSize(3, 10))

	s.WriteString("abcdefghij\x1b[1;5H\x1b[K")
	if got := s.LineContent(0); got != "abcd" {
		t.Errorf("expected 'abcd', got %q", got)
	}

	s.WriteString("\x1b[1;2H\x1b[1K")
	if got := s.LineContent(0); got != "  cd" {
		t.Errorf("expected '  cd', got %q", got)
	}

	s.WriteString("\x1b[2K")
	if got := s.LineContent(0); got != "" {
		t.Errorf("expected empty line, got %q", got)
	}
}

func TestScreenEraseKeepsBackground(t *testing.T) {
	s := NewScreen(WithSize(3, 10))
	s.WriteString("\x1b[44m\x1b[2J")

	cell, _ := s.Cell(2, 9)
	if cell.Bg != (NamedColor{Name: 4}) {
		t.Errorf("expected blue background, got %v", cell.Bg)
	}
}

func TestScreenScrollKeepsBackground(t *testing.T) {
	tests := []struct {
		name  string
		input string
		row   int
	}{
		{"line feed at bottom", "\x1b[3;1H\x1b[44m\n", 2},
		{"reverse index at top", "\x1b[44m\x1bM", 0},
		{"scroll up", "\x1b[44m\x1b[S", 2},
		{"scroll down", "\x1b[44m\x1b[T", 0},
		{"insert lines", "\x1b[2;1H\x1b[44m\x1b[L", 1},
		{"delete lines", "\x1b[2;1H\x1b[44m\x1b[M", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScreen(WithSize(3, 10))
			s.WriteString(tt.input)

			for col := 0; col < 10; col++ {
				cell, _ := s.Cell(tt.row, col)
				if cell.Bg != (NamedColor{Name: 4}) {
					t.Fatalf("expected blue background at (%d,%d), got %v", tt.row, col, cell.Bg)
				}
			}
		})
	}
}

func TestScreenClearScrollback(t *testing.T) {
	s := NewScreen(WithSize(2, 10))
	s.WriteString("a\r\nb\r\nc\r\n")
	if s.ScrollbackLen() == 0 {
		t.Fatal("expected scrollback")
	}

	s.WriteString("\x1b[3J")
	if s.ScrollbackLen() != 0 {
		t.Errorf("expected empty scrollback, got %d", s.ScrollbackLen())
	}
}

func TestScreenResizeSameSizeIsNoop(t *testing.T) {
	s := NewScreen(WithSize(5, 10))
	s.WriteString("hello")
	s.ClearDamage()

	s.Resize(5, 10)
	if s.HasDirty() {
		t.Error("expected resize to the current size to do nothing")
	}
	if got := s.LineContent(0); got != "hello" {
		t.Errorf("expected 'hello', got %q", got)
	}
}

func TestScreenResizeInvalidIgnored(t *testing.T) {
	s := NewScreen(WithSize(5, 10))
	s.Resize(0, 10)
	s.Resize(5, -1)

	rows, cols := s.Size()
	if rows != 5 || cols != 10 {
		t.Errorf("expected 5x10, got %dx%d", rows, cols)
	}
}

func TestScreenResizeShrinkPushesAboveCursor(t *testing.T) {
	s := NewScreen(WithSize(5, 10))
	s.WriteString("0\r\n1\r\n2\r\n3\r\n4")

	s.Resize(3, 10)

	if s.ScrollbackLen() != 2 {
		t.Fatalf("expected 2 scrollback lines, got %d", s.ScrollbackLen())
	}
	if got := s.LineContent(0); got != "2" {
		t.Errorf("expected '2' on row 0, got %q", got)
	}
	if got := s.LineContent(2); got != "4" {
		t.Errorf("expected '4' on row 2, got %q", got)
	}
	row, _ := s.CursorPos()
	if row != 2 {
		t.Errorf("expected cursor row 2, got %d", row)
	}
}

func TestScreenResizeClampsCursor(t *testing.T) {
	s := NewScreen(WithSize(10, 20))
	s.WriteString("\x1b[2;20H")

	s.Resize(10, 5)
	row, col := s.CursorPos()
	if row != 1 || col != 4 {
		t.Errorf("expected cursor (1,4), got (%d,%d)", row, col)
	}
}

func TestScreenResizeResetsScrollRegion(t *testing.T) {
	s := NewScreen(WithSize(10, 20))
	s.WriteString("\x1b[2;5r")

	s.Resize(12, 20)
	top, bottom := s.ScrollRegion()
	if top != 0 || bottom != 12 {
		t.Errorf("expected full region, got %d-%d", top, bottom)
	}
}

func TestScreenDeviceReports(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"status", "\x1b[5n", "\x1b[0n"},
		{"cursor position", "\x1b[3;7H\x1b[6n", "\x1b[3;7R"},
		{"primary attributes", "\x1b[c", "\x1b[?62;22c"},
		{"secondary attributes", "\x1b[>c", "\x1b[>1;10;0c"},
		{"text area chars", "\x1b[18t", "\x1b[8;24;80t"},
		{"text area pixels", "\x1b[14t", "\x1b[4;600;800t"},
		{"cell pixels", "\x1b[16t", "\x1b[6;20;10t"},
		{"foreground color", "\x1b]10;?\x07", "\x1b]10;rgb:e5e5/e5e5/e5e5\x07"},
		{"background color", "\x1b]11;?\x1b\\", "\x1b]11;rgb:0000/0000/0000\x1b\\"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			s := NewScreen(WithResponse(&out))
			s.WriteString(tt.input)
			if got := out.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestScreenCursorReportOriginMode(t *testing.T) {
	var out bytes.Buffer
	s := NewScreen(WithSize(10, 10), WithResponse(&out))
	s.WriteString("\x1b[3;8r\x1b[?6h\x1b[2;2H\x1b[6n")

	if got := out.String(); got != "\x1b[2;2R" {
		t.Errorf("expected region-relative report, got %q", got)
	}
	row, _ := s.CursorPos()
	if row != 3 {
		t.Errorf("expected absolute row 3, got %d", row)
	}
}

func TestScreenOriginModeClampsToRegion(t *testing.T) {
	s := NewScreen(WithSize(10, 10))
	s.WriteString("\x1b[3;5r\x1b[?6h\x1b[20;1H")

	row, _ := s.CursorPos()
	if row != 4 {
		t.Errorf("expected cursor held at region bottom 4, got %d", row)
	}
}

func TestScreenTitle(t *testing.T) {
	var events []Event
	s := NewScreen(WithEventSink(func(ev Event) { events = append(events, ev) }))

	s.WriteString("\x1b]0;first\x07")
	s.WriteString("\x1b]2;first\x07")
	if s.Title() != "first" {
		t.Errorf("expected 'first', got %q", s.Title())
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event for an unchanged title, got %d", len(events))
	}
	if ev, ok := events[0].(TitleChanged); !ok || ev.Title != "first" {
		t.Errorf("expected TitleChanged{first}, got %#v", events[0])
	}
}

func TestScreenTitleStack(t *testing.T) {
	s := NewScreen()
	s.WriteString("\x1b]2;one\x07\x1b[22t\x1b]2;two\x07")
	if s.Title() != "two" {
		t.Errorf("expected 'two', got %q", s.Title())
	}

	s.WriteString("\x1b[23t")
	if s.Title() != "one" {
		t.Errorf("expected 'one' after pop, got %q", s.Title())
	}

	s.WriteString("\x1b[23t")
	if s.Title() != "one" {
		t.Errorf("expected pop on empty stack to keep title, got %q", s.Title())
	}
}

func TestScreenBell(t *testing.T) {
	var bells int
	s := NewScreen(WithEventSink(func(ev Event) {
		if _, ok := ev.(BellRung); ok {
			bells++
		}
	}))
	s.WriteString("a\x07b\x07")

	if bells != 2 {
		t.Errorf("expected 2 bells, got %d", bells)
	}
}

func TestScreenWorkingDirectory(t *testing.T) {
	var got []Event
	s := NewScreen(WithEventSink(func(ev Event) { got = append(got, ev) }))
	s.WriteString("\x1b]7;file://host/home/user/src\x07")

	if s.WorkingDirectory() != "/home/user/src" {
		t.Errorf("expected '/home/user/src', got %q", s.WorkingDirectory())
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if ev, ok := got[0].(WorkingDirectoryChanged); !ok || ev.Path != "/home/user/src" {
		t.Errorf("expected WorkingDirectoryChanged, got %#v", got[0])
	}
}

func TestScreenClipboardWrite(t *testing.T) {
	var got []Event
	s := NewScreen(WithEventSink(func(ev Event) { got = append(got, ev) }))
	s.WriteString("\x1b]52;c;aGVsbG8=\x07")

	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	ev, ok := got[0].(ClipboardWriteRequested)
	if !ok {
		t.Fatalf("expected ClipboardWriteRequested, got %#v", got[0])
	}
	if ev.Selection != 'c' || ev.Text != "hello" {
		t.Errorf("expected c/hello, got %c/%q", ev.Selection, ev.Text)
	}
}

func TestScreenAlignmentTest(t *testing.T) {
	s := NewScreen(WithSize(3, 4))
	s.WriteString("\x1b[2;3r\x1b#8")

	for row := 0; row < 3; row++ {
		if got := s.LineContent(row); got != "EEEE" {
			t.Errorf("row %d: expected 'EEEE', got %q", row, got)
		}
	}
	top, bottom := s.ScrollRegion()
	if top != 0 || bottom != 3 {
		t.Errorf("expected full region, got %d-%d", top, bottom)
	}
}

func TestScreenInsertMode(t *testing.T) {
	s := NewScreen(WithSize(3, 10))
	s.WriteString("abc\x1b[1;2H\x1b[4hX")

	if got := s.LineContent(0); got != "aXbc" {
		t.Errorf("expected 'aXbc', got %q", got)
	}

	s.WriteString("\x1b[4lY")
	if got := s.LineContent(0); got != "aXYc" {
		t.Errorf("expected 'aXYc', got %q", got)
	}
}

func TestScreenLineDrawingCharset(t *testing.T) {
	s := NewScreen(WithSize(3, 10))
	s.WriteString("\x1b(0lqk\x1b(Bq")

	if got := s.LineContent(0); got != "┌─┐q" {
		t.Errorf("expected '┌─┐q', got %q", got)
	}
}

func TestScreenShiftOut(t *testing.T) {
	s := NewScreen(WithSize(3, 10))
	s.WriteString("\x1b)0x\x0ex\x0fx")

	if got := s.LineContent(0); got != "x│x" {
		t.Errorf("expected 'x│x', got %q", got)
	}
}

func TestScreenWideChar(t *testing.T) {
	s := NewScreen(WithSize(3, 10))
	s.WriteString("中a")

	cell, _ := s.Cell(0, 0)
	if !cell.IsWide() || cell.Char != '中' {
		t.Errorf("expected wide '中', got %#v", cell)
	}
	spacer, _ := s.Cell(0, 1)
	if !spacer.IsWideSpacer() {
		t.Error("expected spacer in column 1")
	}
	_, col := s.CursorPos()
	if col != 3 {
		t.Errorf("expected cursor col 3, got %d", col)
	}
	if got := s.LineContent(0); got != "中a" {
		t.Errorf("expected '中a', got %q", got)
	}
}

func TestScreenWideCharWrapsAtEdge(t *testing.T) {
	s := NewScreen(WithSize(3, 5))
	s.WriteString("abcd中")

	if got := s.LineContent(0); got != "abcd" {
		t.Errorf("expected 'abcd', got %q", got)
	}
	cell, _ := s.Cell(1, 0)
	if cell.Char != '中' {
		t.Errorf("expected wide char on row 1, got '%c'", cell.Char)
	}
	if !s.IsWrapped(0) {
		t.Error("expected row 0 to be soft-wrapped")
	}
}

func TestScreenOverwriteWideCharHalf(t *testing.T) {
	s := NewScreen(WithSize(3, 10))
	s.WriteString("中\x1b[1;2Hx")

	left, _ := s.Cell(0, 0)
	if left.IsWide() || left.Char != ' ' {
		t.Errorf("expected left half blanked, got %#v", left)
	}
	right, _ := s.Cell(0, 1)
	if right.Char != 'x' || right.IsWideSpacer() {
		t.Errorf("expected 'x' without spacer flag, got %#v", right)
	}
}

func TestScreenCombiningMarkDropped(t *testing.T) {
	s := NewScreen(WithSize(3, 10))
	s.WriteString("éx")

	_, col := s.CursorPos()
	if col != 2 {
		t.Errorf("expected zero-width mark not to advance, got col %d", col)
	}
}

func TestScreenSGR(t *testing.T) {
	s := NewScreen(WithSize(3, 20))
	s.WriteString("\x1b[1;31;48;5;100mA\x1b[0mB")

	a, _ := s.Cell(0, 0)
	if !a.HasFlag(CellFlagBold) {
		t.Error("expected bold")
	}
	if a.Fg != (NamedColor{Name: 1}) {
		t.Errorf("expected red foreground, got %v", a.Fg)
	}
	if a.Bg != (IndexedColor{Index: 100}) {
		t.Errorf("expected indexed background 100, got %v", a.Bg)
	}

	b, _ := s.Cell(0, 1)
	if b.Flags != 0 || b.Fg != (NamedColor{Name: NamedColorForeground}) {
		t.Errorf("expected default attributes after reset, got %#v", b)
	}
}

func TestScreenHyperlink(t *testing.T) {
	s := NewScreen(WithSize(3, 20))
	s.WriteString("\x1b]8;id=a;https://example.com\x07ab\x1b]8;;\x07c")

	a, _ := s.Cell(0, 0)
	if a.Link.URI != "https://example.com" || a.Link.ID != "a" {
		t.Errorf("expected hyperlink, got %#v", a.Link)
	}
	c, _ := s.Cell(0, 2)
	if c.Link.Valid() {
		t.Error("expected hyperlink to end")
	}
}

func TestScreenTabs(t *testing.T) {
	s := NewScreen(WithSize(3, 30))
	s.WriteString("\tx")

	if _, col := s.CursorPos(); col != 9 {
		t.Errorf("expected col 9, got %d", col)
	}

	s.WriteString("\x1b[3g\r\t")
	if _, col := s.CursorPos(); col != 29 {
		t.Errorf("expected tab to last column without stops, got %d", col)
	}
}

func TestScreenCursorMovementStopsAtMargins(t *testing.T) {
	s := NewScreen(WithSize(10, 10))
	s.WriteString("\x1b[3;6r\x1b[4;1H\x1b[20B")

	if row, _ := s.CursorPos(); row != 5 {
		t.Errorf("expected cursor at bottom margin 5, got %d", row)
	}

	s.WriteString("\x1b[20A")
	if row, _ := s.CursorPos(); row != 2 {
		t.Errorf("expected cursor at top margin 2, got %d", row)
	}
}

func TestScreenReverseIndexAtTop(t *testing.T) {
	s := NewScreen(WithSize(3, 10))
	s.WriteString("a\r\nb\x1b[H\x1bM")

	if got := s.LineContent(0); got != "" {
		t.Errorf("expected blank top row, got %q", got)
	}
	if got := s.LineContent(1); got != "a" {
		t.Errorf("expected 'a' pushed down, got %q", got)
	}
}

func TestScreenFullReset(t *testing.T) {
	s := NewScreen(WithSize(2, 10))
	s.WriteString("a\r\nb\r\nc\x1b[1m\x1b[?1h\x1b]2;t\x07")

	history := s.ScrollbackLen()
	s.WriteString("\x1bc")

	if got := s.LineContent(0); got != "" {
		t.Errorf("expected cleared screen, got %q", got)
	}
	if s.HasMode(ModeCursorKeys) {
		t.Error("expected cursor key mode reset")
	}
	if s.ScrollbackLen() != history {
		t.Errorf("expected scrollback kept, got %d", s.ScrollbackLen())
	}
}

func TestScreenSoftReset(t *testing.T) {
	s := NewScreen(WithSize(5, 10))
	s.WriteString("keep\x1b[4h\x1b[?6h\x1b[?25l\x1b[!p")

	if s.HasMode(ModeInsert) || s.HasMode(ModeOrigin) {
		t.Error("expected insert and origin modes cleared")
	}
	if !s.CursorVisible() {
		t.Error("expected cursor visible")
	}
	if got := s.LineContent(0); got != "keep" {
		t.Errorf("expected content kept, got %q", got)
	}
}

func TestScreenMouseModes(t *testing.T) {
	s := NewScreen()
	s.WriteString("\x1b[?1002h\x1b[?1006h")

	m := s.Modes()
	if m.MouseTracking != MouseTrackingButtonEvent {
		t.Errorf("expected button-event tracking, got %d", m.MouseTracking)
	}
	if m.MouseEncoding != MouseEncodingSGR {
		t.Errorf("expected SGR encoding, got %d", m.MouseEncoding)
	}

	s.WriteString("\x1b[?1000l")
	if s.Modes().MouseTracking != MouseTrackingButtonEvent {
		t.Error("expected disabling another tracking mode to be ignored")
	}
	s.WriteString("\x1b[?1002l")
	if s.Modes().MouseTracking != MouseTrackingNone {
		t.Error("expected tracking disabled")
	}
}

func TestScreenPalette(t *testing.T) {
	s := NewScreen()
	s.WriteString("\x1b]4;1;#ff0000\x07")

	if got := s.Palette().Colors[1]; got.R != 0xff || got.G != 0 || got.B != 0 {
		t.Errorf("expected red palette entry, got %v", got)
	}

	s.WriteString("\x1b]104;1\x07")
	if got := s.Palette().Colors[1]; got != DefaultPalette[1] {
		t.Errorf("expected default entry restored, got %v", got)
	}
}

func TestScreenViewport(t *testing.T) {
	s := NewScreen(WithSize(2, 10))
	s.WriteString("a\r\nb\r\nc\r\nd")

	s.ScrollView(100)
	if s.ViewOffset() != s.ScrollbackLen() {
		t.Errorf("expected offset clamped to %d, got %d", s.ScrollbackLen(), s.ViewOffset())
	}

	s.ScrollView(-1)
	if s.ViewOffset() != s.ScrollbackLen()-1 {
		t.Errorf("expected offset %d, got %d", s.ScrollbackLen()-1, s.ViewOffset())
	}

	s.ResetView()
	if s.ViewOffset() != 0 {
		t.Errorf("expected live view, got %d", s.ViewOffset())
	}
}

func TestScreenViewportFollowsContent(t *testing.T) {
	s := NewScreen(WithSize(2, 10))
	s.WriteString("a\r\nb\r\nc\r\n")
	s.ScrollView(1)
	top := s.viewLine(0)

	s.WriteString("d\r\n")
	if got, want := lineText(s.viewLine(0)), lineText(top); got != want {
		t.Errorf("expected view to stay on %q, got %q", want, got)
	}
}

func TestScreenSearch(t *testing.T) {
	s := NewScreen(WithSize(3, 20))
	s.WriteString("foo bar foo\r\nbaz")

	got := s.Search("foo")
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0] != (Position{Row: 0, Col: 0}) || got[1] != (Position{Row: 0, Col: 8}) {
		t.Errorf("unexpected matches %v", got)
	}
}

func TestScreenSearchScrollback(t *testing.T) {
	s := NewScreen(WithSize(2, 20))
	s.WriteString("needle\r\nx\r\ny\r\n")

	got := s.SearchScrollback("needle")
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if got[0].Row >= 0 {
		t.Errorf("expected negative scrollback row, got %d", got[0].Row)
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(WithSize(5, 10))
	s.WriteString("one\r\ntwo")

	if got := s.String(); got != "one\ntwo" {
		t.Errorf("expected 'one\\ntwo', got %q", got)
	}
}

func TestScreenRecording(t *testing.T) {
	rec := NewMemoryRecording()
	s := NewScreen(WithRecording(rec))
	s.WriteString("abc")
	s.WriteString("\x1b[1m")

	if got := string(rec.Data()); got != "abc\x1b[1m" {
		t.Errorf("expected recorded bytes, got %q", got)
	}
}

func TestScreenRandomInputNeverPanics(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	fragments := []string{
		"\x1b[", "\x1b]", "\x1b[?", ";", "1049h", "1049l", "r", "H", "J", "K",
		"L", "M", "P", "@", "S", "T", "\r\n", "\x07", "\x1b\\", "中", "\x1b#8",
		"\x1b7", "\x1b8", "\x1bM", "\x1bc", "999", "0", "m", "\t", "\x1b(0",
	}

	s := NewScreen(WithSize(6, 12))
	for i := 0; i < 5000; i++ {
		var sb strings.Builder
		for j := 0; j < rng.Intn(8)+1; j++ {
			sb.WriteString(fragments[rng.Intn(len(fragments))])
		}
		if rng.Intn(50) == 0 {
			s.Resize(rng.Intn(10)+1, rng.Intn(20)+1)
		}
		s.WriteString(sb.String())

		row, col := s.CursorPos()
		rows, cols := s.Size()
		if row < 0 || row >= rows || col < 0 || col >= cols {
			t.Fatalf("cursor (%d,%d) outside %dx%d", row, col, rows, cols)
		}
		top, bottom := s.ScrollRegion()
		if top < 0 || bottom > rows || top >= bottom {
			t.Fatalf("invalid region %d-%d for %d rows", top, bottom, rows)
		}
	}
}
