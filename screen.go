package termcore

import (
	"strings"
)

const (
	// DEFAULT_ROWS is the default number of terminal rows.
	DEFAULT_ROWS = 24
	// DEFAULT_COLS is the default number of terminal columns.
	DEFAULT_COLS = 80
	// DEFAULT_SCROLLBACK is the default scrollback capacity in lines.
	DEFAULT_SCROLLBACK = 10000

	maxTitleStack = 16
)

// Screen is the terminal state machine: two buffers (primary with
// scrollback, alternate without), cursor, modes, selection and damage.
//
// A Screen has a single owner. It holds no locks; callers that share it
// between goroutines must serialize access themselves (Terminal does so by
// confining it to one goroutine).
type Screen struct {
	rows int
	cols int

	primary   *Buffer
	alternate *Buffer
	active    *Buffer

	cursor Cursor
	// saved cursors, one per buffer: [0] primary, [1] alternate
	saved [2]*SavedCursor

	template      CellTemplate
	charsets      [4]Charset
	activeCharset CharsetIndex

	scrollTop    int
	scrollBottom int

	modes Modes

	title      string
	titleStack []string
	workingDir string
	palette    Palette

	selection  Selection
	viewOffset int
	marks      []PromptMark

	parser *Parser

	response     ResponseProvider
	sizeProvider SizeProvider
	recording    RecordingProvider
	events       func(Event)
}

// NewScreen creates a screen. Only the screen-related options apply;
// session options such as WithCommand are ignored.
// Defaults to 24x80 with line wrap and cursor visible.
func NewScreen(opts ...Option) *Screen {
	o := newOptions(opts)
	return newScreen(o)
}

func newScreen(o *options) *Screen {
	storage := o.scrollbackProvider
	if storage == nil {
		storage = NewRingScrollback(o.scrollback)
	}

	s := &Screen{
		rows:         o.rows,
		cols:         o.cols,
		palette:      NewPalette(),
		parser:       NewParser(),
		response:     o.response,
		sizeProvider: o.sizeProvider,
		recording:    o.recording,
		events:       o.eventSink,
	}
	if o.palette != nil {
		s.palette = *o.palette
	}
	if s.response == nil {
		s.response = NoopResponse{}
	}
	if s.sizeProvider == nil {
		s.sizeProvider = NoopSizeProvider{}
	}
	if s.recording == nil {
		s.recording = NoopRecording{}
	}

	s.primary = NewBufferWithStorage(s.rows, s.cols, storage)
	s.alternate = NewBuffer(s.rows, s.cols)
	s.active = s.primary
	s.resetState()
	return s
}

// resetState restores cursor, attributes, modes and margins to power-on values.
func (s *Screen) resetState() {
	s.cursor = Cursor{Style: CursorStyleBlinkingBlock}
	s.saved = [2]*SavedCursor{}
	s.template = NewCellTemplate()
	s.charsets = [4]Charset{}
	s.activeCharset = CharsetIndexG0
	s.scrollTop = 0
	s.scrollBottom = s.rows
	s.modes = Modes{Flags: defaultModes}
	s.titleStack = nil
}

// Write processes raw bytes, parsing escape sequences and updating the screen.
// Implements io.Writer; it never fails.
func (s *Screen) Write(data []byte) (int, error) {
	s.recording.Record(data)
	s.parser.Feed(data, s.Apply)
	return len(data), nil
}

// WriteString is a convenience method that converts the string to bytes and calls Write.
func (s *Screen) WriteString(str string) (int, error) {
	return s.Write([]byte(str))
}

func (s *Screen) emit(ev Event) {
	if s.events != nil {
		s.events(ev)
	}
}

func (s *Screen) respond(str string) {
	s.response.Write([]byte(str))
}

// --- Queries ---

// Size returns the screen dimensions in cells.
func (s *Screen) Size() (rows, cols int) {
	return s.rows, s.cols
}

// Rows returns the screen height in character rows.
func (s *Screen) Rows() int {
	return s.rows
}

// Cols returns the screen width in character columns.
func (s *Screen) Cols() int {
	return s.cols
}

// Cell returns a copy of the cell at (row, col) in the active buffer.
func (s *Screen) Cell(row, col int) (Cell, bool) {
	c := s.active.Cell(row, col)
	if c == nil {
		return Cell{}, false
	}
	return *c, true
}

// Cursor returns a copy of the cursor.
func (s *Screen) Cursor() Cursor {
	return s.cursor
}

// CursorPos returns the current cursor position (0-based).
func (s *Screen) CursorPos() (row, col int) {
	return s.cursor.Row, s.cursor.Col
}

// CursorVisible returns true if the cursor is currently visible.
func (s *Screen) CursorVisible() bool {
	return s.modes.Has(ModeShowCursor)
}

// Modes returns a snapshot of the mode flags.
func (s *Screen) Modes() Modes {
	return s.modes
}

// HasMode returns true if the specified mode flag is enabled.
func (s *Screen) HasMode(mode TerminalMode) bool {
	return s.modes.Has(mode)
}

// Title returns the current window title string.
func (s *Screen) Title() string {
	return s.title
}

// WorkingDirectory returns the last directory reported through OSC 7.
func (s *Screen) WorkingDirectory() string {
	return s.workingDir
}

// Palette returns the current color table.
func (s *Screen) Palette() Palette {
	return s.palette
}

// IsAlternateScreen returns true if the alternate buffer is currently active.
func (s *Screen) IsAlternateScreen() bool {
	return s.active == s.alternate
}

// ScrollRegion returns the current scrolling boundaries (0-based, exclusive bottom).
func (s *Screen) ScrollRegion() (top, bottom int) {
	return s.scrollTop, s.scrollBottom
}

// IsWrapped returns true if the line was wrapped due to column overflow.
func (s *Screen) IsWrapped(row int) bool {
	return s.active.IsWrapped(row)
}

// LineContent returns the text content of a line, trimming trailing spaces.
// Negative rows address scrollback (-1 is the newest line).
func (s *Screen) LineContent(row int) string {
	line := s.line(row)
	if line == nil {
		return ""
	}
	return lineText(line)
}

// line returns the cells of a content row: 0..rows-1 on the active buffer,
// negative rows in scrollback. The slice aliases screen storage.
func (s *Screen) line(row int) []Cell {
	if row >= 0 {
		return s.active.Row(row)
	}
	if s.active != s.primary {
		return nil
	}
	n := s.primary.ScrollbackLen()
	return s.primary.ScrollbackLine(n + row)
}

// String returns the visible screen content as a newline-separated string.
// Trailing empty lines are omitted. Implements fmt.Stringer.
func (s *Screen) String() string {
	lines := make([]string, s.rows)
	lastNonEmpty := -1
	for row := 0; row < s.rows; row++ {
		lines[row] = s.active.LineContent(row)
		if lines[row] != "" {
			lastNonEmpty = row
		}
	}
	return strings.Join(lines[:lastNonEmpty+1], "\n")
}

// Search finds all occurrences of pattern in the visible screen content.
// Returns positions of the first character of each match.
func (s *Screen) Search(pattern string) []Position {
	if pattern == "" {
		return nil
	}
	var matches []Position
	for row := 0; row < s.rows; row++ {
		for _, col := range findAll(s.active.LineContent(row), pattern) {
			matches = append(matches, Position{Row: row, Col: col})
		}
	}
	return matches
}

// SearchScrollback finds all occurrences of pattern in scrollback lines.
// Returned row values are negative, where -1 is the most recent scrollback line.
func (s *Screen) SearchScrollback(pattern string) []Position {
	if pattern == "" {
		return nil
	}
	var matches []Position
	n := s.primary.ScrollbackLen()
	for i := 0; i < n; i++ {
		line := s.primary.ScrollbackLine(i)
		for _, col := range findAll(lineText(line), pattern) {
			matches = append(matches, Position{Row: -(n - i), Col: col})
		}
	}
	return matches
}

// findAll returns the rune offsets of every occurrence of pattern in line.
func findAll(line, pattern string) []int {
	lineRunes := []rune(line)
	patternRunes := []rune(pattern)
	var cols []int
	for col := 0; col <= len(lineRunes)-len(patternRunes); col++ {
		found := true
		for i, pr := range patternRunes {
			if lineRunes[col+i] != pr {
				found = false
				break
			}
		}
		if found {
			cols = append(cols, col)
		}
	}
	return cols
}

// --- Scrollback ---

// ScrollbackLen returns the number of lines stored in scrollback (primary buffer only).
func (s *Screen) ScrollbackLen() int {
	return s.primary.ScrollbackLen()
}

// ScrollbackLine returns a copy of a scrollback line, where 0 is the oldest line.
// Returns nil if index is out of range.
func (s *Screen) ScrollbackLine(index int) []Cell {
	line := s.primary.ScrollbackLine(index)
	if line == nil {
		return nil
	}
	out := make([]Cell, len(line))
	copy(out, line)
	return out
}

// ClearScrollback removes all stored scrollback lines.
func (s *Screen) ClearScrollback() {
	s.primary.ClearScrollback()
	s.onScrollbackCleared()
}

// --- Viewport ---

// ViewOffset returns how many lines the view is scrolled back into history.
// Zero means the live screen is shown.
func (s *Screen) ViewOffset() int {
	return s.viewOffset
}

// ScrollView moves the viewport delta lines back (positive) or forward
// (negative) through scrollback, clamped to the available history.
func (s *Screen) ScrollView(delta int) {
	limit := 0
	if s.active == s.primary {
		limit = s.primary.ScrollbackLen()
	}
	off := clamp(s.viewOffset+delta, 0, limit)
	if off != s.viewOffset {
		s.viewOffset = off
		s.active.MarkAllDirty()
	}
}

// ResetView returns the viewport to the live screen.
func (s *Screen) ResetView() {
	s.ScrollView(-s.viewOffset)
}

// viewLine returns the cells displayed on viewport row vr.
func (s *Screen) viewLine(vr int) []Cell {
	return s.line(vr - s.viewOffset)
}

// --- Damage ---

// Dirty returns the rows of the active buffer changed since the last
// ClearDamage, and whether the whole screen is damaged.
func (s *Screen) Dirty() (rows []int, all bool) {
	return s.active.DirtyRows()
}

// HasDirty returns true if any row was modified since the last ClearDamage call.
func (s *Screen) HasDirty() bool {
	return s.active.HasDirty()
}

// ClearDamage empties the damage set.
func (s *Screen) ClearDamage() {
	s.active.ClearAllDirty()
}

// --- Resize ---

// Resize changes the screen dimensions and adjusts buffers accordingly.
// When shrinking rows, lines above the cursor are moved to scrollback to
// preserve content near the cursor. Cursor and selection are clamped to the
// new bounds. Invalid dimensions (<= 0) and the current size are ignored.
func (s *Screen) Resize(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		return
	}
	if rows == s.rows && cols == s.cols {
		return
	}

	if rows < s.rows && s.active == s.primary && s.cursor.Row >= rows {
		n := s.cursor.Row - rows + 1
		pushed := s.primary.ScrollUp(0, s.rows, n, true, NewCell())
		s.onScrollback(pushed)
		s.cursor.Row -= n
	}

	s.rows = rows
	s.cols = cols
	s.primary.Resize(rows, cols)
	s.alternate.Resize(rows, cols)

	s.cursor.Row = clamp(s.cursor.Row, 0, rows-1)
	s.cursor.Col = clamp(s.cursor.Col, 0, cols-1)
	s.cursor.pendingWrap = false
	for _, sc := range s.saved {
		if sc != nil {
			sc.Row = clamp(sc.Row, 0, rows-1)
			sc.Col = clamp(sc.Col, 0, cols-1)
		}
	}

	s.scrollTop = 0
	s.scrollBottom = rows
	s.clampSelection()
	s.viewOffset = clamp(s.viewOffset, 0, s.primary.ScrollbackLen())
}

// clamp ensures the value is within the given range.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
