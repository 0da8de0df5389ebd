package termcore

// Buffer stores a 2D grid of cells and tracks line wrapping state.
// Supports optional scrollback storage for lines scrolled off the top.
//
// Damage is tracked per row: every mutation marks the rows it touched, and
// structural changes (resize, full clears) mark the whole buffer.
type Buffer struct {
	rows       int
	cols       int
	cells      [][]Cell
	wrapped    []bool // tracks if each line was wrapped (vs explicit newline)
	tabStop    []bool
	scrollback ScrollbackProvider

	dirty    []bool
	allDirty bool
	hasDirty bool
}

// NewBuffer creates a buffer with the given dimensions and no scrollback.
func NewBuffer(rows, cols int) *Buffer {
	return NewBufferWithStorage(rows, cols, NoopScrollback{})
}

// NewBufferWithStorage creates a buffer with custom scrollback storage.
// Tab stops are initialized every 8 columns.
func NewBufferWithStorage(rows, cols int, storage ScrollbackProvider) *Buffer {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	if storage == nil {
		storage = NoopScrollback{}
	}
	b := &Buffer{
		rows:       rows,
		cols:       cols,
		cells:      make([][]Cell, rows),
		wrapped:    make([]bool, rows),
		tabStop:    make([]bool, cols),
		scrollback: storage,
		dirty:      make([]bool, rows),
	}

	for i := range b.cells {
		b.cells[i] = newRow(cols)
	}
	b.ResetTabStops()
	b.MarkAllDirty()

	return b
}

func newRow(cols int) []Cell {
	row := make([]Cell, cols)
	for j := range row {
		row[j] = NewCell()
	}
	return row
}

// Rows returns the buffer height in character rows.
func (b *Buffer) Rows() int {
	return b.rows
}

// Cols returns the buffer width in character columns.
func (b *Buffer) Cols() int {
	return b.cols
}

// Cell returns a pointer to the cell at (row, col).
// Returns nil if coordinates are out of bounds.
func (b *Buffer) Cell(row, col int) *Cell {
	if row < 0 || row >= b.rows || col < 0 || col >= b.cols {
		return nil
	}
	return &b.cells[row][col]
}

// Row returns the cells of one row. The slice aliases buffer storage.
func (b *Buffer) Row(row int) []Cell {
	if row < 0 || row >= b.rows {
		return nil
	}
	return b.cells[row]
}

// SetCell replaces the cell at (row, col) and marks its row dirty.
// Does nothing if coordinates are out of bounds.
func (b *Buffer) SetCell(row, col int, cell Cell) {
	if row < 0 || row >= b.rows || col < 0 || col >= b.cols {
		return
	}
	b.cells[row][col] = cell
	b.MarkDirty(row)
}

// --- Damage Tracking ---

// MarkDirty marks a row as modified.
// Does nothing if row is out of bounds.
func (b *Buffer) MarkDirty(row int) {
	if row < 0 || row >= b.rows {
		return
	}
	b.dirty[row] = true
	b.hasDirty = true
}

// MarkRangeDirty marks rows [top, bottom) as modified.
func (b *Buffer) MarkRangeDirty(top, bottom int) {
	for row := top; row < bottom; row++ {
		b.MarkDirty(row)
	}
}

// MarkAllDirty flags the whole buffer for redraw.
func (b *Buffer) MarkAllDirty() {
	b.allDirty = true
	b.hasDirty = true
}

// HasDirty returns true if any row has been modified since the last ClearAllDirty call.
func (b *Buffer) HasDirty() bool {
	return b.hasDirty
}

// IsDirty reports whether row is part of the damage set.
func (b *Buffer) IsDirty(row int) bool {
	if row < 0 || row >= b.rows {
		return false
	}
	return b.allDirty || b.dirty[row]
}

// DirtyRows returns the damaged row indices in ascending order, and whether
// the whole buffer is damaged. When all is true rows lists every row.
func (b *Buffer) DirtyRows() (rows []int, all bool) {
	if !b.hasDirty {
		return nil, false
	}
	for row := 0; row < b.rows; row++ {
		if b.allDirty || b.dirty[row] {
			rows = append(rows, row)
		}
	}
	return rows, b.allDirty
}

// ClearAllDirty empties the damage set.
func (b *Buffer) ClearAllDirty() {
	for i := range b.dirty {
		b.dirty[i] = false
	}
	b.allDirty = false
	b.hasDirty = false
}

// --- Clearing ---

// ClearRow resets all cells in the row to blank and marks it dirty.
func (b *Buffer) ClearRow(row int, blank Cell) {
	b.ClearRowRange(row, 0, b.cols, blank)
	b.SetWrapped(row, false)
}

// ClearRowRange resets cells in the row from startCol (inclusive) to endCol (exclusive).
func (b *Buffer) ClearRowRange(row, startCol, endCol int, blank Cell) {
	if row < 0 || row >= b.rows {
		return
	}
	if startCol < 0 {
		startCol = 0
	}
	if endCol > b.cols {
		endCol = b.cols
	}
	if startCol >= endCol {
		return
	}
	for col := startCol; col < endCol; col++ {
		b.cells[row][col].Erase(blank)
	}
	b.fixWideBoundary(row, startCol)
	b.fixWideBoundary(row, endCol)
	b.MarkDirty(row)
}

// ClearAll resets all cells in the buffer and marks everything dirty.
func (b *Buffer) ClearAll(blank Cell) {
	for row := range b.cells {
		b.ClearRow(row, blank)
	}
	b.MarkAllDirty()
}

// fixWideBoundary blanks half of a wide character split at col, so a
// spacer never survives without its leading cell and vice versa.
func (b *Buffer) fixWideBoundary(row, col int) {
	if row < 0 || row >= b.rows || col <= 0 || col >= b.cols {
		return
	}
	left := &b.cells[row][col-1]
	right := &b.cells[row][col]
	if left.IsWide() && !right.IsWideSpacer() {
		left.Char = ' '
		left.ClearFlag(CellFlagWideChar)
	}
	if right.IsWideSpacer() && !left.IsWide() {
		right.Char = ' '
		right.ClearFlag(CellFlagWideCharSpacer)
	}
}

// --- Scrolling ---

// ScrollUp shifts lines up by n positions within [top, bottom).
// Lines scrolled off the top are pushed to scrollback when pushScrollback is
// set and top==0. New bottom lines are erased to blank. Returns the number of
// lines pushed.
func (b *Buffer) ScrollUp(top, bottom, n int, pushScrollback bool, blank Cell) int {
	if top < 0 {
		top = 0
	}
	if bottom > b.rows {
		bottom = b.rows
	}
	if n <= 0 || top >= bottom {
		return 0
	}
	if n > bottom-top {
		n = bottom - top
	}

	pushed := 0
	if pushScrollback && top == 0 && b.scrollback.MaxLines() > 0 {
		for i := 0; i < n; i++ {
			b.scrollback.Push(b.cells[i])
			pushed++
		}
	}

	// Rotate row storage so the cleared rows reuse the evicted slices.
	evicted := make([][]Cell, n)
	copy(evicted, b.cells[top:top+n])
	copy(b.cells[top:], b.cells[top+n:bottom])
	copy(b.wrapped[top:], b.wrapped[top+n:bottom])
	for i, row := range evicted {
		r := bottom - n + i
		for col := range row {
			row[col].Erase(blank)
		}
		b.cells[r] = row
		b.wrapped[r] = false
	}
	b.MarkRangeDirty(top, bottom)
	return pushed
}

// ScrollDown shifts lines down by n positions within [top, bottom).
// Top lines are erased to blank and marked dirty.
func (b *Buffer) ScrollDown(top, bottom, n int, blank Cell) {
	if top < 0 {
		top = 0
	}
	if bottom > b.rows {
		bottom = b.rows
	}
	if n <= 0 || top >= bottom {
		return
	}
	if n > bottom-top {
		n = bottom - top
	}

	evicted := make([][]Cell, n)
	copy(evicted, b.cells[bottom-n:bottom])
	copy(b.cells[top+n:bottom], b.cells[top:bottom-n])
	copy(b.wrapped[top+n:bottom], b.wrapped[top:bottom-n])
	for i, row := range evicted {
		r := top + i
		for col := range row {
			row[col].Erase(blank)
		}
		b.cells[r] = row
		b.wrapped[r] = false
	}
	b.MarkRangeDirty(top, bottom)
}

// InsertLines inserts n blank lines at row, shifting existing lines down.
// Equivalent to ScrollDown(row, bottom, n, blank).
func (b *Buffer) InsertLines(row, n, bottom int, blank Cell) {
	if row < 0 || row >= bottom || n <= 0 {
		return
	}
	b.ScrollDown(row, bottom, n, blank)
}

// DeleteLines removes n lines at row, shifting remaining lines up.
// Deleted lines never reach scrollback.
func (b *Buffer) DeleteLines(row, n, bottom int, blank Cell) {
	if row < 0 || row >= bottom || n <= 0 {
		return
	}
	b.ScrollUp(row, bottom, n, false, blank)
}

// InsertBlanks inserts n blank cells at (row, col), shifting existing characters right.
func (b *Buffer) InsertBlanks(row, col, n int, blank Cell) {
	if row < 0 || row >= b.rows || col < 0 || col >= b.cols || n <= 0 {
		return
	}
	if n > b.cols-col {
		n = b.cols - col
	}

	line := b.cells[row]
	copy(line[col+n:], line[col:b.cols-n])
	for c := col; c < col+n; c++ {
		line[c].Erase(blank)
	}
	b.fixWideBoundary(row, col)
	b.fixWideBoundary(row, col+n)
	if last := &line[b.cols-1]; last.IsWide() {
		last.Char = ' '
		last.ClearFlag(CellFlagWideChar)
	}
	b.MarkDirty(row)
}

// DeleteChars removes n characters at (row, col), shifting remaining characters left.
func (b *Buffer) DeleteChars(row, col, n int, blank Cell) {
	if row < 0 || row >= b.rows || col < 0 || col >= b.cols || n <= 0 {
		return
	}
	if n > b.cols-col {
		n = b.cols - col
	}

	line := b.cells[row]
	copy(line[col:], line[col+n:])
	for c := b.cols - n; c < b.cols; c++ {
		line[c].Erase(blank)
	}
	b.fixWideBoundary(row, col)
	b.MarkDirty(row)
}

// Resize changes buffer dimensions, preserving existing cells where possible.
// Content is kept at the top-left corner. When shrinking, bottom/right content is lost.
// When growing, new empty cells are added at the bottom/right.
// Tab stops are extended if columns increase.
func (b *Buffer) Resize(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		return
	}
	if rows == b.rows && cols == b.cols {
		return
	}

	newCells := make([][]Cell, rows)
	for i := range newCells {
		newCells[i] = newRow(cols)
		if i < b.rows {
			copy(newCells[i], b.cells[i])
		}
	}

	newWrapped := make([]bool, rows)
	copy(newWrapped, b.wrapped)

	oldCols := b.cols
	b.cells = newCells
	b.wrapped = newWrapped
	b.dirty = make([]bool, rows)
	b.rows = rows
	b.cols = cols

	if cols < oldCols {
		for row := range b.cells {
			if last := &b.cells[row][cols-1]; last.IsWide() {
				last.Char = ' '
				last.ClearFlag(CellFlagWideChar)
			}
		}
	}

	newTabStop := make([]bool, cols)
	copy(newTabStop, b.tabStop)
	for i := (oldCols + 7) / 8 * 8; i < cols; i += 8 {
		newTabStop[i] = true
	}
	b.tabStop = newTabStop
	b.MarkAllDirty()
}

// --- Tab Stops ---

// ResetTabStops restores the default tab stops every 8 columns.
func (b *Buffer) ResetTabStops() {
	for i := range b.tabStop {
		b.tabStop[i] = i%8 == 0
	}
}

// SetTabStop enables a tab stop at the specified column.
func (b *Buffer) SetTabStop(col int) {
	if col >= 0 && col < b.cols {
		b.tabStop[col] = true
	}
}

// ClearTabStop disables the tab stop at the specified column.
func (b *Buffer) ClearTabStop(col int) {
	if col >= 0 && col < b.cols {
		b.tabStop[col] = false
	}
}

// ClearAllTabStops disables all tab stops.
func (b *Buffer) ClearAllTabStops() {
	for i := range b.tabStop {
		b.tabStop[i] = false
	}
}

// NextTabStop returns the column index of the next enabled tab stop after col.
// Returns the last column if no tab stop is found.
func (b *Buffer) NextTabStop(col int) int {
	for c := col + 1; c < b.cols; c++ {
		if b.tabStop[c] {
			return c
		}
	}
	return b.cols - 1
}

// PrevTabStop returns the column index of the previous enabled tab stop before col.
// Returns 0 if no tab stop is found.
func (b *Buffer) PrevTabStop(col int) int {
	if col > b.cols {
		col = b.cols
	}
	for c := col - 1; c >= 0; c-- {
		if b.tabStop[c] {
			return c
		}
	}
	return 0
}

// FillWithE fills all cells with 'E' (used by DECALN alignment test pattern).
func (b *Buffer) FillWithE() {
	for row := range b.cells {
		for col := range b.cells[row] {
			b.cells[row][col].Reset()
			b.cells[row][col].Char = 'E'
		}
		b.wrapped[row] = false
	}
	b.MarkAllDirty()
}

// --- Scrollback ---

// ScrollbackLen returns the number of lines stored in scrollback.
func (b *Buffer) ScrollbackLen() int {
	return b.scrollback.Len()
}

// ScrollbackLine returns a line from scrollback, where 0 is the oldest line.
// Returns nil if index is out of range or scrollback is disabled.
func (b *Buffer) ScrollbackLine(index int) []Cell {
	return b.scrollback.Line(index)
}

// ClearScrollback removes all stored scrollback lines.
func (b *Buffer) ClearScrollback() {
	b.scrollback.Clear()
}

// ScrollbackProvider returns the current scrollback storage implementation.
func (b *Buffer) ScrollbackProvider() ScrollbackProvider {
	return b.scrollback
}

// LineContent returns the text content of a line, trimming trailing spaces.
// Wide character spacers are skipped. Returns empty string if the line is empty or out of bounds.
func (b *Buffer) LineContent(row int) string {
	if row < 0 || row >= b.rows {
		return ""
	}
	return lineText(b.cells[row])
}

// lineText renders cells as text, skipping wide spacers and trimming trailing blanks.
func lineText(cells []Cell) string {
	lastNonSpace := -1
	for col := len(cells) - 1; col >= 0; col-- {
		cell := &cells[col]
		if cell.Char != ' ' && cell.Char != 0 && !cell.IsWideSpacer() {
			lastNonSpace = col
			break
		}
	}

	if lastNonSpace < 0 {
		return ""
	}

	runes := make([]rune, 0, lastNonSpace+1)
	for col := range cells[:lastNonSpace+1] {
		cell := &cells[col]
		if cell.IsWideSpacer() {
			continue
		}
		if cell.Char == 0 {
			runes = append(runes, ' ')
		} else {
			runes = append(runes, cell.Char)
		}
	}

	return string(runes)
}

// --- Wrapped Line Tracking ---

// IsWrapped returns true if the line was wrapped due to column overflow.
func (b *Buffer) IsWrapped(row int) bool {
	if row < 0 || row >= b.rows {
		return false
	}
	return b.wrapped[row]
}

// SetWrapped sets whether the line was wrapped or ended with an explicit newline.
func (b *Buffer) SetWrapped(row int, wrapped bool) {
	if row < 0 || row >= b.rows {
		return
	}
	b.wrapped[row] = wrapped
}

// Position identifies a cell location (0-based). Negative rows address
// scrollback: -1 is the newest scrollback line.
type Position struct {
	Row int
	Col int
}

// Before returns true if this position comes before other in reading order (top-to-bottom, left-to-right).
func (p Position) Before(other Position) bool {
	if p.Row < other.Row {
		return true
	}
	if p.Row == other.Row && p.Col < other.Col {
		return true
	}
	return false
}

// Equal returns true if both row and column match.
func (p Position) Equal(other Position) bool {
	return p.Row == other.Row && p.Col == other.Col
}
