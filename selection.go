package termcore

import (
	"strings"
	"unicode"
)

// SelectionMode controls how a selection grows from its anchor.
type SelectionMode int

const (
	// SelectLinear selects text in reading order between two cell boundaries.
	SelectLinear SelectionMode = iota
	// SelectBlock selects a rectangle of columns.
	SelectBlock
	// SelectWord extends both ends to word boundaries.
	SelectWord
	// SelectLine selects whole lines.
	SelectLine
)

// Selection is a user selection over screen and scrollback content.
// Anchor is where it started, Head where it currently ends; rows below zero
// address scrollback (-1 is the newest line). The covered range is
// half-open: the cell at the end boundary is not included.
type Selection struct {
	Anchor Position
	Head   Position
	Mode   SelectionMode
	Active bool
}

// bounds returns the normalized half-open range [start, end) in reading order.
// For block selections the columns are normalized independently.
func (sel Selection) bounds() (start, end Position) {
	start, end = sel.Anchor, sel.Head
	if end.Before(start) {
		start, end = end, start
	}
	if sel.Mode == SelectBlock {
		left, right := sel.Anchor.Col, sel.Head.Col
		if right < left {
			left, right = right, left
		}
		start.Col, end.Col = left, right
	}
	return start, end
}

func (sel Selection) top() int {
	return min(sel.Anchor.Row, sel.Head.Row)
}

// shift moves the selection by delta rows. Parts scrolled beyond the oldest
// history line are cut; a selection that falls out entirely is cleared.
func (sel *Selection) shift(delta, history int) {
	sel.Anchor.Row += delta
	sel.Head.Row += delta
	oldest := -history
	if sel.Anchor.Row < oldest && sel.Head.Row < oldest {
		*sel = Selection{}
		return
	}
	if sel.Anchor.Row < oldest {
		sel.Anchor = Position{Row: oldest, Col: 0}
	}
	if sel.Head.Row < oldest {
		sel.Head = Position{Row: oldest, Col: 0}
	}
}

// --- Screen selection API ---

// StartSelection begins a new selection at pos. Word and line modes expand
// immediately to cover the word or line under pos.
func (s *Screen) StartSelection(pos Position, mode SelectionMode) {
	pos = s.clampPosition(pos)
	s.markSelectionDirty()
	s.selection = Selection{Anchor: pos, Head: pos, Mode: mode, Active: true}
	s.markSelectionDirty()
}

// ExtendSelection moves the selection's head to pos.
// Does nothing when no selection is active.
func (s *Screen) ExtendSelection(pos Position) {
	if !s.selection.Active {
		return
	}
	s.markSelectionDirty()
	s.selection.Head = s.clampPosition(pos)
	s.markSelectionDirty()
}

// SetSelection selects the linear range [start, end).
func (s *Screen) SetSelection(start, end Position) {
	s.StartSelection(start, SelectLinear)
	s.ExtendSelection(end)
}

// ClearSelection removes the selection.
func (s *Screen) ClearSelection() {
	s.markSelectionDirty()
	s.selection = Selection{}
}

// Selection returns the current selection.
func (s *Screen) Selection() Selection {
	return s.selection
}

// HasSelection returns true if a non-empty selection exists.
func (s *Screen) HasSelection() bool {
	if !s.selection.Active {
		return false
	}
	start, end := s.selectionRange()
	return start.Before(end)
}

// IsSelected returns true if the content cell at (row, col) is inside the selection.
func (s *Screen) IsSelected(row, col int) bool {
	if !s.selection.Active {
		return false
	}
	start, end := s.selectionRange()
	if s.selection.Mode == SelectBlock {
		return row >= start.Row && row <= end.Row && col >= start.Col && col < end.Col
	}
	p := Position{Row: row, Col: col}
	return !p.Before(start) && p.Before(end)
}

// SelectedText returns the selected text. Rows are joined with newlines
// except where a line was soft-wrapped; trailing blanks are trimmed per row.
// Line selections carry no newline after the last line.
func (s *Screen) SelectedText() string {
	if !s.HasSelection() {
		return ""
	}
	start, end := s.selectionRange()
	block := s.selection.Mode == SelectBlock

	var sb strings.Builder
	for row := start.Row; row <= end.Row; row++ {
		line := s.line(row)
		if line == nil {
			continue
		}
		from, to := 0, len(line)
		switch {
		case block:
			from, to = start.Col, end.Col
		default:
			if row == start.Row {
				from = start.Col
			}
			if row == end.Row {
				to = end.Col
			}
		}
		from = clamp(from, 0, len(line))
		to = clamp(to, from, len(line))
		if !block && row == end.Row && from == to && row != start.Row {
			break
		}

		text := lineText(line[from:to])
		sb.WriteString(text)
		if row == end.Row {
			break
		}
		if block || !s.rowWrapped(row) || to < len(line) {
			sb.WriteByte('\n')
		}
	}
	if s.selection.Mode == SelectLine {
		return strings.TrimSuffix(sb.String(), "\n")
	}
	return sb.String()
}

// selectionRange returns the half-open range with word and line expansion applied.
func (s *Screen) selectionRange() (start, end Position) {
	start, end = s.selection.bounds()
	switch s.selection.Mode {
	case SelectWord:
		start.Col = s.wordStart(start.Row, start.Col)
		end.Col = s.wordEnd(end.Row, end.Col)
	case SelectLine:
		start.Col = 0
		end = Position{Row: end.Row + 1, Col: 0}
	}
	return start, end
}

func (s *Screen) rowWrapped(row int) bool {
	if row < 0 {
		return false
	}
	return s.active.IsWrapped(row)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("_-./~:@", r)
}

// wordStart returns the first column of the word containing col.
func (s *Screen) wordStart(row, col int) int {
	line := s.line(row)
	if col >= len(line) || !isWordRune(line[col].Char) {
		return col
	}
	for col > 0 && (isWordRune(line[col-1].Char) || line[col-1].IsWideSpacer()) {
		col--
	}
	return col
}

// wordEnd returns the column after the word containing col.
func (s *Screen) wordEnd(row, col int) int {
	line := s.line(row)
	if col >= len(line) {
		return col
	}
	if !isWordRune(line[col].Char) {
		return col + 1
	}
	for col < len(line) && (isWordRune(line[col].Char) || line[col].IsWideSpacer()) {
		col++
	}
	return col
}

// clampPosition keeps a position inside the screen plus available history.
func (s *Screen) clampPosition(p Position) Position {
	oldest := 0
	if s.active == s.primary {
		oldest = -s.primary.ScrollbackLen()
	}
	p.Row = clamp(p.Row, oldest, s.rows-1)
	p.Col = clamp(p.Col, 0, s.cols)
	return p
}

// clampSelection keeps the selection inside the current bounds after a resize.
func (s *Screen) clampSelection() {
	if !s.selection.Active {
		return
	}
	s.selection.Anchor = s.clampPosition(s.selection.Anchor)
	s.selection.Head = s.clampPosition(s.selection.Head)
}

// markSelectionDirty damages the visible rows the selection covers.
func (s *Screen) markSelectionDirty() {
	if !s.selection.Active {
		return
	}
	start, end := s.selectionRange()
	top := start.Row + s.viewOffset
	bottom := end.Row + s.viewOffset
	s.active.MarkRangeDirty(max(top, 0), min(bottom+1, s.rows))
}

// selectedViewRows returns the viewport rows that show selected content.
func (s *Screen) selectedViewRows() []int {
	if !s.HasSelection() {
		return nil
	}
	start, end := s.selectionRange()
	var rows []int
	for r := start.Row; r <= end.Row; r++ {
		vr := r + s.viewOffset
		if vr >= 0 && vr < s.rows {
			rows = append(rows, vr)
		}
	}
	return rows
}
