package termcore

import (
	"fmt"
	"image/color"
)

// SnapshotDetail specifies the level of detail in a snapshot.
type SnapshotDetail string

const (
	// SnapshotDetailText returns plain text only.
	SnapshotDetailText SnapshotDetail = "text"
	// SnapshotDetailStyled returns text with style segments per line.
	SnapshotDetailStyled SnapshotDetail = "styled"
	// SnapshotDetailFull returns full cell-by-cell data.
	SnapshotDetailFull SnapshotDetail = "full"
)

// Snapshot is a serializable capture of the visible screen.
type Snapshot struct {
	Size       SnapshotSize   `json:"size"`
	Cursor     SnapshotCursor `json:"cursor"`
	Title      string         `json:"title,omitempty"`
	Alternate  bool           `json:"alternate,omitempty"`
	Scrollback int            `json:"scrollback"`
	Lines      []SnapshotLine `json:"lines"`
}

// SnapshotSize holds terminal dimensions.
type SnapshotSize struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// SnapshotCursor holds cursor state.
type SnapshotCursor struct {
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	Visible bool   `json:"visible"`
	Style   string `json:"style"`
}

// SnapshotLine represents a single line in the snapshot.
type SnapshotLine struct {
	Text     string            `json:"text"`
	Wrapped  bool              `json:"wrapped,omitempty"`
	Segments []SnapshotSegment `json:"segments,omitempty"`
	Cells    []SnapshotCell    `json:"cells,omitempty"`
}

// SnapshotSegment represents a styled text segment within a line.
type SnapshotSegment struct {
	Text       string        `json:"text"`
	Fg         string        `json:"fg,omitempty"`
	Bg         string        `json:"bg,omitempty"`
	Attributes SnapshotAttrs `json:"attrs,omitempty"`
	Hyperlink  *SnapshotLink `json:"hyperlink,omitempty"`
}

// SnapshotCell represents a single cell with full attributes.
type SnapshotCell struct {
	Char       string        `json:"char"`
	Fg         string        `json:"fg"`
	Bg         string        `json:"bg"`
	Attributes SnapshotAttrs `json:"attrs,omitempty"`
	Hyperlink  *SnapshotLink `json:"hyperlink,omitempty"`
	Wide       bool          `json:"wide,omitempty"`
	WideSpacer bool          `json:"wide_spacer,omitempty"`
}

// SnapshotAttrs holds text formatting attributes.
type SnapshotAttrs struct {
	Bold          bool `json:"bold,omitempty"`
	Dim           bool `json:"dim,omitempty"`
	Italic        bool `json:"italic,omitempty"`
	Underline     bool `json:"underline,omitempty"`
	Blink         bool `json:"blink,omitempty"`
	Reverse       bool `json:"reverse,omitempty"`
	Hidden        bool `json:"hidden,omitempty"`
	Strikethrough bool `json:"strikethrough,omitempty"`
}

// SnapshotLink holds hyperlink information.
type SnapshotLink struct {
	ID  string `json:"id,omitempty"`
	URI string `json:"uri"`
}

// Snapshot creates a snapshot of the visible screen.
// The detail parameter controls how much information is included.
func (s *Screen) Snapshot(detail SnapshotDetail) *Snapshot {
	snap := &Snapshot{
		Size: SnapshotSize{
			Rows: s.rows,
			Cols: s.cols,
		},
		Cursor: SnapshotCursor{
			Row:     s.cursor.Row,
			Col:     s.cursor.Col,
			Visible: s.modes.Has(ModeShowCursor),
			Style:   cursorStyleToString(s.cursor.Style),
		},
		Title:      s.title,
		Alternate:  s.IsAlternateScreen(),
		Scrollback: s.primary.ScrollbackLen(),
		Lines:      make([]SnapshotLine, s.rows),
	}

	for row := 0; row < s.rows; row++ {
		snap.Lines[row] = s.snapshotLine(row, detail)
	}

	return snap
}

// snapshotLine creates a snapshot of a single line.
func (s *Screen) snapshotLine(row int, detail SnapshotDetail) SnapshotLine {
	line := SnapshotLine{
		Text:    s.active.LineContent(row),
		Wrapped: s.active.IsWrapped(row),
	}

	switch detail {
	case SnapshotDetailStyled:
		line.Segments = s.lineToSegments(row)
	case SnapshotDetailFull:
		line.Cells = s.lineToCells(row)
	}

	return line
}

// lineToSegments converts a line to styled segments (runs of same style).
func (s *Screen) lineToSegments(row int) []SnapshotSegment {
	var segments []SnapshotSegment
	var current *SnapshotSegment
	var currentChars []rune

	for _, cell := range s.active.Row(row) {
		if cell.IsWideSpacer() {
			continue
		}

		fg := s.colorToHex(cell.Fg, true)
		bg := s.colorToHex(cell.Bg, false)
		attrs := cellAttrsToSnapshot(&cell)
		link := cellHyperlinkToSnapshot(&cell)

		if current == nil || !segmentMatches(current, fg, bg, attrs, link) {
			if current != nil && len(currentChars) > 0 {
				current.Text = string(currentChars)
				segments = append(segments, *current)
			}
			current = &SnapshotSegment{
				Fg:         fg,
				Bg:         bg,
				Attributes: attrs,
				Hyperlink:  link,
			}
			currentChars = nil
		}

		ch := cell.Char
		if ch == 0 {
			ch = ' '
		}
		currentChars = append(currentChars, ch)
	}

	if current != nil && len(currentChars) > 0 {
		current.Text = string(currentChars)
		segments = append(segments, *current)
	}

	return segments
}

// lineToCells converts a line to full cell data.
func (s *Screen) lineToCells(row int) []SnapshotCell {
	line := s.active.Row(row)
	cells := make([]SnapshotCell, 0, len(line))

	for _, cell := range line {
		ch := cell.Char
		if ch == 0 {
			ch = ' '
		}
		cells = append(cells, SnapshotCell{
			Char:       string(ch),
			Fg:         s.colorToHex(cell.Fg, true),
			Bg:         s.colorToHex(cell.Bg, false),
			Attributes: cellAttrsToSnapshot(&cell),
			Hyperlink:  cellHyperlinkToSnapshot(&cell),
			Wide:       cell.IsWide(),
			WideSpacer: cell.IsWideSpacer(),
		})
	}

	return cells
}

// segmentMatches checks if segment matches the given style.
func segmentMatches(seg *SnapshotSegment, fg, bg string, attrs SnapshotAttrs, link *SnapshotLink) bool {
	if seg.Fg != fg || seg.Bg != bg {
		return false
	}
	if seg.Attributes != attrs {
		return false
	}
	if seg.Hyperlink == nil || link == nil {
		return seg.Hyperlink == nil && link == nil
	}
	return *seg.Hyperlink == *link
}

// colorToHex resolves a color against the screen palette.
func (s *Screen) colorToHex(c color.Color, fg bool) string {
	rgba := s.palette.Resolve(c, fg)
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

// cellAttrsToSnapshot extracts cell attributes.
func cellAttrsToSnapshot(cell *Cell) SnapshotAttrs {
	return SnapshotAttrs{
		Bold:          cell.HasFlag(CellFlagBold),
		Dim:           cell.HasFlag(CellFlagDim),
		Italic:        cell.HasFlag(CellFlagItalic),
		Underline:     cell.HasFlag(CellFlagAnyUnderline),
		Blink:         cell.HasFlag(CellFlagBlinkSlow | CellFlagBlinkFast),
		Reverse:       cell.HasFlag(CellFlagReverse),
		Hidden:        cell.HasFlag(CellFlagHidden),
		Strikethrough: cell.HasFlag(CellFlagStrike),
	}
}

// cellHyperlinkToSnapshot extracts hyperlink info.
func cellHyperlinkToSnapshot(cell *Cell) *SnapshotLink {
	if !cell.Link.Valid() {
		return nil
	}
	return &SnapshotLink{
		ID:  cell.Link.ID,
		URI: cell.Link.URI,
	}
}

// cursorStyleToString converts cursor style to string.
func cursorStyleToString(style CursorStyle) string {
	switch style.Shape() {
	case CursorShapeUnderline:
		return "underline"
	case CursorShapeBar:
		return "bar"
	default:
		return "block"
	}
}
