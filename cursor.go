package termcore

// CursorStyle determines how the cursor is rendered (DECSCUSR).
type CursorStyle int

const (
	CursorStyleBlinkingBlock CursorStyle = iota
	CursorStyleSteadyBlock
	CursorStyleBlinkingUnderline
	CursorStyleSteadyUnderline
	CursorStyleBlinkingBar
	CursorStyleSteadyBar
)

// CursorShape is the geometric part of a CursorStyle.
type CursorShape int

const (
	CursorShapeBlock CursorShape = iota
	CursorShapeUnderline
	CursorShapeBar
)

// Shape returns the shape without the blink component.
func (s CursorStyle) Shape() CursorShape {
	switch s {
	case CursorStyleBlinkingUnderline, CursorStyleSteadyUnderline:
		return CursorShapeUnderline
	case CursorStyleBlinkingBar, CursorStyleSteadyBar:
		return CursorShapeBar
	default:
		return CursorShapeBlock
	}
}

// Blinking reports whether the style blinks.
func (s CursorStyle) Blinking() bool {
	switch s {
	case CursorStyleBlinkingBlock, CursorStyleBlinkingUnderline, CursorStyleBlinkingBar:
		return true
	}
	return false
}

// Cursor tracks the current position and rendering style (0-based coordinates).
type Cursor struct {
	Row   int
	Col   int
	Style CursorStyle

	// pendingWrap is set after printing into the last column with auto-wrap
	// on; the next printable character wraps first.
	pendingWrap bool
}

// SavedCursor stores cursor position, cell attributes, and charset state for restoration.
type SavedCursor struct {
	Row          int
	Col          int
	Attrs        CellTemplate
	OriginMode   bool
	CharsetIndex CharsetIndex
	Charsets     [4]Charset
	pendingWrap  bool
}

// CellTemplate defines default attributes applied to newly written characters.
// Modified by SGR (Select Graphic Rendition) escape sequences.
type CellTemplate struct {
	Cell
}

// NewCellTemplate creates a template with default attributes (no colors, no flags).
func NewCellTemplate() CellTemplate {
	return CellTemplate{
		Cell: NewCell(),
	}
}

// Charset selects the character encoding variant.
type Charset int

const (
	CharsetASCII Charset = iota
	CharsetLineDrawing
)

// CharsetIndex selects one of four character set slots (G0-G3).
type CharsetIndex int

const (
	CharsetIndexG0 CharsetIndex = iota
	CharsetIndexG1
	CharsetIndexG2
	CharsetIndexG3
)

// lineDrawing maps the DEC Special Graphics set onto Unicode box drawing characters.
var lineDrawing = map[rune]rune{
	'`': '◆', 'a': '▒', 'b': '␉', 'c': '␌', 'd': '␍', 'e': '␊', 'f': '°', 'g': '±',
	'h': '␤', 'i': '␋', 'j': '┘', 'k': '┐', 'l': '┌', 'm': '└', 'n': '┼', 'o': '⎺',
	'p': '⎻', 'q': '─', 'r': '⎼', 's': '⎽', 't': '├', 'u': '┤', 'v': '┴', 'w': '┬',
	'x': '│', 'y': '≤', 'z': '≥', '{': 'π', '|': '≠', '}': '£', '~': '·',
}

func (c Charset) translate(r rune) rune {
	if c == CharsetLineDrawing {
		if m, ok := lineDrawing[r]; ok {
			return m
		}
	}
	return r
}
