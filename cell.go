package termcore

import "image/color"

// CellFlags is a bitmask of cell rendering attributes.
type CellFlags uint16

const (
	CellFlagBold CellFlags = 1 << iota
	CellFlagDim
	CellFlagItalic
	CellFlagUnderline
	CellFlagDoubleUnderline
	CellFlagCurlyUnderline
	CellFlagDottedUnderline
	CellFlagDashedUnderline
	CellFlagBlinkSlow
	CellFlagBlinkFast
	CellFlagReverse
	CellFlagHidden
	CellFlagStrike
	CellFlagWideChar
	CellFlagWideCharSpacer
)

// CellFlagAnyUnderline matches every underline variant.
const CellFlagAnyUnderline = CellFlagUnderline | CellFlagDoubleUnderline | CellFlagCurlyUnderline |
	CellFlagDottedUnderline | CellFlagDashedUnderline

// Cell stores the character, colors, and formatting attributes for one grid position.
// Wide characters (2 columns) use a spacer cell in the second position.
//
// Cell is a plain value: copying it copies everything it refers to.
type Cell struct {
	Char           rune
	Fg             color.Color
	Bg             color.Color
	UnderlineColor color.Color
	Flags          CellFlags
	Link           Hyperlink
}

// Hyperlink associates a cell with a clickable link (OSC 8).
// The zero value means the cell carries no link.
type Hyperlink struct {
	ID  string
	URI string
}

// Valid reports whether the hyperlink points anywhere.
func (h Hyperlink) Valid() bool {
	return h.URI != ""
}

// NewCell creates a cell initialized with space character and default colors.
func NewCell() Cell {
	return Cell{
		Char: ' ',
		Fg:   NamedColor{Name: NamedColorForeground},
		Bg:   NamedColor{Name: NamedColorBackground},
	}
}

// Reset clears all attributes and sets the cell to default state (space character, default colors).
func (c *Cell) Reset() {
	*c = NewCell()
}

// Erase blanks the cell but keeps the background color of tmpl, as erase
// operations do in xterm (background color erase).
func (c *Cell) Erase(tmpl Cell) {
	*c = NewCell()
	if tmpl.Bg != nil {
		c.Bg = tmpl.Bg
	}
}

// HasFlag returns true if the specified flag is set.
func (c *Cell) HasFlag(flag CellFlags) bool {
	return c.Flags&flag != 0
}

// SetFlag enables the specified flag without affecting others.
func (c *Cell) SetFlag(flag CellFlags) {
	c.Flags |= flag
}

// ClearFlag disables the specified flag without affecting others.
func (c *Cell) ClearFlag(flag CellFlags) {
	c.Flags &^= flag
}

// IsWide returns true if this cell contains a wide character (CJK, emoji, etc.) that occupies 2 columns.
func (c *Cell) IsWide() bool {
	return c.HasFlag(CellFlagWideChar)
}

// IsWideSpacer returns true if this is the second cell of a wide character (should be skipped during rendering).
func (c *Cell) IsWideSpacer() bool {
	return c.HasFlag(CellFlagWideCharSpacer)
}

// IsEmpty reports whether the cell shows nothing but its background.
func (c *Cell) IsEmpty() bool {
	return (c.Char == ' ' || c.Char == 0) && !c.IsWideSpacer()
}
