package termcore

import (
	"testing"
)

func TestNewCell(t *testing.T) {
	cell := NewCell()

	if cell.Char != ' ' {
		t.Errorf("expected space, got '%c'", cell.Char)
	}
	if cell.Fg != (NamedColor{Name: NamedColorForeground}) {
		t.Errorf("expected default foreground, got %v", cell.Fg)
	}
	if cell.Bg != (NamedColor{Name: NamedColorBackground}) {
		t.Errorf("expected default background, got %v", cell.Bg)
	}
	if cell.Flags != 0 {
		t.Error("expected no flags")
	}
}

func TestCellReset(t *testing.T) {
	cell := NewCell()
	cell.Char = 'A'
	cell.SetFlag(CellFlagBold)
	cell.Link = Hyperlink{URI: "https://example.com"}

	cell.Reset()

	if cell.Char != ' ' {
		t.Errorf("expected space after reset, got '%c'", cell.Char)
	}
	if cell.HasFlag(CellFlagBold) {
		t.Error("expected no flags after reset")
	}
	if cell.Link.Valid() {
		t.Error("expected no hyperlink after reset")
	}
}

func TestCellErase(t *testing.T) {
	cell := NewCell()
	cell.Char = 'A'
	cell.Fg = IndexedColor{Index: 1}
	cell.SetFlag(CellFlagReverse)

	tmpl := NewCell()
	tmpl.Bg = IndexedColor{Index: 2}
	tmpl.Fg = IndexedColor{Index: 3}
	cell.Erase(tmpl)

	if cell.Char != ' ' {
		t.Errorf("expected space, got '%c'", cell.Char)
	}
	if cell.Bg != (IndexedColor{Index: 2}) {
		t.Errorf("expected template background, got %v", cell.Bg)
	}
	if cell.Fg != (NamedColor{Name: NamedColorForeground}) {
		t.Errorf("expected default foreground, got %v", cell.Fg)
	}
	if cell.Flags != 0 {
		t.Errorf("expected no flags, got %b", cell.Flags)
	}
}

func TestCellFlags(t *testing.T) {
	cell := NewCell()

	cell.SetFlag(CellFlagBold)
	if !cell.HasFlag(CellFlagBold) {
		t.Error("expected bold flag")
	}

	cell.SetFlag(CellFlagItalic)
	if !cell.HasFlag(CellFlagBold) || !cell.HasFlag(CellFlagItalic) {
		t.Error("expected both flags")
	}

	cell.ClearFlag(CellFlagBold)
	if cell.HasFlag(CellFlagBold) {
		t.Error("expected bold flag to be cleared")
	}
	if !cell.HasFlag(CellFlagItalic) {
		t.Error("expected italic flag to remain")
	}

	cell.SetFlag(CellFlagCurlyUnderline)
	if !cell.HasFlag(CellFlagAnyUnderline) {
		t.Error("expected curly underline to match any underline")
	}
}

func TestCellWide(t *testing.T) {
	cell := NewCell()

	cell.SetFlag(CellFlagWideChar)
	if !cell.IsWide() {
		t.Error("expected cell to be wide")
	}

	spacer := NewCell()
	spacer.SetFlag(CellFlagWideCharSpacer)
	if !spacer.IsWideSpacer() {
		t.Error("expected cell to be spacer")
	}
	if spacer.IsEmpty() {
		t.Error("expected spacer not to count as empty")
	}
}

func TestCellIsPlainValue(t *testing.T) {
	cell := NewCell()
	cell.Char = 'X'
	cell.SetFlag(CellFlagBold | CellFlagItalic)

	copied := cell

	if copied.Char != 'X' {
		t.Errorf("expected 'X', got '%c'", copied.Char)
	}
	if !copied.HasFlag(CellFlagBold) || !copied.HasFlag(CellFlagItalic) {
		t.Error("expected flags to be copied")
	}

	// Modify original, copy should be unchanged
	cell.Char = 'Y'
	if copied.Char != 'X' {
		t.Error("copy should be independent")
	}
}

func TestHyperlinkValid(t *testing.T) {
	if (Hyperlink{}).Valid() {
		t.Error("expected zero hyperlink to be invalid")
	}
	if (Hyperlink{ID: "x"}).Valid() {
		t.Error("expected hyperlink without URI to be invalid")
	}
	if !(Hyperlink{URI: "https://example.com"}).Valid() {
		t.Error("expected hyperlink with URI to be valid")
	}
}
