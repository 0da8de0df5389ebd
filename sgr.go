package termcore

import (
	"image/color"

	"github.com/danielgatis/go-ansicode"
)

// AttrKind identifies one SGR attribute change.
type AttrKind int

const (
	AttrReset AttrKind = iota
	AttrBold
	AttrDim
	AttrItalic
	AttrUnderline
	AttrDoubleUnderline
	AttrCurlyUnderline
	AttrDottedUnderline
	AttrDashedUnderline
	AttrBlinkSlow
	AttrBlinkFast
	AttrReverse
	AttrHidden
	AttrStrike
	AttrCancelBold
	AttrCancelBoldDim
	AttrCancelItalic
	AttrCancelUnderline
	AttrCancelBlink
	AttrCancelReverse
	AttrCancelHidden
	AttrCancelStrike
	AttrForeground
	AttrBackground
	AttrUnderlineColor
	AttrDefaultForeground
	AttrDefaultBackground
	AttrDefaultUnderlineColor
)

// Attr is one decoded SGR attribute. Color is set for the color kinds.
type Attr struct {
	Kind  AttrKind
	Color color.Color
}

// attrFromAnsicode converts one decoded SGR attribute.
func attrFromAnsicode(a ansicode.TerminalCharAttribute) (Attr, bool) {
	kind, ok := attrKinds[a.Attr]
	if !ok {
		return Attr{}, false
	}
	switch kind {
	case AttrForeground, AttrBackground, AttrUnderlineColor:
	default:
		return Attr{Kind: kind}, true
	}

	c := attrColor(a)
	if c == nil {
		switch kind {
		case AttrForeground:
			return Attr{Kind: AttrDefaultForeground}, true
		case AttrBackground:
			return Attr{Kind: AttrDefaultBackground}, true
		default:
			return Attr{Kind: AttrDefaultUnderlineColor}, true
		}
	}
	return Attr{Kind: kind, Color: c}, true
}

var attrKinds = map[ansicode.CharAttribute]AttrKind{
	ansicode.CharAttributeReset:           AttrReset,
	ansicode.CharAttributeBold:            AttrBold,
	ansicode.CharAttributeDim:             AttrDim,
	ansicode.CharAttributeItalic:          AttrItalic,
	ansicode.CharAttributeUnderline:       AttrUnderline,
	ansicode.CharAttributeDoubleUnderline: AttrDoubleUnderline,
	ansicode.CharAttributeCurlyUnderline:  AttrCurlyUnderline,
	ansicode.CharAttributeDottedUnderline: AttrDottedUnderline,
	ansicode.CharAttributeDashedUnderline: AttrDashedUnderline,
	ansicode.CharAttributeBlinkSlow:       AttrBlinkSlow,
	ansicode.CharAttributeBlinkFast:       AttrBlinkFast,
	ansicode.CharAttributeReverse:         AttrReverse,
	ansicode.CharAttributeHidden:          AttrHidden,
	ansicode.CharAttributeStrike:          AttrStrike,
	ansicode.CharAttributeCancelBold:      AttrCancelBold,
	ansicode.CharAttributeCancelBoldDim:   AttrCancelBoldDim,
	ansicode.CharAttributeCancelItalic:    AttrCancelItalic,
	ansicode.CharAttributeCancelUnderline: AttrCancelUnderline,
	ansicode.CharAttributeCancelBlink:     AttrCancelBlink,
	ansicode.CharAttributeCancelReverse:   AttrCancelReverse,
	ansicode.CharAttributeCancelHidden:    AttrCancelHidden,
	ansicode.CharAttributeCancelStrike:    AttrCancelStrike,
	ansicode.CharAttributeForeground:      AttrForeground,
	ansicode.CharAttributeBackground:      AttrBackground,
	ansicode.CharAttributeUnderlineColor:  AttrUnderlineColor,
}

// attrColor returns the color carried by a, or nil when it carries none.
// The default foreground and background come back as nil.
func attrColor(a ansicode.TerminalCharAttribute) color.Color {
	switch {
	case a.RGBColor != nil:
		return color.RGBA{R: a.RGBColor.R, G: a.RGBColor.G, B: a.RGBColor.B, A: 255}
	case a.IndexedColor != nil:
		return IndexedColor{Index: int(a.IndexedColor.Index)}
	case a.NamedColor != nil:
		switch n := int(*a.NamedColor); n {
		case NamedColorForeground, NamedColorBackground:
			return nil
		default:
			return NamedColor{Name: n}
		}
	}
	return nil
}

// applyAttr folds one attribute into the template cell.
func applyAttr(tmpl *CellTemplate, a Attr) {
	c := &tmpl.Cell
	switch a.Kind {
	case AttrReset:
		link := c.Link
		*tmpl = NewCellTemplate()
		tmpl.Link = link
	case AttrBold:
		c.SetFlag(CellFlagBold)
	case AttrDim:
		c.SetFlag(CellFlagDim)
	case AttrItalic:
		c.SetFlag(CellFlagItalic)
	case AttrUnderline:
		c.ClearFlag(CellFlagAnyUnderline)
		c.SetFlag(CellFlagUnderline)
	case AttrDoubleUnderline:
		c.ClearFlag(CellFlagAnyUnderline)
		c.SetFlag(CellFlagDoubleUnderline)
	case AttrCurlyUnderline:
		c.ClearFlag(CellFlagAnyUnderline)
		c.SetFlag(CellFlagCurlyUnderline)
	case AttrDottedUnderline:
		c.ClearFlag(CellFlagAnyUnderline)
		c.SetFlag(CellFlagDottedUnderline)
	case AttrDashedUnderline:
		c.ClearFlag(CellFlagAnyUnderline)
		c.SetFlag(CellFlagDashedUnderline)
	case AttrBlinkSlow:
		c.SetFlag(CellFlagBlinkSlow)
	case AttrBlinkFast:
		c.SetFlag(CellFlagBlinkFast)
	case AttrReverse:
		c.SetFlag(CellFlagReverse)
	case AttrHidden:
		c.SetFlag(CellFlagHidden)
	case AttrStrike:
		c.SetFlag(CellFlagStrike)
	case AttrCancelBold:
		c.ClearFlag(CellFlagBold)
	case AttrCancelBoldDim:
		c.ClearFlag(CellFlagBold | CellFlagDim)
	case AttrCancelItalic:
		c.ClearFlag(CellFlagItalic)
	case AttrCancelUnderline:
		c.ClearFlag(CellFlagAnyUnderline)
	case AttrCancelBlink:
		c.ClearFlag(CellFlagBlinkSlow | CellFlagBlinkFast)
	case AttrCancelReverse:
		c.ClearFlag(CellFlagReverse)
	case AttrCancelHidden:
		c.ClearFlag(CellFlagHidden)
	case AttrCancelStrike:
		c.ClearFlag(CellFlagStrike)
	case AttrForeground:
		c.Fg = a.Color
	case AttrBackground:
		c.Bg = a.Color
	case AttrUnderlineColor:
		c.UnderlineColor = a.Color
	case AttrDefaultForeground:
		c.Fg = NamedColor{Name: NamedColorForeground}
	case AttrDefaultBackground:
		c.Bg = NamedColor{Name: NamedColorBackground}
	case AttrDefaultUnderlineColor:
		c.UnderlineColor = nil
	}
}
