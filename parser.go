package termcore

import (
	"image/color"
	"strings"

	"github.com/danielgatis/go-vte"
	"golang.org/x/image/colornames"
)

// Parser is a streaming VT/xterm escape sequence decoder built on the
// go-vte state machine and go-ansicode's sequence dispatch.
//
// Feed may be called with arbitrary chunks; sequences and UTF-8 characters
// split across chunk boundaries are reassembled. Malformed or unsupported
// sequences produce no action.
type Parser struct {
	vt      *vte.Parser
	handler actionHandler
}

// NewParser returns a parser in the ground state.
func NewParser() *Parser {
	p := &Parser{}
	p.Reset()
	return p
}

// Reset returns the parser to the ground state, discarding partial input.
func (p *Parser) Reset() {
	p.vt = vte.NewParser(newPerformer(&p.handler))
}

// Feed decodes data and calls emit for every recognized action, in order.
func (p *Parser) Feed(data []byte, emit func(Action)) {
	p.handler.emit = emit
	defer func() { p.handler.emit = nil }()
	for _, b := range data {
		p.vt.Advance(b)
	}
}

// parseColorSpec parses a color the way OSC 10 would: rgb:R/G/B, #RGB and
// #RRGGBB. X11 color names such as "orange" are also accepted.
func parseColorSpec(spec string) (color.RGBA, bool) {
	if c, ok := colornames.Map[strings.ToLower(spec)]; ok {
		return c, true
	}
	if spec == "" || strings.ContainsAny(spec, ";\x07\x1b") {
		return color.RGBA{}, false
	}

	var (
		found bool
		out   color.RGBA
	)
	NewParser().Feed([]byte("\x1b]10;"+spec+"\x07"), func(a Action) {
		if c, ok := a.(SetPaletteColor); ok && c.Index == NamedColorForeground && !found {
			found, out = true, c.Color
		}
	})
	return out, found
}
