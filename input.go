package termcore

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Key identifies a non-text key. KeyRune means the event carries text in Rune.
type Key int

const (
	KeyRune Key = iota
	KeyEnter
	KeyTab
	KeyBackspace
	KeyEscape
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyInsert
	KeyDelete
	KeyPageUp
	KeyPageDown
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyKP0
	KeyKP1
	KeyKP2
	KeyKP3
	KeyKP4
	KeyKP5
	KeyKP6
	KeyKP7
	KeyKP8
	KeyKP9
	KeyKPDecimal
	KeyKPDivide
	KeyKPMultiply
	KeyKPMinus
	KeyKPPlus
	KeyKPEnter
	KeyKPEqual
)

// Modifiers is a bitmask of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModAlt
	ModCtrl
	ModMeta
)

// KeyEvent is one key press from the host.
type KeyEvent struct {
	Key  Key
	Rune rune
	Mods Modifiers
}

// param returns the xterm modifier parameter (1 + bitmask), or 1 when no
// modifier is held.
func (m Modifiers) param() int {
	p := 1
	if m&ModShift != 0 {
		p += 1
	}
	if m&ModAlt != 0 {
		p += 2
	}
	if m&ModCtrl != 0 {
		p += 4
	}
	if m&ModMeta != 0 {
		p += 8
	}
	return p
}

// cursorFinals are the final bytes of the cursor keys and Home/End.
var cursorFinals = map[Key]byte{
	KeyUp:    'A',
	KeyDown:  'B',
	KeyRight: 'C',
	KeyLeft:  'D',
	KeyHome:  'H',
	KeyEnd:   'F',
}

// tildeCodes are the CSI n ~ codes of the editing and upper function keys.
var tildeCodes = map[Key]int{
	KeyInsert:   2,
	KeyDelete:   3,
	KeyPageUp:   5,
	KeyPageDown: 6,
	KeyF5:       15,
	KeyF6:       17,
	KeyF7:       18,
	KeyF8:       19,
	KeyF9:       20,
	KeyF10:      21,
	KeyF11:      23,
	KeyF12:      24,
}

// keypadKeys maps keypad keys to their numeric-mode text and application-mode SS3 final.
var keypadKeys = map[Key]struct {
	text  string
	final byte
}{
	KeyKP0:        {"0", 'p'},
	KeyKP1:        {"1", 'q'},
	KeyKP2:        {"2", 'r'},
	KeyKP3:        {"3", 's'},
	KeyKP4:        {"4", 't'},
	KeyKP5:        {"5", 'u'},
	KeyKP6:        {"6", 'v'},
	KeyKP7:        {"7", 'w'},
	KeyKP8:        {"8", 'x'},
	KeyKP9:        {"9", 'y'},
	KeyKPDecimal:  {".", 'n'},
	KeyKPDivide:   {"/", 'o'},
	KeyKPMultiply: {"*", 'j'},
	KeyKPMinus:    {"-", 'm'},
	KeyKPPlus:     {"+", 'k'},
	KeyKPEnter:    {"\r", 'M'},
	KeyKPEqual:    {"=", 'X'},
}

// MapKey translates a key press into the bytes the application expects,
// honoring application cursor keys, application keypad and LNM.
// Returns nil for keys with no encoding.
func MapKey(ev KeyEvent, modes Modes) []byte {
	alt := ev.Mods&ModAlt != 0

	switch ev.Key {
	case KeyRune:
		return mapRune(ev.Rune, ev.Mods)
	case KeyEnter:
		if modes.Has(ModeLineFeedNewLine) {
			return altPrefix(alt, "\r\n")
		}
		return altPrefix(alt, "\r")
	case KeyTab:
		if ev.Mods&ModShift != 0 {
			return []byte("\x1b[Z")
		}
		return altPrefix(alt, "\t")
	case KeyBackspace:
		if ev.Mods&ModCtrl != 0 {
			return altPrefix(alt, "\x08")
		}
		return altPrefix(alt, "\x7f")
	case KeyEscape:
		return altPrefix(alt, "\x1b")
	case KeyF1, KeyF2, KeyF3, KeyF4:
		final := byte('P' + ev.Key - KeyF1)
		if ev.Mods != 0 {
			return []byte(fmt.Sprintf("\x1b[1;%d%c", ev.Mods.param(), final))
		}
		return []byte{0x1b, 'O', final}
	}

	if final, ok := cursorFinals[ev.Key]; ok {
		switch {
		case ev.Mods != 0:
			return []byte(fmt.Sprintf("\x1b[1;%d%c", ev.Mods.param(), final))
		case modes.Has(ModeCursorKeys):
			return []byte{0x1b, 'O', final}
		default:
			return []byte{0x1b, '[', final}
		}
	}

	if code, ok := tildeCodes[ev.Key]; ok {
		if ev.Mods != 0 {
			return []byte(fmt.Sprintf("\x1b[%d;%d~", code, ev.Mods.param()))
		}
		return []byte(fmt.Sprintf("\x1b[%d~", code))
	}

	if kp, ok := keypadKeys[ev.Key]; ok {
		if modes.Has(ModeKeypadApplication) {
			return []byte{0x1b, 'O', kp.final}
		}
		if ev.Key == KeyKPEnter && modes.Has(ModeLineFeedNewLine) {
			return []byte("\r\n")
		}
		return []byte(kp.text)
	}

	return nil
}

func altPrefix(alt bool, s string) []byte {
	if alt {
		return []byte("\x1b" + s)
	}
	return []byte(s)
}

// mapRune encodes text input. Ctrl folds to a C0 control where one exists;
// Alt prefixes ESC.
func mapRune(r rune, mods Modifiers) []byte {
	if r < 0 || !utf8.ValidRune(r) {
		return nil
	}
	var out []byte
	if mods&ModAlt != 0 {
		out = append(out, 0x1b)
	}
	if mods&ModCtrl != 0 {
		if b, ok := ctrlByte(r); ok {
			return append(out, b)
		}
	}
	return utf8.AppendRune(out, r)
}

// ctrlByte returns the control character produced by Ctrl+r.
func ctrlByte(r rune) (byte, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return byte(r-'a') + 1, true
	case r >= 'A' && r <= 'Z':
		return byte(r-'A') + 1, true
	}
	switch r {
	case '@', ' ', '2':
		return 0x00, true
	case '[', '3':
		return 0x1b, true
	case '\\', '4':
		return 0x1c, true
	case ']', '5':
		return 0x1d, true
	case '^', '6':
		return 0x1e, true
	case '_', '7', '/':
		return 0x1f, true
	case '8', '?':
		return 0x7f, true
	}
	return 0, false
}

const (
	pasteStart = "\x1b[200~"
	pasteEnd   = "\x1b[201~"
)

// MapPaste prepares pasted text. Line endings become CR and control
// characters other than tab and CR are dropped, so pasted text cannot
// inject escape sequences. With bracketed paste enabled the text is
// wrapped in the paste markers.
func MapPaste(text string, modes Modes) []byte {
	text = strings.ReplaceAll(text, pasteEnd, "")
	text = strings.ReplaceAll(text, pasteStart, "")
	text = strings.ReplaceAll(text, "\r\n", "\r")
	text = strings.ReplaceAll(text, "\n", "\r")

	var sb strings.Builder
	bracketed := modes.Has(ModeBracketedPaste)
	if bracketed {
		sb.WriteString(pasteStart)
	}
	for _, r := range text {
		if (r < 0x20 && r != '\t' && r != '\r') || r == 0x7f || (r >= 0x80 && r < 0xa0) {
			continue
		}
		sb.WriteRune(r)
	}
	if bracketed {
		sb.WriteString(pasteEnd)
	}
	return []byte(sb.String())
}

// MapFocus returns the focus report for a focus change, or nil when the
// application has not enabled focus reporting.
func MapFocus(focused bool, modes Modes) []byte {
	if !modes.Has(ModeReportFocusInOut) {
		return nil
	}
	if focused {
		return []byte("\x1b[I")
	}
	return []byte("\x1b[O")
}
