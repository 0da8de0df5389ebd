package termcore

import (
	"fmt"
	"unicode/utf8"
)

// MouseButton identifies the button of a mouse event.
type MouseButton int

const (
	// MouseNone is used for motion without a held button.
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
	MouseWheelLeft
	MouseWheelRight
)

// IsWheel reports whether the button is a wheel direction.
func (b MouseButton) IsWheel() bool {
	return b >= MouseWheelUp
}

// MouseAction is what happened to the button.
type MouseAction int

const (
	MousePress MouseAction = iota
	MouseRelease
	MouseMotion
)

// MouseEvent is a mouse event in cell coordinates (0-based).
type MouseEvent struct {
	Button MouseButton
	Action MouseAction
	Row    int
	Col    int
	Mods   Modifiers
}

const (
	// maxDefaultCoord is the largest 1-based coordinate the legacy byte encoding carries.
	maxDefaultCoord = 223
	// maxUTF8Coord is the largest 1-based coordinate mode 1005 carries.
	maxUTF8Coord = 2015

	wheelScrollLines = 3
)

// MapMouse encodes a mouse event for the tracking mode and encoding the
// application enabled. Returns nil when the event is not reported.
//
// With tracking off, wheel events on the alternate screen become cursor
// keys when alternate scroll mode (1007) is on.
func MapMouse(ev MouseEvent, modes Modes) []byte {
	if modes.MouseTracking == MouseTrackingNone {
		return alternateScroll(ev, modes)
	}
	if !reported(ev, modes.MouseTracking) {
		return nil
	}

	code := buttonCode(ev, modes)
	col, row := max(ev.Col, 0)+1, max(ev.Row, 0)+1

	switch modes.MouseEncoding {
	case MouseEncodingSGR:
		final := 'M'
		if ev.Action == MouseRelease {
			final = 'm'
		}
		return []byte(fmt.Sprintf("\x1b[<%d;%d;%d%c", code, col, row, final))
	case MouseEncodingUTF8:
		if col > maxUTF8Coord || row > maxUTF8Coord {
			return nil
		}
		out := []byte("\x1b[M")
		out = append(out, byte(32+code))
		out = utf8.AppendRune(out, rune(32+col))
		out = utf8.AppendRune(out, rune(32+row))
		return out
	default:
		if col > maxDefaultCoord || row > maxDefaultCoord {
			return nil
		}
		return []byte{0x1b, '[', 'M', byte(32 + code), byte(32 + col), byte(32 + row)}
	}
}

// reported decides whether the tracking mode reports the event.
func reported(ev MouseEvent, tracking MouseTracking) bool {
	switch ev.Action {
	case MousePress:
		return true
	case MouseRelease:
		// Wheel "buttons" have no release.
		return tracking != MouseTrackingX10 && !ev.Button.IsWheel()
	case MouseMotion:
		switch tracking {
		case MouseTrackingAnyEvent:
			return true
		case MouseTrackingButtonEvent:
			return ev.Button != MouseNone
		}
	}
	return false
}

// buttonCode computes Cb: button number, modifier bits and the motion bit.
func buttonCode(ev MouseEvent, modes Modes) int {
	var code int
	switch ev.Button {
	case MouseLeft:
		code = 0
	case MouseMiddle:
		code = 1
	case MouseRight:
		code = 2
	case MouseNone:
		code = 3
	case MouseWheelUp:
		code = 64
	case MouseWheelDown:
		code = 65
	case MouseWheelLeft:
		code = 66
	case MouseWheelRight:
		code = 67
	}
	// The legacy encodings cannot tell which button was released.
	if ev.Action == MouseRelease && modes.MouseEncoding != MouseEncodingSGR {
		code = 3
	}
	if ev.Action == MouseMotion {
		code += 32
	}
	if modes.MouseTracking != MouseTrackingX10 {
		if ev.Mods&ModShift != 0 {
			code += 4
		}
		if ev.Mods&(ModAlt|ModMeta) != 0 {
			code += 8
		}
		if ev.Mods&ModCtrl != 0 {
			code += 16
		}
	}
	return code
}

func alternateScroll(ev MouseEvent, modes Modes) []byte {
	if ev.Action != MousePress || !modes.Has(ModeAlternateScreen|ModeAlternateScroll) {
		return nil
	}
	var key Key
	switch ev.Button {
	case MouseWheelUp:
		key = KeyUp
	case MouseWheelDown:
		key = KeyDown
	default:
		return nil
	}
	seq := MapKey(KeyEvent{Key: key}, modes)
	var out []byte
	for i := 0; i < wheelScrollLines; i++ {
		out = append(out, seq...)
	}
	return out
}
