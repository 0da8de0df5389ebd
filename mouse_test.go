package termcore

import (
	"testing"
)

func TestMapMouseTrackingOff(t *testing.T) {
	ev := MouseEvent{Button: MouseLeft, Action: MousePress, Row: 1, Col: 1}
	if got := MapMouse(ev, Modes{}); got != nil {
		t.Errorf("expected nil without tracking, got %q", got)
	}
}

func TestMapMouseDefaultEncoding(t *testing.T) {
	modes := Modes{MouseTracking: MouseTrackingNormal}

	got := MapMouse(MouseEvent{Button: MouseLeft, Action: MousePress, Row: 2, Col: 4}, modes)
	want := []byte{0x1b, '[', 'M', 32, 32 + 5, 32 + 3}
	if string(got) != string(want) {
		t.Errorf("expected %q, got %q", want, got)
	}

	got = MapMouse(MouseEvent{Button: MouseLeft, Action: MouseRelease, Row: 2, Col: 4}, modes)
	want = []byte{0x1b, '[', 'M', 32 + 3, 32 + 5, 32 + 3}
	if string(got) != string(want) {
		t.Errorf("expected release as button 3, got %q", got)
	}
}

func TestMapMouseDefaultEncodingOutOfRange(t *testing.T) {
	modes := Modes{MouseTracking: MouseTrackingNormal}
	ev := MouseEvent{Button: MouseLeft, Action: MousePress, Row: 0, Col: 300}
	if got := MapMouse(ev, modes); got != nil {
		t.Errorf("expected nil beyond column 223, got %q", got)
	}
}

func TestMapMouseSGR(t *testing.T) {
	modes := Modes{MouseTracking: MouseTrackingNormal, MouseEncoding: MouseEncodingSGR}

	tests := []struct {
		name string
		ev   MouseEvent
		want string
	}{
		{"press", MouseEvent{Button: MouseLeft, Action: MousePress, Row: 9, Col: 4}, "\x1b[<0;5;10M"},
		{"release", MouseEvent{Button: MouseRight, Action: MouseRelease, Row: 0, Col: 0}, "\x1b[<2;1;1m"},
		{"wheel up", MouseEvent{Button: MouseWheelUp, Action: MousePress}, "\x1b[<64;1;1M"},
		{"wheel down", MouseEvent{Button: MouseWheelDown, Action: MousePress}, "\x1b[<65;1;1M"},
		{"shift", MouseEvent{Button: MouseLeft, Action: MousePress, Mods: ModShift}, "\x1b[<4;1;1M"},
		{"alt", MouseEvent{Button: MouseLeft, Action: MousePress, Mods: ModAlt}, "\x1b[<8;1;1M"},
		{"ctrl", MouseEvent{Button: MouseMiddle, Action: MousePress, Mods: ModCtrl}, "\x1b[<17;1;1M"},
		{"large coordinates", MouseEvent{Button: MouseLeft, Action: MousePress, Row: 499, Col: 999}, "\x1b[<0;1000;500M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(MapMouse(tt.ev, modes)); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestMapMouseUTF8(t *testing.T) {
	modes := Modes{MouseTracking: MouseTrackingNormal, MouseEncoding: MouseEncodingUTF8}

	got := MapMouse(MouseEvent{Button: MouseLeft, Action: MousePress, Row: 0, Col: 299}, modes)
	want := "\x1b[M " + string(rune(32+300)) + "!"
	if string(got) != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMapMouseTrackingModes(t *testing.T) {
	press := MouseEvent{Button: MouseLeft, Action: MousePress}
	release := MouseEvent{Button: MouseLeft, Action: MouseRelease}
	drag := MouseEvent{Button: MouseLeft, Action: MouseMotion}
	move := MouseEvent{Button: MouseNone, Action: MouseMotion}
	wheelRelease := MouseEvent{Button: MouseWheelUp, Action: MouseRelease}

	tests := []struct {
		name     string
		tracking MouseTracking
		ev       MouseEvent
		want     bool
	}{
		{"x10 press", MouseTrackingX10, press, true},
		{"x10 release", MouseTrackingX10, release, false},
		{"x10 drag", MouseTrackingX10, drag, false},
		{"normal release", MouseTrackingNormal, release, true},
		{"normal drag", MouseTrackingNormal, drag, false},
		{"button drag", MouseTrackingButtonEvent, drag, true},
		{"button move", MouseTrackingButtonEvent, move, false},
		{"any move", MouseTrackingAnyEvent, move, true},
		{"wheel release", MouseTrackingAnyEvent, wheelRelease, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			modes := Modes{MouseTracking: tt.tracking, MouseEncoding: MouseEncodingSGR}
			got := MapMouse(tt.ev, modes) != nil
			if got != tt.want {
				t.Errorf("expected reported=%v, got %v", tt.want, got)
			}
		})
	}
}

func TestMapMouseMotionBit(t *testing.T) {
	modes := Modes{MouseTracking: MouseTrackingAnyEvent, MouseEncoding: MouseEncodingSGR}

	if got := string(MapMouse(MouseEvent{Button: MouseLeft, Action: MouseMotion}, modes)); got != "\x1b[<32;1;1M" {
		t.Errorf("expected drag code 32, got %q", got)
	}
	if got := string(MapMouse(MouseEvent{Button: MouseNone, Action: MouseMotion}, modes)); got != "\x1b[<35;1;1M" {
		t.Errorf("expected motion code 35, got %q", got)
	}
}

func TestMapMouseX10IgnoresModifiers(t *testing.T) {
	modes := Modes{MouseTracking: MouseTrackingX10, MouseEncoding: MouseEncodingSGR}
	ev := MouseEvent{Button: MouseLeft, Action: MousePress, Mods: ModCtrl | ModShift}

	if got := string(MapMouse(ev, modes)); got != "\x1b[<0;1;1M" {
		t.Errorf("expected modifiers dropped, got %q", got)
	}
}

func TestMapMouseAlternateScroll(t *testing.T) {
	modes := Modes{Flags: ModeAlternateScreen | ModeAlternateScroll}

	got := string(MapMouse(MouseEvent{Button: MouseWheelUp, Action: MousePress}, modes))
	if got != "\x1b[A\x1b[A\x1b[A" {
		t.Errorf("expected three cursor ups, got %q", got)
	}

	modes.Flags |= ModeCursorKeys
	got = string(MapMouse(MouseEvent{Button: MouseWheelDown, Action: MousePress}, modes))
	if got != "\x1bOB\x1bOB\x1bOB" {
		t.Errorf("expected application cursor downs, got %q", got)
	}

	primary := Modes{Flags: ModeAlternateScroll}
	if got := MapMouse(MouseEvent{Button: MouseWheelUp, Action: MousePress}, primary); got != nil {
		t.Errorf("expected nil on primary screen, got %q", got)
	}
}

func TestMapMouseFromScreenModes(t *testing.T) {
	s := NewScreen()
	s.WriteString("\x1b[?1000h\x1b[?1006h")

	got := string(MapMouse(MouseEvent{Button: MouseLeft, Action: MousePress, Row: 1, Col: 2}, s.Modes()))
	if got != "\x1b[<0;3;2M" {
		t.Errorf("expected SGR press, got %q", got)
	}
}

func TestMouseButtonIsWheel(t *testing.T) {
	if MouseLeft.IsWheel() || MouseNone.IsWheel() {
		t.Error("expected regular buttons not to be wheel")
	}
	if !MouseWheelUp.IsWheel() || !MouseWheelRight.IsWheel() {
		t.Error("expected wheel buttons")
	}
}
