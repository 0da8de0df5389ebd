package termcore

import (
	"image/color"
	"reflect"
	"testing"

	"github.com/danielgatis/go-ansicode"
)

func handlerActions(fn func(h *actionHandler)) []Action {
	var got []Action
	h := &actionHandler{emit: func(a Action) { got = append(got, a) }}
	fn(h)
	return got
}

func TestActionHandlerCallbacks(t *testing.T) {
	tests := []struct {
		name string
		call func(h *actionHandler)
		want []Action
	}{
		{"clipboard store", func(h *actionHandler) { h.ClipboardStore('p', []byte("hi")) }, []Action{
			ClipboardWrite{Selection: 'p', Data: []byte("hi")},
		}},
		{"clipboard default target", func(h *actionHandler) { h.ClipboardStore(0, []byte("x")) }, []Action{
			ClipboardWrite{Selection: 'c', Data: []byte("x")},
		}},
		{"clipboard load ignored", func(h *actionHandler) { h.ClipboardLoad('c', "\x07") }, nil},
		{"gray color converted", func(h *actionHandler) { h.SetColor(3, color.Gray{Y: 0x80}) }, []Action{
			SetPaletteColor{Index: 3, Color: color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}},
		}},
		{"color out of range", func(h *actionHandler) { h.SetColor(NamedColorCursor+1, color.Black) }, nil},
		{"reset out of range", func(h *actionHandler) { h.ResetColor(-1) }, nil},
		{"dynamic cursor query", func(h *actionHandler) { h.SetDynamicColor("12", NamedColorCursor, "\x07") }, []Action{
			RequestReport{Kind: ReportCursorColor, Terminator: "\x07"},
		}},
		{"palette query", func(h *actionHandler) { h.SetDynamicColor("4;1", 1, "\x07") }, nil},
		{"unknown device status", func(h *actionHandler) { h.DeviceStatus(15) }, nil},
		{"unknown identify", func(h *actionHandler) { h.IdentifyTerminal('=') }, nil},
		{"column mode ignored", func(h *actionHandler) { h.SetMode(ansicode.TerminalModeColumnMode) }, nil},
		{"cnl count", func(h *actionHandler) { h.MoveDownCr(2) }, []Action{
			CursorRelative{Rows: 3, LineStart: true},
		}},
		{"hyperlink end", func(h *actionHandler) { h.SetHyperlink(nil) }, []Action{SetHyperlink{}}},
		{"shell mark", func(h *actionHandler) { h.ShellIntegrationMark(ansicode.CommandFinished, 1) }, []Action{
			ShellMark{Kind: ansicode.CommandFinished, ExitCode: 1},
		}},
		{"notifications ignored", func(h *actionHandler) {
			h.DesktopNotification(&ansicode.NotificationPayload{Data: []byte("x")})
			h.SetUserVar("k", "v")
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := handlerActions(tt.call)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestActionHandlerWithoutTarget(t *testing.T) {
	h := &actionHandler{}
	h.Input('a')
	h.Bell()
}
