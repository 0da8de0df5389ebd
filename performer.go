package termcore

import (
	"encoding/base64"

	"github.com/danielgatis/go-ansicode"
	"github.com/danielgatis/go-vte"
)

var _ vte.Performer = (*performer)(nil)

// performer dispatches parsed sequences through go-ansicode and handles the
// few it leaves unhandled: OSC 52 clipboard writes, private modes 9, 47 and
// 1047, DECSTR, LS2 and LS3.
type performer struct {
	*ansicode.Performer
	handler *actionHandler
}

func newPerformer(h *actionHandler) *performer {
	return &performer{Performer: ansicode.NewPerformer(h), handler: h}
}

// OscDispatch handles OSC 52 and forwards every other OSC.
func (p *performer) OscDispatch(params [][]byte, bellTerminated bool) {
	if len(params) == 0 || string(params[0]) != "52" {
		p.Performer.OscDispatch(params, bellTerminated)
		return
	}
	if len(params) < 3 || string(params[2]) == "?" {
		return
	}
	data, ok := decodeClipboard(params[2])
	if !ok {
		return
	}
	var selection byte
	if len(params[1]) > 0 {
		selection = params[1][0]
	}
	p.handler.ClipboardStore(selection, data)
}

// CsiDispatch handles DECSTR and the extra private modes.
func (p *performer) CsiDispatch(params [][]uint16, intermediates []byte, ignore bool, action rune) {
	switch {
	case ignore:
	case action == 'p' && string(intermediates) == "!":
		p.handler.send(SoftReset{})
		return
	case (action == 'h' || action == 'l') && string(intermediates) == "?":
		for _, param := range params {
			p.privateMode(param, intermediates, action)
		}
		return
	}
	p.Performer.CsiDispatch(params, intermediates, ignore, action)
}

func (p *performer) privateMode(param []uint16, intermediates []byte, action rune) {
	enable := action == 'h'
	if len(param) > 0 {
		switch param[0] {
		case 9:
			p.handler.send(SetMouseTracking{Tracking: MouseTrackingX10, Enable: enable})
			return
		case 47:
			p.handler.send(SwitchScreen{Alternate: enable})
			return
		case 1047:
			p.handler.send(SwitchScreen{Alternate: enable, Clear: !enable})
			return
		}
	}
	p.Performer.CsiDispatch([][]uint16{param}, intermediates, false, action)
}

// EscDispatch handles LS2 and LS3.
func (p *performer) EscDispatch(intermediates []byte, ignore bool, b byte) {
	if !ignore && len(intermediates) == 0 {
		switch b {
		case 'n':
			p.handler.SetActiveCharset(int(ansicode.CharsetIndexG2))
			return
		case 'o':
			p.handler.SetActiveCharset(int(ansicode.CharsetIndexG3))
			return
		}
	}
	p.Performer.EscDispatch(intermediates, ignore, b)
}

// decodeClipboard decodes an OSC 52 payload, with or without padding.
func decodeClipboard(payload []byte) ([]byte, bool) {
	if data, err := base64.StdEncoding.DecodeString(string(payload)); err == nil {
		return data, true
	}
	if data, err := base64.RawStdEncoding.DecodeString(string(payload)); err == nil {
		return data, true
	}
	return nil, false
}
