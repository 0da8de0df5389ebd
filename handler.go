package termcore

import (
	"image/color"

	"github.com/danielgatis/go-ansicode"
)

var _ ansicode.Handler = (*actionHandler)(nil)

// actionHandler receives go-ansicode callbacks and forwards each one as an
// Action. Callbacks with no Action counterpart are ignored.
type actionHandler struct {
	emit func(Action)
}

func (h *actionHandler) send(a Action) {
	if h.emit != nil {
		h.emit(a)
	}
}

// modesFromAnsicode maps go-ansicode modes onto mode flags.
var modesFromAnsicode = map[ansicode.TerminalMode]TerminalMode{
	ansicode.TerminalModeCursorKeys:       ModeCursorKeys,
	ansicode.TerminalModeInsert:           ModeInsert,
	ansicode.TerminalModeOrigin:           ModeOrigin,
	ansicode.TerminalModeLineWrap:         ModeLineWrap,
	ansicode.TerminalModeBlinkingCursor:   ModeBlinkingCursor,
	ansicode.TerminalModeLineFeedNewLine:  ModeLineFeedNewLine,
	ansicode.TerminalModeShowCursor:       ModeShowCursor,
	ansicode.TerminalModeReportFocusInOut: ModeReportFocusInOut,
	ansicode.TerminalModeAlternateScroll:  ModeAlternateScroll,
	ansicode.TerminalModeBracketedPaste:   ModeBracketedPaste,
}

var trackingFromAnsicode = map[ansicode.TerminalMode]MouseTracking{
	ansicode.TerminalModeReportMouseClicks:     MouseTrackingNormal,
	ansicode.TerminalModeReportCellMouseMotion: MouseTrackingButtonEvent,
	ansicode.TerminalModeReportAllMouseMotion:  MouseTrackingAnyEvent,
}

var encodingFromAnsicode = map[ansicode.TerminalMode]MouseEncoding{
	ansicode.TerminalModeUTF8Mouse: MouseEncodingUTF8,
	ansicode.TerminalModeSGRMouse:  MouseEncodingSGR,
}

// --- Text and C0 controls ---

// Input prints a character.
func (h *actionHandler) Input(r rune) {
	// C1 controls decoded from UTF-8 are not displayable.
	if r >= 0x80 && r < 0xa0 {
		return
	}
	h.send(Print{Rune: r})
}

func (h *actionHandler) LineFeed()       { h.send(LineFeed{}) }
func (h *actionHandler) CarriageReturn() { h.send(CarriageReturn{}) }
func (h *actionHandler) Backspace()      { h.send(Backspace{}) }
func (h *actionHandler) Bell()           { h.send(Bell{}) }
func (h *actionHandler) ReverseIndex()   { h.send(ReverseIndex{}) }
func (h *actionHandler) Substitute()     {}

// Tab advances n tab stops (HT, CHT).
func (h *actionHandler) Tab(n int) { h.send(Tab{N: max(n, 1)}) }

func (h *actionHandler) MoveForwardTabs(n int)  { h.send(Tab{N: max(n, 1)}) }
func (h *actionHandler) MoveBackwardTabs(n int) { h.send(BackTab{N: max(n, 1)}) }
func (h *actionHandler) HorizontalTabSet()      { h.send(SetTabStop{}) }

// ClearTabs clears the current or all tab stops (TBC).
func (h *actionHandler) ClearTabs(mode ansicode.TabulationClearMode) {
	h.send(ClearTabStops{Mode: mode})
}

// --- Cursor ---

// Goto moves to a 0-based position (CUP, HVP).
func (h *actionHandler) Goto(row, col int) { h.send(CursorPosition{Row: row, Col: col}) }

func (h *actionHandler) GotoLine(row int) { h.send(CursorRow{Row: row}) }
func (h *actionHandler) GotoCol(col int)  { h.send(CursorColumn{Col: col}) }

func (h *actionHandler) MoveUp(n int)       { h.send(CursorRelative{Rows: -max(n, 1)}) }
func (h *actionHandler) MoveDown(n int)     { h.send(CursorRelative{Rows: max(n, 1)}) }
func (h *actionHandler) MoveForward(n int)  { h.send(CursorRelative{Cols: max(n, 1)}) }
func (h *actionHandler) MoveBackward(n int) { h.send(CursorRelative{Cols: -max(n, 1)}) }

// MoveDownCr handles CNL. The decoder passes the count minus one.
func (h *actionHandler) MoveDownCr(n int) {
	h.send(CursorRelative{Rows: max(n+1, 1), LineStart: true})
}

// MoveUpCr handles CPL. The decoder passes the count minus one.
func (h *actionHandler) MoveUpCr(n int) {
	h.send(CursorRelative{Rows: -max(n+1, 1), LineStart: true})
}

func (h *actionHandler) SaveCursorPosition()    { h.send(SaveCursor{}) }
func (h *actionHandler) RestoreCursorPosition() { h.send(RestoreCursor{}) }

// SetCursorStyle changes the cursor shape (DECSCUSR).
func (h *actionHandler) SetCursorStyle(style ansicode.CursorStyle) {
	h.send(SetCursorStyle{Style: CursorStyle(style)})
}

// --- Editing ---

func (h *actionHandler) ClearLine(mode ansicode.LineClearMode) { h.send(EraseInLine{Mode: mode}) }
func (h *actionHandler) ClearScreen(mode ansicode.ClearMode)   { h.send(EraseInDisplay{Mode: mode}) }

func (h *actionHandler) EraseChars(n int)       { h.send(EraseChars{N: max(n, 1)}) }
func (h *actionHandler) InsertBlank(n int)      { h.send(InsertChars{N: max(n, 1)}) }
func (h *actionHandler) DeleteChars(n int)      { h.send(DeleteChars{N: max(n, 1)}) }
func (h *actionHandler) InsertBlankLines(n int) { h.send(InsertLines{N: max(n, 1)}) }
func (h *actionHandler) DeleteLines(n int)      { h.send(DeleteLines{N: max(n, 1)}) }
func (h *actionHandler) ScrollUp(n int)         { h.send(ScrollUp{N: max(n, 1)}) }
func (h *actionHandler) ScrollDown(n int)       { h.send(ScrollDown{N: max(n, 1)}) }
func (h *actionHandler) Decaln()                { h.send(AlignmentTest{}) }

// SetScrollingRegion sets 1-based margins (DECSTBM). The decoder reports a
// missing bottom margin as 1, which selects the last row.
func (h *actionHandler) SetScrollingRegion(top, bottom int) {
	if bottom <= 1 {
		bottom = 0
	}
	h.send(SetScrollRegion{Top: top, Bottom: bottom})
}

// --- Attributes and modes ---

// SetTerminalCharAttribute applies one SGR attribute.
func (h *actionHandler) SetTerminalCharAttribute(attr ansicode.TerminalCharAttribute) {
	if a, ok := attrFromAnsicode(attr); ok {
		h.send(SetAttributes{Attrs: []Attr{a}})
	}
}

func (h *actionHandler) SetMode(mode ansicode.TerminalMode)   { h.setMode(mode, true) }
func (h *actionHandler) UnsetMode(mode ansicode.TerminalMode) { h.setMode(mode, false) }

func (h *actionHandler) setMode(mode ansicode.TerminalMode, enable bool) {
	if m, ok := modesFromAnsicode[mode]; ok {
		h.send(SetMode{Mode: m, Enable: enable})
		return
	}
	if t, ok := trackingFromAnsicode[mode]; ok {
		h.send(SetMouseTracking{Tracking: t, Enable: enable})
		return
	}
	if e, ok := encodingFromAnsicode[mode]; ok {
		h.send(SetMouseEncoding{Encoding: e, Enable: enable})
		return
	}
	if mode == ansicode.TerminalModeSwapScreenAndSetRestoreCursor {
		h.send(SwitchScreen{Alternate: enable, SaveCursor: true, Clear: enable})
	}
}

func (h *actionHandler) SetKeypadApplicationMode() {
	h.send(SetMode{Mode: ModeKeypadApplication, Enable: true})
}

func (h *actionHandler) UnsetKeypadApplicationMode() {
	h.send(SetMode{Mode: ModeKeypadApplication, Enable: false})
}

// --- Charsets ---

// ConfigureCharset designates a charset into a slot (SCS).
func (h *actionHandler) ConfigureCharset(index ansicode.CharsetIndex, charset ansicode.Charset) {
	h.send(DesignateCharset{Slot: CharsetIndex(index), Charset: Charset(charset)})
}

// SetActiveCharset shifts to slot n (SI, SO).
func (h *actionHandler) SetActiveCharset(n int) {
	h.send(ShiftCharset{Slot: CharsetIndex(n)})
}

// --- Titles, colors and OSC payloads ---

func (h *actionHandler) SetTitle(title string) { h.send(SetTitle{Title: title}) }
func (h *actionHandler) PushTitle()            { h.send(PushTitle{}) }
func (h *actionHandler) PopTitle()             { h.send(PopTitle{}) }

// SetColor changes a palette entry or a dynamic color (OSC 4, 10-12).
func (h *actionHandler) SetColor(index int, c color.Color) {
	if index < 0 || index > NamedColorCursor {
		return
	}
	h.send(SetPaletteColor{Index: index, Color: color.RGBAModel.Convert(c).(color.RGBA)})
}

// ResetColor restores a palette entry or a dynamic color (OSC 104, 110-112).
func (h *actionHandler) ResetColor(i int) {
	if i < 0 || i > NamedColorCursor {
		return
	}
	h.send(ResetPaletteColor{Index: i})
}

// SetDynamicColor answers a dynamic color query (OSC 10/11/12 ?).
// Palette queries (OSC 4 ?) are not answered.
func (h *actionHandler) SetDynamicColor(_ string, index int, terminator string) {
	if index < NamedColorForeground || index > NamedColorCursor {
		return
	}
	kind := ReportForegroundColor + ReportKind(index-NamedColorForeground)
	h.send(RequestReport{Kind: kind, Terminator: terminator})
}

// SetHyperlink starts an OSC 8 hyperlink, or ends it when hyperlink is nil.
func (h *actionHandler) SetHyperlink(hyperlink *ansicode.Hyperlink) {
	if hyperlink == nil {
		h.send(SetHyperlink{})
		return
	}
	h.send(SetHyperlink{Link: Hyperlink{ID: hyperlink.ID, URI: hyperlink.URI}})
}

func (h *actionHandler) SetWorkingDirectory(uri string) { h.send(SetWorkingDirectory{URI: uri}) }

// ClipboardStore forwards decoded OSC 52 data.
func (h *actionHandler) ClipboardStore(clipboard byte, data []byte) {
	if clipboard == 0 {
		clipboard = 'c'
	}
	h.send(ClipboardWrite{Selection: clipboard, Data: data})
}

// ShellIntegrationMark records an OSC 133 mark.
func (h *actionHandler) ShellIntegrationMark(mark ansicode.ShellIntegrationMark, exitCode int) {
	h.send(ShellMark{Kind: mark, ExitCode: exitCode})
}

// --- Reports ---

// DeviceStatus handles DSR 5 and DSR 6.
func (h *actionHandler) DeviceStatus(n int) {
	switch n {
	case 5:
		h.send(RequestReport{Kind: ReportStatus})
	case 6:
		h.send(RequestReport{Kind: ReportCursorPosition})
	}
}

// IdentifyTerminal handles DA1 and, with a '>' intermediate, DA2.
func (h *actionHandler) IdentifyTerminal(b byte) {
	switch b {
	case 0:
		h.send(RequestReport{Kind: ReportPrimaryDA})
	case '>':
		h.send(RequestReport{Kind: ReportSecondaryDA})
	}
}

func (h *actionHandler) TextAreaSizeChars()  { h.send(RequestReport{Kind: ReportTextAreaChars}) }
func (h *actionHandler) TextAreaSizePixels() { h.send(RequestReport{Kind: ReportTextAreaPixels}) }
func (h *actionHandler) CellSizePixels()     { h.send(RequestReport{Kind: ReportCellPixels}) }

// --- Reset ---

func (h *actionHandler) ResetState() { h.send(Reset{}) }

// --- Unsupported ---

func (h *actionHandler) ClipboardLoad(byte, string)                                           {}
func (h *actionHandler) DesktopNotification(*ansicode.NotificationPayload)                    {}
func (h *actionHandler) SetUserVar(string, string)                                            {}
func (h *actionHandler) PushKeyboardMode(ansicode.KeyboardMode)                               {}
func (h *actionHandler) PopKeyboardMode(int)                                                  {}
func (h *actionHandler) SetKeyboardMode(ansicode.KeyboardMode, ansicode.KeyboardModeBehavior) {}
func (h *actionHandler) ReportKeyboardMode()                                                  {}
func (h *actionHandler) SetModifyOtherKeys(ansicode.ModifyOtherKeys)                          {}
func (h *actionHandler) ReportModifyOtherKeys()                                               {}
func (h *actionHandler) ApplicationCommandReceived([]byte)                                    {}
func (h *actionHandler) PrivacyMessageReceived([]byte)                                        {}
func (h *actionHandler) StartOfStringReceived([]byte)                                         {}
func (h *actionHandler) SixelReceived([][]uint16, []byte)                                     {}
