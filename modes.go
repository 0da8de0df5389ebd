package termcore

// TerminalMode is a bitmask of terminal behavior flags.
// Multiple modes can be active simultaneously.
type TerminalMode uint32

const (
	// ModeCursorKeys enables cursor key mode (DECCKM).
	ModeCursorKeys TerminalMode = 1 << iota
	// ModeInsert enables insert mode (characters shift right instead of overwrite).
	ModeInsert
	// ModeOrigin enables origin mode (cursor positioning relative to scroll region).
	ModeOrigin
	// ModeLineWrap enables automatic line wrapping at column boundaries.
	ModeLineWrap
	// ModeBlinkingCursor enables blinking cursor (private mode 12).
	ModeBlinkingCursor
	// ModeLineFeedNewLine makes line feed also move to column 0.
	ModeLineFeedNewLine
	// ModeShowCursor makes the cursor visible.
	ModeShowCursor
	// ModeReportFocusInOut enables focus in/out event reporting.
	ModeReportFocusInOut
	// ModeAlternateScroll turns wheel events into cursor keys on the alternate screen.
	ModeAlternateScroll
	// ModeBracketedPaste enables bracketed paste mode.
	ModeBracketedPaste
	// ModeKeypadApplication enables application keypad mode (DECKPAM).
	ModeKeypadApplication
	// ModeAlternateScreen is set while the alternate screen is displayed.
	ModeAlternateScreen
)

// defaultModes are the flags a freshly reset screen starts with.
const defaultModes = ModeLineWrap | ModeShowCursor

// MouseTracking selects which mouse events are reported to the application.
type MouseTracking int

const (
	// MouseTrackingNone disables mouse reporting.
	MouseTrackingNone MouseTracking = iota
	// MouseTrackingX10 reports button presses only (mode 9).
	MouseTrackingX10
	// MouseTrackingNormal reports presses, releases and wheel (mode 1000).
	MouseTrackingNormal
	// MouseTrackingButtonEvent also reports motion while a button is held (mode 1002).
	MouseTrackingButtonEvent
	// MouseTrackingAnyEvent reports all motion (mode 1003).
	MouseTrackingAnyEvent
)

// MouseEncoding selects the wire format of mouse reports.
type MouseEncoding int

const (
	// MouseEncodingDefault is the legacy CSI M Cb Cx Cy byte encoding.
	MouseEncodingDefault MouseEncoding = iota
	// MouseEncodingUTF8 encodes coordinates as UTF-8 (mode 1005).
	MouseEncodingUTF8
	// MouseEncodingSGR uses CSI < Cb ; Cx ; Cy M/m (mode 1006).
	MouseEncodingSGR
)

// Modes is the complete mode state the input mapper needs.
// It is a value; reading it never observes later changes.
type Modes struct {
	Flags         TerminalMode
	MouseTracking MouseTracking
	MouseEncoding MouseEncoding
}

// Has reports whether every bit in mode is set.
func (m Modes) Has(mode TerminalMode) bool {
	return m.Flags&mode == mode
}
