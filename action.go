package termcore

import (
	"image/color"

	"github.com/danielgatis/go-ansicode"
)

// Action is one decoded terminal operation emitted by the Parser.
// The concrete types below are the complete set; Screen.Apply handles each.
type Action interface {
	isAction()
}

// Print writes a rune at the cursor.
type Print struct{ Rune rune }

// LineFeed moves the cursor down one row, scrolling at the bottom margin (LF, VT, FF, IND).
type LineFeed struct{}

// NextLine is a line feed plus carriage return (NEL).
type NextLine struct{}

// ReverseIndex moves the cursor up one row, scrolling down at the top margin (RI).
type ReverseIndex struct{}

// CarriageReturn moves the cursor to column 0.
type CarriageReturn struct{}

// Backspace moves the cursor one column left.
type Backspace struct{}

// Tab advances the cursor N tab stops (HT, CHT).
type Tab struct{ N int }

// BackTab moves the cursor back N tab stops (CBT).
type BackTab struct{ N int }

// Bell rings the bell.
type Bell struct{}

// CursorPosition moves the cursor to an absolute 0-based position (CUP, HVP).
type CursorPosition struct{ Row, Col int }

// CursorRow moves the cursor to an absolute 0-based row (VPA).
type CursorRow struct{ Row int }

// CursorColumn moves the cursor to an absolute 0-based column (CHA, HPA).
type CursorColumn struct{ Col int }

// CursorRelative moves the cursor by a delta (CUU, CUD, CUF, CUB, CNL, CPL).
// LineStart also returns the cursor to column 0.
type CursorRelative struct {
	Rows, Cols int
	LineStart  bool
}

// EraseInLine clears part of the cursor row (EL).
type EraseInLine struct{ Mode ansicode.LineClearMode }

// EraseInDisplay clears part of the screen (ED). ClearModeSaved clears scrollback.
type EraseInDisplay struct{ Mode ansicode.ClearMode }

// EraseChars blanks N cells from the cursor without shifting (ECH).
type EraseChars struct{ N int }

// InsertChars inserts N blank cells at the cursor (ICH).
type InsertChars struct{ N int }

// DeleteChars deletes N cells at the cursor (DCH).
type DeleteChars struct{ N int }

// InsertLines inserts N blank lines at the cursor row (IL).
type InsertLines struct{ N int }

// DeleteLines deletes N lines at the cursor row (DL).
type DeleteLines struct{ N int }

// ScrollUp scrolls the scroll region up N lines (SU).
type ScrollUp struct{ N int }

// ScrollDown scrolls the scroll region down N lines (SD).
type ScrollDown struct{ N int }

// SetScrollRegion sets the 1-based inclusive scroll margins (DECSTBM).
// Zero values select the screen edges.
type SetScrollRegion struct{ Top, Bottom int }

// SetAttributes applies one SGR sequence.
type SetAttributes struct{ Attrs []Attr }

// SetMode sets or resets one mode flag (SM/RM, DECSET/DECRST, DECKPAM/DECKPNM).
type SetMode struct {
	Mode   TerminalMode
	Enable bool
}

// SwitchScreen enters or leaves the alternate screen (private modes 47, 1047, 1049).
type SwitchScreen struct {
	Alternate bool
	// SaveCursor saves the cursor on entry and restores it on exit (1049).
	SaveCursor bool
	// Clear clears the alternate screen (1047 on exit, 1049 on entry).
	Clear bool
}

// SetMouseTracking enables or disables a mouse tracking variant.
type SetMouseTracking struct {
	Tracking MouseTracking
	Enable   bool
}

// SetMouseEncoding enables or disables a mouse report encoding.
type SetMouseEncoding struct {
	Encoding MouseEncoding
	Enable   bool
}

// SaveCursor saves cursor position and attributes (DECSC, CSI s).
type SaveCursor struct{}

// RestoreCursor restores the saved cursor (DECRC, CSI u).
type RestoreCursor struct{}

// SetCursorStyle changes the cursor shape and blink (DECSCUSR).
type SetCursorStyle struct{ Style CursorStyle }

// SetTitle changes the window title (OSC 0, OSC 2).
type SetTitle struct{ Title string }

// PushTitle saves the title on the title stack (CSI 22 t).
type PushTitle struct{}

// PopTitle restores the title from the title stack (CSI 23 t).
type PopTitle struct{}

// SetPaletteColor changes a palette entry (OSC 4) or a dynamic color (OSC 10/11/12,
// addressed with NamedColorForeground/Background/Cursor).
type SetPaletteColor struct {
	Index int
	Color color.RGBA
}

// ResetPaletteColor restores a palette entry (OSC 104/110/111/112). Index -1 restores all.
type ResetPaletteColor struct{ Index int }

// SetHyperlink starts (URI non-empty) or ends an OSC 8 hyperlink.
type SetHyperlink struct{ Link Hyperlink }

// SetWorkingDirectory reports the shell's working directory (OSC 7).
type SetWorkingDirectory struct{ URI string }

// ClipboardWrite asks the host to store data in a clipboard (OSC 52).
// Selection is the target ('c' clipboard, 'p' primary, ...).
type ClipboardWrite struct {
	Selection byte
	Data      []byte
}

// ShellMark is a semantic prompt mark (OSC 133). ExitCode is -1 unless
// Kind is ansicode.CommandFinished and the shell reported a status.
type ShellMark struct {
	Kind     ansicode.ShellIntegrationMark
	ExitCode int
}

// ReportKind identifies a query the application expects an answer to.
type ReportKind int

const (
	ReportStatus           ReportKind = iota // DSR 5
	ReportCursorPosition                     // DSR 6
	ReportPrimaryDA                          // DA1
	ReportSecondaryDA                        // DA2
	ReportTextAreaChars                      // CSI 18 t
	ReportTextAreaPixels                     // CSI 14 t
	ReportCellPixels                         // CSI 16 t
	ReportForegroundColor                    // OSC 10 ?
	ReportBackgroundColor                    // OSC 11 ?
	ReportCursorColor                        // OSC 12 ?
)

// RequestReport asks for a response written back to the application.
// Terminator echoes the string terminator used by OSC queries.
type RequestReport struct {
	Kind       ReportKind
	Terminator string
}

// SetTabStop sets a tab stop at the cursor column (HTS).
type SetTabStop struct{}

// ClearTabStops clears the current or all tab stops (TBC).
type ClearTabStops struct{ Mode ansicode.TabulationClearMode }

// DesignateCharset assigns a character set to a G0-G3 slot (SCS).
type DesignateCharset struct {
	Slot    CharsetIndex
	Charset Charset
}

// ShiftCharset makes a slot the active character set (SI, SO, LS2, LS3).
type ShiftCharset struct{ Slot CharsetIndex }

// Reset performs a full reset (RIS).
type Reset struct{}

// SoftReset performs a soft reset (DECSTR).
type SoftReset struct{}

// AlignmentTest fills the screen with 'E' (DECALN).
type AlignmentTest struct{}

func (Print) isAction()               {}
func (LineFeed) isAction()            {}
func (NextLine) isAction()            {}
func (ReverseIndex) isAction()        {}
func (CarriageReturn) isAction()      {}
func (Backspace) isAction()           {}
func (Tab) isAction()                 {}
func (BackTab) isAction()             {}
func (Bell) isAction()                {}
func (CursorPosition) isAction()      {}
func (CursorRow) isAction()           {}
func (CursorColumn) isAction()        {}
func (CursorRelative) isAction()      {}
func (EraseInLine) isAction()         {}
func (EraseInDisplay) isAction()      {}
func (EraseChars) isAction()          {}
func (InsertChars) isAction()         {}
func (DeleteChars) isAction()         {}
func (InsertLines) isAction()         {}
func (DeleteLines) isAction()         {}
func (ScrollUp) isAction()            {}
func (ScrollDown) isAction()          {}
func (SetScrollRegion) isAction()     {}
func (SetAttributes) isAction()       {}
func (SetMode) isAction()             {}
func (SwitchScreen) isAction()        {}
func (SetMouseTracking) isAction()    {}
func (SetMouseEncoding) isAction()    {}
func (SaveCursor) isAction()          {}
func (RestoreCursor) isAction()       {}
func (SetCursorStyle) isAction()      {}
func (SetTitle) isAction()            {}
func (PushTitle) isAction()           {}
func (PopTitle) isAction()            {}
func (SetPaletteColor) isAction()     {}
func (ResetPaletteColor) isAction()   {}
func (SetHyperlink) isAction()        {}
func (SetWorkingDirectory) isAction() {}
func (ClipboardWrite) isAction()      {}
func (ShellMark) isAction()           {}
func (RequestReport) isAction()       {}
func (SetTabStop) isAction()          {}
func (ClearTabStops) isAction()       {}
func (DesignateCharset) isAction()    {}
func (ShiftCharset) isAction()        {}
func (Reset) isAction()               {}
func (SoftReset) isAction()           {}
func (AlignmentTest) isAction()       {}
