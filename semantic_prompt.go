package termcore

import (
	"strings"

	"github.com/danielgatis/go-ansicode"
)

// PromptMark is a semantic prompt mark (OSC 133) recorded on the primary
// screen. Row uses Position coordinates: negative rows are scrollback and
// follow their line as it scrolls.
type PromptMark struct {
	Kind     ansicode.ShellIntegrationMark
	Row      int
	ExitCode int
}

// AnyMark matches every mark kind in NextPrompt and PrevPrompt.
const AnyMark ansicode.ShellIntegrationMark = -1

// addPromptMark records a mark at the cursor row. Marks emitted while the
// alternate screen is active are ignored.
func (s *Screen) addPromptMark(m ShellMark) {
	if s.active != s.primary {
		return
	}
	s.marks = append(s.marks, PromptMark{Kind: m.Kind, Row: s.cursor.Row, ExitCode: m.ExitCode})
}

// shiftPromptMarks moves marks by delta rows and drops the ones that fell
// out of history.
func (s *Screen) shiftPromptMarks(delta int) {
	if len(s.marks) == 0 {
		return
	}
	oldest := -s.primary.ScrollbackLen()
	kept := s.marks[:0]
	for _, m := range s.marks {
		m.Row += delta
		if m.Row >= oldest {
			kept = append(kept, m)
		}
	}
	s.marks = kept
}

// PromptMarks returns a copy of the recorded marks, oldest first.
func (s *Screen) PromptMarks() []PromptMark {
	marks := make([]PromptMark, len(s.marks))
	copy(marks, s.marks)
	return marks
}

// ClearPromptMarks removes all recorded marks.
func (s *Screen) ClearPromptMarks() {
	s.marks = nil
}

// NextPrompt returns the row of the first mark of kind below row.
func (s *Screen) NextPrompt(row int, kind ansicode.ShellIntegrationMark) (int, bool) {
	for _, m := range s.marks {
		if m.Row > row && (kind == AnyMark || m.Kind == kind) {
			return m.Row, true
		}
	}
	return 0, false
}

// PrevPrompt returns the row of the last mark of kind above row.
func (s *Screen) PrevPrompt(row int, kind ansicode.ShellIntegrationMark) (int, bool) {
	for i := len(s.marks) - 1; i >= 0; i-- {
		m := s.marks[i]
		if m.Row < row && (kind == AnyMark || m.Kind == kind) {
			return m.Row, true
		}
	}
	return 0, false
}

// LastCommandOutput returns the text between the last CommandExecuted mark
// and the CommandFinished mark that follows it, with trailing empty lines
// trimmed. Returns "" when no command has finished.
func (s *Screen) LastCommandOutput() string {
	var finished *PromptMark
	for i := len(s.marks) - 1; i >= 0; i-- {
		m := &s.marks[i]
		switch {
		case m.Kind == ansicode.CommandFinished && finished == nil:
			finished = m
		case m.Kind == ansicode.CommandExecuted && finished != nil && m.Row <= finished.Row:
			return s.primaryText(m.Row, finished.Row)
		}
	}
	return ""
}

// primaryText joins the primary screen lines in [from, to).
func (s *Screen) primaryText(from, to int) string {
	history := s.primary.ScrollbackLen()
	var lines []string
	for row := from; row < to; row++ {
		var line []Cell
		if row < 0 {
			line = s.primary.ScrollbackLine(history + row)
		} else {
			line = s.primary.Row(row)
		}
		if line != nil {
			lines = append(lines, lineText(line))
		}
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
