package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/danielgatis/go-termcore"
)

var runCmd = &cobra.Command{
	Use:   "run [command [args...]]",
	Short: "Run a command inside the emulator, attached to this terminal",
	Long: `Runs a command (default: $SHELL) on a new PTY and redraws the emulated
screen on the current terminal. Keyboard input is passed through raw.

The exit status of the child becomes the exit status of termcore.`,
	Args: cobra.ArbitraryArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().SetInterspersed(false)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts := baseOptions(cfg, args)

	stdin := int(os.Stdin.Fd())
	attached := term.IsTerminal(stdin)
	if attached {
		if cols, rows, err := term.GetSize(stdin); err == nil {
			opts = append(opts, termcore.WithSize(rows, cols))
		}
	}

	t, err := termcore.Open(opts...)
	if err != nil {
		return err
	}
	defer t.Close()

	out := bufio.NewWriterSize(os.Stdout, 64<<10)
	if attached {
		state, err := term.MakeRaw(stdin)
		if err != nil {
			return fmt.Errorf("entering raw mode: %w", err)
		}
		out.WriteString("\x1b[?1049h\x1b[2J")
		defer func() {
			out.WriteString("\x1b[0m\x1b[?25h\x1b[?1049l")
			out.Flush()
			term.Restore(stdin, state)
		}()
	}

	go forwardStdin(t)

	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	defer signal.Stop(winch)

	surface := &ansiSurface{w: out}
	for {
		select {
		case <-winch:
			if cols, rows, err := term.GetSize(stdin); err == nil {
				t.Resize(rows, cols)
			}

		case ev, ok := <-t.Events():
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case termcore.Woken:
				frame, err := t.Render(true)
				if err != nil {
					return nil
				}
				surface.paint(frame)
			case termcore.TitleChanged:
				fmt.Fprintf(out, "\x1b]2;%s\x07", ev.Title)
			case termcore.BellRung:
				out.WriteByte('\a')
			case termcore.ProcessExited:
				if frame, err := t.Render(true); err == nil {
					surface.paint(frame)
				}
				if ev.Err != nil {
					return ev.Err
				}
				if ev.Code != 0 {
					return exitError{code: ev.Code}
				}
				return nil
			}
			out.Flush()
		}
	}
}

// forwardStdin passes keyboard bytes through unchanged: the outer terminal
// already encoded them.
func forwardStdin(t *termcore.Terminal) {
	buf := make([]byte, 4096)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			if t.Send(data) != nil {
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// ansiSurface paints frames onto a real terminal with absolute cursor moves
// and 24-bit SGR.
type ansiSurface struct {
	w *bufio.Writer
}

func (s *ansiSurface) paint(f termcore.Frame) {
	s.w.WriteString("\x1b[?25l")
	f.Paint(s)
	if !f.Cursor.Visible {
		s.w.WriteString("\x1b[0m")
	}
}

func (s *ansiSurface) DrawRun(run termcore.DrawRun) {
	fmt.Fprintf(s.w, "\x1b[%d;%dH", run.Row+1, run.Col+1)
	s.w.WriteString(sgr(run.Style))
	s.w.WriteString(run.Text)
}

func (s *ansiSurface) DrawCursor(c termcore.CursorOverlay) {
	fmt.Fprintf(s.w, "\x1b[0m\x1b[%d;%dH\x1b[?25h", c.Row+1, c.Col+1)
}

func sgr(st termcore.Style) string {
	fg, bg := st.Fg, st.Bg
	if st.Selected {
		fg, bg = bg, fg
	}

	var b strings.Builder
	b.WriteString("\x1b[0")
	attrs := []struct {
		flag termcore.CellFlags
		code string
	}{
		{termcore.CellFlagBold, "1"},
		{termcore.CellFlagDim, "2"},
		{termcore.CellFlagItalic, "3"},
		{termcore.CellFlagAnyUnderline, "4"},
		{termcore.CellFlagBlinkSlow | termcore.CellFlagBlinkFast, "5"},
		{termcore.CellFlagStrike, "9"},
	}
	for _, a := range attrs {
		if st.Flags&a.flag != 0 {
			b.WriteString(";" + a.code)
		}
	}
	b.WriteString(";38;2;" + rgb(fg.R, fg.G, fg.B))
	b.WriteString(";48;2;" + rgb(bg.R, bg.G, bg.B))
	b.WriteString("m")
	return b.String()
}

func rgb(r, g, b uint8) string {
	return strconv.Itoa(int(r)) + ";" + strconv.Itoa(int(g)) + ";" + strconv.Itoa(int(b))
}
