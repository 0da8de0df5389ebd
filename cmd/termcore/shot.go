package main

import (
	"encoding/json"
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/image/font"

	"github.com/danielgatis/go-termcore"
)

var (
	shotOut     string
	shotRows    int
	shotCols    int
	shotWait    time.Duration
	shotSettle  time.Duration
	shotFont    string
	shotSnap    bool
	shotDetail  string
	shotTimeout time.Duration
)

var shotCmd = &cobra.Command{
	Use:   "shot [flags] -- command [args...]",
	Short: "Run a command headless and save its screen",
	Long: `Runs a command on a new PTY without attaching it to this terminal, waits
for it to exit (or for --wait to pass), then writes the screen as a PNG.

With --json the screen is written as a JSON snapshot instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runShot,
}

func init() {
	rootCmd.AddCommand(shotCmd)
	shotCmd.Flags().StringVarP(&shotOut, "out", "o", "screen.png", "Output file (- for stdout)")
	shotCmd.Flags().IntVar(&shotRows, "rows", 0, "Screen rows (default from config or 24)")
	shotCmd.Flags().IntVar(&shotCols, "cols", 0, "Screen columns (default from config or 80)")
	shotCmd.Flags().DurationVar(&shotWait, "wait", 0, "Capture after this long instead of waiting for exit")
	shotCmd.Flags().DurationVar(&shotSettle, "settle", 100*time.Millisecond, "Quiet period after the last output before capturing")
	shotCmd.Flags().DurationVar(&shotTimeout, "timeout", 30*time.Second, "Give up waiting for exit after this long")
	shotCmd.Flags().StringVar(&shotFont, "font", "", "TrueType/OpenType font file (overrides config)")
	shotCmd.Flags().BoolVar(&shotSnap, "json", false, "Write a JSON snapshot instead of a PNG")
	shotCmd.Flags().StringVar(&shotDetail, "detail", string(termcore.SnapshotDetailStyled), "JSON snapshot detail: text, styled or full")
}

func runShot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if shotFont != "" {
		cfg.Font.Path = shotFont
	}
	opts := baseOptions(cfg, args)
	if shotRows > 0 || shotCols > 0 {
		rows, cols := shotRows, shotCols
		if rows <= 0 {
			rows = orDefault(cfg.Rows, termcore.DEFAULT_ROWS)
		}
		if cols <= 0 {
			cols = orDefault(cfg.Cols, termcore.DEFAULT_COLS)
		}
		opts = append(opts, termcore.WithSize(rows, cols))
	}

	var face font.Face
	if !shotSnap {
		if face, err = cfg.Font.FontFace(); err != nil {
			return fmt.Errorf("loading font: %w", err)
		}
	}

	t, err := termcore.Open(opts...)
	if err != nil {
		return err
	}
	defer t.Close()

	waitForScreen(t)

	out := os.Stdout
	if shotOut != "-" {
		f, err := os.Create(shotOut)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if shotSnap {
		snap, err := t.Snapshot(termcore.SnapshotDetail(shotDetail))
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	var encodeErr error
	err = t.Do(func(s *termcore.Screen) {
		encodeErr = png.Encode(out, termcore.Screenshot(s, face))
	})
	if err != nil {
		return err
	}
	return encodeErr
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// waitForScreen returns once the child exited (or --wait passed) and no
// output arrived for the settle period.
func waitForScreen(t *termcore.Terminal) {
	deadline := time.After(shotTimeout)
	var fixed <-chan time.Time
	if shotWait > 0 {
		fixed = time.After(shotWait)
	}

	done := false
	quiet := time.NewTimer(shotSettle)
	defer quiet.Stop()
	for {
		select {
		case ev, ok := <-t.Events():
			if !ok {
				return
			}
			switch ev.(type) {
			case termcore.Woken:
				quiet.Reset(shotSettle)
			case termcore.ProcessExited:
				done = true
				quiet.Reset(shotSettle)
			}
		case <-quiet.C:
			if done {
				return
			}
		case <-fixed:
			done = true
			quiet.Reset(shotSettle)
		case <-deadline:
			return
		}
	}
}
