// Command termcore runs programs inside the termcore emulator: attached to
// the current terminal, headless to a PNG, or behind a WebSocket.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielgatis/go-termcore"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "termcore",
	Short:         "Terminal emulator core",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
}

// exitError carries a child exit status out of a command.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// loadConfig returns the --config file, or an empty Config.
func loadConfig() (termcore.Config, error) {
	if configPath == "" {
		return termcore.Config{}, nil
	}
	cfg, err := termcore.LoadConfig(configPath)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// baseOptions builds the options shared by every command. A command given
// on the command line replaces the configured one.
func baseOptions(cfg termcore.Config, args []string) []termcore.Option {
	opts := []termcore.Option{
		termcore.WithConfig(cfg),
		termcore.WithLogger(slog.Default()),
	}
	if len(args) > 0 {
		opts = append(opts, termcore.WithCommand(args...))
	}
	return opts
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, "termcore:", err)
		os.Exit(1)
	}
}
