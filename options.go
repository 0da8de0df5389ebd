package termcore

import (
	"log/slog"
)

// Option configures a Screen or a Terminal during construction.
// NewScreen ignores the options that only concern the child process.
type Option func(*options)

type options struct {
	rows       int
	cols       int
	scrollback int

	scrollbackProvider ScrollbackProvider
	response           ResponseProvider
	sizeProvider       SizeProvider
	recording          RecordingProvider
	eventSink          func(Event)
	palette            *Palette

	command    []string
	dir        string
	env        []string
	logger     *slog.Logger
	writeQueue int
}

func newOptions(opts []Option) *options {
	o := &options{
		rows:       DEFAULT_ROWS,
		cols:       DEFAULT_COLS,
		scrollback: DEFAULT_SCROLLBACK,
		writeQueue: defaultWriteQueue,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithSize sets the terminal dimensions.
// Values <= 0 are replaced with defaults (24x80).
func WithSize(rows, cols int) Option {
	if rows <= 0 {
		rows = DEFAULT_ROWS
	}
	if cols <= 0 {
		cols = DEFAULT_COLS
	}
	return func(o *options) {
		o.rows = rows
		o.cols = cols
	}
}

// WithScrollbackLines sets the capacity of the built-in scrollback ring.
// Zero disables scrollback.
func WithScrollbackLines(lines int) Option {
	if lines < 0 {
		lines = 0
	}
	return func(o *options) {
		o.scrollback = lines
	}
}

// WithScrollback sets the storage for scrollback lines.
func WithScrollback(storage ScrollbackProvider) Option {
	return func(o *options) {
		o.scrollbackProvider = storage
	}
}

// WithResponse sets where answers to terminal queries (DSR, DA) are written.
// A Terminal routes them to the child process.
func WithResponse(p ResponseProvider) Option {
	return func(o *options) {
		o.response = p
	}
}

// WithSizeProvider sets the provider for pixel dimension queries.
func WithSizeProvider(p SizeProvider) Option {
	return func(o *options) {
		o.sizeProvider = p
	}
}

// WithRecording sets the handler for capturing raw input bytes before parsing.
func WithRecording(p RecordingProvider) Option {
	return func(o *options) {
		o.recording = p
	}
}

// WithEventSink sets a callback receiving screen events (title, bell,
// clipboard, working directory). A Terminal installs its own EventBus.
func WithEventSink(fn func(Event)) Option {
	return func(o *options) {
		o.eventSink = fn
	}
}

// WithPalette sets the initial color table.
func WithPalette(p Palette) Option {
	return func(o *options) {
		o.palette = &p
	}
}

// WithCommand sets the program and arguments run in the session.
// Defaults to $SHELL, then /bin/sh.
func WithCommand(argv ...string) Option {
	return func(o *options) {
		o.command = argv
	}
}

// WithDir sets the child's working directory.
func WithDir(dir string) Option {
	return func(o *options) {
		o.dir = dir
	}
}

// WithEnv adds KEY=VALUE entries to the child's environment.
func WithEnv(env ...string) Option {
	return func(o *options) {
		o.env = append(o.env, env...)
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithWriteQueue sets how many pending writes to the child are buffered
// before Key, Paste and Send block.
func WithWriteQueue(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.writeQueue = n
		}
	}
}

// WithConfig applies a loaded Config. Options given after it override it.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		if cfg.Rows > 0 {
			o.rows = cfg.Rows
		}
		if cfg.Cols > 0 {
			o.cols = cfg.Cols
		}
		if cfg.Scrollback != nil {
			o.scrollback = max(*cfg.Scrollback, 0)
		}
		if len(cfg.Command) > 0 {
			o.command = cfg.Command
		}
		if cfg.Dir != "" {
			o.dir = cfg.Dir
		}
		o.env = append(o.env, cfg.EnvList()...)
		if cfg.Palette != nil {
			p := cfg.Palette.Build()
			o.palette = &p
		}
	}
}
