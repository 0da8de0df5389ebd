package termcore

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config is the file form of the terminal options.
//
//	rows = 30
//	cols = 100
//	scrollback = 5000
//	command = ["/bin/bash", "-l"]
//
//	[env]
//	EDITOR = "vi"
//
//	[palette]
//	foreground = "#d0d0d0"
//	colors = { 1 = "#cc0000" }
//
//	[font]
//	path = "/usr/share/fonts/DejaVuSansMono.ttf"
//	size = 14
type Config struct {
	Rows       int               `toml:"rows"`
	Cols       int               `toml:"cols"`
	Scrollback *int              `toml:"scrollback"`
	Command    []string          `toml:"command"`
	Dir        string            `toml:"dir"`
	Env        map[string]string `toml:"env"`
	Palette    *PaletteConfig    `toml:"palette"`
	Font       FontConfig        `toml:"font"`
	Listen     string            `toml:"listen"`
}

// PaletteConfig overrides palette entries. Colors are "#rgb", "#rrggbb" or
// X11 "rgb:r/g/b" specs; the Colors keys are palette indices.
type PaletteConfig struct {
	Foreground string            `toml:"foreground"`
	Background string            `toml:"background"`
	Cursor     string            `toml:"cursor"`
	Colors     map[string]string `toml:"colors"`
}

// FontConfig selects the font used by ImageSurface.
// An empty path selects the built-in bitmap font.
type FontConfig struct {
	Path string  `toml:"path"`
	Size float64 `toml:"size"`
	DPI  float64 `toml:"dpi"`
}

// LoadConfig reads a TOML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes and validates TOML config data.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks sizes and color specs.
func (c Config) Validate() error {
	if c.Rows < 0 || c.Cols < 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, c.Rows, c.Cols)
	}
	if c.Palette != nil {
		if _, err := c.Palette.build(); err != nil {
			return err
		}
	}
	return nil
}

// EnvList returns Env as sorted KEY=VALUE entries.
func (c Config) EnvList() []string {
	if len(c.Env) == 0 {
		return nil
	}
	keys := make([]string, 0, len(c.Env))
	for k := range c.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+c.Env[k])
	}
	return env
}

// Build returns the default palette with the configured overrides applied.
// Invalid entries are skipped; Validate reports them.
func (p PaletteConfig) Build() Palette {
	pal, _ := p.build()
	return pal
}

func (p PaletteConfig) build() (Palette, error) {
	pal := NewPalette()
	var firstErr error
	set := func(index int, spec string) {
		if spec == "" {
			return
		}
		c, ok := parseColorSpec(spec)
		if !ok {
			if firstErr == nil {
				firstErr = fmt.Errorf("invalid color %q", spec)
			}
			return
		}
		pal.Set(index, c)
	}

	set(NamedColorForeground, p.Foreground)
	set(NamedColorBackground, p.Background)
	set(NamedColorCursor, p.Cursor)
	for key, spec := range p.Colors {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx > 255 {
			if firstErr == nil {
				firstErr = fmt.Errorf("invalid palette index %q", key)
			}
			continue
		}
		set(idx, spec)
	}
	return pal, firstErr
}
