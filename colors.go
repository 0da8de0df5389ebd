package termcore

import "image/color"

// DefaultPalette is the standard 256-color palette: 16 named colors (0-15), 216 color cube (16-231), 24 grayscale (232-255).
var DefaultPalette = [256]color.RGBA{
	// Standard colors (0-7)
	{0, 0, 0, 255},       // Black
	{205, 49, 49, 255},   // Red
	{13, 188, 121, 255},  // Green
	{229, 229, 16, 255},  // Yellow
	{36, 114, 200, 255},  // Blue
	{188, 63, 188, 255},  // Magenta
	{17, 168, 205, 255},  // Cyan
	{229, 229, 229, 255}, // White

	// Bright colors (8-15)
	{102, 102, 102, 255}, // Bright Black
	{241, 76, 76, 255},   // Bright Red
	{35, 209, 139, 255},  // Bright Green
	{245, 245, 67, 255},  // Bright Yellow
	{59, 142, 234, 255},  // Bright Blue
	{214, 112, 214, 255}, // Bright Magenta
	{41, 184, 219, 255},  // Bright Cyan
	{255, 255, 255, 255}, // Bright White

	// 216 colors (16-231)
	// Generated programmatically below

	// Grayscale (232-255)
	// Generated programmatically below
}

func init() {
	// Generate 216 color cube (16-231)
	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				DefaultPalette[i] = color.RGBA{
					R: uint8(r * 51),
					G: uint8(g * 51),
					B: uint8(b * 51),
					A: 255,
				}
				i++
			}
		}
	}

	// Generate grayscale (232-255)
	for j := 0; j < 24; j++ {
		gray := uint8(8 + j*10)
		DefaultPalette[232+j] = color.RGBA{gray, gray, gray, 255}
	}
}

// DefaultForeground is the default text color (light gray).
var DefaultForeground = color.RGBA{229, 229, 229, 255}

// DefaultBackground is the default background color (black).
var DefaultBackground = color.RGBA{0, 0, 0, 255}

// DefaultCursorColor is the default cursor rendering color (light gray).
var DefaultCursorColor = color.RGBA{229, 229, 229, 255}

// Named color indices for semantic colors (used with NamedColor).
const (
	NamedColorForeground       = 256 // Default foreground text color
	NamedColorBackground       = 257 // Default background color
	NamedColorCursor           = 258 // Cursor color
	NamedColorDimBlack         = 259 // Dim black
	NamedColorDimRed           = 260 // Dim red
	NamedColorDimGreen         = 261 // Dim green
	NamedColorDimYellow        = 262 // Dim yellow
	NamedColorDimBlue          = 263 // Dim blue
	NamedColorDimMagenta       = 264 // Dim magenta
	NamedColorDimCyan          = 265 // Dim cyan
	NamedColorDimWhite         = 266 // Dim white
	NamedColorBrightForeground = 267 // Bright foreground (white)
	NamedColorDimForeground    = 268 // Dim foreground
)

// IndexedColor refers to an entry of the 256-color palette (SGR 38;5;n).
// Resolution to RGB happens at render time against the active Palette.
type IndexedColor struct {
	Index int
}

// RGBA implements color.Color, returning a placeholder (actual resolution happens at render time).
func (c IndexedColor) RGBA() (r, g, b, a uint32) {
	return 0, 0, 0, 0xffff
}

// NamedColor refers to a semantic color such as the default foreground.
type NamedColor struct {
	Name int
}

// RGBA implements color.Color, returning a placeholder (actual resolution happens at render time).
func (c NamedColor) RGBA() (r, g, b, a uint32) {
	return 0, 0, 0, 0xffff
}

// Palette is the color table a screen resolves indexed and named colors against.
// OSC 4/10/11/12 update it; OSC 104/110/111/112 restore entries from DefaultPalette.
type Palette struct {
	Colors     [256]color.RGBA
	Foreground color.RGBA
	Background color.RGBA
	Cursor     color.RGBA
}

// NewPalette returns the default palette.
func NewPalette() Palette {
	return Palette{
		Colors:     DefaultPalette,
		Foreground: DefaultForeground,
		Background: DefaultBackground,
		Cursor:     DefaultCursorColor,
	}
}

// Set changes an entry. Indices 0-255 address the table, NamedColorForeground,
// NamedColorBackground and NamedColorCursor address the dynamic colors.
func (p *Palette) Set(index int, c color.RGBA) {
	switch {
	case index >= 0 && index < 256:
		p.Colors[index] = c
	case index == NamedColorForeground:
		p.Foreground = c
	case index == NamedColorBackground:
		p.Background = c
	case index == NamedColorCursor:
		p.Cursor = c
	}
}

// Reset restores one entry to its default. A negative index restores the whole table.
func (p *Palette) Reset(index int) {
	switch {
	case index < 0:
		p.Colors = DefaultPalette
	case index < 256:
		p.Colors[index] = DefaultPalette[index]
	case index == NamedColorForeground:
		p.Foreground = DefaultForeground
	case index == NamedColorBackground:
		p.Background = DefaultBackground
	case index == NamedColorCursor:
		p.Cursor = DefaultCursorColor
	}
}

// Resolve converts a color.Color to RGBA.
// If c is nil, returns the foreground or background based on fg.
func (p *Palette) Resolve(c color.Color, fg bool) color.RGBA {
	if c == nil {
		if fg {
			return p.Foreground
		}
		return p.Background
	}

	switch v := c.(type) {
	case color.RGBA:
		return v
	case IndexedColor:
		if v.Index >= 0 && v.Index < 256 {
			return p.Colors[v.Index]
		}
		if fg {
			return p.Foreground
		}
		return p.Background
	case NamedColor:
		return p.resolveNamed(v.Name, fg)
	default:
		r, g, b, a := c.RGBA()
		return color.RGBA{
			R: uint8(r >> 8),
			G: uint8(g >> 8),
			B: uint8(b >> 8),
			A: uint8(a >> 8),
		}
	}
}

func (p *Palette) resolveNamed(name int, fg bool) color.RGBA {
	switch {
	case name >= 0 && name < 16:
		return p.Colors[name]
	case name == NamedColorForeground:
		return p.Foreground
	case name == NamedColorBackground:
		return p.Background
	case name == NamedColorCursor:
		return p.Cursor
	case name >= NamedColorDimBlack && name <= NamedColorDimWhite:
		return dim(p.Colors[name-NamedColorDimBlack])
	case name == NamedColorBrightForeground:
		return p.Colors[15]
	case name == NamedColorDimForeground:
		return dim(p.Foreground)
	default:
		if fg {
			return p.Foreground
		}
		return p.Background
	}
}

func dim(c color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * 0.66),
		G: uint8(float64(c.G) * 0.66),
		B: uint8(float64(c.B) * 0.66),
		A: 255,
	}
}
