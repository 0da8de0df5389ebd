package termcore

import (
	"image"
	"image/color"
	"image/draw"
	"io"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// ImageSurface paints frames into an RGBA image. It is a reference Surface
// for headless use: screenshots, tests and the CLI.
type ImageSurface struct {
	img        *image.RGBA
	face       font.Face
	cellWidth  int
	cellHeight int
	ascent     int
}

// NewImageSurface creates a surface for a rows x cols grid. A nil face
// selects basicfont.Face7x13. The image starts filled with bg.
func NewImageSurface(rows, cols int, face font.Face, bg color.RGBA) *ImageSurface {
	if face == nil {
		face = basicfont.Face7x13
	}
	metrics := face.Metrics()

	cellWidth := 7
	if adv, ok := face.GlyphAdvance('M'); ok && adv.Ceil() > 0 {
		cellWidth = adv.Ceil()
	}
	cellHeight := metrics.Height.Ceil()
	if cellHeight <= 0 {
		cellHeight = 13
	}

	img := image.NewRGBA(image.Rect(0, 0, max(cols, 1)*cellWidth, max(rows, 1)*cellHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	return &ImageSurface{
		img:        img,
		face:       face,
		cellWidth:  cellWidth,
		cellHeight: cellHeight,
		ascent:     metrics.Ascent.Ceil(),
	}
}

// Image returns the painted image.
func (s *ImageSurface) Image() *image.RGBA {
	return s.img
}

// CellSize returns the pixel size of one cell.
func (s *ImageSurface) CellSize() (width, height int) {
	return s.cellWidth, s.cellHeight
}

// DrawRun paints the run background, glyphs and decorations.
func (s *ImageSurface) DrawRun(run DrawRun) {
	x := run.Col * s.cellWidth
	y := run.Row * s.cellHeight
	fg, bg := run.Style.Fg, run.Style.Bg
	if run.Style.Selected {
		fg, bg = bg, fg
	}

	rect := image.Rect(x, y, x+run.Cells*s.cellWidth, y+s.cellHeight)
	draw.Draw(s.img, rect, image.NewUniform(bg), image.Point{}, draw.Src)

	baseline := y + s.ascent
	d := &font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(fg),
		Face: s.face,
	}
	col := 0
	for _, ch := range run.Text {
		if ch != ' ' {
			d.Dot = fixed.P(x+col*s.cellWidth, baseline)
			d.DrawString(string(ch))
		}
		col += max(runeWidth(ch), 1)
	}

	if run.Style.Flags&CellFlagAnyUnderline != 0 {
		underline := run.Style.Underline
		if run.Style.Selected {
			underline = fg
		}
		s.hline(rect.Min.X, rect.Max.X, min(baseline+2, rect.Max.Y-1), underline)
	}
	if run.Style.Flags&CellFlagStrike != 0 {
		s.hline(rect.Min.X, rect.Max.X, y+s.cellHeight/2, fg)
	}
}

// DrawCursor inverts the cursor area (block), or draws a bar, underline or outline.
func (s *ImageSurface) DrawCursor(c CursorOverlay) {
	x := c.Col * s.cellWidth
	y := c.Row * s.cellHeight
	w := max(c.Width, 1) * s.cellWidth
	h := s.cellHeight

	switch {
	case c.Hollow:
		s.hline(x, x+w, y, c.Color)
		s.hline(x, x+w, y+h-1, c.Color)
		s.vline(x, y, y+h, c.Color)
		s.vline(x+w-1, y, y+h, c.Color)
	case c.Shape == CursorShapeBar:
		s.vline(x, y, y+h, c.Color)
	case c.Shape == CursorShapeUnderline:
		s.hline(x, x+w, y+h-1, c.Color)
	default:
		bounds := s.img.Bounds()
		for py := y; py < y+h && py < bounds.Max.Y; py++ {
			for px := x; px < x+w && px < bounds.Max.X; px++ {
				existing := s.img.RGBAAt(px, py)
				s.img.SetRGBA(px, py, color.RGBA{
					R: 255 - existing.R,
					G: 255 - existing.G,
					B: 255 - existing.B,
					A: 255,
				})
			}
		}
	}
}

func (s *ImageSurface) hline(x0, x1, y int, c color.RGBA) {
	for x := x0; x < x1; x++ {
		s.img.SetRGBA(x, y, c)
	}
}

func (s *ImageSurface) vline(x, y0, y1 int, c color.RGBA) {
	for y := y0; y < y1; y++ {
		s.img.SetRGBA(x, y, c)
	}
}

// LoadFont loads a TrueType or OpenType font from a file path.
// A zero dpi means 72.
func LoadFont(path string, size, dpi float64) (font.Face, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadFontFromReader(f, size, dpi)
}

// LoadFontFromReader loads a TrueType or OpenType font from an io.Reader.
func LoadFontFromReader(r io.Reader, size, dpi float64) (font.Face, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	ft, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = 14
	}
	if dpi <= 0 {
		dpi = 72
	}
	return opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
}

// FontFace returns the face configured in cfg, or nil for the built-in font.
func (cfg FontConfig) FontFace() (font.Face, error) {
	if cfg.Path == "" {
		return nil, nil
	}
	return LoadFont(cfg.Path, cfg.Size, cfg.DPI)
}

// Screenshot renders the whole visible screen into an image.
// The screen's damage is left untouched.
func Screenshot(s *Screen, face font.Face) *image.RGBA {
	rows, cols := s.Size()
	surface := NewImageSurface(rows, cols, face, s.palette.Background)
	f := Frame{Rows: rows, Cols: cols, Full: true, Cursor: cursorOverlay(s, true)}
	for row := 0; row < rows; row++ {
		f.Runs = appendRowRuns(f.Runs, s, row)
	}
	f.Paint(surface)
	return surface.Image()
}
