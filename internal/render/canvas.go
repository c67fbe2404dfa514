package render

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/sctoggle/internal/palette"
	"github.com/dokzlo13/sctoggle/internal/toggle"
)

// glowSpread is how far the LED glow extends past the LED stroke on each side.
const glowSpread = 5

// Canvas is a raster Surface backed by a gg context.
type Canvas struct {
	dc *gg.Context
}

// NewCanvas allocates a transparent canvas.
func NewCanvas(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid size %dx%d", ErrNoSurface, width, height)
	}
	return &Canvas{dc: gg.NewContext(width, height)}, nil
}

// Size returns the canvas dimensions, zero after Release.
func (c *Canvas) Size() (int, int) {
	if c.dc == nil {
		return 0, 0
	}
	return c.dc.Width(), c.dc.Height()
}

// Image returns the backing image, nil after Release.
func (c *Canvas) Image() image.Image {
	if c.dc == nil {
		return nil
	}
	return c.dc.Image()
}

// EncodePNG writes the canvas as a PNG image.
func (c *Canvas) EncodePNG(w io.Writer) error {
	if c.dc == nil {
		return ErrNoSurface
	}
	return c.dc.EncodePNG(w)
}

// SavePNG writes the canvas to a PNG file.
func (c *Canvas) SavePNG(path string) error {
	if c.dc == nil {
		return ErrNoSurface
	}
	return c.dc.SavePNG(path)
}

func (c *Canvas) Clear() {
	if c.dc == nil {
		return
	}
	c.dc.SetColor(color.Transparent)
	c.dc.Clear()
}

func (c *Canvas) RoundRect(r Rect, radius, stroke float64, col palette.Color, filled bool) {
	if c.dc == nil || !col.IsSet() {
		return
	}
	c.dc.SetColor(col)
	c.dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, radius)
	if stroke <= 0 {
		if filled {
			c.dc.Fill()
		}
		c.dc.ClearPath()
		return
	}
	if filled {
		c.dc.FillPreserve()
	}
	c.dc.SetLineWidth(stroke)
	c.dc.Stroke()
}

func (c *Canvas) Line(x1, y1, x2, y2, width float64, col palette.Color, glow bool) {
	if c.dc == nil || !col.IsSet() {
		return
	}
	c.dc.SetLineCapButt()
	if glow {
		halo := col.NRGBA()
		halo.A /= 3
		c.dc.SetColor(halo)
		c.dc.SetLineWidth(width + 2*glowSpread)
		c.dc.DrawLine(x1, y1, x2, y2)
		c.dc.Stroke()
	}
	c.dc.SetColor(col)
	c.dc.SetLineWidth(width)
	c.dc.DrawLine(x1, y1, x2, y2)
	c.dc.Stroke()
}

func (c *Canvas) Text(s string, area Rect, style TextStyle, col palette.Color) {
	if c.dc == nil || !col.IsSet() || style.Size <= 0 {
		return
	}
	face, err := loadFace(style)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load font face")
		return
	}
	c.dc.SetFontFace(face)
	c.dc.SetColor(col)

	// The wrapped block spans the whole area; alignment applies inside it.
	c.dc.DrawStringWrapped(s, area.X+area.W/2, area.Y+area.H/2, 0.5, 0.5, area.W, 1, ggAlign(style.Align))
}

func (c *Canvas) Offscreen(width, height int) (Surface, error) {
	return NewCanvas(width, height)
}

func (c *Canvas) Composite(src Surface, x, y int) {
	if c.dc == nil {
		return
	}
	other, ok := src.(*Canvas)
	if !ok || other.dc == nil {
		log.Warn().Type("surface", src).Msg("Cannot composite foreign surface")
		return
	}
	c.dc.DrawImage(other.dc.Image(), x, y)
}

func (c *Canvas) Release() {
	c.dc = nil
}

func ggAlign(a toggle.TextAlign) gg.Align {
	switch a {
	case toggle.AlignLeft:
		return gg.AlignLeft
	case toggle.AlignRight:
		return gg.AlignRight
	default:
		return gg.AlignCenter
	}
}
