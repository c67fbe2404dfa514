// Package render draws toggle buttons and switches onto a host surface.
package render

import (
	"errors"

	"github.com/dokzlo13/sctoggle/internal/palette"
	"github.com/dokzlo13/sctoggle/internal/toggle"
)

// ErrNoSurface is returned when a surface cannot be allocated.
var ErrNoSurface = errors.New("surface unavailable")

// Rect is an axis-aligned rectangle in surface pixels.
type Rect struct {
	X, Y, W, H float64
}

// TextStyle describes how a text block is laid out.
type TextStyle struct {
	Size   float64
	Family string
	Bold   bool
	Italic bool
	Align  toggle.TextAlign
}

// Surface is the draw target supplied by the host.
//
// Colours that are palette.Unset are not drawn.
type Surface interface {
	Size() (width, height int)
	Clear()
	RoundRect(r Rect, radius, stroke float64, c palette.Color, filled bool)
	Line(x1, y1, x2, y2, width float64, c palette.Color, glow bool)
	Text(s string, area Rect, style TextStyle, c palette.Color)

	// Offscreen allocates a transparent surface of the given size.
	Offscreen(width, height int) (Surface, error)
	// Composite draws src with its top-left corner at (x, y).
	Composite(src Surface, x, y int)
	// Release frees the surface. It must not be drawn on afterwards.
	Release()
}

// Frame is everything a renderer needs to draw one button.
type Frame struct {
	Attrs    toggle.Attributes
	Selected bool
	Colors   palette.Resolved
	// Thumb is the switch thumb's left offset.
	Thumb int
}

// NewFrame resolves the colours for the current state of b.
func NewFrame(b *toggle.Button, thumb int) Frame {
	attrs := b.Attributes()
	return Frame{
		Attrs:    attrs,
		Selected: b.Selected(),
		Colors:   attrs.Palette().Resolve(b.Selected()),
		Thumb:    thumb,
	}
}

// Renderable is implemented by each visual variant.
type Renderable interface {
	Draw(s Surface, f Frame)
}
