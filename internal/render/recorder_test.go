package render

import (
	"fmt"

	"github.com/dokzlo13/sctoggle/internal/palette"
)

type op struct {
	name   string
	rect   Rect
	color  palette.Color
	filled bool
	glow   bool
	text   string
	style  TextStyle
	x, y   int
	src    *recorder
}

// recorder is a Surface that records draw calls.
type recorder struct {
	w, h     int
	ops      []op
	released bool

	children []*recorder
	failNext bool
}

func newRecorder(w, h int) *recorder {
	return &recorder{w: w, h: h}
}

func (r *recorder) Size() (int, int) { return r.w, r.h }

func (r *recorder) Clear() { r.ops = append(r.ops, op{name: "clear"}) }

func (r *recorder) RoundRect(rect Rect, radius, stroke float64, c palette.Color, filled bool) {
	r.ops = append(r.ops, op{name: "rect", rect: rect, color: c, filled: filled})
}

func (r *recorder) Line(x1, y1, x2, y2, width float64, c palette.Color, glow bool) {
	r.ops = append(r.ops, op{name: "line", rect: Rect{X: x1, Y: y1, W: x2 - x1, H: width}, color: c, glow: glow})
}

func (r *recorder) Text(s string, area Rect, style TextStyle, c palette.Color) {
	r.ops = append(r.ops, op{name: "text", rect: area, color: c, text: s, style: style})
}

func (r *recorder) Offscreen(w, h int) (Surface, error) {
	if r.failNext {
		r.failNext = false
		return nil, fmt.Errorf("%w: out of memory", ErrNoSurface)
	}
	child := newRecorder(w, h)
	r.children = append(r.children, child)
	return child, nil
}

func (r *recorder) Composite(src Surface, x, y int) {
	r.ops = append(r.ops, op{name: "composite", x: x, y: y, src: src.(*recorder)})
}

func (r *recorder) Release() { r.released = true }

func (r *recorder) names() []string {
	out := make([]string, len(r.ops))
	for i, o := range r.ops {
		out[i] = o.name
	}
	return out
}

func (r *recorder) find(name string) (op, bool) {
	for _, o := range r.ops {
		if o.name == name {
			return o, true
		}
	}
	return op{}, false
}
