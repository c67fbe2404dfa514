package render

import (
	"time"

	"github.com/dokzlo13/sctoggle/internal/thumb"
	"github.com/dokzlo13/sctoggle/internal/toggle"
)

// Widget binds a button to its renderer and, for switches, its thumb animator.
// It tracks whether the button needs a redraw.
type Widget struct {
	button   *toggle.Button
	renderer Renderable
	thumb    *thumb.Animator

	width  int
	height int
	dirty  bool
}

// NewWidget creates the widget for b. duration is the thumb transition length
// for switches.
func NewWidget(b *toggle.Button, clock thumb.Clock, duration time.Duration) *Widget {
	w := &Widget{button: b, dirty: true}
	switch b.Kind() {
	case toggle.KindSwitch:
		w.renderer = &Switch{}
		w.thumb = thumb.New(clock, duration, b.Attributes().Animate)
		w.thumb.OnUpdate(func(int) { w.dirty = true })
	default:
		w.renderer = Toggle{}
	}
	w.width, w.height = b.Kind().MinSize()
	b.Watch(w.onButtonChanged)
	return w
}

// Button returns the bound button.
func (w *Widget) Button() *toggle.Button { return w.button }

// Size returns the widget's current size.
func (w *Widget) Size() (width, height int) { return w.width, w.height }

// Dirty reports whether a redraw has been requested since the last Draw.
func (w *Widget) Dirty() bool { return w.dirty }

// Animating reports whether the thumb is mid-transition.
func (w *Widget) Animating() bool {
	return w.thumb != nil && w.thumb.Animating()
}

// Thumb returns the switch's animator, nil for toggles.
func (w *Widget) Thumb() *thumb.Animator { return w.thumb }

// Resize changes the widget size. A running thumb transition is retargeted to
// the new track; a resting thumb is recomputed on the next draw.
func (w *Widget) Resize(width, height int) {
	if width == w.width && height == w.height {
		return
	}
	w.width, w.height = width, height
	if w.thumb != nil {
		w.thumb.Resize(w.button.Selected(), width)
	}
	w.dirty = true
}

// Tick samples the thumb animation. It reports whether more frames follow.
func (w *Widget) Tick() bool {
	if w.thumb == nil {
		return false
	}
	_, animating := w.thumb.Sample()
	return animating
}

// Frame builds the frame for the current state.
func (w *Widget) Frame() Frame {
	offset := 0
	if w.thumb != nil {
		offset = w.thumb.Resolve(w.button.Selected(), w.width)
	}
	return NewFrame(w.button, offset)
}

// Draw renders the widget onto s, resizing first if the surface size differs.
func (w *Widget) Draw(s Surface) {
	sw, sh := s.Size()
	w.Resize(sw, sh)
	w.renderer.Draw(s, w.Frame())
	w.dirty = false
}

// Release frees any offscreen surfaces held by the renderer.
func (w *Widget) Release() {
	if sw, ok := w.renderer.(*Switch); ok {
		sw.Release()
	}
}

func (w *Widget) onButtonChanged(b *toggle.Button, selectionChanged bool) {
	w.dirty = true
	if w.thumb == nil {
		return
	}
	w.thumb.SetEnabled(b.Attributes().Animate)
	if selectionChanged {
		w.thumb.OnSelectionChanged(b.Selected(), w.width)
	}
}
