package render

import (
	"github.com/rs/zerolog/log"
)

// Switch draws a solid track and a half-width thumb rendered like a toggle,
// composited at the thumb offset.
type Switch struct {
	thumb Toggle
	half  Surface
	halfW int
	halfH int
}

// Draw paints the track, then the thumb. When the offscreen thumb surface
// cannot be allocated the thumb is skipped for this frame.
func (s *Switch) Draw(dst Surface, f Frame) {
	w, h := dst.Size()
	if w <= 0 || h <= 0 {
		return
	}

	area := Rect{W: float64(w), H: float64(h)}
	dst.RoundRect(area, f.Attrs.CornerRadius, 0, f.Attrs.BackgroundColor, true)

	half, err := s.ensureHalf(dst, w/2, h)
	if err != nil {
		log.Warn().Err(err).Int("width", w/2).Int("height", h).Msg("Skipping switch thumb")
		return
	}

	half.Clear()
	s.thumb.Draw(half, f)
	dst.Composite(half, f.Thumb, 0)
}

// Release frees the offscreen thumb surface.
func (s *Switch) Release() {
	if s.half != nil {
		s.half.Release()
		s.half = nil
	}
	s.halfW, s.halfH = 0, 0
}

func (s *Switch) ensureHalf(dst Surface, w, h int) (Surface, error) {
	if s.half != nil && s.halfW == w && s.halfH == h {
		return s.half, nil
	}

	s.Release()
	if w <= 0 || h <= 0 {
		return nil, ErrNoSurface
	}

	half, err := dst.Offscreen(w, h)
	if err != nil {
		return nil, err
	}
	s.half, s.halfW, s.halfH = half, w, h
	return half, nil
}
