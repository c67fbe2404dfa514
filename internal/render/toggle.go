package render

// Toggle draws the border, LED and text of a toggle button.
type Toggle struct{}

// Draw issues the border, then the LED when shown, then the text.
func (Toggle) Draw(s Surface, f Frame) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}
	drawBorder(s, f, float64(w), float64(h))
	drawLed(s, f, w, h)
	drawText(s, f, float64(w), float64(h))
}

func drawBorder(s Surface, f Frame, w, h float64) {
	stroke := f.Attrs.StrokeSize
	if stroke <= 0 {
		return
	}
	middle := stroke / 2
	area := Rect{X: middle, Y: middle, W: w - stroke, H: h - stroke}
	s.RoundRect(area, f.Attrs.CornerRadius, stroke, f.Colors.Border, f.Colors.Filled)
}

func drawLed(s Surface, f Frame, w, h int) {
	if !f.Attrs.ShowLed {
		return
	}
	left := w / 4
	right := left * 3
	bottom := h - int(f.Attrs.StrokeSize)*4
	s.Line(float64(left), float64(bottom), float64(right), float64(bottom),
		f.Attrs.StrokeSize*2, f.Colors.Led, f.Selected)
}

func drawText(s Surface, f Frame, w, h float64) {
	text := f.Attrs.Label(f.Selected)
	if text == "" {
		return
	}
	style := TextStyle{
		Size:   f.Attrs.FontSize,
		Family: f.Attrs.FontFamily,
		Bold:   f.Attrs.Bold,
		Italic: f.Attrs.Italic,
		Align:  f.Attrs.TextAlign,
	}
	s.Text(text, Rect{W: w, H: h}, style, f.Colors.Text)
}
