package palette

import "strings"

// FillMode decides whether the border shape is painted solid.
type FillMode int

const (
	FillNever FillMode = iota
	FillAlways
	FillOnSelected
	FillOffSelected
)

// String returns the configuration name of the fill mode.
func (f FillMode) String() string {
	switch f {
	case FillNever:
		return "never"
	case FillAlways:
		return "always"
	case FillOnSelected:
		return "on"
	case FillOffSelected:
		return "off"
	default:
		return "unknown"
	}
}

// ParseFillMode maps a configuration name to a fill mode.
// Unknown names fall back to FillNever and report ok=false.
func ParseFillMode(s string) (FillMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "never", "":
		return FillNever, true
	case "always":
		return FillAlways, true
	case "on", "on_selected":
		return FillOnSelected, true
	case "off", "off_selected":
		return FillOffSelected, true
	}
	return FillNever, false
}

// FillModeFromOrdinal decodes a persisted ordinal, failing closed to FillNever.
func FillModeFromOrdinal(v int) FillMode {
	if v < int(FillNever) || v > int(FillOffSelected) {
		return FillNever
	}
	return FillMode(v)
}

// Filled reports whether the background is painted solid for the given state.
func (f FillMode) Filled(selected bool) bool {
	switch f {
	case FillAlways:
		return true
	case FillOnSelected:
		return selected
	case FillOffSelected:
		return !selected
	}
	return false
}

// Kind is the element a colour is resolved for.
type Kind int

const (
	KindBorder Kind = iota
	KindLed
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindBorder:
		return "border"
	case KindLed:
		return "led"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Palette is the configured colour set of a button.
type Palette struct {
	On      Color
	Off     Color
	LedOn   Color
	LedOff  Color
	TextOn  Color
	TextOff Color
	Fill    FillMode
}

// Resolved is the set of concrete colours for one selection state.
type Resolved struct {
	Border Color
	Led    Color
	Text   Color
	Filled bool
}

// Resolve returns the colour to draw kind with in the given selection state.
//
// The border uses On when selected and Off otherwise. LED and text use their
// dedicated slot when set, else the border colour of the same state. While the
// background is filled a foreground equal to the background is replaced by the
// opposite border colour so it stays visible.
func Resolve(kind Kind, selected bool, p Palette) Color {
	switch kind {
	case KindBorder:
		return p.border(selected)
	case KindLed:
		return p.foreground(selected, p.LedOn, p.LedOff)
	case KindText:
		return p.foreground(selected, p.TextOn, p.TextOff)
	}
	return Unset
}

// Resolve returns every colour for the given selection state.
func (p Palette) Resolve(selected bool) Resolved {
	return Resolved{
		Border: Resolve(KindBorder, selected, p),
		Led:    Resolve(KindLed, selected, p),
		Text:   Resolve(KindText, selected, p),
		Filled: p.Fill.Filled(selected),
	}
}

func (p Palette) border(selected bool) Color {
	if selected {
		return p.On
	}
	return p.Off
}

func (p Palette) foreground(selected bool, on, off Color) Color {
	c := off
	if selected {
		c = on
	}
	if !c.IsSet() {
		c = p.border(selected)
	}

	background := p.border(selected)
	if p.Fill.Filled(selected) && c == background {
		return p.border(!selected)
	}
	return c
}
