// Package palette resolves the colours a toggle button draws with.
package palette

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is a packed 0xAARRGGBB value. Unset is the sentinel for "not configured".
type Color int64

// Unset marks a colour slot that has no explicit value and must be derived.
const Unset Color = -1

// Defaults used by the toggle and switch variants.
const (
	DefaultOn         Color = 0xFF45AA46
	DefaultOff        Color = 0xFF3F51B5
	DefaultBackground Color = 0x803F51B5
)

var named = map[string]Color{
	"black":     0xFF000000,
	"darkgray":  0xFF444444,
	"gray":      0xFF888888,
	"grey":      0xFF888888,
	"lightgray": 0xFFCCCCCC,
	"white":     0xFFFFFFFF,
	"red":       0xFFFF0000,
	"green":     0xFF00FF00,
	"blue":      0xFF0000FF,
	"yellow":    0xFFFFFF00,
	"cyan":      0xFF00FFFF,
	"magenta":   0xFFFF00FF,
	"aqua":      0xFF00FFFF,
	"fuchsia":   0xFFFF00FF,
	"lime":      0xFF00FF00,
	"maroon":    0xFF800000,
	"navy":      0xFF000080,
	"olive":     0xFF808000,
	"purple":    0xFF800080,
	"silver":    0xFFC0C0C0,
	"teal":      0xFF008080,
}

// ARGB builds a colour from its channels.
func ARGB(a, r, g, b uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// Parse reads "#RRGGBB", "#AARRGGBB" or a colour name. An empty string is Unset.
func Parse(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unset, nil
	}
	if c, ok := named[strings.ToLower(s)]; ok {
		return c, nil
	}
	if !strings.HasPrefix(s, "#") {
		return Unset, fmt.Errorf("unknown color %q", s)
	}

	hex := s[1:]
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Unset, fmt.Errorf("invalid color %q: %w", s, err)
	}
	switch len(hex) {
	case 6:
		return Color(0xFF000000 | uint32(v)), nil
	case 8:
		return Color(uint32(v)), nil
	}
	return Unset, fmt.Errorf("invalid color %q: expected #RRGGBB or #AARRGGBB", s)
}

// MustParse is Parse for constants known to be valid.
func MustParse(s string) Color {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// IsSet reports whether the slot holds an explicit colour.
func (c Color) IsSet() bool {
	return c >= 0 && c <= 0xFFFFFFFF
}

// NRGBA converts to a non-premultiplied colour. Unset converts to transparent.
func (c Color) NRGBA() color.NRGBA {
	if !c.IsSet() {
		return color.NRGBA{}
	}
	v := uint32(c)
	return color.NRGBA{
		A: uint8(v >> 24),
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}
}

// RGBA implements image/color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

func (c Color) String() string {
	if !c.IsSet() {
		return "unset"
	}
	return fmt.Sprintf("#%08X", uint32(c))
}

// MarshalText encodes the colour as #AARRGGBB, or an empty string when Unset.
func (c Color) MarshalText() ([]byte, error) {
	if !c.IsSet() {
		return []byte{}, nil
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
