package config

import (
	"fmt"

	"github.com/dokzlo13/sctoggle/internal/palette"
	"github.com/dokzlo13/sctoggle/internal/toggle"
)

// ButtonConfig declares one button. Omitted options keep the kind's defaults.
// Colours are "#RRGGBB", "#AARRGGBB" or a colour name and must be quoted in YAML.
type ButtonConfig struct {
	ID       string `yaml:"id"`
	Kind     string `yaml:"kind"` // toggle (default) or switch
	Selected bool   `yaml:"selected"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`

	Group           string `yaml:"group"`
	OnlyOneSelected *bool  `yaml:"only_one_selected"`

	OnColor      *palette.Color `yaml:"on_color"`
	OffColor     *palette.Color `yaml:"off_color"`
	LedColor     *palette.Color `yaml:"led_color"` // shorthand for led_on_color
	LedOnColor   *palette.Color `yaml:"led_on_color"`
	LedOffColor  *palette.Color `yaml:"led_off_color"`
	TextOnColor  *palette.Color `yaml:"text_on_color"`
	TextOffColor *palette.Color `yaml:"text_off_color"`
	Filling      string         `yaml:"filling"` // never, always, on, off
	ShowLed      *bool          `yaml:"show_led"`

	Text    *string `yaml:"text"`
	TextOn  *string `yaml:"text_on"`
	TextOff *string `yaml:"text_off"`

	TextAlign    string  `yaml:"text_align"` // left, center, right
	AllCaps      *bool   `yaml:"all_caps"`
	FontSize     float64 `yaml:"font_size"`
	FontFamily   string  `yaml:"font_family"` // path to a TrueType file
	Bold         *bool   `yaml:"bold"`
	Italic       *bool   `yaml:"italic"`
	StrokeSize   float64 `yaml:"stroke_size"`
	CornerRadius float64 `yaml:"corner_radius"`

	Animate         *bool          `yaml:"animate"`
	BackgroundColor *palette.Color `yaml:"background_color"`
}

// Build resolves the declared kind and attributes on top of the kind's defaults.
func (c ButtonConfig) Build() (toggle.Kind, toggle.Attributes, error) {
	kind, ok := toggle.ParseKind(c.Kind)
	if !ok {
		return kind, toggle.Attributes{}, fmt.Errorf("unknown kind %q", c.Kind)
	}

	a := toggle.DefaultAttributes(kind)
	a.Group = c.Group
	setBool(&a.OnlyOneSelected, c.OnlyOneSelected)

	setColor(&a.OnColor, c.OnColor)
	setColor(&a.OffColor, c.OffColor)
	setColor(&a.LedOnColor, c.LedColor)
	setColor(&a.LedOnColor, c.LedOnColor)
	setColor(&a.LedOffColor, c.LedOffColor)
	setColor(&a.TextOnColor, c.TextOnColor)
	setColor(&a.TextOffColor, c.TextOffColor)
	setColor(&a.BackgroundColor, c.BackgroundColor)

	if c.Filling != "" {
		fill, ok := palette.ParseFillMode(c.Filling)
		if !ok {
			return kind, a, fmt.Errorf("unknown filling %q", c.Filling)
		}
		a.Filling = fill
	}
	if c.TextAlign != "" {
		align, ok := toggle.ParseTextAlign(c.TextAlign)
		if !ok {
			return kind, a, fmt.Errorf("unknown text_align %q", c.TextAlign)
		}
		a.TextAlign = align
	}

	setBool(&a.ShowLed, c.ShowLed)
	setBool(&a.AllCaps, c.AllCaps)
	setBool(&a.Bold, c.Bold)
	setBool(&a.Italic, c.Italic)
	setBool(&a.Animate, c.Animate)

	a.Text, a.TextOn, a.TextOff = c.Text, c.TextOn, c.TextOff
	a.FontFamily = c.FontFamily

	if c.FontSize < 0 || c.StrokeSize < 0 || c.CornerRadius < 0 {
		return kind, a, fmt.Errorf("sizes must not be negative")
	}
	if c.Width < 0 || c.Height < 0 {
		return kind, a, fmt.Errorf("width and height must not be negative")
	}
	setSize(&a.FontSize, c.FontSize)
	setSize(&a.StrokeSize, c.StrokeSize)
	setSize(&a.CornerRadius, c.CornerRadius)

	return kind, a, nil
}

// Size returns the surface size for the button: its own, else the surface
// default, else the kind's minimum.
func (c ButtonConfig) Size(surface SurfaceConfig, kind toggle.Kind) (width, height int) {
	width, height = kind.MinSize()
	if surface.Width > 0 {
		width = surface.Width
	}
	if surface.Height > 0 {
		height = surface.Height
	}
	if c.Width > 0 {
		width = c.Width
	}
	if c.Height > 0 {
		height = c.Height
	}
	return width, height
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setSize(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

func setColor(dst *palette.Color, v *palette.Color) {
	if v != nil {
		*dst = *v
	}
}
