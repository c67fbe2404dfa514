// Package state saves and restores the persisted state of buttons.
package state

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/sctoggle/internal/palette"
	"github.com/dokzlo13/sctoggle/internal/toggle"
)

// Kind is the storage kind buttons are persisted under.
const Kind = "button"

// Bag is the saved state of one button: every attribute plus the selection,
// keyed by name. The host surface's own state rides along under PARENT.
type Bag struct {
	Parent json.RawMessage `json:"PARENT,omitempty"`

	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Selected bool   `json:"selected"`

	Group           string `json:"group"`
	OnlyOneSelected bool   `json:"onlyOneSelected"`

	OnColor      palette.Color `json:"onColor"`
	OffColor     palette.Color `json:"offColor"`
	LedOnColor   palette.Color `json:"ledOnColor"`
	LedOffColor  palette.Color `json:"ledOffColor"`
	TextOnColor  palette.Color `json:"textOnColor"`
	TextOffColor palette.Color `json:"textOffColor"`
	Filling      int           `json:"filling"`
	ShowLed      bool          `json:"showLed"`

	Text    *string `json:"text"`
	TextOn  *string `json:"textOn"`
	TextOff *string `json:"textOff"`

	TextAlign    int     `json:"textAlign"`
	AllCaps      bool    `json:"allCaps"`
	FontSize     float64 `json:"fontSize"`
	FontFamily   string  `json:"fontFamily"`
	Bold         bool    `json:"bold"`
	Italic       bool    `json:"italic"`
	StrokeSize   float64 `json:"strokeSize"`
	CornerRadius float64 `json:"cornerRadius"`

	Animate         bool          `json:"animate"`
	BackgroundColor palette.Color `json:"backgroundColor"`
}

// Save captures b.
func Save(b *toggle.Button) Bag {
	a := b.Attributes()
	return Bag{
		ID:              b.ID(),
		Kind:            b.Kind().String(),
		Selected:        b.Selected(),
		Group:           a.Group,
		OnlyOneSelected: a.OnlyOneSelected,
		OnColor:         a.OnColor,
		OffColor:        a.OffColor,
		LedOnColor:      a.LedOnColor,
		LedOffColor:     a.LedOffColor,
		TextOnColor:     a.TextOnColor,
		TextOffColor:    a.TextOffColor,
		Filling:         int(a.Filling),
		ShowLed:         a.ShowLed,
		Text:            copyText(a.Text),
		TextOn:          copyText(a.TextOn),
		TextOff:         copyText(a.TextOff),
		TextAlign:       int(a.TextAlign),
		AllCaps:         a.AllCaps,
		FontSize:        a.FontSize,
		FontFamily:      a.FontFamily,
		Bold:            a.Bold,
		Italic:          a.Italic,
		StrokeSize:      a.StrokeSize,
		CornerRadius:    a.CornerRadius,
		Animate:         a.Animate,
		BackgroundColor: a.BackgroundColor,
	}
}

// Attributes decodes the saved attributes. Out-of-range enum ordinals fail
// closed to FillNever and AlignCenter.
func (bag Bag) Attributes() toggle.Attributes {
	return toggle.Attributes{
		Group:           bag.Group,
		OnlyOneSelected: bag.OnlyOneSelected,
		OnColor:         bag.OnColor,
		OffColor:        bag.OffColor,
		LedOnColor:      bag.LedOnColor,
		LedOffColor:     bag.LedOffColor,
		TextOnColor:     bag.TextOnColor,
		TextOffColor:    bag.TextOffColor,
		Filling:         palette.FillModeFromOrdinal(bag.Filling),
		ShowLed:         bag.ShowLed,
		Text:            copyText(bag.Text),
		TextOn:          copyText(bag.TextOn),
		TextOff:         copyText(bag.TextOff),
		TextAlign:       toggle.TextAlignFromOrdinal(bag.TextAlign),
		AllCaps:         bag.AllCaps,
		FontSize:        bag.FontSize,
		FontFamily:      bag.FontFamily,
		Bold:            bag.Bold,
		Italic:          bag.Italic,
		StrokeSize:      bag.StrokeSize,
		CornerRadius:    bag.CornerRadius,
		Animate:         bag.Animate,
		BackgroundColor: bag.BackgroundColor,
	}
}

// New creates a detached button from bag.
func New(bag Bag) *toggle.Button {
	kind, ok := toggle.ParseKind(bag.Kind)
	if !ok {
		log.Warn().Str("button", bag.ID).Str("kind", bag.Kind).Msg("Unknown button kind in saved state")
	}
	return toggle.New(bag.ID, kind, bag.Attributes(), bag.Selected)
}

// Restore applies bag to an existing button. The selection goes through the
// guarded path, so an attached button stays consistent with its group.
func Restore(b *toggle.Button, bag Bag) {
	attrs := bag.Attributes()
	b.Configure(func(a *toggle.Attributes) { *a = attrs })
	b.SetSelected(bag.Selected)
}

func copyText(s *string) *string {
	if s == nil {
		return nil
	}
	return toggle.String(*s)
}
