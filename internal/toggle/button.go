// Package toggle implements toggle buttons, their selection state machine and
// the group coordination that keeps exclusive groups consistent.
package toggle

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/sctoggle/internal/eventbus"
	"github.com/dokzlo13/sctoggle/internal/palette"
)

// Kind is the visual variant of a button.
type Kind int

const (
	KindToggle Kind = iota
	KindSwitch
)

func (k Kind) String() string {
	switch k {
	case KindToggle:
		return "toggle"
	case KindSwitch:
		return "switch"
	default:
		return "unknown"
	}
}

// ParseKind maps a configuration name to a kind, defaulting to KindToggle.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "toggle", "":
		return KindToggle, true
	case "switch":
		return KindSwitch, true
	}
	return KindToggle, false
}

// MinSize is the size used when the host does not impose one.
func (k Kind) MinSize() (width, height int) {
	if k == KindSwitch {
		return 48, 24
	}
	return 96, 48
}

// TextAlign is the horizontal alignment of the text block.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

func (a TextAlign) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseTextAlign maps a configuration name to an alignment.
// Unknown names fall back to AlignCenter and report ok=false.
func ParseTextAlign(s string) (TextAlign, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return AlignLeft, true
	case "center", "centre", "":
		return AlignCenter, true
	case "right":
		return AlignRight, true
	}
	return AlignCenter, false
}

// TextAlignFromOrdinal decodes a persisted ordinal, failing closed to AlignCenter.
func TextAlignFromOrdinal(v int) TextAlign {
	if v < int(AlignLeft) || v > int(AlignRight) {
		return AlignCenter
	}
	return TextAlign(v)
}

// Attributes is the configurable state of a button.
type Attributes struct {
	Group           string
	OnlyOneSelected bool

	OnColor      palette.Color
	OffColor     palette.Color
	LedOnColor   palette.Color
	LedOffColor  palette.Color
	TextOnColor  palette.Color
	TextOffColor palette.Color
	Filling      palette.FillMode
	ShowLed      bool

	// nil means "not set"; an empty string is a set but empty text.
	Text    *string
	TextOn  *string
	TextOff *string

	TextAlign    TextAlign
	AllCaps      bool
	FontSize     float64
	FontFamily   string
	Bold         bool
	Italic       bool
	StrokeSize   float64
	CornerRadius float64

	// Switch only.
	Animate         bool
	BackgroundColor palette.Color
}

// DefaultAttributes returns the attribute set a freshly created button of kind starts with.
func DefaultAttributes(kind Kind) Attributes {
	a := Attributes{
		OnlyOneSelected: true,
		OnColor:         palette.DefaultOn,
		OffColor:        palette.DefaultOff,
		LedOnColor:      palette.Unset,
		LedOffColor:     palette.Unset,
		TextOnColor:     palette.Unset,
		TextOffColor:    palette.Unset,
		Filling:         palette.FillNever,
		ShowLed:         true,
		TextAlign:       AlignCenter,
		AllCaps:         true,
		FontSize:        14,
		Bold:            true,
		StrokeSize:      2,
		CornerRadius:    5,
		Animate:         true,
		BackgroundColor: palette.DefaultBackground,
	}
	if kind == KindSwitch {
		a.FontSize = 10
		a.Filling = palette.FillAlways
		a.ShowLed = false
	}
	return a
}

// Palette returns the colour configuration used by the resolver.
func (a Attributes) Palette() palette.Palette {
	return palette.Palette{
		On:      a.OnColor,
		Off:     a.OffColor,
		LedOn:   a.LedOnColor,
		LedOff:  a.LedOffColor,
		TextOn:  a.TextOnColor,
		TextOff: a.TextOffColor,
		Fill:    a.Filling,
	}
}

// Label picks the text for the selection state, falling back to Text when the
// state-specific string is absent.
func (a Attributes) Label(selected bool) string {
	text := a.Text
	if selected && a.TextOn != nil {
		text = a.TextOn
	}
	if !selected && a.TextOff != nil {
		text = a.TextOff
	}
	if text == nil {
		return ""
	}
	if a.AllCaps {
		return strings.ToUpper(*text)
	}
	return *text
}

// Equal compares two attribute sets, following the text pointers.
func (a Attributes) Equal(o Attributes) bool {
	if !equalText(a.Text, o.Text) || !equalText(a.TextOn, o.TextOn) || !equalText(a.TextOff, o.TextOff) {
		return false
	}
	a.Text, a.TextOn, a.TextOff = nil, nil, nil
	o.Text, o.TextOn, o.TextOff = nil, nil, nil
	return a == o
}

func equalText(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// String returns a pointer to s, for the optional text fields.
func String(s string) *string {
	return &s
}

// ChangeListener is notified with the new selection state of its button.
type ChangeListener func(selected bool)

// WatchFunc is notified whenever a button needs to be redrawn. selectionChanged
// is true when the redraw was caused by a selection transition.
type WatchFunc func(b *Button, selectionChanged bool)

// Button is a single toggle. Identity is the pointer; ID is a stable name for
// lookups and persistence.
type Button struct {
	id       string
	kind     Kind
	attrs    Attributes
	selected bool

	coord    *Coordinator
	onChange ChangeListener
	watchers []WatchFunc
}

// New creates a detached button. An empty id is replaced by a random one.
func New(id string, kind Kind, attrs Attributes, selected bool) *Button {
	if id == "" {
		id = uuid.NewString()
	}
	return &Button{
		id:       id,
		kind:     kind,
		attrs:    sanitize(DefaultAttributes(kind), attrs),
		selected: selected,
	}
}

// ID returns the button's identifier.
func (b *Button) ID() string { return b.id }

// Kind returns the visual variant.
func (b *Button) Kind() Kind { return b.kind }

// Group returns the group name, empty when ungrouped.
func (b *Button) Group() string { return b.attrs.Group }

// Attributes returns a copy of the current attributes.
func (b *Button) Attributes() Attributes { return b.attrs }

// Attached reports whether the button is registered with a coordinator.
func (b *Button) Attached() bool { return b.coord != nil }

// SetOnChangeListener replaces the button's own change listener. nil removes it.
func (b *Button) SetOnChangeListener(l ChangeListener) {
	b.onChange = l
}

// Watch registers a redraw hook. Hooks run before the change listeners.
func (b *Button) Watch(fn WatchFunc) {
	b.watchers = append(b.watchers, fn)
}

// Configure applies fn to a copy of the attributes and keeps the result.
// Non-positive sizes are ignored. When the group or exclusivity changes on an
// attached button the groups involved are rebalanced. It reports whether
// anything changed.
func (b *Button) Configure(fn func(a *Attributes)) bool {
	next := b.attrs
	fn(&next)
	next = sanitize(b.attrs, next)
	if next.Equal(b.attrs) {
		return false
	}

	prev := b.attrs
	b.attrs = next

	var forced []*Button
	if b.coord != nil && (prev.Group != next.Group || prev.OnlyOneSelected != next.OnlyOneSelected) {
		forced = b.coord.regroup(b, prev)
	}

	log.Debug().Str("button", b.id).Msg("Attributes changed")
	b.invalidate(false)
	notifyForced(forced, nil)
	return true
}

// SetGroup moves the button to another group.
func (b *Button) SetGroup(group string) bool {
	return b.Configure(func(a *Attributes) { a.Group = group })
}

// SetOnlyOneSelected switches exclusivity for the button's group.
func (b *Button) SetOnlyOneSelected(v bool) bool {
	return b.Configure(func(a *Attributes) { a.OnlyOneSelected = v })
}

func (b *Button) invalidate(selectionChanged bool) {
	for _, w := range b.watchers {
		eventbus.Call("watch:"+b.id, func() { w(b, selectionChanged) })
	}
}

// sanitize keeps prev's value for sizes that are not strictly positive.
func sanitize(prev, next Attributes) Attributes {
	if next.FontSize <= 0 {
		next.FontSize = prev.FontSize
	}
	if next.StrokeSize <= 0 {
		next.StrokeSize = prev.StrokeSize
	}
	if next.CornerRadius <= 0 {
		next.CornerRadius = prev.CornerRadius
	}
	return next
}
