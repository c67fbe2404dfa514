package toggle

import (
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/sctoggle/internal/eventbus"
)

// Selected reports the current selection state.
func (b *Button) Selected() bool {
	return b.selected
}

// Tap handles a confirmed single tap from the host.
func (b *Button) Tap() bool {
	log.Debug().Str("button", b.id).Msg("Tap")
	return b.Toggle()
}

// Toggle flips the selection state through the guarded path.
func (b *Button) Toggle() bool {
	return b.SetSelected(!b.selected)
}

// SetSelected requests a selection transition and reports whether it was applied.
//
// Setting the current value is a no-op. Deselecting the last selected member of
// an exclusive group is rejected without firing any event. An applied
// transition is coordinated with the rest of the group before any listener
// runs; the button's own listener fires first, then the group subscribers.
func (b *Button) SetSelected(desired bool) bool {
	if desired == b.selected {
		return false
	}
	if b.coord != nil && !b.coord.allow(b, desired) {
		log.Debug().
			Str("button", b.id).
			Str("group", b.attrs.Group).
			Msg("Deselect rejected, last selected member of exclusive group")
		return false
	}

	b.selected = desired

	var forced []*Button
	if b.coord != nil {
		forced = b.coord.onChange(b)
	}

	log.Debug().
		Str("button", b.id).
		Str("group", b.attrs.Group).
		Bool("selected", b.selected).
		Int("forced", len(forced)).
		Msg("Selection changed")

	notifyForced(forced, b)
	b.fireChanged()
	if b.coord != nil && b.attrs.Group != "" {
		b.coord.registry.changes.Publish(b)
	}
	return true
}

// force sets the state without the guard or coordination. It reports whether
// the state changed. Only the coordinator uses it.
func (b *Button) force(selected bool) bool {
	if b.selected == selected {
		return false
	}
	b.selected = selected
	return true
}

func (b *Button) fireChanged() {
	b.invalidate(true)
	if l := b.onChange; l != nil {
		selected := b.selected
		eventbus.Call("change:"+b.id, func() { l(selected) })
	}
}

// notifyForced fires the own listeners of buttons changed by coordination,
// once each, skipping the button that initiated the transition.
func notifyForced(forced []*Button, initiator *Button) {
	seen := make(map[*Button]struct{}, len(forced))
	for _, f := range forced {
		if f == initiator {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		f.fireChanged()
	}
}
