package toggle

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/sctoggle/internal/eventbus"
)

// ErrUnknownButton is returned when a lookup names a button that is not attached.
var ErrUnknownButton = errors.New("unknown button")

// GroupListener is notified after an applied selection change of a grouped button.
type GroupListener func(source *Button)

// Coordinator enforces group exclusivity on top of a Registry.
//
// Exclusivity is decided by the button driving a transition: when its
// OnlyOneSelected flag is set, selecting it demotes every other member and a
// group left without a selection gets its first member selected. Coordination
// writes states directly, bypassing the guard in SetSelected, so it never
// re-enters itself. All state writes complete before any listener is notified.
type Coordinator struct {
	registry *Registry
	attached []*Button
}

// NewCoordinator creates a coordinator over registry.
func NewCoordinator(registry *Registry) *Coordinator {
	return &Coordinator{registry: registry}
}

// Registry returns the underlying registry.
func (c *Coordinator) Registry() *Registry {
	return c.registry
}

// Attach registers b with its group and rebalances the group. Attaching a
// button that is already attached here is a no-op; a button attached to
// another coordinator is detached from it first.
func (c *Coordinator) Attach(b *Button) {
	if b.coord == c {
		return
	}
	if b.coord != nil {
		b.coord.Detach(b)
	}

	b.coord = c
	c.attached = append(c.attached, b)

	if !c.registry.add(b) {
		log.Debug().Str("button", b.id).Msg("Attached ungrouped button")
		return
	}

	forced := c.settle(b)
	log.Debug().
		Str("button", b.id).
		Str("group", b.attrs.Group).
		Int("members", len(c.registry.groups[b.attrs.Group])).
		Msg("Attached button")

	notifyForced(forced, nil)
}

// Detach removes b from its group and forces it off. A group left without a
// selection by the departure is healed.
func (c *Coordinator) Detach(b *Button) {
	if b.coord != c {
		return
	}

	for i, a := range c.attached {
		if a == b {
			c.attached = append(c.attached[:i:i], c.attached[i+1:]...)
			break
		}
	}

	group := b.attrs.Group
	removed := c.registry.remove(b, group)
	b.coord = nil
	changed := b.force(false)

	var forced []*Button
	if removed {
		forced = c.heal(group, b.attrs.OnlyOneSelected)
	}

	log.Debug().Str("button", b.id).Str("group", group).Msg("Detached button")

	if changed {
		b.fireChanged()
	}
	notifyForced(forced, b)
}

// Button looks up an attached button by id.
func (c *Coordinator) Button(id string) (*Button, error) {
	for _, b := range c.attached {
		if b.id == id {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownButton, id)
}

// Buttons returns every attached button in attach order.
func (c *Coordinator) Buttons() []*Button {
	out := make([]*Button, len(c.attached))
	copy(out, c.attached)
	return out
}

// Members returns the members of group in attach order.
func (c *Coordinator) Members(group string) []*Button {
	return c.registry.Members(group)
}

// Selection returns the selected members of group.
func (c *Coordinator) Selection(group string) []*Button {
	return c.registry.Selection(group)
}

// HasSelection reports whether group has a selected member.
func (c *Coordinator) HasSelection(group string) bool {
	return c.registry.HasSelection(group)
}

// Reset deselects every member of group except excluded, through the guarded
// path. An exclusive group therefore keeps its last selection.
func (c *Coordinator) Reset(group string, excluded *Button) {
	for _, m := range c.registry.Members(group) {
		if m != excluded {
			m.SetSelected(false)
		}
	}
}

// OnGroupChange subscribes to selection changes of grouped buttons.
func (c *Coordinator) OnGroupChange(l GroupListener) eventbus.Subscription {
	return c.registry.changes.Subscribe(eventbus.Handler[*Button](l))
}

// RemoveGroupListener drops a subscription made with OnGroupChange.
func (c *Coordinator) RemoveGroupListener(id eventbus.Subscription) bool {
	return c.registry.changes.Unsubscribe(id)
}

// allow is the guard of the selection state machine.
func (c *Coordinator) allow(b *Button, desired bool) bool {
	if desired || !b.attrs.OnlyOneSelected || !c.registry.Contains(b) {
		return true
	}
	return len(c.registry.Selection(b.attrs.Group)) >= 2
}

// onChange runs after b's state changed and returns the other buttons whose
// state coordination changed.
func (c *Coordinator) onChange(b *Button) []*Button {
	if !c.registry.Contains(b) {
		return nil
	}
	return c.settle(b)
}

// settle applies exclusivity for b's group with b as the authority.
func (c *Coordinator) settle(b *Button) []*Button {
	if !b.attrs.OnlyOneSelected {
		return nil
	}

	var changed []*Button
	if b.selected {
		for _, m := range c.registry.groups[b.attrs.Group] {
			if m != b && m.force(false) {
				changed = append(changed, m)
			}
		}
	}
	return append(changed, c.heal(b.attrs.Group, true)...)
}

// heal selects the first member of an exclusive group that has no selection.
func (c *Coordinator) heal(group string, exclusive bool) []*Button {
	members := c.registry.groups[group]
	if !exclusive || len(members) == 0 || c.registry.HasSelection(group) {
		return nil
	}
	first := members[0]
	if !first.force(true) {
		return nil
	}
	log.Debug().Str("button", first.id).Str("group", group).Msg("Selected first member of empty group")
	return []*Button{first}
}

// regroup moves b after its group or exclusivity changed. prev holds the
// attributes b had before the change.
func (c *Coordinator) regroup(b *Button, prev Attributes) []*Button {
	var changed []*Button
	if prev.Group != b.attrs.Group && c.registry.remove(b, prev.Group) {
		changed = append(changed, c.heal(prev.Group, prev.OnlyOneSelected)...)
	}
	c.registry.add(b)
	if c.registry.Contains(b) {
		changed = append(changed, c.settle(b)...)
	}
	return changed
}
