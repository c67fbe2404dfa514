package toggle

import (
	"sort"

	"github.com/dokzlo13/sctoggle/internal/eventbus"
)

// Registry maps group names to their attached members in attach order.
// Ungrouped buttons are never stored. It also owns the bus group listeners
// subscribe to.
//
// A Registry is owned by the composition root and shared by reference; tests
// use a fresh one each.
type Registry struct {
	groups  map[string][]*Button
	changes *eventbus.Bus[*Button]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		groups:  make(map[string][]*Button),
		changes: eventbus.New[*Button]("group_change"),
	}
}

// add appends b to its group. It reports false when b is ungrouped or
// already a member.
func (r *Registry) add(b *Button) bool {
	group := b.attrs.Group
	if group == "" || r.indexOf(group, b) >= 0 {
		return false
	}
	r.groups[group] = append(r.groups[group], b)
	return true
}

// remove drops b from group, keeping the order of the remaining members.
func (r *Registry) remove(b *Button, group string) bool {
	i := r.indexOf(group, b)
	if i < 0 {
		return false
	}
	members := r.groups[group]
	members = append(members[:i:i], members[i+1:]...)
	if len(members) == 0 {
		delete(r.groups, group)
	} else {
		r.groups[group] = members
	}
	return true
}

func (r *Registry) indexOf(group string, b *Button) int {
	for i, m := range r.groups[group] {
		if m == b {
			return i
		}
	}
	return -1
}

// Members returns the members of group in attach order.
func (r *Registry) Members(group string) []*Button {
	if group == "" {
		return nil
	}
	members := r.groups[group]
	out := make([]*Button, len(members))
	copy(out, members)
	return out
}

// Selection returns the selected members of group in attach order.
func (r *Registry) Selection(group string) []*Button {
	var selected []*Button
	for _, m := range r.groups[group] {
		if m.selected {
			selected = append(selected, m)
		}
	}
	return selected
}

// HasSelection reports whether any member of group is selected.
func (r *Registry) HasSelection(group string) bool {
	for _, m := range r.groups[group] {
		if m.selected {
			return true
		}
	}
	return false
}

// Contains reports whether b is registered under its current group.
func (r *Registry) Contains(b *Button) bool {
	return r.indexOf(b.attrs.Group, b) >= 0
}

// Groups returns the names of all non-empty groups, sorted.
func (r *Registry) Groups() []string {
	names := make([]string, 0, len(r.groups))
	for name := range r.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GroupChanges is the bus that receives every applied selection change of a
// grouped button.
func (r *Registry) GroupChanges() *eventbus.Bus[*Button] {
	return r.changes
}
