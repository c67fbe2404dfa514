package toggle

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newButton(id, group string, exclusive bool) *Button {
	attrs := DefaultAttributes(KindToggle)
	attrs.Group = group
	attrs.OnlyOneSelected = exclusive
	return New(id, KindToggle, attrs, false)
}

func ids(buttons []*Button) []string {
	out := make([]string, 0, len(buttons))
	for _, b := range buttons {
		out = append(out, b.ID())
	}
	return out
}

func selectedCount(buttons []*Button) int {
	n := 0
	for _, b := range buttons {
		if b.Selected() {
			n++
		}
	}
	return n
}

func TestAttachSelectsFirstMember(t *testing.T) {
	c := NewCoordinator(NewRegistry())
	a := newButton("a", "modes", true)
	b := newButton("b", "modes", true)
	d := newButton("c", "modes", true)

	c.Attach(a)
	c.Attach(b)
	c.Attach(d)

	assert.True(t, a.Selected())
	assert.False(t, b.Selected())
	assert.False(t, d.Selected())
	assert.Equal(t, []string{"a", "b", "c"}, ids(c.Members("modes")))
}

func TestAttachPreselectedDemotesCurrentSelection(t *testing.T) {
	c := NewCoordinator(NewRegistry())
	a := newButton("a", "modes", true)
	c.Attach(a)
	require.True(t, a.Selected())

	attrs := DefaultAttributes(KindToggle)
	attrs.Group = "modes"
	b := New("b", KindToggle, attrs, true)
	c.Attach(b)

	assert.False(t, a.Selected())
	assert.True(t, b.Selected())
}

func TestAttachIsIdempotent(t *testing.T) {
	c := NewCoordinator(NewRegistry())
	a := newButton("a", "modes", true)
	b := newButton("b", "modes", true)
	c.Attach(a)
	c.Attach(b)

	calls := 0
	a.SetOnChangeListener(func(bool) { calls++ })
	c.Attach(a)

	assert.Equal(t, []string{"a", "b"}, ids(c.Members("modes")))
	assert.Len(t, c.Buttons(), 2)
	assert.Zero(t, calls)
}

func TestSelectingDemotesOthers(t *testing.T) {
	c := NewCoordinator(NewRegistry())
	a := newButton("a", "modes", true)
	b := newButton("b", "modes", true)
	d := newButton("c", "modes", true)
	for _, btn := range []*Button{a, b, d} {
		c.Attach(btn)
	}

	assert.True(t, d.SetSelected(true))

	assert.False(t, a.Selected())
	assert.False(t, b.Selected())
	assert.True(t, d.Selected())
	assert.Equal(t, []string{"c"}, ids(c.Selection("modes")))
}

func TestLastSelectedMemberCannotBeDeselected(t *testing.T) {
	c := NewCoordinator(NewRegistry())
	a := newButton("a", "pair", true)
	b := newButton("b", "pair", true)
	c.Attach(a)
	c.Attach(b)
	require.True(t, a.Selected())

	fired := false
	a.SetOnChangeListener(func(bool) { fired = true })
	c.OnGroupChange(func(*Button) { fired = true })

	assert.False(t, a.SetSelected(false))
	assert.False(t, a.Toggle())
	assert.True(t, a.Selected())
	assert.False(t, fired, "rejected transitions fire nothing")

	// B gets selected without demoting A, after which A may go.
	b.SetOnlyOneSelected(false)
	require.True(t, b.SetSelected(true))
	require.Len(t, c.Selection("pair"), 2)

	assert.True(t, a.SetSelected(false))
	assert.False(t, a.Selected())
	assert.True(t, b.Selected())
}

func TestSelectingOtherMemberReleasesPrevious(t *testing.T) {
	c := NewCoordinator(NewRegistry())
	a := newButton("a", "pair", true)
	b := newButton("b", "pair", true)
	c.Attach(a)
	c.Attach(b)

	require.True(t, b.Tap())
	assert.False(t, a.Selected())
	assert.True(t, b.Selected())

	// Now b is the last one.
	assert.False(t, b.Tap())
	assert.True(t, b.Selected())
}

func TestExclusivityHoldsForRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	c := NewCoordinator(NewRegistry())

	var members []*Button
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		btn := newButton(id, "radio", true)
		c.Attach(btn)
		members = append(members, btn)
	}

	for i := 0; i < 500; i++ {
		btn := members[rng.Intn(len(members))]
		btn.SetSelected(rng.Intn(2) == 0)
		require.Equal(t, 1, selectedCount(members), "step %d", i)
	}
}

func TestSetSelectedSameValueIsNoop(t *testing.T) {
	c := NewCoordinator(NewRegistry())
	a := newButton("a", "modes", true)
	b := newButton("b", "modes", true)
	c.Attach(a)
	c.Attach(b)

	fired := 0
	a.SetOnChangeListener(func(bool) { fired++ })
	b.SetOnChangeListener(func(bool) { fired++ })
	c.OnGroupChange(func(*Button) { fired++ })

	assert.False(t, a.SetSelected(true))
	assert.False(t, b.SetSelected(false))
	assert.Zero(t, fired)
	assert.Equal(t, []string{"a", "b"}, ids(c.Members("modes")))
}

func TestUngroupedButtonsAreIndependent(t *testing.T) {
	c := NewCoordinator(NewRegistry())
	a := newButton("a", "", true)
	b := newButton("b", "", true)
	c.Attach(a)
	c.Attach(b)

	assert.False(t, a.Selected(), "ungrouped buttons are not healed")
	assert.True(t, a.SetSelected(true))
	assert.True(t, b.SetSelected(true))
	assert.True(t, a.SetSelected(false))
	assert.True(t, b.Selected())
	assert.Empty(t, c.Registry().Groups())

	published := 0
	c.OnGroupChange(func(*Button) { published++ })
	a.Toggle()
	assert.Zero(t, published)
}

func TestNonExclusiveGroupAllowsMultipleSelection(t *testing.T) {
	c := NewCoordinator(NewRegistry())
	a := newButton("a", "filters", false)
	b := newButton("b", "filters", false)
	c.Attach(a)
	c.Attach(b)

	assert.False(t, c.HasSelection("filters"))
	assert.True(t, a.SetSelected(true))
	assert.True(t, b.SetSelected(true))
	assert.Len(t, c.Selection("filters"), 2)
	assert.True(t, a.SetSelected(false))
	assert.True(t, b.SetSelected(false))
	assert.False(t, c.HasSelection("filters"))
}

func TestGroupNamesAreCaseSensitive(t *testing.T) {
	c := NewCoordinator(NewRegistry())
	a := newButton("a", "Modes", true)
	b := newButton("b", "modes", true)
	c.Attach(a)
	c.Attach(b)

	assert.True(t, a.Selected())
	assert.True(t, b.Selected())
	assert.Equal(t, []string{"Modes", "modes"}, c.Registry().Groups())
}

func TestNotificationOrder(t *testing.T) {
	c := NewCoordinator(NewRegistry())
	a := newButton("a", "modes", true)
	b := newButton("b", "modes", true)
	c.Attach(a)
	c.Attach(b)

	var events []string
	a.SetOnChangeListener(func(s bool) {
		events = append(events, "a.change")
		// Registry is complete by the time listeners run.
		assert.True(t, b.Selected())
		assert.False(t, s)
	})
	b.SetOnChangeListener(func(s bool) {
		events = append(events, "b.change")
		assert.True(t, s)
	})
	c.OnGroupChange(func(src *Button) { events = append(events, "group1:"+src.ID()) })
	c.OnGroupChange(func(src *Button) { events = append(events, "group2:"+src.ID()) })

	require.True(t, b.SetSelected(true))

	assert.Equal(t, []string{"a.change", "b.change", "group1:b", "group2:b"}, events)
}

func TestListenerPanicIsIsolated(t *testing.T) {
	c := NewCoordinator(NewRegistry())
	a := newButton("a", "modes", true)
	b := newButton("b", "modes", true)
	c.Attach(a)
	c.Attach(b)

	var got []string
	b.SetOnChangeListener(func(bool) { panic("own listener") })
	c.OnGroupChange(func(*Button) { panic("first group listener") })
	c.OnGroupChange(func(src *Button) { got = append(got, src.ID()) })

	assert.NotPanics(t, func() { b.SetSelected(true) })
	assert.Equal(t, []string{"b"}, got)
	assert.True(t, b.Selected())
	assert.False(t, a.Selected())
	assert.Equal(t, []string{"a", "b"}, ids(c.Members("modes")))
}

func TestRemoveGroupListener(t *testing.T) {
	c := NewCoordinator(NewRegistry())
	a := newButton("a", "g", false)
	c.Attach(a)

	calls := 0
	id := c.OnGroupChange(func(*Button) { calls++ })
	a.Toggle()
	assert.True(t, c.RemoveGroupListener(id))
	a.Toggle()
	assert.Equal(t, 1, calls)
}

func TestDetachForcesOffAndHealsGroup(t *testing.T) {
	c := NewCoordinator(NewRegistry())
	a := newButton("a", "modes", true)
	b := newButton("b", "modes", true)
	c.Attach(a)
	c.Attach(b)
	require.True(t, a.Selected())

	var changes []bool
	a.SetOnChangeListener(func(s bool) { changes = append(changes, s) })

	c.Detach(a)

	assert.False(t, a.Selected())
	assert.False(t, a.Attached())
	assert.Equal(t, []bool{false}, changes)
	assert.Equal(t, []string{"b"}, ids(c.Members("modes")))
	assert.True(t, b.Selected())

	// Detached buttons are free again.
	assert.True(t, a.SetSelected(true))
	assert.True(t, a.SetSelected(false))

	_, err := c.Button("a")
	assert.ErrorIs(t, err, ErrUnknownButton)
}

func TestDetachUnknownIsNoop(t *testing.T) {
	c := NewCoordinator(NewRegistry())
	a := newButton("a", "modes", true)
	assert.NotPanics(t, func() { c.Detach(a) })
	assert.False(t, a.Attached())
}

func TestSetGroupMovesButton(t *testing.T) {
	c := NewCoordinator(NewRegistry())
	a := newButton("a", "left", true)
	b := newButton("b", "left", true)
	x := newButton("x", "right", true)
	c.Attach(a)
	c.Attach(b)
	c.Attach(x)
	require.True(t, a.Selected())
	require.True(t, x.Selected())

	require.True(t, a.SetGroup("right"))

	assert.Equal(t, []string{"b"}, ids(c.Members("left")))
	assert.Equal(t, []string{"x", "a"}, ids(c.Members("right")))
	assert.True(t, b.Selected(), "left group healed after losing its selection")
	assert.True(t, a.Selected(), "moved selected button wins its new group")
	assert.False(t, x.Selected())

	assert.False(t, a.SetGroup("right"), "unchanged group is not a change")
}

func TestSetGroupToUngrouped(t *testing.T) {
	c := NewCoordinator(NewRegistry())
	a := newButton("a", "g", true)
	c.Attach(a)
	require.True(t, a.Selected())

	a.SetGroup("")
	assert.Empty(t, c.Members("g"))
	assert.True(t, a.SetSelected(false))
}

func TestReset(t *testing.T) {
	c := NewCoordinator(NewRegistry())
	a := newButton("a", "g", false)
	b := newButton("b", "g", false)
	d := newButton("c", "g", false)
	for _, btn := range []*Button{a, b, d} {
		c.Attach(btn)
		btn.SetSelected(true)
	}

	c.Reset("g", b)
	assert.Equal(t, []string{"b"}, ids(c.Selection("g")))

	c.Reset("g", nil)
	assert.False(t, c.HasSelection("g"))
}

func TestResetKeepsExclusiveSelection(t *testing.T) {
	c := NewCoordinator(NewRegistry())
	a := newButton("a", "g", true)
	b := newButton("b", "g", true)
	c.Attach(a)
	c.Attach(b)

	c.Reset("g", nil)
	assert.True(t, a.Selected())
}

func TestWatchersSeeForcedChanges(t *testing.T) {
	c := NewCoordinator(NewRegistry())
	a := newButton("a", "g", true)
	b := newButton("b", "g", true)
	c.Attach(a)
	c.Attach(b)

	var redraws []string
	watch := func(btn *Button, selection bool) {
		if selection {
			redraws = append(redraws, btn.ID())
		}
	}
	a.Watch(watch)
	b.Watch(watch)

	b.SetSelected(true)
	assert.Equal(t, []string{"a", "b"}, redraws)
}

func TestAttachToAnotherCoordinatorMovesButton(t *testing.T) {
	first := NewCoordinator(NewRegistry())
	second := NewCoordinator(NewRegistry())
	a := newButton("a", "g", true)

	first.Attach(a)
	second.Attach(a)

	assert.Empty(t, first.Members("g"))
	assert.Equal(t, []string{"a"}, ids(second.Members("g")))
	assert.True(t, a.Selected())
}
