package modules

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/sctoggle/internal/eventbus"
	"github.com/dokzlo13/sctoggle/internal/palette"
	"github.com/dokzlo13/sctoggle/internal/toggle"
)

// ToggleHost is the button world the toggle module drives.
type ToggleHost interface {
	Coordinator() *toggle.Coordinator
	// Advance moves the frame clock forward and samples running animations.
	Advance(d time.Duration)
	// Render draws a button to path, or to its default output when path is
	// empty, and returns the written path.
	Render(id, path string) (string, error)
}

// ToggleModule exposes buttons and groups to Lua.
//
// Query and command functions return nil plus an error message for unknown
// buttons, like the other modules.
type ToggleModule struct {
	host ToggleHost
	subs map[eventbus.Subscription]struct{}
}

// NewToggleModule creates a new toggle module
func NewToggleModule(host ToggleHost) *ToggleModule {
	return &ToggleModule{host: host, subs: make(map[eventbus.Subscription]struct{})}
}

// Loader is the module loader for Lua
func (m *ToggleModule) Loader(L *lua.LState) int {
	mod := L.NewTable()

	L.SetFuncs(mod, map[string]lua.LGFunction{
		"tap":             m.tap,
		"set":             m.set,
		"selected":        m.selected,
		"info":            m.info,
		"configure":       m.configure,
		"members":         m.members,
		"selection":       m.selection,
		"has_selection":   m.hasSelection,
		"reset":           m.reset,
		"advance":         m.advance,
		"render":          m.render,
		"on_group_change": m.onGroupChange,
		"off":             m.off,
	})

	L.Push(mod)
	return 1
}

// Close removes every group listener registered from Lua.
func (m *ToggleModule) Close() {
	coord := m.host.Coordinator()
	for id := range m.subs {
		coord.RemoveGroupListener(id)
	}
	clear(m.subs)
}

func (m *ToggleModule) button(L *lua.LState, arg int) (*toggle.Button, bool) {
	b, err := m.host.Coordinator().Button(L.CheckString(arg))
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return nil, false
	}
	return b, true
}

// tap(id) -> applied
func (m *ToggleModule) tap(L *lua.LState) int {
	b, ok := m.button(L, 1)
	if !ok {
		return 2
	}
	L.Push(lua.LBool(b.Tap()))
	return 1
}

// set(id, selected) -> applied
func (m *ToggleModule) set(L *lua.LState) int {
	b, ok := m.button(L, 1)
	if !ok {
		return 2
	}
	L.Push(lua.LBool(b.SetSelected(L.CheckBool(2))))
	return 1
}

// selected(id) -> bool
func (m *ToggleModule) selected(L *lua.LState) int {
	b, ok := m.button(L, 1)
	if !ok {
		return 2
	}
	L.Push(lua.LBool(b.Selected()))
	return 1
}

// info(id) -> {id, kind, group, selected, label, only_one_selected}
func (m *ToggleModule) info(L *lua.LState) int {
	b, ok := m.button(L, 1)
	if !ok {
		return 2
	}
	attrs := b.Attributes()
	L.Push(GoToLuaValue(L, map[string]any{
		"id":                b.ID(),
		"kind":              b.Kind().String(),
		"group":             attrs.Group,
		"selected":          b.Selected(),
		"label":             attrs.Label(b.Selected()),
		"only_one_selected": attrs.OnlyOneSelected,
	}))
	return 1
}

// configure(id, opts) -> changed
// opts: group, only_one_selected, text, text_on, text_off, show_led, animate,
// all_caps, filling, text_align, on_color, off_color, font_size, stroke_size, corner_radius
func (m *ToggleModule) configure(L *lua.LState) int {
	b, ok := m.button(L, 1)
	if !ok {
		return 2
	}
	opts := L.CheckTable(2)

	var bad []string
	changed := b.Configure(func(a *toggle.Attributes) {
		opts.ForEach(func(k, v lua.LValue) {
			if !applyOption(a, lua.LVAsString(k), v) {
				bad = append(bad, lua.LVAsString(k))
			}
		})
	})
	if len(bad) > 0 {
		log.Warn().Str("button", b.ID()).Strs("options", bad).Msg("Ignored invalid button options")
	}

	L.Push(lua.LBool(changed))
	return 1
}

func applyOption(a *toggle.Attributes, key string, v lua.LValue) bool {
	switch key {
	case "group":
		a.Group = lua.LVAsString(v)
	case "only_one_selected":
		a.OnlyOneSelected = lua.LVAsBool(v)
	case "show_led":
		a.ShowLed = lua.LVAsBool(v)
	case "animate":
		a.Animate = lua.LVAsBool(v)
	case "all_caps":
		a.AllCaps = lua.LVAsBool(v)
	case "text":
		a.Text = optText(v)
	case "text_on":
		a.TextOn = optText(v)
	case "text_off":
		a.TextOff = optText(v)
	case "font_size":
		a.FontSize = float64(lua.LVAsNumber(v))
	case "stroke_size":
		a.StrokeSize = float64(lua.LVAsNumber(v))
	case "corner_radius":
		a.CornerRadius = float64(lua.LVAsNumber(v))
	case "filling":
		fill, ok := palette.ParseFillMode(lua.LVAsString(v))
		if !ok {
			return false
		}
		a.Filling = fill
	case "text_align":
		align, ok := toggle.ParseTextAlign(lua.LVAsString(v))
		if !ok {
			return false
		}
		a.TextAlign = align
	case "on_color", "off_color":
		c, err := palette.Parse(lua.LVAsString(v))
		if err != nil {
			return false
		}
		if key == "on_color" {
			a.OnColor = c
		} else {
			a.OffColor = c
		}
	default:
		return false
	}
	return true
}

// optText maps false to "not set"; any other value becomes the text.
func optText(v lua.LValue) *string {
	if v == lua.LFalse || v == lua.LNil {
		return nil
	}
	return toggle.String(lua.LVAsString(v))
}

func idList(L *lua.LState, buttons []*toggle.Button) *lua.LTable {
	tbl := L.CreateTable(len(buttons), 0)
	for _, b := range buttons {
		tbl.Append(lua.LString(b.ID()))
	}
	return tbl
}

// members(group) -> {id, ...} in registration order
func (m *ToggleModule) members(L *lua.LState) int {
	L.Push(idList(L, m.host.Coordinator().Members(L.CheckString(1))))
	return 1
}

// selection(group) -> {id, ...}
func (m *ToggleModule) selection(L *lua.LState) int {
	L.Push(idList(L, m.host.Coordinator().Selection(L.CheckString(1))))
	return 1
}

// has_selection(group) -> bool
func (m *ToggleModule) hasSelection(L *lua.LState) int {
	L.Push(lua.LBool(m.host.Coordinator().HasSelection(L.CheckString(1))))
	return 1
}

// reset(group[, excluded_id])
func (m *ToggleModule) reset(L *lua.LState) int {
	coord := m.host.Coordinator()
	var excluded *toggle.Button
	if id := L.OptString(2, ""); id != "" {
		b, ok := m.button(L, 2)
		if !ok {
			return 2
		}
		excluded = b
	}
	coord.Reset(L.CheckString(1), excluded)
	return 0
}

// MaxAdvance bounds a single advance call.
const MaxAdvance = time.Minute

// advance(ms)
func (m *ToggleModule) advance(L *lua.LState) int {
	ms := L.CheckNumber(1)
	if ms < 0 {
		L.ArgError(1, "must not be negative")
	}
	if float64(ms) > float64(MaxAdvance/time.Millisecond) {
		L.ArgError(1, fmt.Sprintf("must not exceed %d ms", MaxAdvance.Milliseconds()))
	}
	m.host.Advance(time.Duration(float64(ms) * float64(time.Millisecond)))
	return 0
}

// render(id[, path]) -> path
func (m *ToggleModule) render(L *lua.LState) int {
	path, err := m.host.Render(L.CheckString(1), L.OptString(2, ""))
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LString(path))
	return 1
}

// on_group_change(fn) -> subscription
// fn receives (id, selected, group).
func (m *ToggleModule) onGroupChange(L *lua.LState) int {
	fn := L.CheckFunction(1)

	id := m.host.Coordinator().OnGroupChange(func(b *toggle.Button) {
		err := L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true},
			lua.LString(b.ID()), lua.LBool(b.Selected()), lua.LString(b.Group()))
		if err != nil {
			log.Error().Err(err).Str("button", b.ID()).Msg("Lua group listener failed")
		}
	})
	m.subs[id] = struct{}{}

	L.Push(lua.LString(id))
	return 1
}

// off(subscription) -> removed
func (m *ToggleModule) off(L *lua.LState) int {
	id := eventbus.Subscription(L.CheckString(1))
	delete(m.subs, id)
	L.Push(lua.LBool(m.host.Coordinator().RemoveGroupListener(id)))
	return 1
}
