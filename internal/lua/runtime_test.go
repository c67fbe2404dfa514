package lua

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dokzlo13/sctoggle/internal/toggle"
)

type fakeHost struct {
	coord    *toggle.Coordinator
	advanced time.Duration
	rendered []string
}

func newFakeHost(ids ...string) *fakeHost {
	h := &fakeHost{coord: toggle.NewCoordinator(toggle.NewRegistry())}
	for _, id := range ids {
		attrs := toggle.DefaultAttributes(toggle.KindToggle)
		attrs.Group = "modes"
		attrs.Text = toggle.String(id)
		h.coord.Attach(toggle.New(id, toggle.KindToggle, attrs, false))
	}
	return h
}

func (h *fakeHost) Coordinator() *toggle.Coordinator { return h.coord }

func (h *fakeHost) Advance(d time.Duration) { h.advanced += d }

func (h *fakeHost) Render(id, path string) (string, error) {
	if _, err := h.coord.Button(id); err != nil {
		return "", err
	}
	if path == "" {
		path = fmt.Sprintf("out/%s.png", id)
	}
	h.rendered = append(h.rendered, path)
	return path, nil
}

func newRuntime(t *testing.T, host *fakeHost) *Runtime {
	t.Helper()
	r := NewRuntime(host, "test.lua", 0)
	t.Cleanup(r.Close)
	return r
}

func TestScriptDrivesGroup(t *testing.T) {
	host := newFakeHost("a", "b", "c")
	r := newRuntime(t, host)

	require.NoError(t, r.Exec(`
		local toggle = require("toggle")
		assert(toggle.selected("a"), "first member selected")
		assert(toggle.tap("b") == true)
		assert(toggle.set("b", false) == false, "last selection is kept")
		local sel = toggle.selection("modes")
		assert(#sel == 1 and sel[1] == "b")
		local members = toggle.members("modes")
		assert(#members == 3 and members[3] == "c")
		assert(toggle.has_selection("modes"))
		assert(not toggle.has_selection("other"))
	`))

	b, err := host.coord.Button("b")
	require.NoError(t, err)
	assert.True(t, b.Selected())
}

func TestScriptGroupListener(t *testing.T) {
	host := newFakeHost("a", "b")
	r := newRuntime(t, host)

	require.NoError(t, r.Exec(`
		local toggle = require("toggle")
		seen = {}
		sub = toggle.on_group_change(function(id, selected, group)
			table.insert(seen, id .. ":" .. tostring(selected) .. ":" .. group)
		end)
		toggle.tap("b")
		assert(toggle.off(sub) == true)
		assert(toggle.off(sub) == false)
		toggle.tap("a")
		assert(#seen == 1, "listener removed")
		assert(seen[1] == "b:true:modes", seen[1])
	`))
}

func TestScriptListenerErrorIsContained(t *testing.T) {
	host := newFakeHost("a", "b")
	r := newRuntime(t, host)

	require.NoError(t, r.Exec(`
		local toggle = require("toggle")
		toggle.on_group_change(function() error("boom") end)
		assert(toggle.tap("b") == true)
	`))
	b, _ := host.coord.Button("b")
	assert.True(t, b.Selected())
}

func TestScriptUnknownButton(t *testing.T) {
	r := newRuntime(t, newFakeHost("a"))
	require.NoError(t, r.Exec(`
		local toggle = require("toggle")
		local ok, err = toggle.tap("missing")
		assert(ok == nil)
		assert(string.find(err, "unknown button"), err)
	`))
}

func TestScriptConfigureResetAndInfo(t *testing.T) {
	host := newFakeHost("a", "b", "c")
	r := newRuntime(t, host)

	require.NoError(t, r.Exec(`
		local toggle = require("toggle")
		assert(toggle.configure("a", {only_one_selected = false}))
		toggle.set("b", true)
		toggle.set("c", true)
		toggle.reset("modes", "c")
		local info = toggle.info("c")
		assert(info.selected and info.label == "C" and info.group == "modes")
		assert(toggle.configure("b", {group = "solo", text = false}))
		assert(toggle.info("b").label == "")
		assert(toggle.configure("b", {group = "solo"}) == false)
	`))

	assert.Equal(t, []string{"solo"}, idsOf(host.coord.Members("solo")))
	assert.Equal(t, []string{"c"}, idsOf(host.coord.Selection("modes")))
}

func TestScriptAdvanceAndRender(t *testing.T) {
	host := newFakeHost("a")
	r := newRuntime(t, host)

	require.NoError(t, r.Exec(`
		local toggle = require("toggle")
		local log = require("log")
		toggle.advance(40)
		toggle.advance(60)
		local path = toggle.render("a")
		log.info("rendered", {path = path, frames = {1, 2}})
		assert(toggle.render("a", "custom.png") == "custom.png")
	`))

	assert.Equal(t, 100*time.Millisecond, host.advanced)
	assert.Equal(t, []string{"out/a.png", "custom.png"}, host.rendered)
}

func TestScriptAdvanceRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		chunk  string
		errMsg string
	}{
		{"negative", `require("toggle").advance(-1)`, "must not be negative"},
		{"huge", `require("toggle").advance(1e12)`, "must not exceed 60000 ms"},
		{"overflow", `require("toggle").advance(1e300)`, "must not exceed 60000 ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := newFakeHost("a")
			r := newRuntime(t, host)

			err := r.Exec(tt.chunk)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.Zero(t, host.advanced)
		})
	}

	host := newFakeHost("a")
	r := newRuntime(t, host)
	require.NoError(t, r.Exec(`require("toggle").advance(60000)`))
	assert.Equal(t, time.Minute, host.advanced)
}

func TestScriptErrorsAreReturned(t *testing.T) {
	r := newRuntime(t, newFakeHost())
	err := r.Exec(`error("bad script")`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad script")

	assert.Error(t, r.LoadScript("does-not-exist.lua"))
}

func TestWorkRunsOnWorker(t *testing.T) {
	host := newFakeHost("a", "b")
	r := NewRuntime(host, "", 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	err := r.DoSync(ctx, func(context.Context) error {
		return r.Exec(`require("toggle").tap("b")`)
	})
	require.NoError(t, err)

	sentinel := errors.New("from work")
	assert.ErrorIs(t, r.DoSync(ctx, func(context.Context) error { return sentinel }), sentinel)

	err = r.DoSync(ctx, func(context.Context) error { panic("recovered") })
	assert.ErrorContains(t, err, "recovered")

	cancel()
	<-done
	r.Close()
	assert.ErrorIs(t, r.DoSync(context.Background(), func(context.Context) error { return nil }), ErrRuntimeClosed)
	assert.False(t, r.Do(context.Background(), func(context.Context) {}))

	b, _ := host.coord.Button("b")
	assert.True(t, b.Selected())
}

func idsOf(buttons []*toggle.Button) []string {
	out := make([]string, len(buttons))
	for i, b := range buttons {
		out[i] = b.ID()
	}
	return out
}
