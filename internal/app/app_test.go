package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dokzlo13/sctoggle/internal/config"
	"github.com/dokzlo13/sctoggle/internal/ledger"
	"github.com/dokzlo13/sctoggle/internal/toggle"
)

const buttonsYAML = `
buttons:
  - id: day
    group: mode
    selected: true
    text: Day
  - id: night
    group: mode
    text: %s
  - id: power
    kind: switch
    text_on: "On"
    text_off: "Off"
`

type fixture struct {
	dir    string
	db     string
	out    string
	script string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	return fixture{
		dir: dir,
		db:  filepath.Join(dir, "state.sqlite"),
		out: filepath.Join(dir, "out"),
	}
}

func (f *fixture) withScript(t *testing.T, source string) {
	t.Helper()
	f.script = filepath.Join(f.dir, "main.lua")
	require.NoError(t, os.WriteFile(f.script, []byte(source), 0o644))
}

func (f fixture) config(t *testing.T, nightText string) *config.Config {
	t.Helper()
	doc := fmt.Sprintf("database:\n  path: %s\nsurface:\n  output_dir: %s\n", f.db, f.out)
	if f.script != "" {
		doc += fmt.Sprintf("script: %s\n", f.script)
	}
	doc += fmt.Sprintf(buttonsYAML, nightText)

	cfg, err := config.Parse([]byte(doc))
	require.NoError(t, err)
	return cfg
}

func run(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	require.NoError(t, a.Run(context.Background()))
	return a
}

func button(t *testing.T, a *App, id string) *toggle.Button {
	t.Helper()
	b, err := a.services.Buttons.Coordinator().Button(id)
	require.NoError(t, err)
	return b
}

func TestRunRendersEveryButton(t *testing.T) {
	f := newFixture(t)
	a := run(t, f.config(t, "Night"))

	for _, id := range []string{"day", "night", "power"} {
		info, err := os.Stat(filepath.Join(f.out, id+".png"))
		require.NoError(t, err, id)
		assert.Positive(t, info.Size())
	}
	assert.True(t, button(t, a, "day").Selected())
	assert.False(t, button(t, a, "night").Selected())
	assert.False(t, button(t, a, "power").Selected())
}

func TestRunExecutesScript(t *testing.T) {
	f := newFixture(t)
	f.withScript(t, `
		local toggle = require("toggle")
		toggle.tap("night")
		toggle.set("power", true)
		toggle.render("power", "`+filepath.ToSlash(filepath.Join(f.dir, "extra.png"))+`")
	`)
	a := run(t, f.config(t, "Night"))

	assert.False(t, button(t, a, "day").Selected())
	assert.True(t, button(t, a, "night").Selected())
	assert.True(t, button(t, a, "power").Selected())
	assert.FileExists(t, filepath.Join(f.dir, "extra.png"))

	entries, err := a.History(10)
	require.NoError(t, err)

	var group, single *ledger.Entry
	for _, e := range entries {
		switch {
		case e.Source == ledger.SourceGroup && e.ButtonID == "night":
			group = e
		case e.Source == ledger.SourceButton && e.ButtonID == "power":
			single = e
		}
	}
	require.NotNil(t, group)
	assert.Equal(t, "mode", group.Group)
	assert.True(t, group.Selected)
	assert.Equal(t, []any{"night"}, group.Payload["selection"])

	require.NotNil(t, single)
	assert.True(t, single.Selected)
	assert.Empty(t, single.Group)
}

func TestRunFailsOnBrokenScript(t *testing.T) {
	f := newFixture(t)
	f.withScript(t, `this is not lua`)

	a, err := New(f.config(t, "Night"))
	require.NoError(t, err)
	t.Cleanup(a.Close)
	assert.Error(t, a.Run(context.Background()))
}

func TestStateSurvivesRestart(t *testing.T) {
	f := newFixture(t)
	f.withScript(t, `
		local toggle = require("toggle")
		toggle.tap("night")
		toggle.set("power", true)
		toggle.configure("power", { text_on = "Running" })
	`)
	first := run(t, f.config(t, "Night"))
	first.Close()

	f.script = ""
	second := run(t, f.config(t, "Night"))

	assert.False(t, button(t, second, "day").Selected())
	assert.True(t, button(t, second, "night").Selected())

	power := button(t, second, "power")
	assert.True(t, power.Selected())
	require.NotNil(t, power.Attributes().TextOn)
	assert.Equal(t, "Running", *power.Attributes().TextOn)

	entries, err := second.History(20)
	require.NoError(t, err)
	var restored int
	for _, e := range entries {
		if e.Source == ledger.SourceRestore {
			restored++
		}
	}
	assert.Equal(t, 3, restored)
}

func TestChangedConfigRestoresSelectionOnly(t *testing.T) {
	f := newFixture(t)
	f.withScript(t, `
		local toggle = require("toggle")
		toggle.tap("night")
		toggle.configure("night", { text = "Moon" })
	`)
	first := run(t, f.config(t, "Night"))
	first.Close()

	f.script = ""
	second := run(t, f.config(t, "Dark"))

	night := button(t, second, "night")
	assert.True(t, night.Selected())
	require.NotNil(t, night.Attributes().Text)
	assert.Equal(t, "Dark", *night.Attributes().Text)
}

func TestClearState(t *testing.T) {
	f := newFixture(t)
	f.withScript(t, `require("toggle").tap("night")`)
	first := run(t, f.config(t, "Night"))
	first.Close()

	f.script = ""
	second, err := New(f.config(t, "Night"))
	require.NoError(t, err)
	t.Cleanup(second.Close)
	require.NoError(t, second.ClearState())
	require.NoError(t, second.Run(context.Background()))

	assert.True(t, button(t, second, "day").Selected())
	assert.False(t, button(t, second, "night").Selected())
}

func TestRemovedButtonStateIsDropped(t *testing.T) {
	f := newFixture(t)
	first := run(t, f.config(t, "Night"))
	first.Close()

	cfg := f.config(t, "Night")
	cfg.Buttons = cfg.Buttons[:2]
	second := run(t, cfg)

	saved, err := second.services.Buttons.states.LoadAll()
	require.NoError(t, err)
	assert.Len(t, saved, 2)
	assert.NotContains(t, saved, "power")
}
