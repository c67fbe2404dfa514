package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dokzlo13/sctoggle/internal/config"
	"github.com/dokzlo13/sctoggle/internal/db"
	"github.com/dokzlo13/sctoggle/internal/ledger"
	"github.com/dokzlo13/sctoggle/internal/storage"
)

func newButtonService(t *testing.T, doc string) *ButtonService {
	t.Helper()
	cfg, err := config.Parse([]byte(doc))
	require.NoError(t, err)
	cfg.Surface.OutputDir = t.TempDir()

	database, err := db.Open(db.Memory)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	s := NewButtonService(cfg, storage.NewStore(database.DB), ledger.New(database.DB))
	t.Cleanup(s.Close)
	require.NoError(t, s.Load())
	return s
}

func TestLoadSizesWidgetsFromConfig(t *testing.T) {
	s := newButtonService(t, `
surface:
  width: 120
buttons:
  - id: power
    kind: switch
    width: 96
    height: 48
  - id: mode
`)

	width, height := s.entries["power"].widget.Size()
	assert.Equal(t, 96, width)
	assert.Equal(t, 48, height)

	width, height = s.entries["mode"].widget.Size()
	assert.Equal(t, 120, width)
	assert.Equal(t, 48, height)
}

func TestRenderKeepsRunningThumbAnimation(t *testing.T) {
	s := newButtonService(t, `
buttons:
  - id: power
    kind: switch
    width: 96
    height: 48
`)
	power, err := s.Coordinator().Button("power")
	require.NoError(t, err)
	w := s.entries["power"].widget

	power.Tap()
	require.True(t, w.Animating())
	assert.Equal(t, 48, w.Thumb().Target())

	s.Advance(50 * time.Millisecond)
	mid := w.Thumb().Offset()
	assert.Greater(t, mid, 0)
	assert.Less(t, mid, 48)

	_, err = s.Render("power", filepath.Join(t.TempDir(), "power.png"))
	require.NoError(t, err)
	assert.True(t, w.Animating())
	assert.Equal(t, 48, w.Thumb().Target())
	assert.Equal(t, mid, w.Thumb().Offset())

	s.Settle()
	assert.False(t, w.Animating())
	assert.Equal(t, 48, w.Thumb().Offset())
}
