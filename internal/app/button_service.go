package app

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/sctoggle/internal/config"
	"github.com/dokzlo13/sctoggle/internal/ledger"
	"github.com/dokzlo13/sctoggle/internal/render"
	"github.com/dokzlo13/sctoggle/internal/state"
	"github.com/dokzlo13/sctoggle/internal/storage"
	"github.com/dokzlo13/sctoggle/internal/thumb"
	"github.com/dokzlo13/sctoggle/internal/toggle"
)

// epoch is where the frame clock starts. Only durations matter.
var epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

const defaultFrameInterval = 16 * time.Millisecond

type entry struct {
	widget *render.Widget
	width  int
	height int
	// fingerprint identifies the configured attributes the button was built from.
	fingerprint string
}

// hostState is saved under a bag's PARENT key.
type hostState struct {
	Config string `json:"config"`
}

func fingerprint(b *toggle.Button) (string, error) {
	bag := state.Save(b)
	bag.Selected = false
	data, err := json.Marshal(bag)
	if err != nil {
		return "", fmt.Errorf("failed to fingerprint button %q: %w", b.ID(), err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8]), nil
}

// ButtonService owns the configured buttons, their widgets and the frame clock.
// It must only be used from the Lua worker goroutine.
type ButtonService struct {
	cfg    *config.Config
	coord  *toggle.Coordinator
	clock  *thumb.ManualClock
	states *storage.Typed[state.Bag]
	ledger *ledger.Ledger

	entries map[string]*entry
	order   []string
}

// NewButtonService creates an empty button service.
func NewButtonService(cfg *config.Config, store *storage.Store, l *ledger.Ledger) *ButtonService {
	return &ButtonService{
		cfg:     cfg,
		coord:   toggle.NewCoordinator(toggle.NewRegistry()),
		clock:   thumb.NewManualClock(epoch),
		states:  storage.NewTyped[state.Bag](store, state.Kind),
		ledger:  l,
		entries: make(map[string]*entry),
	}
}

// Coordinator returns the coordinator all buttons are attached to.
func (s *ButtonService) Coordinator() *toggle.Coordinator {
	return s.coord
}

// Load creates the configured buttons, applies any saved state and attaches
// them in configuration order.
func (s *ButtonService) Load() error {
	saved, err := s.states.LoadAll()
	if err != nil {
		return fmt.Errorf("failed to load button state: %w", err)
	}

	for _, bc := range s.cfg.Buttons {
		kind, attrs, err := bc.Build()
		if err != nil {
			return fmt.Errorf("button %q: %w", bc.ID, err)
		}
		b := toggle.New(bc.ID, kind, attrs, bc.Selected)
		configured, err := fingerprint(b)
		if err != nil {
			return err
		}

		if bag, ok := saved[bc.ID]; ok {
			s.restore(b, bag, configured)
		}

		width, height := bc.Size(s.cfg.Surface, kind)
		widget := render.NewWidget(b, s.clock, s.cfg.Animation.Duration.Duration())
		widget.Resize(width, height)
		s.entries[bc.ID] = &entry{
			widget:      widget,
			width:       width,
			height:      height,
			fingerprint: configured,
		}
		s.order = append(s.order, bc.ID)

		b.SetOnChangeListener(func(selected bool) {
			if b.Group() == "" {
				s.record(b, ledger.SourceButton, nil)
			}
		})
		s.coord.Attach(b)
	}

	s.coord.OnGroupChange(func(b *toggle.Button) {
		s.record(b, ledger.SourceGroup, map[string]any{"selection": ids(s.coord.Selection(b.Group()))})
	})

	log.Info().Int("buttons", len(s.order)).Strs("groups", s.coord.Registry().Groups()).Msg("Buttons loaded")
	return nil
}

// restore applies saved state to a detached button. Attributes are restored
// only while the configuration they were saved under is unchanged; otherwise
// the configuration wins and only the selection carries over.
func (s *ButtonService) restore(b *toggle.Button, bag state.Bag, configured string) {
	if bag.Kind != b.Kind().String() {
		log.Warn().Str("button", b.ID()).Str("saved", bag.Kind).Msg("Saved state is for another kind, ignoring")
		return
	}

	var host hostState
	if len(bag.Parent) > 0 {
		if err := json.Unmarshal(bag.Parent, &host); err != nil {
			log.Warn().Err(err).Str("button", b.ID()).Msg("Malformed host state")
		}
	}

	if host.Config == configured {
		state.Restore(b, bag)
	} else {
		log.Info().Str("button", b.ID()).Msg("Configuration changed, restoring selection only")
		b.SetSelected(bag.Selected)
	}
	s.record(b, ledger.SourceRestore, nil)
}

// Advance moves the frame clock forward by d in frame-interval steps,
// sampling every widget at each step.
func (s *ButtonService) Advance(d time.Duration) {
	step := s.frameInterval()
	for d > 0 {
		dt := min(step, d)
		s.clock.Advance(dt)
		d -= dt
		s.tick()
	}
}

// Settle advances the clock until no animation is running.
func (s *ButtonService) Settle() {
	// A running animation ends within one duration; the extra frame covers
	// truncation of the last step.
	step := s.frameInterval()
	limit := s.cfg.Animation.Duration.Duration() + step
	for elapsed := time.Duration(0); s.animating() && elapsed <= limit; elapsed += step {
		s.Advance(step)
	}
}

func (s *ButtonService) frameInterval() time.Duration {
	if d := s.cfg.Animation.FrameInterval.Duration(); d > 0 {
		return d
	}
	return defaultFrameInterval
}

func (s *ButtonService) tick() {
	for _, id := range s.order {
		s.entries[id].widget.Tick()
	}
}

func (s *ButtonService) animating() bool {
	for _, e := range s.entries {
		if e.widget.Animating() {
			return true
		}
	}
	return false
}

// Render draws the button to path, or to <output_dir>/<id>.png when path is
// empty, and returns the written path.
func (s *ButtonService) Render(id, path string) (string, error) {
	e, ok := s.entries[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", toggle.ErrUnknownButton, id)
	}
	if path == "" {
		path = filepath.Join(s.cfg.Surface.OutputDir, id+".png")
	}

	canvas, err := render.NewCanvas(e.width, e.height)
	if err != nil {
		return "", err
	}
	defer canvas.Release()

	e.widget.Draw(canvas)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := canvas.SavePNG(path); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	log.Debug().Str("button", id).Str("path", path).Msg("Rendered button")
	return path, nil
}

// RenderAll renders every button to its default path.
func (s *ButtonService) RenderAll() ([]string, error) {
	var paths []string
	for _, id := range s.order {
		path, err := s.Render(id, "")
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Persist saves every button and drops saved state of buttons no longer configured.
func (s *ButtonService) Persist() error {
	for _, id := range s.order {
		e := s.entries[id]
		bag := state.Save(e.widget.Button())
		parent, err := json.Marshal(hostState{Config: e.fingerprint})
		if err != nil {
			return err
		}
		bag.Parent = parent
		if _, err := s.states.Save(id, bag); err != nil {
			return fmt.Errorf("failed to save button %q: %w", id, err)
		}
	}

	saved, err := s.states.LoadAll()
	if err != nil {
		return fmt.Errorf("failed to load button state: %w", err)
	}
	for id := range saved {
		if _, ok := s.entries[id]; ok {
			continue
		}
		if err := s.states.Delete(id); err != nil {
			return fmt.Errorf("failed to delete stale state %q: %w", id, err)
		}
		log.Info().Str("button", id).Msg("Dropped state of removed button")
	}
	return nil
}

// Close releases widget resources.
func (s *ButtonService) Close() {
	for _, e := range s.entries {
		e.widget.Release()
	}
}

func (s *ButtonService) record(b *toggle.Button, source ledger.Source, payload map[string]any) {
	if err := s.ledger.Record(b.ID(), b.Group(), b.Selected(), source, payload); err != nil {
		log.Error().Err(err).Str("button", b.ID()).Msg("Failed to record selection")
	}
}

func ids(buttons []*toggle.Button) []string {
	out := make([]string, len(buttons))
	for i, b := range buttons {
		out[i] = b.ID()
	}
	return out
}
