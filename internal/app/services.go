package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/sctoggle/internal/config"
	"github.com/dokzlo13/sctoggle/internal/db"
	"github.com/dokzlo13/sctoggle/internal/ledger"
	"github.com/dokzlo13/sctoggle/internal/storage"
)

// Services is a container for all application services.
// It manages service initialization order and dependencies.
type Services struct {
	cfg *config.Config

	// Core infrastructure
	DB     *db.DB
	Ledger *ledger.Ledger
	Store  *storage.Store

	Buttons *ButtonService
	Lua     *LuaService
}

// NewServices creates all services with proper dependency injection.
func NewServices(cfg *config.Config) (*Services, error) {
	s := &Services{cfg: cfg}

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	s.DB = database

	s.Ledger = ledger.New(database.DB)
	s.Store = storage.NewStore(database.DB)

	s.Buttons = NewButtonService(cfg, s.Store, s.Ledger)
	s.Lua = NewLuaService(cfg, s.Buttons)

	return s, nil
}

// Run loads the buttons, runs the script, lets animations settle, renders
// every button and persists the result. All button work runs on the Lua worker.
func (s *Services) Run(ctx context.Context) error {
	if retention := s.cfg.Ledger.Retention.Duration(); retention > 0 {
		removed, err := s.Ledger.DeleteOlderThan(retention)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to prune selection history")
		} else if removed > 0 {
			log.Info().Int64("removed", removed).Msg("Pruned selection history")
		}
	}

	s.Lua.Start(ctx)

	if err := s.Lua.Do(ctx, s.Buttons.Load); err != nil {
		return err
	}
	if err := s.Lua.LoadScript(ctx); err != nil {
		return err
	}

	return s.Lua.Do(ctx, func() error {
		s.Buttons.Settle()

		paths, err := s.Buttons.RenderAll()
		if err != nil {
			return fmt.Errorf("failed to render buttons: %w", err)
		}
		log.Info().Int("count", len(paths)).Str("dir", s.cfg.Surface.OutputDir).Msg("Rendered buttons")

		return s.Buttons.Persist()
	})
}

// ClearState clears all persisted button state.
func (s *Services) ClearState() error {
	n, err := s.Store.Clear("")
	if err != nil {
		return err
	}
	log.Info().Int64("rows", n).Msg("Cleared stored state")
	return nil
}

// Close releases all resources.
func (s *Services) Close() {
	if s.Lua != nil {
		s.Lua.Close()
	}
	if s.Buttons != nil {
		s.Buttons.Close()
	}
	if s.DB != nil {
		s.DB.Close()
	}
}
