package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/sctoggle/internal/config"
	"github.com/dokzlo13/sctoggle/internal/ledger"
)

// App is the main application container that manages all services and their lifecycle.
type App struct {
	cfg      *config.Config
	services *Services

	closeOnce sync.Once
}

// New creates a new App instance with all services initialized but not started.
func New(cfg *config.Config) (*App, error) {
	services, err := NewServices(cfg)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:      cfg,
		services: services,
	}, nil
}

// Run performs a single pass: load, script, settle, render, persist.
// The provided context is used for cancellation.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.services.Run(ctx); err != nil {
		return err
	}

	log.Info().Msg("sctoggle finished")
	return nil
}

// ClearState clears the stored button state.
// This is useful for resetting state on startup with --reset-state flag.
func (a *App) ClearState() error {
	if a.services != nil {
		return a.services.ClearState()
	}
	return nil
}

// History returns the newest n recorded selection changes.
func (a *App) History(n int) ([]*ledger.Entry, error) {
	return a.services.Ledger.Recent(n)
}

// Close releases all resources. It is safe to call more than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		if a.services != nil {
			a.services.Close()
		}
	})
}

// SignalContext creates a context that is cancelled when SIGINT or SIGTERM is received.
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	return ctx
}
