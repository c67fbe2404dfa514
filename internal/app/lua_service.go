package app

import (
	"context"

	"github.com/dokzlo13/sctoggle/internal/config"
	luart "github.com/dokzlo13/sctoggle/internal/lua"
)

// LuaService wraps the Lua runtime. Its worker goroutine is the UI thread:
// button work is only ever run through it.
type LuaService struct {
	cfg     *config.Config
	Runtime *luart.Runtime

	cancel context.CancelFunc
	done   chan struct{}
}

// NewLuaService creates a new LuaService.
func NewLuaService(cfg *config.Config, buttons *ButtonService) *LuaService {
	return &LuaService{
		cfg:     cfg,
		Runtime: luart.NewRuntime(buttons, cfg.Script, 0),
	}
}

// Start begins the Lua worker goroutine.
func (s *LuaService) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		s.Runtime.Run(ctx)
	}()
}

// Do runs fn on the worker and waits for it.
func (s *LuaService) Do(ctx context.Context, fn func() error) error {
	return s.Runtime.DoSync(ctx, func(context.Context) error { return fn() })
}

// LoadScript runs the configured script on the worker. It is a no-op when no
// script is configured.
func (s *LuaService) LoadScript(ctx context.Context) error {
	if s.cfg.Script == "" {
		return nil
	}
	return s.Do(ctx, func() error { return s.Runtime.LoadScript(s.cfg.Script) })
}

// Close stops the worker, waits for it to exit and closes the Lua runtime.
func (s *LuaService) Close() {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
	if s.Runtime != nil {
		s.Runtime.Close()
	}
}
