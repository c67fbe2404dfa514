// Package lua hosts the scripting runtime. Its worker goroutine is the single
// thread that touches buttons: every button operation is queued onto it.
package lua

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/sctoggle/internal/lua/modules"
)

// ErrRuntimeClosed is returned when the Lua runtime is closed
var ErrRuntimeClosed = fmt.Errorf("lua runtime closed")

// Work is executed on the Lua worker goroutine.
type Work func(ctx context.Context)

// Runtime manages the Lua VM with single-threaded execution
type Runtime struct {
	L *lua.LState

	toggleModule *modules.ToggleModule

	workQueue chan Work

	// Closing this channel signals senders to stop.
	closing   chan struct{}
	closeOnce sync.Once
}

// NewRuntime creates a runtime with the log and toggle modules preloaded.
func NewRuntime(host modules.ToggleHost, script string, queueSize int) *Runtime {
	if queueSize <= 0 {
		queueSize = 64
	}

	r := &Runtime{
		L:            lua.NewState(),
		toggleModule: modules.NewToggleModule(host),
		workQueue:    make(chan Work, queueSize),
		closing:      make(chan struct{}),
	}

	r.L.PreloadModule("log", modules.NewLogModule(script).Loader)
	r.L.PreloadModule("toggle", r.toggleModule.Loader)
	return r
}

// Close stops accepting work, drops the script's group listeners and closes
// the Lua state. Call it after Run has returned.
func (r *Runtime) Close() {
	r.closeOnce.Do(func() {
		close(r.closing)
	})
	r.toggleModule.Close()
	r.L.Close()
}

// Do queues work without blocking. It returns false if the runtime is
// closing, the queue is full or ctx is done.
func (r *Runtime) Do(ctx context.Context, work Work) bool {
	if r.isClosing() {
		log.Warn().Msg("Lua runtime closing, dropping work")
		return false
	}
	select {
	case <-r.closing:
		log.Warn().Msg("Lua runtime closing, dropping work")
		return false
	case <-ctx.Done():
		log.Warn().Msg("Context cancelled, dropping Lua work")
		return false
	case r.workQueue <- work:
		return true
	default:
		log.Warn().Msg("Lua work queue full, dropping work")
		return false
	}
}

// DoSync queues work and waits for it to finish, returning its error. A
// panicking work item is reported as an error.
func (r *Runtime) DoSync(ctx context.Context, work func(context.Context) error) error {
	if r.isClosing() {
		return ErrRuntimeClosed
	}

	done := make(chan error, 1)
	wrapped := Work(func(c context.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				done <- fmt.Errorf("lua work panicked: %v", rec)
			}
		}()
		done <- work(c)
	})

	select {
	case <-r.closing:
		return ErrRuntimeClosed
	case <-ctx.Done():
		return ctx.Err()
	case r.workQueue <- wrapped:
	}

	select {
	case <-r.closing:
		return ErrRuntimeClosed
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func (r *Runtime) isClosing() bool {
	select {
	case <-r.closing:
		return true
	default:
		return false
	}
}

// Run executes queued work until ctx is done or the runtime closes. It is
// the only goroutine that touches Lua.
func (r *Runtime) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			r.drainQueue(ctx)
			return
		case <-r.closing:
			r.drainQueue(ctx)
			return
		case work := <-r.workQueue:
			r.executeWork(ctx, work)
		}
	}
}

func (r *Runtime) drainQueue(ctx context.Context) {
	for {
		select {
		case work := <-r.workQueue:
			r.executeWork(ctx, work)
		default:
			return
		}
	}
}

func (r *Runtime) executeWork(ctx context.Context, work Work) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().
				Interface("panic", rec).
				Msg("Lua work panicked - worker continuing")
		}
	}()
	r.L.SetContext(ctx)
	work(ctx)
}

// LoadScript executes a script file. Call it from queued work.
func (r *Runtime) LoadScript(path string) error {
	log.Info().Str("path", path).Msg("Loading Lua script")
	if err := r.L.DoFile(path); err != nil {
		return fmt.Errorf("failed to execute Lua script: %w", err)
	}
	log.Info().Msg("Lua script loaded successfully")
	return nil
}

// Exec runs a chunk of Lua source. Call it from queued work.
func (r *Runtime) Exec(source string) error {
	if err := r.L.DoString(source); err != nil {
		return fmt.Errorf("failed to execute Lua chunk: %w", err)
	}
	return nil
}
