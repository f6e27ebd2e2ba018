package app

import (
	"sync"

	"github.com/km-arc/go-facade/framework/facade"
)

type hook struct {
	id uint64
	fn func(*Application)
}

var (
	hooksMu  sync.RWMutex
	hooks    []hook
	nextHook uint64

	facades = facade.NewRegistry(nil)
)

func init() {
	OnNewApplication(func(a *Application) {
		facades.Reset(facade.ContainerOf(a.Container))
	})
}

// OnNewApplication registers fn to run, in registration order, whenever New
// creates an Application. The returned cancel func is idempotent.
//
//	cancel := app.OnNewApplication(func(a *app.Application) { ... })
//	defer cancel()
func OnNewApplication(fn func(*Application)) (cancel func()) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	nextHook++
	id := nextHook
	hooks = append(hooks, hook{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			hooksMu.Lock()
			defer hooksMu.Unlock()
			for i, h := range hooks {
				if h.id == id {
					hooks = append(hooks[:i:i], hooks[i+1:]...)
					return
				}
			}
		})
	}
}

func fireNewApplication(a *Application) {
	hooksMu.RLock()
	fns := make([]func(*Application), len(hooks))
	for i, h := range hooks {
		fns[i] = h.fn
	}
	hooksMu.RUnlock()

	for _, fn := range fns {
		fn(a)
	}
}

// Facades returns the process-wide facade registry. It always resolves
// through the most recently created Application.
func Facades() *facade.Registry {
	return facades
}
