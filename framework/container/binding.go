package container

import "sync"

// Binding is the container's record of how to build one abstract.
//
// A Binding is never mutated after registration except for its release
// subscriptions; re-registering an abstract always creates a new Binding, so
// pointer identity tells callers whether the binding they observed is still
// the current one.
type Binding struct {
	abstract string
	factory  Factory
	static   bool

	mu        sync.Mutex
	nextID    uint64
	onRelease map[uint64]func(instance any)
}

func newBinding(abstract string, factory Factory, static bool) *Binding {
	return &Binding{
		abstract:  abstract,
		factory:   factory,
		static:    static,
		onRelease: make(map[uint64]func(any)),
	}
}

// Abstract returns the canonical key the binding was registered under.
func (b *Binding) Abstract() string { return b.abstract }

// IsStatic reports whether resolutions of this binding are shared
// (Singleton / Instance) rather than built on every Make.
func (b *Binding) IsStatic() bool { return b.static }

// OnRelease subscribes cb to release events of this binding's shared
// instance. The returned cancel func is idempotent.
//
//	cancel := c.GetBinding("cache").OnRelease(func(old any) {
//	    log.Printf("cache instance %p released", old)
//	})
//	defer cancel()
func (b *Binding) OnRelease(cb func(instance any)) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.onRelease[id] = cb

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.onRelease, id)
			b.mu.Unlock()
		})
	}
}

// subscribers returns the number of live release subscriptions.
func (b *Binding) subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.onRelease)
}

// fireRelease notifies every current subscriber exactly once.
// Must be called without holding the container lock.
func (b *Binding) fireRelease(instance any) {
	b.mu.Lock()
	cbs := make([]func(any), 0, len(b.onRelease))
	for _, cb := range b.onRelease {
		cbs = append(cbs, cb)
	}
	b.mu.Unlock()

	for _, cb := range cbs {
		cb(instance)
	}
}
