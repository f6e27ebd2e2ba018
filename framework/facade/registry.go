package facade

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Phase is the externally visible state of one key's cache.
type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseCached        Phase = "cached"
	PhaseUncached      Phase = "uncached"
)

// Status is a point-in-time view of one key, for diagnostics.
type Status struct {
	Key         ServiceKey `json:"key" yaml:"key"`
	Phase       Phase      `json:"phase" yaml:"phase"`
	Initialized bool       `json:"initialized" yaml:"initialized"`
	Released    bool       `json:"released" yaml:"released"`
	Bound       bool       `json:"bound" yaml:"bound"`
	Static      bool       `json:"static" yaml:"static"`
	Hits        uint64     `json:"hits" yaml:"hits"`
	Misses      uint64     `json:"misses" yaml:"misses"`
}

type containerRef struct {
	c Container
}

// Registry owns the cache state of every registered service key for the
// lifetime of the process. It is safe for concurrent use: each key's state
// is guarded by its own mutex.
type Registry struct {
	container atomic.Pointer[containerRef]

	mu      sync.RWMutex
	entries map[ServiceKey]*state
}

// NewRegistry creates a registry resolving through c. c may be nil and
// attached later with Reset.
func NewRegistry(c Container) *Registry {
	r := &Registry{entries: make(map[ServiceKey]*state)}
	r.container.Store(&containerRef{c: c})
	return r
}

// Container returns the container the registry currently resolves through.
func (r *Registry) Container() Container {
	return r.container.Load().c
}

// RegisterServiceType makes key known to the registry. Call it once per
// service type while wiring the application; repeated calls are no-ops.
func (r *Registry) RegisterServiceType(key ServiceKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[key]; ok {
		return
	}
	r.entries[key] = newState(key)
	l := logger()
	l.Debug().Str("key", string(key)).Msg("facade registered")
}

// Registered reports whether RegisterServiceType was called for key.
func (r *Registry) Registered(key ServiceKey) bool {
	_, ok := r.lookup(key)
	return ok
}

func (r *Registry) lookup(key ServiceKey) (*state, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.entries[key]
	return s, ok
}

// GetInstance returns the cached instance for key, or resolves it through
// the container. args are only used on a cache miss.
//
// Container errors are returned unchanged and never cached.
func (r *Registry) GetInstance(key ServiceKey, args ...any) (any, error) {
	s, ok := r.lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: [%s]", ErrServiceNotRegistered, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if inst, ok := s.cached(); ok {
		s.hits++
		l := logger()
		l.Trace().Str("key", string(key)).Msg("facade cache hit")
		return inst, nil
	}

	c := r.Container()
	if c == nil {
		return nil, ErrNoContainer
	}
	s.misses++
	return s.resolve(c, args)
}

// HasValidCache reports whether the next GetInstance for key is served
// from the cache.
func (r *Registry) HasValidCache(key ServiceKey) bool {
	s, ok := r.lookup(key)
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, valid := s.cached()
	return valid
}

// State returns the status of one key.
func (r *Registry) State(key ServiceKey) (Status, bool) {
	s, ok := r.lookup(key)
	if !ok {
		return Status{}, false
	}
	return s.status(), true
}

// Keys returns the registered keys in lexical order.
func (r *Registry) Keys() []ServiceKey {
	r.mu.RLock()
	keys := lo.Keys(r.entries)
	r.mu.RUnlock()
	slices.Sort(keys)
	return keys
}

// Snapshot returns the status of every registered key, ordered by key.
func (r *Registry) Snapshot() []Status {
	return lo.FilterMap(r.Keys(), func(key ServiceKey, _ int) (Status, bool) {
		return r.State(key)
	})
}

// Reset attaches c and returns every key to its initial state, cancelling
// the watch and release subscriptions held on the previous container. It is
// the handler of the process-reset hook.
func (r *Registry) Reset(c Container) {
	r.container.Store(&containerRef{c: c})

	// Key locks are taken without r.mu held: a resolve in flight may hold
	// its key lock while its factory looks up another key.
	r.mu.RLock()
	states := lo.Values(r.entries)
	r.mu.RUnlock()

	for _, s := range states {
		s.mu.Lock()
		s.reset()
		s.mu.Unlock()
	}
	l := logger()
	l.Debug().Int("keys", len(states)).Msg("facade registry reset")
}

// state is the cache of one service key. All fields are guarded by mu.
type state struct {
	mu  sync.Mutex
	key ServiceKey

	initialized bool
	released    bool
	binding     Binding
	instance    mo.Option[any]

	// gen is bumped on reset so callbacks captured before it are ignored.
	gen       uint64
	unwatch   func()
	unrelease func()

	hits   uint64
	misses uint64
}

func newState(key ServiceKey) *state {
	return &state{key: key, instance: mo.None[any]()}
}

// cached returns the instance if a valid cache exists: the binding is
// present and static, it was not released, and an instance is held.
func (s *state) cached() (any, bool) {
	if s.binding == nil || !s.binding.IsStatic() || s.released {
		return nil, false
	}
	return s.instance.Get()
}

func (s *state) phase() Phase {
	if _, ok := s.cached(); ok {
		return PhaseCached
	}
	if s.misses == 0 {
		return PhaseUninitialized
	}
	return PhaseUncached
}

func (s *state) status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Key:         s.key,
		Phase:       s.phase(),
		Initialized: s.initialized,
		Released:    s.released,
		Bound:       s.binding != nil,
		Static:      s.binding != nil && s.binding.IsStatic(),
		Hits:        s.hits,
		Misses:      s.misses,
	}
}

func (s *state) reset() {
	s.gen++
	if s.unwatch != nil {
		s.unwatch()
		s.unwatch = nil
	}
	s.cancelRelease()
	s.initialized = false
	s.released = false
	s.binding = nil
	s.instance = mo.None[any]()
	s.hits = 0
	s.misses = 0
}

func (s *state) cancelRelease() {
	if s.unrelease != nil {
		s.unrelease()
		s.unrelease = nil
	}
}
