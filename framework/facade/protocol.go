package facade

import "github.com/samber/mo"

// resolve is the cache-miss path (must hold s.mu).
//
// A factory must not re-bind or release the key it is building: the
// container would notify this state while its lock is held.
func (s *state) resolve(c Container, args []any) (any, error) {
	s.released = false

	l := logger()
	if !s.initialized && (c.IsResolved(s.key) || c.CanMake(s.key)) {
		gen := s.gen
		s.unwatch = c.Watch(s.key, func(instance any) {
			s.onServiceRebound(gen, c, instance)
		})
		s.initialized = true
		l.Debug().Str("key", string(s.key)).Msg("facade watching rebound")
	} else if s.binding != nil && !s.binding.IsStatic() {
		// Known non-static: skip the binding lookup. A later switch to a
		// static binding is only noticed through the rebound watch.
		return c.Make(s.key, args...)
	}

	b := c.GetBinding(s.key)
	if b == nil || !b.IsStatic() {
		s.rebind(b)
		l.Debug().Str("key", string(s.key)).Bool("bound", b != nil).Msg("facade resolving uncached")
		return c.Make(s.key, args...)
	}

	s.rebind(b)
	instance, err := c.Make(s.key, args...)
	if err != nil {
		return nil, err
	}
	s.instance = mo.Some(instance)
	l.Debug().Str("key", string(s.key)).Msg("facade cached static instance")
	return instance, nil
}

// rebind makes b the binding the cache depends on (must hold s.mu).
// Interest in the previous binding's release is cancelled; a release
// subscription is taken on b only when it is static.
func (s *state) rebind(b Binding) {
	if b == s.binding {
		return
	}
	s.cancelRelease()
	if b != nil && b.IsStatic() {
		gen := s.gen
		s.unrelease = b.OnRelease(func(instance any) {
			s.onRelease(gen, b, instance)
		})
	}
	s.binding = b
}

// onRelease handles a release notification for b.
func (s *state) onRelease(gen uint64, b Binding, _ any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := logger()
	if gen != s.gen || b != s.binding {
		l.Debug().Str("key", string(s.key)).Msg("facade ignored stale release")
		return
	}
	s.instance = mo.None[any]()
	s.released = true
	l.Debug().Str("key", string(s.key)).Msg("facade instance released")
}

// onServiceRebound handles a rebound notification carrying the instance
// built from the container's new binding.
func (s *state) onServiceRebound(gen uint64, c Container, instance any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := logger()
	if gen != s.gen {
		l.Debug().Str("key", string(s.key)).Msg("facade ignored stale rebound")
		return
	}

	b := c.GetBinding(s.key)
	s.rebind(b)
	if b == nil || !b.IsStatic() {
		s.instance = mo.None[any]()
		l.Debug().Str("key", string(s.key)).Msg("facade rebound to uncached binding")
		return
	}
	s.instance = mo.Some(instance)
	s.released = false
	l.Debug().Str("key", string(s.key)).Msg("facade rebound to new static instance")
}
