package facade

import "fmt"

// Facade is the typed access point of one service type.
//
//	var Clock = facade.For[clock.Clock](app.Facades())
//
//	now := Clock.MustThat().Now()
type Facade[T any] struct {
	reg *Registry
	key ServiceKey
}

// For registers T's key with reg and returns its facade.
func For[T any](reg *Registry) *Facade[T] {
	return Named[T](reg, KeyOf[T]())
}

// Named registers an explicit abstract (e.g. "config") with reg and returns
// a facade resolving it as T.
func Named[T any](reg *Registry, key ServiceKey) *Facade[T] {
	reg.RegisterServiceType(key)
	return &Facade[T]{reg: reg, key: key}
}

// Key returns the service key behind the facade.
func (f *Facade[T]) Key() ServiceKey { return f.key }

// That returns the cached instance, resolving it when needed.
func (f *Facade[T]) That() (T, error) {
	return f.Make()
}

// MustThat is That for bootstrap code; it panics on failure.
func (f *Facade[T]) MustThat() T {
	v, err := f.That()
	if err != nil {
		panic(err)
	}
	return v
}

// Make is That with constructor arguments. The arguments only reach the
// container on a cache miss; a valid cached instance is returned as is.
func (f *Facade[T]) Make(args ...any) (T, error) {
	var zero T
	inst, err := f.reg.GetInstance(f.key, args...)
	if err != nil {
		return zero, err
	}
	typed, ok := inst.(T)
	if !ok {
		return zero, fmt.Errorf("%w: [%s] resolved to %T", ErrTypeMismatch, f.key, inst)
	}
	return typed, nil
}

// HasInstance reports whether That would be served from the cache.
func (f *Facade[T]) HasInstance() bool {
	return f.reg.HasValidCache(f.key)
}
