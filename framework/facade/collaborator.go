package facade

import (
	"reflect"

	"github.com/km-arc/go-facade/framework/container"
)

// ServiceKey identifies a service in the container. Keys derived from Go
// types come from KeyOf; plain abstracts ("config", "router") are used as-is.
type ServiceKey string

// KeyOf returns the ServiceKey of T as the container derives it.
func KeyOf[T any]() ServiceKey {
	return ServiceKey(container.Type2Key(reflect.TypeFor[T]()))
}

// Binding is the container's current record for a key, as seen by the cache.
// Implementations must be comparable by identity: two Binding values are the
// same binding iff they are ==.
type Binding interface {
	IsStatic() bool
	OnRelease(cb func(instance any)) (cancel func())
}

// Container is the subset of a DI container the cache consumes.
type Container interface {
	IsResolved(key ServiceKey) bool
	CanMake(key ServiceKey) bool
	Make(key ServiceKey, args ...any) (any, error)
	// GetBinding returns nil when the key is unbound.
	GetBinding(key ServiceKey) Binding
	Watch(key ServiceKey, cb func(instance any)) (cancel func())
}

// ContainerOf adapts the framework container to Container.
func ContainerOf(c *container.Container) Container {
	return frameworkContainer{c: c}
}

type frameworkContainer struct {
	c *container.Container
}

func (f frameworkContainer) IsResolved(key ServiceKey) bool { return f.c.IsResolved(string(key)) }

func (f frameworkContainer) CanMake(key ServiceKey) bool { return f.c.CanMake(string(key)) }

func (f frameworkContainer) Make(key ServiceKey, args ...any) (any, error) {
	return f.c.Make(string(key), args...)
}

func (f frameworkContainer) GetBinding(key ServiceKey) Binding {
	// Avoid handing out a typed nil.
	if b := f.c.GetBinding(string(key)); b != nil {
		return b
	}
	return nil
}

func (f frameworkContainer) Watch(key ServiceKey, cb func(instance any)) (cancel func()) {
	return f.c.Watch(string(key), cb)
}
