package facade_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/km-arc/go-facade/framework/container"
	"github.com/km-arc/go-facade/framework/facade"
)

type Widget struct{ ID int64 }

type Gadget interface{ Name() string }

// countingContainer counts every call the cache makes into the container.
type countingContainer struct {
	facade.Container
	makes   atomic.Int64
	lookups atomic.Int64
	probes  atomic.Int64
	watches atomic.Int64
}

func count(c facade.Container) *countingContainer {
	return &countingContainer{Container: c}
}

func (c *countingContainer) IsResolved(key facade.ServiceKey) bool {
	c.probes.Add(1)
	return c.Container.IsResolved(key)
}

func (c *countingContainer) CanMake(key facade.ServiceKey) bool {
	c.probes.Add(1)
	return c.Container.CanMake(key)
}

func (c *countingContainer) Make(key facade.ServiceKey, args ...any) (any, error) {
	c.makes.Add(1)
	return c.Container.Make(key, args...)
}

func (c *countingContainer) GetBinding(key facade.ServiceKey) facade.Binding {
	c.lookups.Add(1)
	return c.Container.GetBinding(key)
}

func (c *countingContainer) Watch(key facade.ServiceKey, cb func(any)) func() {
	c.watches.Add(1)
	return c.Container.Watch(key, cb)
}

func (c *countingContainer) total() int64 {
	return c.makes.Load() + c.lookups.Load() + c.probes.Load() + c.watches.Load()
}

// widgets returns a factory building a new *Widget per call.
func widgets() (container.Factory, *atomic.Int64) {
	var n atomic.Int64
	return func(_ *container.Container, _ ...any) (any, error) {
		return &Widget{ID: n.Add(1)}, nil
	}, &n
}

func widget(id int64) container.Factory {
	w := &Widget{ID: id}
	return func(_ *container.Container, _ ...any) (any, error) { return w, nil }
}

type fixture struct {
	c   *container.Container
	cc  *countingContainer
	reg *facade.Registry
	key facade.ServiceKey
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c := container.New()
	cc := count(facade.ContainerOf(c))
	reg := facade.NewRegistry(cc)
	key := facade.KeyOf[*Widget]()
	reg.RegisterServiceType(key)
	return &fixture{c: c, cc: cc, reg: reg, key: key}
}

func (f *fixture) get(t *testing.T, args ...any) *Widget {
	t.Helper()
	v, err := f.reg.GetInstance(f.key, args...)
	if err != nil {
		t.Fatalf("GetInstance(%s): %v", f.key, err)
	}
	return v.(*Widget)
}

// shared returns the container's current shared instance of the key.
func (f *fixture) shared(t *testing.T) *Widget {
	t.Helper()
	v, err := f.c.Make(string(f.key))
	if err != nil {
		t.Fatalf("container Make(%s): %v", f.key, err)
	}
	return v.(*Widget)
}

// delayedContainer records every release and rebound callback the cache
// subscribes, so tests can deliver notifications late, after the cache has
// moved on to another binding or container.
type delayedContainer struct {
	facade.Container

	mu       sync.Mutex
	releases map[facade.Binding][]func(any)
	rebounds []func(any)
}

func delay(c facade.Container) *delayedContainer {
	return &delayedContainer{Container: c, releases: make(map[facade.Binding][]func(any))}
}

type delayedBinding struct {
	facade.Binding
	d *delayedContainer
}

func (b delayedBinding) OnRelease(cb func(any)) func() {
	b.d.mu.Lock()
	b.d.releases[b.Binding] = append(b.d.releases[b.Binding], cb)
	b.d.mu.Unlock()
	return b.Binding.OnRelease(cb)
}

func (d *delayedContainer) GetBinding(key facade.ServiceKey) facade.Binding {
	b := d.Container.GetBinding(key)
	if b == nil {
		return nil
	}
	return delayedBinding{Binding: b, d: d}
}

func (d *delayedContainer) Watch(key facade.ServiceKey, cb func(any)) func() {
	d.mu.Lock()
	d.rebounds = append(d.rebounds, cb)
	d.mu.Unlock()
	return d.Container.Watch(key, cb)
}

func (d *delayedContainer) replayRelease(b facade.Binding, instance any) {
	d.mu.Lock()
	cbs := append([]func(any){}, d.releases[b]...)
	d.mu.Unlock()
	for _, cb := range cbs {
		cb(instance)
	}
}

func (d *delayedContainer) replayRebound(instance any) {
	d.mu.Lock()
	cbs := append([]func(any){}, d.rebounds...)
	d.mu.Unlock()
	for _, cb := range cbs {
		cb(instance)
	}
}
