package container

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ErrUnresolvable is returned by Make when nothing is registered for an
// abstract. Factory errors are returned as-is.
var ErrUnresolvable = errors.New("container: unresolvable service")

// ── Binding types ─────────────────────────────────────────────────────────────

// Factory builds a concrete value from the container. args are the
// caller-supplied constructor arguments passed to Make, if any.
type Factory func(c *Container, args ...any) (any, error)

// Extender wraps an already-resolved instance with decorator logic.
type Extender func(instance any, c *Container) any

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the IoC container: mirrors Laravel's Illuminate\Container\Container.
//
// It supports:
//   - Bind / Singleton / Instance / Alias
//   - Make / Resolve (generic)
//   - Extend (decorate / wrap resolved instances)
//   - Release / Forget of shared instances with release notifications
//   - Rebound watchers
//   - Resolved event callbacks
//
// Callbacks (rebound, release, after-resolving) are always invoked without
// the container lock held, so they may call back into the container.
type Container struct {
	mu sync.RWMutex

	// abstract → binding
	bindings map[string]*Binding

	// abstract → resolved shared instance
	instances map[string]any

	// abstract → resolved at least once
	resolved map[string]bool

	// alias → abstract (canonical key)
	aliases map[string]string

	// abstract → extender funcs
	extenders map[string][]Extender

	// abstract → watch id → rebound callback
	watchers map[string]map[uint64]func(any)
	nextWatch uint64

	// resolved callbacks: []func(abstract, instance)
	afterResolving []func(string, any)
}

// New creates an empty container.
func New() *Container {
	c := &Container{
		bindings:  make(map[string]*Binding),
		instances: make(map[string]any),
		resolved:  make(map[string]bool),
		aliases:   make(map[string]string),
		extenders: make(map[string][]Extender),
		watchers:  make(map[string]map[uint64]func(any)),
	}
	// Bind the container to itself: like Laravel's $app->instance()
	c.Instance("container", c)
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers a transient (new instance each Make) factory.
//
//	// Laravel: $app->bind(UserRepository::class, fn($app) => new EloquentUserRepository($app))
//	c.Bind("UserRepository", func(c *container.Container, _ ...any) (any, error) {
//	    return &EloquentUserRepository{}, nil
//	})
func (c *Container) Bind(abstract string, factory Factory) {
	c.bind(abstract, factory, false)
}

// Singleton registers a factory whose result is shared after first resolution.
//
//	// Laravel: $app->singleton(Cache::class, fn($app) => new RedisCache($app))
//	c.Singleton("cache", func(c *container.Container, _ ...any) (any, error) {
//	    cfg, err := container.Resolve[*config.Config](c, "config")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return cache.NewRedisCache(cfg), nil
//	})
func (c *Container) Singleton(abstract string, factory Factory) {
	c.bind(abstract, factory, true)
}

// Instance registers a pre-built value as a shared instance and notifies
// rebound watchers.
//
//	// Laravel: $app->instance(Config::class, $config)
//	c.Instance("config", myConfig)
func (c *Container) Instance(abstract string, instance any) {
	c.mu.Lock()
	key := c.canonical(abstract)
	old, hadOld := c.liveStatic(key)
	c.bindings[key] = newBinding(key, func(*Container, ...any) (any, error) { return instance, nil }, true)
	c.instances[key] = instance
	c.resolved[key] = true
	c.mu.Unlock()

	if hadOld {
		old.binding.fireRelease(old.instance)
	}
	c.notifyWatchers(key, instance)
}

// bind is the internal registration helper.
//
// An existing shared instance is released, and if the abstract was already
// resolved the watchers receive an instance built from the new binding.
func (c *Container) bind(abstract string, factory Factory, static bool) {
	c.mu.Lock()
	key := c.canonical(abstract)
	old, hadOld := c.liveStatic(key)
	delete(c.instances, key)
	c.bindings[key] = newBinding(key, factory, static)
	wasResolved := c.resolved[key]
	c.mu.Unlock()

	if hadOld {
		old.binding.fireRelease(old.instance)
	}
	if wasResolved {
		c.fireRebound(key)
	}
}

// Alias registers an alternative name for an abstract.
//
//	// Laravel: $app->alias(Cache::class, 'cache')
//	c.Alias("cache", "cacheManager")
func (c *Container) Alias(abstract, alias string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if abstract == alias {
		panic(fmt.Sprintf("container: [%s] is aliased to itself", abstract))
	}
	c.aliases[alias] = c.canonical(abstract)
}

// ── Extend ────────────────────────────────────────────────────────────────────

// Extend decorates the resolved instance of an abstract.
//
//	// Laravel: $app->extend(Logger::class, fn($logger, $app) => new TimestampLogger($logger))
//	c.Extend("logger", func(instance any, c *container.Container) any {
//	    return logging.NewTimestampWrapper(instance.(*Logger))
//	})
func (c *Container) Extend(abstract string, fn Extender) {
	c.mu.Lock()
	key := c.canonical(abstract)
	c.extenders[key] = append(c.extenders[key], fn)

	// If already resolved as a shared instance, decorate it in place and refire rebound
	inst, ok := c.instances[key]
	c.mu.Unlock()
	if !ok {
		return
	}

	extended := fn(inst, c)
	c.mu.Lock()
	c.instances[key] = extended
	c.mu.Unlock()
	c.notifyWatchers(key, extended)
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Make resolves an abstract from the container. args are forwarded to the
// factory when a new instance is built; they are ignored when a shared
// instance already exists.
//
//	// Laravel: $app->make(UserRepository::class)
//	repo, err := c.Make("UserRepository")
func (c *Container) Make(abstract string, args ...any) (any, error) {
	return c.make(abstract, args)
}

// make is the internal resolver (no outer lock: individual ops lock as needed).
func (c *Container) make(abstract string, args []any) (any, error) {
	c.mu.RLock()
	key := c.canonical(abstract)
	if inst, ok := c.instances[key]; ok {
		c.mu.RUnlock()
		return inst, nil
	}
	b, ok := c.bindings[key]
	exts := c.extenders[key]
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: [%s]", ErrUnresolvable, abstract)
	}

	instance, err := b.factory(c, args...)
	if err != nil {
		return nil, err
	}
	for _, ext := range exts {
		instance = ext(instance, c)
	}

	c.mu.Lock()
	if b.static && c.bindings[key] == b {
		// A concurrent Make of the same binding may have won the race.
		if existing, ok := c.instances[key]; ok {
			c.mu.Unlock()
			return existing, nil
		}
		c.instances[key] = instance
	}
	c.resolved[key] = true
	c.mu.Unlock()

	c.fireAfterResolving(key, instance)
	return instance, nil
}

// ── Release ───────────────────────────────────────────────────────────────────

// Release drops the shared instance of a static binding and notifies the
// binding's release subscribers. The binding itself stays registered, so the
// next Make builds a fresh instance. Returns false if there was nothing to
// release.
//
//	// CatLib: App.Release("cache")
//	c.Release("cache")
func (c *Container) Release(abstract string) bool {
	c.mu.Lock()
	key := c.canonical(abstract)
	old, ok := c.liveStatic(key)
	if ok {
		delete(c.instances, key)
	}
	c.mu.Unlock()

	if !ok {
		return false
	}
	old.binding.fireRelease(old.instance)
	return true
}

type liveInstance struct {
	binding  *Binding
	instance any
}

// liveStatic returns the current static binding of key together with its
// shared instance, if one exists (must hold mu).
func (c *Container) liveStatic(key string) (liveInstance, bool) {
	b, ok := c.bindings[key]
	if !ok || !b.static {
		return liveInstance{}, false
	}
	inst, ok := c.instances[key]
	if !ok {
		return liveInstance{}, false
	}
	return liveInstance{binding: b, instance: inst}, true
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Bound returns true if an abstract has been registered.
//
//	// Laravel: $app->bound(UserRepository::class)
func (c *Container) Bound(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key := c.canonical(abstract)
	_, hasBinding := c.bindings[key]
	_, hasInstance := c.instances[key]
	return hasBinding || hasInstance
}

// CanMake reports whether Make has something to build the abstract from.
func (c *Container) CanMake(abstract string) bool {
	return c.Bound(abstract)
}

// Resolved returns true if the abstract has been resolved at least once.
//
//	// Laravel: $app->resolved(Cache::class)
func (c *Container) Resolved(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key := c.canonical(abstract)
	if c.resolved[key] {
		return true
	}
	_, ok := c.instances[key]
	return ok
}

// IsResolved is an alias of Resolved matching the CatLib naming.
func (c *Container) IsResolved(abstract string) bool { return c.Resolved(abstract) }

// GetBinding returns the current binding of an abstract, or nil.
func (c *Container) GetBinding(abstract string) *Binding {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bindings[c.canonical(abstract)]
}

// Forget releases the shared instance (if any) and removes the binding.
//
//	// Laravel: $app->forgetInstance(Cache::class)
func (c *Container) Forget(abstract string) {
	c.mu.Lock()
	key := c.canonical(abstract)
	old, hadOld := c.liveStatic(key)
	delete(c.bindings, key)
	delete(c.instances, key)
	c.mu.Unlock()

	if hadOld {
		old.binding.fireRelease(old.instance)
	}
}

// Flush resets the entire container. Live shared instances are released
// first. Rebound watchers survive a flush so facades keep observing the
// abstracts they depend on.
func (c *Container) Flush() {
	c.mu.Lock()
	live := make([]liveInstance, 0, len(c.instances))
	for key := range c.instances {
		if l, ok := c.liveStatic(key); ok {
			live = append(live, l)
		}
	}
	c.bindings = make(map[string]*Binding)
	c.instances = make(map[string]any)
	c.resolved = make(map[string]bool)
	c.aliases = make(map[string]string)
	c.extenders = make(map[string][]Extender)
	c.mu.Unlock()

	for _, l := range live {
		l.binding.fireRelease(l.instance)
	}
}

// Bindings returns a copy of all registered abstract keys (for debugging).
func (c *Container) Bindings() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.bindings)+len(c.instances))
	for k := range c.bindings {
		out = append(out, k)
	}
	for k := range c.instances {
		if _, already := c.bindings[k]; !already {
			out = append(out, k)
		}
	}
	return out
}

// canonical resolves an alias to its canonical key (must hold mu).
func (c *Container) canonical(abstract string) string {
	if target, ok := c.aliases[abstract]; ok {
		return target
	}
	return abstract
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// Watch registers a callback fired with the new instance whenever the
// abstract is re-bound. The returned cancel func is idempotent.
//
//	// CatLib: App.Watch<IFileSystem>(fs => ...)
//	cancel := c.Watch("filesystem", func(fs any) { ... })
func (c *Container) Watch(abstract string, cb func(instance any)) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	if c.watchers[key] == nil {
		c.watchers[key] = make(map[uint64]func(any))
	}
	c.nextWatch++
	id := c.nextWatch
	c.watchers[key][id] = cb

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.watchers[key], id)
			c.mu.Unlock()
		})
	}
}

// Rebinding registers a callback to be called whenever an abstract is re-bound.
//
//	// Laravel: $app->rebinding(UserRepository::class, fn($app, $repo) => ...)
func (c *Container) Rebinding(abstract string, cb func(any)) {
	c.Watch(abstract, cb)
}

// AfterResolving registers a callback fired after any abstract is built.
//
//	// Laravel: $app->afterResolving(fn($object, $app) => ...)
func (c *Container) AfterResolving(cb func(abstract string, instance any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

// fireRebound builds a fresh instance for key and hands it to the watchers.
func (c *Container) fireRebound(key string) {
	instance, err := c.make(key, nil)
	if err != nil {
		l := logger()
		l.Warn().Err(err).Str("abstract", key).Msg("rebound skipped: new binding failed to resolve")
		return
	}
	c.notifyWatchers(key, instance)
}

func (c *Container) notifyWatchers(key string, instance any) {
	c.mu.RLock()
	cbs := make([]func(any), 0, len(c.watchers[key]))
	for _, cb := range c.watchers[key] {
		cbs = append(cbs, cb)
	}
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(instance)
	}
}

func (c *Container) fireAfterResolving(abstract string, instance any) {
	c.mu.RLock()
	cbs := c.afterResolving
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(abstract, instance)
	}
}

// ── Reflect helpers ───────────────────────────────────────────────────────────

// Type2Key derives the stable abstract key of a Go type: pointers are
// unwrapped to the nearest named type, which is rendered as
// "pkgpath.Name". Unnamed types fall back to their type string.
//
//	container.Type2Key(reflect.TypeFor[*Config]())  // "github.com/acme/app/config.Config"
func Type2Key(t reflect.Type) string {
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Ptr && t.Name() == "" {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

// KeyFor is Type2Key for a type parameter. It works for interface types too.
//
//	key := container.KeyFor[UserRepository]()
//	c.Singleton(key, factory)
func KeyFor[T any]() string {
	return Type2Key(reflect.TypeFor[T]())
}

// TypeKey returns the package-qualified type name of v, useful as a stable
// abstract key when working with concrete values.
//
//	key := container.TypeKey(&UserRepository{})  // "main.UserRepository"
func TypeKey(v any) string {
	return Type2Key(reflect.TypeOf(v))
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve is a generic helper that calls Make and type-asserts the result.
//
//	// Instead of: raw, err := c.Make("db"); db := raw.(*sql.DB)
//	// Write:      db, err := container.Resolve[*sql.DB](c, "db")
func Resolve[T any](c *Container, abstract string, args ...any) (T, error) {
	var zero T
	instance, err := c.Make(abstract, args...)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("container: Resolve[%T]: [%s] resolved to %T", zero, abstract, instance)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on failure. Use it during bootstrap
// where a missing core service is fatal.
func MustResolve[T any](c *Container, abstract string, args ...any) T {
	typed, err := Resolve[T](c, abstract, args...)
	if err != nil {
		panic(err)
	}
	return typed
}
