// Package container provides a Laravel-compatible IoC (Inversion of Control)
// container and Service Provider system for Go.
//
// # Overview
//
// The container manages the instantiation and lifecycle of your application's
// dependencies. It supports transient bindings, singletons, pre-built instances,
// aliases and extension (decoration), and it publishes two kinds of events that
// caching layers such as package facade depend on:
//
//   - rebound: the binding of an abstract changed (Watch / Rebinding)
//   - release: the shared instance of a static binding was dropped
//     (Binding.OnRelease)
//
// Because Go has no runtime constructor reflection, auto-wiring is replaced by
// explicit factory functions. Factories receive the caller's constructor
// arguments and may fail; failures are returned from Make unchanged.
//
// # Container Lifecycle
//
//  1. Create: c := container.New()
//  2. Register providers: registry.Register(&MyProvider{})
//  3. Boot: registry.Boot()       : safe to resolve everything after this
//  4. Serve requests
//  5. Terminate: registry.Terminate()
//
// # Bindings
//
//	// Transient: new instance every Make()
//	// Laravel: $app->bind(Foo::class, fn($app) => new Foo)
//	c.Bind("Foo", func(c *container.Container, _ ...any) (any, error) { return &Foo{}, nil })
//
//	// Singleton: created once, reused until released or re-bound
//	// Laravel: $app->singleton(Cache::class, fn($app) => new RedisCache)
//	c.Singleton("cache", func(c *container.Container, _ ...any) (any, error) {
//	    return cache.NewRedis(), nil
//	})
//
//	// Pre-built value
//	// Laravel: $app->instance(Config::class, $config)
//	c.Instance("config", myConfig)
//
//	// Alias
//	// Laravel: $app->alias(Cache::class, 'cache')
//	c.Alias("cache", "cacheManager")
//
// # Resolving
//
//	// Untyped
//	// Laravel: $app->make(Cache::class)
//	raw, err := c.Make("cache")
//
//	// With constructor arguments (only used when a new instance is built)
//	conn, err := c.Make("conn", "db.internal", 5432)
//
//	// Generic (no type assertion required)
//	cache, err := container.Resolve[*RedisCache](c, "cache")
//
// # Type keys
//
//	key := container.KeyFor[UserRepository]()   // "github.com/acme/app.UserRepository"
//	c.Singleton(key, factory)
//
// # Release and rebound
//
//	cancel := c.Watch("cache", func(fresh any) { ... })   // fired on re-bind
//	c.GetBinding("cache").OnRelease(func(old any) { ... }) // fired on Release
//	c.Release("cache")                                     // next Make builds again
//
// # Extend / Decorate
//
//	// Laravel: $app->extend(Logger::class, fn($logger, $app) => new TimestampLogger($logger))
//	c.Extend("logger", func(instance any, c *container.Container) any {
//	    return &TimestampLogger{Inner: instance.(*Logger)}
//	})
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) {
//	    app.Singleton("mailer", func(c *container.Container, _ ...any) (any, error) {
//	        return mail.NewSMTP(), nil
//	    })
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot()
//
// # Deferred Providers
//
//	type HeavyProvider struct{ container.BaseProvider }
//
//	func (p *HeavyProvider) IsDeferred() bool     { return true }
//	func (p *HeavyProvider) Provides() []string   { return []string{"heavy"} }
//	func (p *HeavyProvider) Register(app *container.Container) {
//	    app.Singleton("heavy", func(c *container.Container, _ ...any) (any, error) {
//	        return heavySetup(), nil // only called on first app.Make("heavy")
//	    })
//	}
package container
