// Package di provides dependency injection for the command line using
// samber/do v2. It owns the process-level services (configuration, the
// current Application) that outlive any single framework container.
package di

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/km-arc/go-facade/framework/container"
)

// ConfigPathKey is the named key for the config path string.
const ConfigPathKey = "config.path"

// ProvidersKey is the named key for the ProvidersFunc that supplies the
// application's own service providers.
const ProvidersKey = "app.providers"

// ProvidersFunc returns the service providers registered on every new
// Application, after the framework core providers.
type ProvidersFunc func() []container.ServiceProvider

// Container wraps the do.Injector.
type Container struct {
	injector *do.RootScope
}

// NewContainer creates and configures the DI container. An empty configPath
// loads configuration from the environment. The configuration is loaded
// eagerly so a broken file fails here.
func NewContainer(configPath string, providers ProvidersFunc) (*Container, error) {
	injector := do.New()

	do.ProvideNamedValue(injector, ConfigPathKey, configPath)
	if providers == nil {
		providers = func() []container.ServiceProvider { return nil }
	}
	do.ProvideNamedValue(injector, ProvidersKey, providers)

	RegisterSingletons(injector)

	if _, err := do.Invoke[*ConfigService](injector); err != nil {
		return nil, err
	}

	return &Container{injector: injector}, nil
}

// Injector returns the underlying do.Injector for service resolution.
func (c *Container) Injector() *do.RootScope {
	return c.injector
}

// Invoke resolves a service from the container.
func Invoke[T any](c *Container) (T, error) {
	return do.Invoke[T](c.injector)
}

// MustInvoke resolves a service from the container or panics.
// Use this only during startup where errors are fatal.
func MustInvoke[T any](c *Container) T {
	return do.MustInvoke[T](c.injector)
}

// Shutdown shuts down all services in reverse order of initialization.
func (c *Container) Shutdown() error {
	report := c.injector.Shutdown()
	if report != nil && !report.Succeed {
		return fmt.Errorf("shutdown failed: %s", report.Error())
	}
	return nil
}

// ShutdownWithContext is Shutdown bounded by ctx.
func (c *Container) ShutdownWithContext(ctx context.Context) error {
	done := make(chan *do.ShutdownReport, 1)
	go func() {
		done <- c.injector.ShutdownWithContext(ctx)
	}()

	select {
	case report := <-done:
		if report != nil && !report.Succeed {
			return fmt.Errorf("shutdown failed: %s", report.Error())
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}
