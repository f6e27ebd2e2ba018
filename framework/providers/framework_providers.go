package providers

import (
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/km-arc/go-facade/framework/config"
	"github.com/km-arc/go-facade/framework/container"
	"github.com/km-arc/go-facade/framework/facade"
	"github.com/km-arc/go-facade/framework/logging"
	"github.com/km-arc/go-facade/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the application configuration as "config".
// A preloaded Config is registered as an instance; otherwise it is loaded
// from .env on first use.
//
// Bound abstracts:
//   - "config"         → *config.Config
//   - "configuration"  → alias of "config"
//
// Laravel equivalent:
//
//	// Illuminate\Foundation\Bootstrap\LoadConfiguration
//	$app->singleton('config', fn() => new Repository($items));
type ConfigServiceProvider struct {
	container.BaseProvider
	Config   *config.Config
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) {
	if p.Config != nil {
		app.Instance("config", p.Config)
	} else {
		envFiles := p.EnvFiles
		app.Singleton("config", func(*container.Container, ...any) (any, error) {
			return config.Load(envFiles...), nil
		})
	}
	app.Alias("config", "configuration")
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider builds the process logger from the "log" section of
// the configuration and hands it to the framework packages on boot.
//
// Bound abstracts:
//   - "logger"  → *zerolog.Logger
//
// Laravel equivalent:
//
//	// Illuminate\Log\LogServiceProvider
//	$app->singleton('log', fn($app) => new LogManager($app));
type LoggingServiceProvider struct {
	container.BaseProvider

	mu     sync.Mutex
	output io.Closer
}

func (p *LoggingServiceProvider) Register(app *container.Container) {
	app.Singleton("logger", func(c *container.Container, _ ...any) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, "config")
		if err != nil {
			return nil, err
		}
		logger, output, err := logging.New(cfg.Log)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		p.mu.Lock()
		p.output = output
		p.mu.Unlock()
		return &logger, nil
	})
}

// Terminate closes the log output opened for this application, if any.
func (p *LoggingServiceProvider) Terminate(_ *container.Container) error {
	p.mu.Lock()
	output := p.output
	p.output = nil
	p.mu.Unlock()
	if output == nil {
		return nil
	}
	return output.Close()
}

// Boot wires the configured logger into the container and facade packages.
func (p *LoggingServiceProvider) Boot(app *container.Container) {
	logger := container.MustResolve[*zerolog.Logger](app, "logger")
	container.SetLogger(logger)
	facade.SetLogger(logger)
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router.
//
// Bound abstracts:
//   - "router"  → *routing.Router
//
// Laravel equivalent:
//
//	// Illuminate\Routing\RoutingServiceProvider
//	$app->singleton('router', fn($app) => new Router($app['events'], $app));
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) {
	app.Singleton("router", func(c *container.Container, _ ...any) (any, error) {
		logger, err := container.Resolve[*zerolog.Logger](c, "logger")
		if err != nil {
			return nil, err
		}
		return routing.New(logger.With().Str("component", "http").Logger()), nil
	})
}
