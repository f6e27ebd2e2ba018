package app

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/km-arc/go-facade/framework/config"
	"github.com/km-arc/go-facade/framework/container"
	gohttp "github.com/km-arc/go-facade/framework/http"
	"github.com/km-arc/go-facade/framework/providers"
	"github.com/km-arc/go-facade/framework/routing"
)

// Application is the top-level application container.
// It embeds the IoC Container and ProviderRegistry so user code can
// call app.Bind(), app.Singleton(), app.Register() directly:
// exactly like $app in Laravel's bootstrap/app.php.
//
// Every Application owns a fresh container. Creating one fires the
// OnNewApplication hooks, which re-attach the process-wide facade registry.
type Application struct {
	*container.Container
	ID        uuid.UUID
	Providers *container.ProviderRegistry
}

// New creates the application with the framework core providers registered.
// cfg may be nil, in which case configuration is loaded from .env.
func New(cfg *config.Config) *Application {
	c := container.New()
	registry := container.NewProviderRegistry(c)

	app := &Application{
		Container: c,
		ID:        uuid.New(),
		Providers: registry,
	}
	c.Instance("app", app)

	// Register framework core providers (same order as Laravel)
	registry.Register(&providers.ConfigServiceProvider{Config: cfg})
	registry.Register(&providers.LoggingServiceProvider{})
	registry.Register(&providers.RoutingServiceProvider{})

	fireNewApplication(app)
	return app
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) {
	a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() {
	a.Providers.Boot()
}

// Terminate runs every terminating provider, newest first, and returns the
// combined failures.
func (a *Application) Terminate() error {
	err := a.Providers.Terminate()
	l := a.Logger()
	if err != nil {
		l.Error().Err(err).Str("app_id", a.ID.String()).Msg("application terminated with errors")
		return err
	}
	l.Debug().Str("app_id", a.ID.String()).Msg("application terminated")
	return nil
}

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container, "config")
}

// Logger resolves the process logger from the container.
func (a *Application) Logger() *zerolog.Logger {
	return container.MustResolve[*zerolog.Logger](a.Container, "logger")
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() *routing.Router {
	return container.MustResolve[*routing.Router](a.Container, "router")
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
func (a *Application) Version() string     { return "0.2.0" }

// Controller is an embeddable base for HTTP controllers.
type Controller struct{}

func (c *Controller) Request(r *http.Request) *gohttp.Request {
	return gohttp.NewRequest(r)
}
func (c *Controller) Response(w http.ResponseWriter) *gohttp.Response {
	return gohttp.NewResponse(w)
}
