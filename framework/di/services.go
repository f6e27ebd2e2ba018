package di

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/samber/do/v2"

	"github.com/km-arc/go-facade/framework/app"
	"github.com/km-arc/go-facade/framework/config"
)

// RegisterSingletons registers all services. Order follows dependencies:
// Config, then Application.
func RegisterSingletons(i do.Injector) {
	do.Provide(i, NewConfig)
	do.Provide(i, NewApplication)
}

// ── Config ────────────────────────────────────────────────────────────────────

// ConfigService holds the current configuration and the optional file
// watcher that replaces it.
type ConfigService struct {
	Path    string
	config  atomic.Pointer[config.Config]
	watcher *config.Watcher
}

// NewConfig loads the configuration from the config path, or from the
// environment when no path is set.
func NewConfig(i do.Injector) (*ConfigService, error) {
	path := do.MustInvokeNamed[string](i, ConfigPathKey)

	svc := &ConfigService{Path: path}
	if path == "" {
		svc.config.Store(config.Load())
		return svc, nil
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	svc.config.Store(cfg)
	return svc, nil
}

// Get returns the current configuration.
func (s *ConfigService) Get() *config.Config {
	return s.config.Load()
}

// StartWatching watches the config file until ctx is canceled. Each reload
// replaces the current configuration, then calls onReload.
func (s *ConfigService) StartWatching(ctx context.Context, onReload func(*config.Config)) error {
	if s.Path == "" {
		return fmt.Errorf("config: nothing to watch without a config file")
	}
	w, err := config.NewWatcher(s.Path)
	if err != nil {
		return err
	}
	w.OnReload(func(cfg *config.Config) error {
		s.config.Store(cfg)
		if onReload != nil {
			onReload(cfg)
		}
		return nil
	})
	s.watcher = w
	go func() { _ = w.Watch(ctx) }()
	return nil
}

// Shutdown implements do.Shutdowner and closes the watcher if one runs.
func (s *ConfigService) Shutdown() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// ── Application ───────────────────────────────────────────────────────────────

// ApplicationService owns the current Application. Rebuild replaces it with
// a fresh one, which re-attaches every facade to the new container. It
// serves HTTP through the current Application's router.
type ApplicationService struct {
	mu        sync.Mutex
	current   atomic.Pointer[app.Application]
	providers ProvidersFunc
}

// NewApplication builds the first Application from the current config.
func NewApplication(i do.Injector) (*ApplicationService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)
	providers := do.MustInvokeNamed[ProvidersFunc](i, ProvidersKey)

	svc := &ApplicationService{providers: providers}
	if _, err := svc.Rebuild(cfgSvc.Get()); err != nil {
		return nil, err
	}
	return svc, nil
}

// Current returns the live Application.
func (s *ApplicationService) Current() *app.Application {
	return s.current.Load()
}

// Rebuild creates and boots a new Application from cfg, makes it current
// and terminates the one it replaces.
//
// The process facades are re-attached inside app.New, before the
// application providers are registered. Until Boot returns, requests still
// served by the previous router resolve facades against the new container,
// which lacks the application bindings: those resolves fail with
// container.ErrUnresolvable (the inspection resolve route answers 502).
// Cached instances are dropped at the same point.
func (s *ApplicationService) Rebuild(cfg *config.Config) (*app.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := app.New(cfg)
	for _, p := range s.providers() {
		next.Register(p)
	}
	next.Boot()

	prev := s.current.Swap(next)
	if prev == nil {
		return next, nil
	}
	l := next.Logger()
	l.Info().
		Str("previous", prev.ID.String()).
		Str("app_id", next.ID.String()).
		Msg("application rebuilt")
	if err := prev.Terminate(); err != nil {
		return next, fmt.Errorf("terminate previous application: %w", err)
	}
	return next, nil
}

// ServeHTTP dispatches to the current Application's router.
func (s *ApplicationService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Current().Router().ServeHTTP(w, r)
}

// Shutdown implements do.Shutdowner and terminates the current Application.
func (s *ApplicationService) Shutdown() error {
	a := s.Current()
	if a == nil {
		return nil
	}
	return a.Terminate()
}
