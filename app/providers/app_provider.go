package providers

import (
	"github.com/rs/zerolog"

	"github.com/km-arc/go-facade/app/services"
	"github.com/km-arc/go-facade/framework/container"
)

// TicketKey is the abstract of the transient ticket binding.
const TicketKey = "ticket"

// AppServiceProvider binds the demo services.
//
// Bound abstracts:
//   - services.Clock   → *services.SystemClock  (singleton)
//   - *services.Store  → *services.Store        (singleton)
//   - "ticket"         → *services.Ticket       (transient, optional label arg)
type AppServiceProvider struct {
	container.BaseProvider
}

func (p *AppServiceProvider) Register(app *container.Container) {
	app.Singleton(container.KeyFor[services.Clock](), func(*container.Container, ...any) (any, error) {
		return services.NewSystemClock(), nil
	})
	app.Singleton(container.KeyFor[*services.Store](), func(*container.Container, ...any) (any, error) {
		return services.NewStore(), nil
	})
	app.Bind(TicketKey, func(_ *container.Container, args ...any) (any, error) {
		var label string
		if len(args) > 0 {
			label, _ = args[0].(string)
		}
		return services.NewTicket(label), nil
	})
}

// Terminate flushes the store if it was ever built.
func (p *AppServiceProvider) Terminate(app *container.Container) error {
	key := container.KeyFor[*services.Store]()
	if !app.Resolved(key) {
		return nil
	}
	store, err := container.Resolve[*services.Store](app, key)
	if err != nil {
		return err
	}
	n := store.Flush()
	logger := container.MustResolve[*zerolog.Logger](app, "logger")
	logger.Debug().Int("entries", n).Str("store", store.ID.String()).Msg("store flushed")
	return nil
}
