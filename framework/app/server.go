package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-multierror"
)

const shutdownTimeout = 10 * time.Second

// Serve boots the application (if needed) and serves the router on addr
// until ctx is canceled, then shuts the server down gracefully and
// terminates the application.
func (a *Application) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return a.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener.
func (a *Application) ServeListener(ctx context.Context, ln net.Listener) error {
	if !a.Providers.Booted() {
		a.Boot()
	}
	l := a.Logger()

	server := &http.Server{
		Handler:           a.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		l.Info().Msg("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		done <- server.Shutdown(shutdownCtx)
	}()

	cfg := a.Config()
	l.Info().
		Str("listen", ln.Addr().String()).
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Env).
		Str("app_id", a.ID.String()).
		Msg("inspection server running")

	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	shutdownErr := <-done
	return multierror.Append(shutdownErr, a.Terminate()).ErrorOrNil()
}
