package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/km-arc/go-facade/framework/config"
	"github.com/km-arc/go-facade/framework/di"
)

var (
	serveAddr  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the facade inspection API",
	Long: `Serve the facade inspection API. With --watch the config file is watched
and every change rebuilds the application, which resets all facades.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: inspect.addr or :APP_PORT)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "rebuild the application when the config file changes")
	rootCmd.AddCommand(serveCmd)
}

func listenAddr(cfg *config.Config) string {
	if serveAddr != "" {
		return serveAddr
	}
	return cfg.Inspect.Address().OrElse(":" + cfg.App.Port)
}

func runServe(cmd *cobra.Command, _ []string) error {
	c, err := newContainer()
	if err != nil {
		return err
	}
	defer c.Shutdown()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := di.Invoke[*di.ApplicationService](c)
	if err != nil {
		return err
	}
	cfgSvc := di.MustInvoke[*di.ConfigService](c)
	addr := listenAddr(cfgSvc.Get())

	if !serveWatch {
		return svc.Current().Serve(ctx, addr)
	}

	err = cfgSvc.StartWatching(ctx, func(cfg *config.Config) {
		if _, err := svc.Rebuild(cfg); err != nil {
			l := svc.Current().Logger()
			l.Error().Err(err).Msg("rebuild after config reload")
		}
	})
	if err != nil {
		return err
	}
	return serveSwapping(ctx, addr, svc)
}

// serveSwapping serves whichever application svc currently holds.
func serveSwapping(ctx context.Context, addr string, svc *di.ApplicationService) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           svc,
		ReadHeaderTimeout: 5 * time.Second,
	}
	l := svc.Current().Logger()

	go func() {
		<-ctx.Done()
		l.Info().Msg("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			l.Error().Err(err).Msg("shutdown error")
		}
	}()

	l.Info().Str("listen", addr).Bool("watch", true).Msg("inspection server running")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
