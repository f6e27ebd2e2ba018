// Command go-facade runs the facade demo, the inspection server and the
// registry inspector.
package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/km-arc/go-facade/app/providers"
	fwapp "github.com/km-arc/go-facade/framework/app"
	"github.com/km-arc/go-facade/framework/container"
	"github.com/km-arc/go-facade/framework/di"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "go-facade",
	Short: "Cached service facades over a Laravel-style container",
	Long: `go-facade wires services into an IoC container and exposes them through
facades that cache static bindings and follow rebinds and releases.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"YAML config file (default: environment and .env)")
}

// appProviders are registered on every Application after the core providers.
func appProviders() []container.ServiceProvider {
	return []container.ServiceProvider{
		&providers.AppServiceProvider{},
		&providers.InspectionServiceProvider{Registry: fwapp.Facades()},
	}
}

func newContainer() (*di.Container, error) {
	return di.NewContainer(cfgFile, appProviders)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
