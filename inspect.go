package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	fwapp "github.com/km-arc/go-facade/framework/app"
	"github.com/km-arc/go-facade/framework/di"
	"github.com/km-arc/go-facade/framework/stream"
)

var resolveAll bool

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the facade registry as YAML",
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&resolveAll, "resolve", false, "resolve every facade before printing")
	rootCmd.AddCommand(inspectCmd)
}

type inspection struct {
	App     string       `yaml:"app"`
	ID      string       `yaml:"id"`
	Facades any          `yaml:"facades"`
	Errors  []keyFailure `yaml:"errors,omitempty"`
}

type keyFailure struct {
	Key   string `yaml:"key"`
	Error string `yaml:"error"`
}

func runInspect(cmd *cobra.Command, _ []string) error {
	c, err := newContainer()
	if err != nil {
		return err
	}
	defer c.Shutdown()

	svc, err := di.Invoke[*di.ApplicationService](c)
	if err != nil {
		return err
	}
	a := svc.Current()
	reg := fwapp.Facades()

	var failures []keyFailure
	if resolveAll {
		for _, key := range reg.Keys() {
			if _, err := reg.GetInstance(key); err != nil {
				failures = append(failures, keyFailure{Key: string(key), Error: err.Error()})
			}
		}
	}

	out, err := stream.NewWrapper(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(inspection{
		App:     a.Config().App.Name,
		ID:      a.ID.String(),
		Facades: reg.Snapshot(),
		Errors:  failures,
	}); err != nil {
		return err
	}
	return enc.Close()
}
