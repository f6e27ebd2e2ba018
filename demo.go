package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/km-arc/go-facade/app/facades"
	"github.com/km-arc/go-facade/app/services"
	fwapp "github.com/km-arc/go-facade/framework/app"
	"github.com/km-arc/go-facade/framework/container"
	"github.com/km-arc/go-facade/framework/di"
	"github.com/km-arc/go-facade/framework/facade"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Walk the facade cache through bind, release, transient, rebind and reset",
	RunE:  runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, _ []string) error {
	c, err := newContainer()
	if err != nil {
		return err
	}
	defer c.Shutdown()

	svc, err := di.Invoke[*di.ApplicationService](c)
	if err != nil {
		return err
	}
	return demo(cmd.OutOrStdout(), svc)
}

func demo(out io.Writer, svc *di.ApplicationService) error {
	a := svc.Current()
	storeKey := container.KeyFor[*services.Store]()

	// Static binding: resolved once, then served from the cache.
	s1, err := facades.Store.That()
	if err != nil {
		return err
	}
	s2 := facades.Store.MustThat()
	report(out, "static singleton", facades.Store.Key(), "same instance: %v", s1 == s2)

	// Release: the next call resolves a fresh instance.
	a.Release(storeKey)
	report(out, "after release", facades.Store.Key(), "cached: %v", facades.Store.HasInstance())
	s3 := facades.Store.MustThat()
	report(out, "resolved again", facades.Store.Key(), "new instance: %v", s3 != s1)

	// Transient binding: never cached, args reach the factory.
	t1, err := facades.Ticket.Make("first")
	if err != nil {
		return err
	}
	t2 := facades.Ticket.MustThat()
	report(out, "transient", facades.Ticket.Key(), "serials %d, %d", t1.Serial, t2.Serial)

	// Rebind: the rebound instance replaces the cached one.
	replacement := services.NewStore()
	replacement.Put("seeded", "yes")
	a.Singleton(storeKey, func(*container.Container, ...any) (any, error) {
		return replacement, nil
	})
	report(out, "after rebind", facades.Store.Key(), "serves replacement: %v", facades.Store.MustThat() == replacement)

	// Reset: a new application detaches every facade from the old container.
	if _, err := svc.Rebuild(a.Config()); err != nil {
		return err
	}
	report(out, "after reset", facades.Store.Key(), "cached: %v", facades.Store.HasInstance())
	return nil
}

func report(out io.Writer, step string, key facade.ServiceKey, format string, args ...any) {
	st, _ := fwapp.Facades().State(key)
	fmt.Fprintf(out, "%-18s %-13s hits=%d misses=%d  %s\n",
		step, st.Phase, st.Hits, st.Misses, fmt.Sprintf(format, args...))
}
