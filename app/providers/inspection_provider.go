package providers

import (
	"github.com/km-arc/go-facade/app/http/controllers"
	"github.com/km-arc/go-facade/framework/container"
	"github.com/km-arc/go-facade/framework/facade"
	"github.com/km-arc/go-facade/framework/routing"
)

// InspectionServiceProvider mounts the facade inspection routes on boot.
//
//	GET  /facades                 registry snapshot (?phase=cached|uncached|uninitialized)
//	GET  /facades/{key}           one key
//	POST /facades/{key}/resolve   resolve through the facade
//	POST /facades/{key}/release   release the container's shared instance
//
// Keys containing "/" are sent path-escaped.
type InspectionServiceProvider struct {
	container.BaseProvider
	Registry *facade.Registry
}

func (p *InspectionServiceProvider) Register(*container.Container) {}

func (p *InspectionServiceProvider) Boot(app *container.Container) {
	router := container.MustResolve[*routing.Router](app, "router")
	ctl := controllers.NewFacadeController(p.Registry, app)

	router.Prefix("/facades", func(r *routing.Router) {
		r.Get("/", ctl.Index)
		r.Get("/{key}", ctl.Show)
		r.Post("/{key}/resolve", ctl.Resolve)
		r.Post("/{key}/release", ctl.Release)
	})
}
