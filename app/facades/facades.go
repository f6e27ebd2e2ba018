// Package facades declares the application's facades. They resolve through
// whichever Application was created last.
package facades

import (
	"github.com/km-arc/go-facade/app/providers"
	"github.com/km-arc/go-facade/app/services"
	"github.com/km-arc/go-facade/framework/app"
	"github.com/km-arc/go-facade/framework/facade"
)

var (
	Clock  = facade.For[services.Clock](app.Facades())
	Store  = facade.For[*services.Store](app.Facades())
	Ticket = facade.Named[*services.Ticket](app.Facades(), providers.TicketKey)
)
