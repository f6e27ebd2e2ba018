// Package facade provides Laravel-style facades: stable, typed access points
// to services bound in the container that cache what they resolve.
//
// # Overview
//
// A facade answers "give me the current instance of this service" without
// asking the container every time. Whether an instance may be cached depends
// on the lifetime of the binding that produced it:
//
//   - static bindings (Singleton, Instance) are cached until the container
//     releases the instance or re-binds the service
//   - non-static bindings (Bind) are resolved through the container on every
//     call and never cached
//
// # Usage
//
//	reg := app.Facades()                              // process-wide registry
//	var Clock = facade.For[clock.Clock](reg)          // keyed by type
//	var Config = facade.Named[*config.Config](reg, "config")
//
//	now := Clock.MustThat().Now()
//	conn, err := DB.Make("replica")                   // args used on a miss only
//
// # Invalidation
//
// On the first resolve attempt of a key the registry subscribes to the
// container's rebound events for it. When it caches an instance it also
// subscribes to release events of the static binding that produced it.
//
//   - release of the current binding drops the instance; the next call
//     resolves again
//   - rebound to a static binding replaces the instance with the one the
//     container hands over; rebound to a non-static or missing binding
//     drops it
//   - notifications about a binding that is no longer current are ignored
//
// Once a key is known to be bound non-statically, misses skip the binding
// lookup and go straight to Make. A switch from that binding to a static
// one is only seen through the rebound watch, so a container that does not
// publish rebound events leaves the facade resolving uncached.
//
// # Reset
//
// Registry.Reset attaches a new container and returns every key to its
// initial state; framework/app calls it whenever a new Application is
// created.
//
// # Concurrency
//
// Every key has its own lock, held across the whole miss path. A factory
// must therefore not resolve the facade of the key it is building.
package facade
