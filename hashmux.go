// Package hashmux provides the top-level API for the hashmux fragment router.
// It re-exports core types for convenience, so users can write:
//
//	r := hashmux.New(provider)
//	r.AddRoute("/user/:id", showUser)
//	r.Run("")
package hashmux

import (
	"github.com/miladsoleymani/hashmux/core"
)

// Re-export core types at the package level for ergonomic usage.
type (
	Router           = core.Router
	Request          = core.Request
	RouteAction      = core.RouteAction
	BeforeFunc       = core.BeforeFunc
	NextFunc         = core.NextFunc
	ContinueFunc     = core.ContinueFunc
	ErrorHandler     = core.ErrorHandler
	LocationProvider = core.LocationProvider
	Navigation       = core.Navigation
	Option           = core.Option
)

// New creates a Router listening to fragment changes on p.
func New(p LocationProvider, opts ...Option) *Router {
	return core.New(p, opts...)
}
