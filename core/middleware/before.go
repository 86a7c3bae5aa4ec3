package middleware

import "github.com/miladsoleymani/hashmux/core"

// Chain combines Before entries into one that runs them in order, stopping
// at the first error.
func Chain(fns ...core.BeforeFunc) core.BeforeFunc {
	return func(req *core.Request, next core.NextFunc) {
		runChain(fns, req, next)
	}
}

func runChain(fns []core.BeforeFunc, req *core.Request, next core.NextFunc) {
	if len(fns) == 0 {
		next(nil)
		return
	}
	fns[0](req, func(err error) {
		if err != nil {
			next(err)
			return
		}
		runChain(fns[1:], req, next)
	})
}

// Only runs fn when condition holds for the request, and otherwise moves on.
func Only(condition func(req *core.Request) bool, fn core.BeforeFunc) core.BeforeFunc {
	return func(req *core.Request, next core.NextFunc) {
		if !condition(req) {
			next(nil)
			return
		}
		fn(req, next)
	}
}

// Skip moves on without running fn when condition holds for the request.
func Skip(condition func(req *core.Request) bool, fn core.BeforeFunc) core.BeforeFunc {
	return func(req *core.Request, next core.NextFunc) {
		if condition(req) {
			next(nil)
			return
		}
		fn(req, next)
	}
}

// Require fails the navigation with code unless check returns nil.
//
//	r.Before(middleware.Require(401, func(req *core.Request) error {
//	    if req.Get("token", "") == "" {
//	        return errors.New("missing token")
//	    }
//	    return nil
//	}))
func Require(code int, check func(req *core.Request) error) core.BeforeFunc {
	return func(req *core.Request, next core.NextFunc) {
		if err := check(req); err != nil {
			next(core.WithCode(code, err))
			return
		}
		next(nil)
	}
}
