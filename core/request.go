package core

import (
	"net/url"
	"strings"
)

// Request is the snapshot handed to a Before entry or a route action for one
// attempt. It is built fresh per attempt and never mutated by the router.
type Request struct {
	// Href is the fragment being dispatched, e.g. "#/user/42?tab=posts".
	Href string

	// Params holds named captures (":id" in "/user/:id").
	Params map[string]string

	// Query holds the decoded query string of the fragment.
	Query map[string]string

	// Splat holds unnamed captures in capture order.
	Splat []string

	// HasNext reports whether another matching route follows this one.
	HasNext bool
}

// NextFunc resumes a dispatch after a Before entry. A non-nil error fails the
// navigation with the error's code (see WithCode), or 500.
type NextFunc func(err error)

// ContinueFunc resumes a dispatch after a route action.
//
//	next(true, nil)   falls through to the next matching route
//	next(_, err)      fails the navigation with err's code, or 500
//	next(false, nil)  is a protocol violation (500) unless the router was
//	                  built with WithTerminalFinish(true)
//
// A route that is done with the navigation may also simply not call next.
type ContinueFunc func(hasNext bool, err error)

// BeforeFunc runs before route resolution on every navigation. It must call
// next exactly once; a BeforeFunc that never does stalls the navigation.
type BeforeFunc func(req *Request, next NextFunc)

// RouteAction runs for a matching route.
//
//	r.AddRoute("/user/:id", func(req *core.Request, next core.ContinueFunc) {
//	    if req.Params["id"] == "me" && req.HasNext {
//	        next(true, nil)
//	        return
//	    }
//	    showUser(req.Params["id"])
//	})
type RouteAction func(req *Request, next ContinueFunc)

// BuildRequest creates the Request for one attempt on fragment.
func BuildRequest(fragment string, params map[string]string, splat []string, hasNext bool) *Request {
	if params == nil {
		params = map[string]string{}
	}
	if splat == nil {
		splat = []string{}
	}
	return &Request{
		Href:    fragment,
		Params:  params,
		Query:   parseQuery(fragment),
		Splat:   splat,
		HasNext: hasNext,
	}
}

// Lookup returns the named param for key, or else the query value.
func (r *Request) Lookup(key string) (string, bool) {
	if v, ok := r.Params[key]; ok {
		return v, true
	}
	v, ok := r.Query[key]
	return v, ok
}

// Get returns the named param for key, or else the query value, or else
// fallback.
func (r *Request) Get(key, fallback string) string {
	if v, ok := r.Lookup(key); ok {
		return v
	}
	return fallback
}

// parseQuery decodes the text after the first '?' of fragment. Later
// duplicate keys overwrite earlier ones.
func parseQuery(fragment string) map[string]string {
	query := map[string]string{}
	_, raw, ok := strings.Cut(fragment, "?")
	if !ok {
		return query
	}
	for _, entry := range strings.Split(raw, "&") {
		if entry == "" {
			continue
		}
		k, v, _ := strings.Cut(entry, "=")
		query[unescape(k)] = unescape(v)
	}
	return query
}

// unescape decodes s with '+' as space, keeping s as-is when it holds a
// malformed escape.
func unescape(s string) string {
	v, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return v
}
