package core

import "sync"

// Route is a compiled pattern and the action run when it matches.
type Route struct {
	Pattern
	Action RouteAction
}

// RouteTable is an append-only, order-preserving registry of routes.
// It is safe for concurrent use.
type RouteTable struct {
	mu     sync.RWMutex
	routes []Route
}

// NewRouteTable creates an empty RouteTable.
func NewRouteTable() *RouteTable {
	return &RouteTable{}
}

// Append registers route and returns its index. Indexes are stable.
func (t *RouteTable) Append(route Route) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.routes = append(t.routes, route)
	return len(t.routes) - 1
}

// At returns the route registered at index i.
func (t *RouteTable) At(i int) (Route, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if i < 0 || i >= len(t.routes) {
		return Route{}, false
	}
	return t.routes[i], true
}

// Len returns the number of registered routes.
func (t *RouteTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.routes)
}

// MatchAll returns the indexes of every route accepting path, in
// registration order.
func (t *RouteTable) MatchAll(path string) []int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var matched []int
	for i, r := range t.routes {
		if r.Match(path) {
			matched = append(matched, i)
		}
	}
	return matched
}
