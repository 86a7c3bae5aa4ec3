package core

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// StateIdle is a navigation that has not started matching.
	StateIdle State = iota
	// StateMatching resolves the fragment against the route table.
	StateMatching
	// StateBeforeChain runs the Before entries.
	StateBeforeChain
	// StateRouteChain runs the matching routes in registration order.
	StateRouteChain
	// StateDone is a navigation that ran out of routes to continue to (terminal).
	StateDone
	// StateErrored is a navigation handed to the error table (terminal).
	StateErrored
)

// State is the position of one navigation in the dispatcher.
type State int32

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMatching:
		return "matching"
	case StateBeforeChain:
		return "before-chain"
	case StateRouteChain:
		return "route-chain"
	case StateDone:
		return "done"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen from s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateErrored
}

// dispatch drives one navigation. Its flow only advances through
// continuations, and at most one continuation is outstanding at a time.
type dispatch struct {
	id       string
	fragment string
	path     string
	started  time.Time

	state atomic.Int32

	mu   sync.Mutex // guards code and err
	code int
	err  error

	befores    []BeforeFunc
	matches    []int
	matchCount int

	routes         *RouteTable
	errors         *ErrorTable
	observers      observers
	logger         *log.Logger
	terminalFinish bool
}

func (d *dispatch) State() State { return State(d.state.Load()) }

// transition moves to state to unless the navigation already ended, so a
// terminal state is entered exactly once.
func (d *dispatch) transition(to State) bool {
	for {
		cur := d.State()
		if cur.Terminal() {
			return false
		}
		if d.state.CompareAndSwap(int32(cur), int32(to)) {
			d.logger.Debug("navigation state", "navigation", d.id, "from", cur, "to", to)
			return true
		}
	}
}

func (d *dispatch) snapshot() Navigation {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Navigation{
		ID:       d.id,
		Fragment: d.fragment,
		Path:     d.path,
		Started:  d.started,
		State:    d.State(),
		Matches:  d.matchCount,
		Code:     d.code,
		Err:      d.err,
	}
}

func (d *dispatch) run() {
	d.notify(false)
	if !d.transition(StateMatching) {
		return
	}

	d.matches = d.routes.MatchAll(d.path)
	d.matchCount = len(d.matches)
	if len(d.matches) == 0 {
		d.fail(CodeNotFound, fmt.Errorf("%w %q", ErrNoMatch, d.fragment))
		return
	}

	if len(d.befores) > 0 && !d.transition(StateBeforeChain) {
		return
	}
	d.nextBefore()
}

func (d *dispatch) nextBefore() {
	if len(d.befores) == 0 {
		if d.transition(StateRouteChain) {
			d.followRoute()
		}
		return
	}

	before := d.befores[0]
	d.befores = d.befores[1:]
	req := BuildRequest(d.fragment, nil, nil, true)
	next := d.beforeNext()
	d.invoke("before", func() { before(req, next) })
}

func (d *dispatch) beforeNext() NextFunc {
	var used atomic.Bool
	return func(err error) {
		if !used.CompareAndSwap(false, true) {
			d.logger.Warn("before continuation called more than once", "navigation", d.id, "fragment", d.fragment)
			return
		}
		if d.State().Terminal() {
			return
		}
		if err != nil {
			d.fail(CodeOf(err, CodeInternal), err)
			return
		}
		d.nextBefore()
	}
}

func (d *dispatch) followRoute() {
	if len(d.matches) == 0 {
		d.finish()
		return
	}

	idx := d.matches[0]
	d.matches = d.matches[1:]

	route, ok := d.routes.At(idx)
	if !ok {
		d.fail(CodeInternal, fmt.Errorf("hashmux: route %d not found", idx))
		return
	}
	params, splat, ok := route.Extract(d.path)
	if !ok {
		d.fail(CodeInternal, fmt.Errorf("hashmux: route %q no longer matches %q", route.Source, d.path))
		return
	}

	req := BuildRequest(d.fragment, params, splat, len(d.matches) > 0)
	next := d.routeNext()
	d.invoke("route "+route.Source, func() { route.Action(req, next) })
}

func (d *dispatch) routeNext() ContinueFunc {
	var used atomic.Bool
	return func(hasNext bool, err error) {
		if !used.CompareAndSwap(false, true) {
			d.logger.Warn("route continuation called more than once", "navigation", d.id, "fragment", d.fragment)
			return
		}
		if d.State().Terminal() {
			return
		}
		switch {
		case err != nil:
			d.fail(CodeOf(err, CodeInternal), err)
		case !hasNext && d.terminalFinish:
			d.finish()
		case !hasNext:
			d.fail(CodeInternal, fmt.Errorf("%w: %s", ErrProtocolViolation, d.fragment))
		default:
			d.followRoute()
		}
	}
}

func (d *dispatch) finish() {
	if !d.transition(StateDone) {
		return
	}
	d.notify(true)
}

func (d *dispatch) fail(code int, err error) {
	if !d.transition(StateErrored) {
		d.logger.Debug("failure after navigation ended", "navigation", d.id, "code", code, "err", err)
		return
	}

	d.mu.Lock()
	d.code, d.err = code, err
	d.mu.Unlock()

	d.handleError(d.errors.Lookup(code), err, code)
	d.notify(true)
}
