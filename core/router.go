package core

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Router is the fragment routing engine. It matches fragments against its
// routes, runs the Before entries, then runs every matching route in
// registration order, each deciding whether the next one runs.
//
// Registration is meant to happen before navigation starts. It is safe to do
// concurrently, but a navigation already past its matching phase does not see
// routes added later.
type Router struct {
	provider LocationProvider
	listener *changeListener
	routes   *RouteTable
	errors   *ErrorTable
	opts     options
	logger   *log.Logger

	mu      sync.RWMutex
	befores []BeforeFunc

	paused    atomic.Bool
	destroyed atomic.Bool
}

// changeListener is the Router's subscription on its LocationProvider.
type changeListener struct {
	r *Router
}

func (l *changeListener) FragmentChanged(fragment string) {
	if l.r.paused.Load() {
		l.r.logger.Debug("navigation suppressed while paused", "fragment", fragment)
		return
	}
	l.r.Dispatch(fragment)
}

// New creates a Router listening to fragment changes on p. A nil p is
// allowed for routers driven only through Dispatch.
func New(p LocationProvider, fns ...Option) *Router {
	opts := defaults()
	for _, fn := range fns {
		fn(&opts)
	}
	if opts.logger == nil {
		opts.logger = defaultLogger()
	}

	r := &Router{
		provider: p,
		routes:   NewRouteTable(),
		errors:   NewErrorTable(opts.logger),
		opts:     opts,
		logger:   opts.logger,
	}
	r.listener = &changeListener{r: r}
	if p != nil {
		p.OnFragmentChange(r.listener)
	}
	return r
}

// AddRoute compiles pattern (see Compile) and registers action for it.
func (r *Router) AddRoute(pattern string, action RouteAction) error {
	if action == nil {
		return fmt.Errorf("%w: nil action for route %q", ErrInvalidRegistration, pattern)
	}
	p, err := Compile(pattern, r.opts.ignoreCase)
	if err != nil {
		return err
	}
	idx := r.routes.Append(Route{Pattern: p, Action: action})
	r.logger.Debug("route added", "index", idx, "pattern", pattern, "matcher", p.Matcher.String())
	return nil
}

// AddMatcher registers action for a caller-built expression. Every capture
// group of re is passed to the action as a splat.
func (r *Router) AddMatcher(re *regexp.Regexp, action RouteAction) error {
	if re == nil || action == nil {
		return fmt.Errorf("%w: nil matcher or action", ErrInvalidRegistration)
	}
	idx := r.routes.Append(Route{Pattern: FromMatcher(re), Action: action})
	r.logger.Debug("route added", "index", idx, "matcher", re.String())
	return nil
}

// Before appends fn to the entries run before routes on every navigation.
func (r *Router) Before(fn BeforeFunc) error {
	if fn == nil {
		return fmt.Errorf("%w: nil before func", ErrInvalidRegistration)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.befores = append(r.befores, fn)
	return nil
}

// Errors registers h for navigations failing with code.
func (r *Router) Errors(code int, h ErrorHandler) error {
	return r.errors.Set(code, h)
}

// Fallback replaces the handler used for codes that have none registered
// with Errors.
func (r *Router) Fallback(h ErrorHandler) error {
	return r.errors.SetFallback(h)
}

// Routes returns the Router's route table.
func (r *Router) Routes() *RouteTable {
	return r.routes
}

// Pause suppresses dispatch of fragment changes and redirects.
func (r *Router) Pause() {
	r.paused.Store(true)
}

// Paused reports whether the Router is paused.
func (r *Router) Paused() bool {
	return r.paused.Load()
}

// Play resumes dispatch. With triggerNow it dispatches the provider's
// current fragment right away.
func (r *Router) Play(triggerNow bool) error {
	r.paused.Store(false)
	if !triggerNow {
		return nil
	}
	if r.provider == nil {
		return ErrNoProvider
	}
	r.Dispatch(r.provider.CurrentFragment())
	return nil
}

// SetLocation asks the provider to display url without dispatching it.
func (r *Router) SetLocation(url string) error {
	if r.provider == nil {
		return ErrNoProvider
	}
	if err := r.provider.PushURL(url); err != nil {
		return fmt.Errorf("hashmux: push %q: %w", url, err)
	}
	return nil
}

// Redirect displays url and, unless paused, dispatches its fragment.
func (r *Router) Redirect(url string) error {
	if err := r.SetLocation(url); err != nil {
		return err
	}
	if !r.paused.Load() {
		r.Dispatch(ExtractFragment(url))
	}
	return nil
}

// Run starts routing at startURL, or at the provider's current fragment when
// startURL is empty.
func (r *Router) Run(startURL string) error {
	if startURL == "" {
		if r.provider == nil {
			return ErrNoProvider
		}
		startURL = r.provider.CurrentFragment()
	}
	if !strings.HasPrefix(startURL, "#") {
		startURL = "#" + startURL
	}
	return r.Redirect(startURL)
}

// Destroy detaches the Router from its provider. It is safe to call more
// than once.
func (r *Router) Destroy() {
	if !r.destroyed.CompareAndSwap(false, true) {
		return
	}
	if r.provider != nil {
		r.provider.OffFragmentChange(r.listener)
	}
	r.logger.Debug("router destroyed")
}

// Dispatch runs one navigation for fragment and returns its state as of the
// moment Dispatch returns. A navigation whose continuations are called later,
// from elsewhere, goes on after Dispatch returns. An empty fragment is
// ignored.
func (r *Router) Dispatch(fragment string) Navigation {
	if fragment == "" {
		return Navigation{State: StateIdle}
	}

	r.mu.RLock()
	befores := make([]BeforeFunc, len(r.befores))
	copy(befores, r.befores)
	r.mu.RUnlock()

	d := &dispatch{
		id:             uuid.NewString(),
		fragment:       fragment,
		path:           FragmentPath(fragment),
		started:        time.Now(),
		befores:        befores,
		routes:         r.routes,
		errors:         r.errors,
		observers:      r.opts.observers,
		logger:         r.logger,
		terminalFinish: r.opts.terminalFinish,
	}
	d.run()
	return d.snapshot()
}
