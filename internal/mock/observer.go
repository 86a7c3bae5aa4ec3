package mock

import (
	"sync"

	"github.com/miladsoleymani/hashmux/core"
)

// Observer records the navigations it is told about.
type Observer struct {
	mu       sync.Mutex
	started  []core.Navigation
	finished []core.Navigation
}

func (o *Observer) NavigationStarted(nav core.Navigation) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started = append(o.started, nav)
}

func (o *Observer) NavigationFinished(nav core.Navigation) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finished = append(o.finished, nav)
}

// Started returns the navigations reported started.
func (o *Observer) Started() []core.Navigation {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]core.Navigation(nil), o.started...)
}

// Finished returns the navigations reported finished.
func (o *Observer) Finished() []core.Navigation {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]core.Navigation(nil), o.finished...)
}
