package core

import (
	"fmt"
	"runtime"
)

// invoke runs a Before entry or route action, turning a panic into a 500
// failure of the navigation.
func (d *dispatch) invoke(stage string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			d.logger.Error("panic recovered", "navigation", d.id, "stage", stage, "fragment", d.fragment, "panic", r, "stack", string(buf[:n]))
			d.fail(CodeInternal, fmt.Errorf("%w in %s: %v", ErrPanic, stage, r))
		}
	}()
	fn()
}

// handleError runs an error handler. A panicking handler is only logged:
// the navigation is already terminal.
func (d *dispatch) handleError(h ErrorHandler, err error, code int) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			d.logger.Error("panic in error handler", "navigation", d.id, "fragment", d.fragment, "code", code, "panic", r, "stack", string(buf[:n]))
		}
	}()
	h(err, d.fragment, code)
}

// notify reports the navigation to every observer. A panicking observer is
// only logged and does not keep the others from being told.
func (d *dispatch) notify(finished bool) {
	nav := d.snapshot()
	for _, obs := range d.observers {
		d.observe(obs, nav, finished)
	}
}

func (d *dispatch) observe(obs Observer, nav Navigation, finished bool) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			d.logger.Error("panic in observer", "navigation", d.id, "fragment", d.fragment, "finished", finished, "panic", r, "stack", string(buf[:n]))
		}
	}()
	if finished {
		obs.NavigationFinished(nav)
		return
	}
	obs.NavigationStarted(nav)
}
