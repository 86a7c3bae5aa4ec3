package middleware

import (
	"time"

	"github.com/miladsoleymani/hashmux/core"
)

// MetricsCollector is the interface that metrics backends must implement.
// This keeps the observer decoupled from any specific metrics library.
type MetricsCollector interface {
	// NavigationProcessed records a finished navigation. duration runs from
	// the start of matching to the terminal state.
	NavigationProcessed(nav core.Navigation, duration time.Duration)
}

// Metrics returns an observer that reports finished navigations to the given
// collector.
func Metrics(collector MetricsCollector) core.Observer {
	return metricsObserver{collector: collector}
}

type metricsObserver struct {
	collector MetricsCollector
}

func (metricsObserver) NavigationStarted(core.Navigation) {}

func (o metricsObserver) NavigationFinished(nav core.Navigation) {
	o.collector.NavigationProcessed(nav, time.Since(nav.Started))
}
