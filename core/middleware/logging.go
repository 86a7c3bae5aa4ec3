package middleware

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/miladsoleymani/hashmux/core"
)

// Logging returns an observer that logs every finished navigation with its
// outcome and duration.
func Logging(logger *log.Logger) core.Observer {
	return loggingObserver{logger: logger}
}

type loggingObserver struct {
	logger *log.Logger
}

func (o loggingObserver) NavigationStarted(nav core.Navigation) {
	o.logger.Debug("navigation started", "navigation", nav.ID, "fragment", nav.Fragment)
}

func (o loggingObserver) NavigationFinished(nav core.Navigation) {
	elapsed := time.Since(nav.Started)
	if nav.State == core.StateErrored {
		o.logger.Error("navigation failed",
			"fragment", nav.Fragment, "code", nav.Code, "matches", nav.Matches, "elapsed", elapsed, "err", nav.Err)
		return
	}
	o.logger.Info("navigation done",
		"fragment", nav.Fragment, "matches", nav.Matches, "elapsed", elapsed)
}
