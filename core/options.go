package core

import (
	"os"

	"github.com/charmbracelet/log"
)

// Option configures a Router.
type Option func(*options)

type options struct {
	ignoreCase     bool
	terminalFinish bool
	logger         *log.Logger
	observers      observers
}

func defaults() options {
	return options{
		ignoreCase: true,
	}
}

// WithIgnoreCase controls whether string patterns match case-insensitively.
// Defaults to true. It applies to routes added after the Router is built,
// so it has no effect on matchers passed to AddMatcher.
func WithIgnoreCase(ignore bool) Option {
	return func(o *options) { o.ignoreCase = ignore }
}

// WithTerminalFinish lets a route end a navigation by calling next(false, nil).
// By default that call is reported as ErrProtocolViolation (500).
func WithTerminalFinish(allow bool) Option {
	return func(o *options) { o.terminalFinish = allow }
}

// WithLogger sets the logger used for diagnostics and by the default error
// handlers.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithObserver adds an Observer told about every navigation. It may be given
// more than once.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

func defaultLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "hashmux",
	})
}
