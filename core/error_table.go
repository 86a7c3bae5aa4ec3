package core

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// ErrorHandler presents a failed navigation. fragment is the fragment that
// was being dispatched and code the error-table code that selected the
// handler.
type ErrorHandler func(err error, fragment string, code int)

// ErrorTable maps error codes to handlers, with one fallback used for codes
// that have no handler of their own. It is safe for concurrent use.
type ErrorTable struct {
	mu       sync.RWMutex
	handlers map[int]ErrorHandler
	fallback ErrorHandler
}

// NewErrorTable creates an ErrorTable whose default handlers only log: 404
// and the fallback as warnings, 500 as an error.
func NewErrorTable(logger *log.Logger) *ErrorTable {
	return &ErrorTable{
		handlers: map[int]ErrorHandler{
			CodeNotFound: func(err error, fragment string, code int) {
				logger.Warn("unmatched route", "fragment", fragment, "code", code)
			},
			CodeInternal: func(err error, fragment string, code int) {
				logger.Error("internal route error", "fragment", fragment, "code", code, "err", err)
			},
		},
		fallback: func(err error, fragment string, code int) {
			logger.Warn("route error", "fragment", fragment, "code", code, "err", err)
		},
	}
}

// Set registers h for code, replacing any previous handler.
func (t *ErrorTable) Set(code int, h ErrorHandler) error {
	if h == nil {
		return fmt.Errorf("%w: nil error handler for code %d", ErrInvalidRegistration, code)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[code] = h
	return nil
}

// SetFallback replaces the handler used for codes without their own.
func (t *ErrorTable) SetFallback(h ErrorHandler) error {
	if h == nil {
		return fmt.Errorf("%w: nil fallback error handler", ErrInvalidRegistration)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fallback = h
	return nil
}

// Lookup returns the handler for code, or the fallback.
func (t *ErrorTable) Lookup(code int) ErrorHandler {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if h, ok := t.handlers[code]; ok {
		return h
	}
	return t.fallback
}
