package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMatch is reported (code 404) when no route matches the fragment's path.
	ErrNoMatch = errors.New("hashmux: no route matches fragment")

	// ErrProtocolViolation is reported (code 500) when a route action signals
	// that it will not continue, without reporting an error.
	ErrProtocolViolation = errors.New("hashmux: cannot continue without an error when no further matches exist")

	// ErrPanic is reported (code 500) when a callback panics during dispatch.
	ErrPanic = errors.New("hashmux: panic recovered")

	// ErrInvalidRegistration is returned when a handler or action is nil.
	ErrInvalidRegistration = errors.New("hashmux: invalid registration")

	// ErrInvalidPattern is returned when a route pattern does not compile.
	ErrInvalidPattern = errors.New("hashmux: invalid route pattern")

	// ErrNoProvider is returned by facade operations that need a LocationProvider.
	ErrNoProvider = errors.New("hashmux: location provider is nil")
)

const (
	// CodeNotFound is the error code used when nothing matches.
	CodeNotFound = 404

	// CodeInternal is the default error code for failed navigations.
	CodeInternal = 500
)

// CodedError attaches an error-table code to an error.
type CodedError struct {
	Code int
	Err  error
}

func (e *CodedError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("hashmux: error %d", e.Code)
	}
	return e.Err.Error()
}

func (e *CodedError) Unwrap() error { return e.Err }

// WithCode wraps err so that the dispatcher routes it to the error handler
// registered for code.
//
//	r.Before(func(req *core.Request, next core.NextFunc) {
//	    if !loggedIn() {
//	        next(core.WithCode(401, errors.New("login required")))
//	        return
//	    }
//	    next(nil)
//	})
func WithCode(code int, err error) error {
	return &CodedError{Code: code, Err: err}
}

// CodeOf returns the code attached to err with WithCode, or fallback when
// none is attached or the attached code is not positive.
func CodeOf(err error, fallback int) int {
	var ce *CodedError
	if errors.As(err, &ce) && ce.Code > 0 {
		return ce.Code
	}
	return fallback
}
