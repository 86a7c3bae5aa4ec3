package core

import "time"

// Navigation describes one pass through the dispatcher.
type Navigation struct {
	ID       string
	Fragment string
	Path     string
	Started  time.Time
	State    State
	Matches  int

	// Code and Err are set once the navigation is Errored.
	Code int
	Err  error
}

// Observer is told about navigations as they start and as they reach a
// terminal state. A stalled navigation is never reported finished.
type Observer interface {
	NavigationStarted(nav Navigation)
	NavigationFinished(nav Navigation)
}

type observers []Observer
