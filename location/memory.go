package location

import (
	"sync"

	"github.com/miladsoleymani/hashmux/core"
)

// Memory is an in-process LocationProvider. PushURL only records the new
// location; Navigate records it and notifies listeners, the way a user
// following a link would.
type Memory struct {
	mu        sync.RWMutex
	current   string
	history   []string
	listeners listenerSet
}

var _ core.LocationProvider = (*Memory)(nil)

// NewMemory creates a Memory provider displaying start.
func NewMemory(start string) *Memory {
	return &Memory{current: core.ExtractFragment(start)}
}

func (m *Memory) CurrentFragment() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *Memory) OnFragmentChange(l core.FragmentListener)  { m.listeners.add(l) }
func (m *Memory) OffFragmentChange(l core.FragmentListener) { m.listeners.remove(l) }

// PushURL displays url without notifying listeners.
func (m *Memory) PushURL(url string) error {
	m.set(url)
	return nil
}

// Navigate displays url and notifies listeners of its fragment.
func (m *Memory) Navigate(url string) {
	m.listeners.notify(m.set(url))
}

// History returns every URL displayed, oldest first.
func (m *Memory) History() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.history))
	copy(out, m.history)
	return out
}

// Listeners returns the number of subscribed listeners.
func (m *Memory) Listeners() int {
	return m.listeners.len()
}

func (m *Memory) set(url string) string {
	fragment := core.ExtractFragment(url)
	m.mu.Lock()
	m.current = fragment
	m.history = append(m.history, url)
	m.mu.Unlock()
	return fragment
}
