package location

import (
	"sync"

	"github.com/miladsoleymani/hashmux/core"
)

// listenerSet holds fragment listeners in subscription order. Adding a
// listener twice keeps one subscription.
type listenerSet struct {
	mu        sync.RWMutex
	listeners []core.FragmentListener
}

func (s *listenerSet) add(l core.FragmentListener) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cur := range s.listeners {
		if cur == l {
			return
		}
	}
	s.listeners = append(s.listeners, l)
}

func (s *listenerSet) remove(l core.FragmentListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.listeners {
		if cur == l {
			s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
			return
		}
	}
}

// notify calls every listener with fragment, outside the lock so a listener
// may subscribe or unsubscribe.
func (s *listenerSet) notify(fragment string) {
	s.mu.RLock()
	snapshot := make([]core.FragmentListener, len(s.listeners))
	copy(snapshot, s.listeners)
	s.mu.RUnlock()

	for _, l := range snapshot {
		l.FragmentChanged(fragment)
	}
}

func (s *listenerSet) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listeners)
}
