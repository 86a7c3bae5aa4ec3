package location

import (
	"fmt"
	"sort"
	"sync"
)

// Factory creates a Transport from the given Config.
type Factory func(cfg Config) (Transport, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register adds a named transport factory. Plugins call this from init().
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = factory
}

// Transports returns the registered transport names, sorted.
func Transports() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create instantiates a transport by name using the registered factory.
func Create(name string, cfg Config) (Transport, error) {
	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownTransport, name)
	}
	t, err := f(cfg)
	if err != nil {
		return nil, fmt.Errorf("hashmux: create transport %q: %w", name, err)
	}
	return t, nil
}

// Open creates the named transport and a Provider on cfg's topic.
func Open(name string, cfg Config, fns ...ProviderOption) (*Provider, error) {
	t, err := Create(name, cfg)
	if err != nil {
		return nil, err
	}
	return NewProvider(t, cfg.topic(), fns...), nil
}
