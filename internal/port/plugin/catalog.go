package plugin

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Strob0t/NetForge/internal/domain"
)

// Factory is a constructor function that creates a new Component instance.
type Factory func(params map[string]string) (Component, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// RegisterFactory makes a component factory available by catalog kind.
// It is typically called from an init() function in the adapter package.
func RegisterFactory(kind string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("plugin: duplicate factory registration for %q", kind))
	}
	factories[kind] = factory
}

// Lookup returns the factory registered under the given catalog kind.
func Lookup(kind string) (Factory, error) {
	mu.RLock()
	factory, ok := factories[kind]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("plugin: unknown component kind %q: %w", kind, domain.ErrNotFound)
	}
	return factory, nil
}

// New creates a new Component by catalog kind using the registered factory.
func New(kind string, params map[string]string) (Component, error) {
	factory, err := Lookup(kind)
	if err != nil {
		return nil, err
	}
	return factory(params)
}

// Catalog returns the sorted names of all registered component kinds.
func Catalog() []string {
	mu.RLock()
	defer mu.RUnlock()

	kinds := make([]string, 0, len(factories))
	for kind := range factories {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
