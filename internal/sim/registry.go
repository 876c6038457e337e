package sim

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps strategy names to strategies.
type Registry struct {
	strategies map[string]Strategy
	mu         sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[string]Strategy)}
}

// NewDefaultRegistry returns a registry holding the built-in strategies.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, s := range []Strategy{Fair{}, Greedy{}, Pushover{}} {
		_ = r.Register(s)
	}
	return r
}

// Register adds a strategy, replacing one with the same name.
func (r *Registry) Register(s Strategy) error {
	if s == nil {
		return fmt.Errorf("cannot register nil strategy")
	}
	if s.Name() == "" {
		return fmt.Errorf("strategy name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[s.Name()] = s
	return nil
}

// Get returns the strategy registered under name.
func (r *Registry) Get(name string) (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[name]
	return s, ok
}

// Names lists the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
