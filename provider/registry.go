package provider

import (
	"fmt"
	"sort"
	"sync"
)

// Factory creates a provider from a configuration value.
type Factory[T Provider, C any] func(cfg C) (T, error)

// Registry maps names to factories, e.g. "whisper" and "openai" for the
// transcription engines.
type Registry[T Provider, C any] struct {
	mu        sync.RWMutex
	factories map[string]Factory[T, C]
}

// NewRegistry creates an empty registry.
func NewRegistry[T Provider, C any]() *Registry[T, C] {
	return &Registry[T, C]{factories: make(map[string]Factory[T, C])}
}

// Register adds or replaces a named factory.
func (r *Registry[T, C]) Register(name string, f Factory[T, C]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Create builds the provider registered under name.
func (r *Registry[T, C]) Create(name string, cfg C) (T, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("provider %q not registered (available: %v)", name, r.Names())
	}
	return f(cfg)
}

// Names returns the registered names, sorted.
func (r *Registry[T, C]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
