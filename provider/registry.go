package provider

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the named backend factories for one provider kind, such
// as speech to text or source separation, together with the instances
// already built from them. Backends register a factory under their
// provider name; callers resolve the configured name at startup.
type Registry[T Provider] struct {
	mu        sync.RWMutex
	factories map[string]Factory[T]
	instances map[string]T
}

// NewRegistry creates an empty registry.
func NewRegistry[T Provider]() *Registry[T] {
	return &Registry[T]{
		factories: make(map[string]Factory[T]),
		instances: make(map[string]T),
	}
}

// Register binds a factory to a backend name. Registering the same name
// again replaces the previous factory.
func (r *Registry[T]) Register(name string, factory Factory[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Build constructs a fresh instance from the named factory. It does not
// touch the instance cache, so repeated calls yield independent backends.
func (r *Registry[T]) Build(name string, cfg map[string]any) (T, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("unknown backend %q, registered: %v", name, r.Names())
	}
	return factory(cfg)
}

// Resolve returns the instance cached under name, building and caching
// one on first use.
func (r *Registry[T]) Resolve(name string, cfg map[string]any) (T, error) {
	r.mu.RLock()
	inst, ok := r.instances[name]
	r.mu.RUnlock()
	if ok {
		return inst, nil
	}

	built, err := r.Build(name, cfg)
	if err != nil {
		var zero T
		return zero, err
	}
	r.mu.Lock()
	r.instances[name] = built
	r.mu.Unlock()
	return built, nil
}

// Names returns the registered backend names, sorted.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
