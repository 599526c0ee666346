package provider

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Registry manages named provider factories and cached instances.
type Registry[T Provider] struct {
	mu        sync.RWMutex
	factories map[string]Factory[T]
	instances map[string]T
}

// NewRegistry creates a new empty Registry.
func NewRegistry[T Provider]() *Registry[T] {
	return &Registry[T]{
		factories: make(map[string]Factory[T]),
		instances: make(map[string]T),
	}
}

// RegisterFactory registers a named factory for creating providers.
func (r *Registry[T]) RegisterFactory(name string, factory Factory[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Create instantiates a provider using the named factory and config.
func (r *Registry[T]) Create(name string, cfg map[string]any) (T, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("provider factory %q not registered", name)
	}
	return factory(cfg)
}

// Resolve returns the cached instance for name, creating and caching it
// from cfg on first use.
func (r *Registry[T]) Resolve(name string, cfg map[string]any) (T, error) {
	if inst, ok := r.Get(name); ok {
		return inst, nil
	}
	inst, err := r.Create(name, cfg)
	if err != nil {
		return inst, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// another caller may have won the race
	if existing, ok := r.instances[name]; ok {
		return existing, nil
	}
	r.instances[name] = inst
	return inst, nil
}

// Get returns a cached provider instance by name.
func (r *Registry[T]) Get(name string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.instances[name]
	return inst, ok
}

// Set caches a provider instance by name.
func (r *Registry[T]) Set(name string, instance T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances[name] = instance
}

// Instances returns the cached instances sorted by name.
func (r *Registry[T]) Instances() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.instances))
	for name := range r.instances {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]T, 0, len(names))
	for _, name := range names {
		out = append(out, r.instances[name])
	}
	return out
}

// List returns sorted names of all registered factories.
func (r *Registry[T]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes every cached instance that implements Closeable and
// drops it from the cache.
func (r *Registry[T]) Close(ctx context.Context) error {
	r.mu.Lock()
	instances := r.instances
	r.instances = make(map[string]T)
	r.mu.Unlock()

	var errs []error
	for name, inst := range instances {
		if c, ok := any(inst).(Closeable); ok {
			if err := c.Close(ctx); err != nil {
				errs = append(errs, fmt.Errorf("close provider %q: %w", name, err))
			}
		}
	}
	return errors.Join(errs...)
}
