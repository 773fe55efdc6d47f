package backend

import (
	"fmt"
	"slices"
	"sync"
)

// Factory creates a new device instance.
type Factory func() (Device, error)

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
	// Priority order for default selection (first available wins).
	backendPriority = []string{BackendWGPU, BackendWGPUNoop, BackendRecorder}
)

// Register registers a device factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it is replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns the registered backend names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Open creates a device from the named backend.
func Open(name string) (Device, error) {
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	d, err := factory()
	if err != nil {
		return nil, fmt.Errorf("backend %q: %w", name, err)
	}
	return d, nil
}

// OpenDefault opens the best available backend by priority, falling back
// to any registered backend.
func OpenDefault() (Device, error) {
	registryMu.RLock()
	var names []string
	for _, name := range backendPriority {
		if _, ok := factories[name]; ok {
			names = append(names, name)
		}
	}
	for name := range factories {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	registryMu.RUnlock()

	var errs []error
	for _, name := range names {
		d, err := Open(name)
		if err == nil {
			return d, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, ErrBackendNotAvailable
	}
	return nil, fmt.Errorf("%w: %v", ErrBackendNotAvailable, errs)
}
