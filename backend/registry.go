package backend

import (
	"fmt"
	"slices"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/glstage/hal"
)

// Factory creates a new backend instance. A factory may return nil when the
// backend was compiled out; selection then skips it.
type Factory func() Backend

// backendPriority is the selection order for Default: the native GL driver
// first, the CPU model as fallback.
var backendPriority = []string{BackendGL41, BackendSoft}

var backends = gpucontext.NewRegistry[Backend](gpucontext.WithPriority(backendPriority...))

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it is replaced.
func Register(name string, factory Factory) {
	backends.Register(name, factory)
}

// Unregister removes a backend from the registry.
func Unregister(name string) {
	backends.Unregister(name)
}

// Available returns the registered backend names, sorted.
func Available() []string {
	names := backends.Available()
	slices.Sort(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	return backends.Has(name)
}

// Get returns a backend instance by name.
// Returns nil if the backend is not registered or compiled out.
func Get(name string) Backend {
	return backends.Get(name)
}

// Default returns the best available backend based on priority, then any
// other registered backend in name order. Returns nil if none is usable.
func Default() Backend {
	for _, name := range backendPriority {
		if b := backends.Get(name); b != nil {
			return b
		}
	}
	for _, name := range Available() {
		if b := backends.Get(name); b != nil {
			return b
		}
	}
	return nil
}

// MustDefault returns the default backend or panics.
func MustDefault() Backend {
	b := Default()
	if b == nil {
		panic("backend: no backend available")
	}
	return b
}

// Select returns the named backend, or Default when name is empty.
func Select(name string) (Backend, error) {
	if name == "" {
		if b := Default(); b != nil {
			return b, nil
		}
		return nil, ErrBackendNotAvailable
	}
	if b := Get(name); b != nil {
		return b, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
}

// Open selects a backend like Select and opens a device on it.
func Open(name string) (hal.Device, error) {
	b, err := Select(name)
	if err != nil {
		return nil, err
	}
	dev, err := b.Open()
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", b.Name(), err)
	}
	return dev, nil
}
