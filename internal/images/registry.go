package images

import (
	"fmt"
	"sort"
	"sync"

	"github.com/maruel/natural"

	"git.home.luguber.info/inful/docimages/internal/host"
)

// Factory creates a backend for an app.
type Factory func(app *host.App, cfg Config) (Backend, error)

// BackendInfo describes an installable backend.
type BackendInfo struct {
	// Name is the value of images.backend that selects the backend.
	Name string
	// Package is the Go package providing the backend.
	Package string
	Factory Factory
}

// Validate checks if the backend metadata is valid.
func (i BackendInfo) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("backend name is required")
	}
	if i.Package == "" {
		return fmt.Errorf("backend package is required")
	}
	if i.Factory == nil {
		return fmt.Errorf("backend %s has no factory", i.Name)
	}
	return nil
}

// Registry manages backend registration and lookup.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]BackendInfo
}

// NewRegistry creates a new empty backend registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]BackendInfo)}
}

// Register adds a backend to the registry.
// Returns an error if the metadata is invalid or the name is taken.
func (r *Registry) Register(info BackendInfo) error {
	if err := info.Validate(); err != nil {
		return fmt.Errorf("invalid backend metadata: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.backends[info.Name]; exists {
		return fmt.Errorf("backend %s already registered by %s", info.Name, existing.Package)
	}
	r.backends[info.Name] = info
	return nil
}

// Get retrieves a backend by name.
func (r *Registry) Get(name string) (BackendInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.backends[name]
	return info, ok
}

// Has checks if a backend with the given name exists.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// List returns all registered backends in natural name order.
func (r *Registry) List() []BackendInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]BackendInfo, 0, len(r.backends))
	for _, info := range r.backends {
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool { return natural.Less(result[i].Name, result[j].Name) })
	return result
}

// Names returns the registered backend names in natural order.
func (r *Registry) Names() []string {
	list := r.List()
	names := make([]string, len(list))
	for i, info := range list {
		names[i] = info.Name
	}
	return names
}

// Unregister removes a backend from the registry.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.backends[name]; !ok {
		return fmt.Errorf("backend %s not found", name)
	}
	delete(r.backends, name)
	return nil
}

// Count returns the number of registered backends.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.backends)
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry RegisterBackend adds to.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// RegisterBackend makes a backend available by name. It is intended to be
// called from the init function of the backend's package and panics on
// invalid or duplicate registrations.
func RegisterBackend(info BackendInfo) {
	if err := defaultRegistry.Register(info); err != nil {
		panic("images: RegisterBackend: " + err.Error())
	}
}

// Backends returns the backends registered with RegisterBackend.
func Backends() []BackendInfo {
	return defaultRegistry.List()
}
