package ext2

import (
	"fmt"
	"sync"

	"github.com/ext2fs/go-ext2/backend"
)

// Registry tracks every probed or formatted Device handle by name, so a
// caller such as a filesystem switch can look one up without threading a
// *Device through every layer itself. A Registry is the only place this
// package keeps state beyond a single Device's own fields; nothing here is
// a bare package-level global (§9).
type Registry struct {
	mu      sync.Mutex
	devices map[string]*Device
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{devices: make(map[string]*Device)}
}

// Attach probes dev and registers the resulting handle under name. It
// returns an error if name is already registered or probing fails.
func (r *Registry) Attach(name string, dev backend.Device) (*Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.devices[name]; exists {
		return nil, fmt.Errorf("ext2: device %q already registered", name)
	}
	d, err := Probe(dev)
	if err != nil {
		return nil, err
	}
	r.devices[name] = d
	return d, nil
}

// Lookup returns the registered Device for name, or false if none exists.
func (r *Registry) Lookup(name string) (*Device, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.devices[name]
	return d, ok
}

// Detach removes name from the registry. It does not close the underlying
// backend.Device; that remains the caller's responsibility.
func (r *Registry) Detach(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.devices, name)
}

// Names returns every currently registered device name.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.devices))
	for n := range r.devices {
		names = append(names, n)
	}
	return names
}
