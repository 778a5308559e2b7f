package contract

import (
	"fmt"
	"sort"
	"sync"
)

// Registry stores build-time contract implementations by template name.
// Registered contracts shadow the template's on-disk validation unit at load
// time, giving deployments a compiled plugin manifest while keeping the
// per-template isolation guarantee.
type Registry struct {
	mu        sync.RWMutex
	contracts map[string]Contract
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{contracts: make(map[string]Contract)}
}

// Register adds a contract for a template name. Duplicate names return an
// error.
func (r *Registry) Register(template string, c Contract) error {
	if template == "" {
		return fmt.Errorf("contract: template name is required")
	}
	if c == nil {
		return fmt.Errorf("contract: contract is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contracts[template]; exists {
		return fmt.Errorf("contract: template %q already registered", template)
	}

	r.contracts[template] = c
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(template string, c Contract) {
	if err := r.Register(template, c); err != nil {
		panic(err)
	}
}

// Get retrieves a registered contract by template name.
func (r *Registry) Get(template string) (Contract, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.contracts[template]
	return c, ok
}

// List returns the registered template names in lexicographic order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.contracts))
	for name := range r.contracts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
