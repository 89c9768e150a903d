// Package provider contains the model-provider selection registry and a
// scripted mock provider for tests. Concrete backend adapters live in
// sub-packages (openai, anthropic, ollama); add further backends without
// changing any calling code and register them at wiring time.
package provider

import (
	"strings"
	"sync"

	"github.com/hupe1980/agentcore/core"
)

// Registry resolves model providers by name, case-insensitively. It is safe
// for concurrent use; register at wiring time or at runtime to extend the
// provider set.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]core.ModelProvider
}

// NewRegistry constructs a registry containing the given providers.
func NewRegistry(providers ...core.ModelProvider) *Registry {
	r := &Registry{providers: make(map[string]core.ModelProvider, len(providers))}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds or replaces a provider keyed by its lower-cased name.
func (r *Registry) Register(p core.ModelProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[strings.ToLower(p.Name())] = p
}

// Resolve returns the provider whose name matches case-insensitively.
func (r *Registry) Resolve(name string) (core.ModelProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[strings.ToLower(name)]
	return p, ok
}

// Names returns the registered provider names in no guaranteed order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
