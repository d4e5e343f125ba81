// Package classify selects between interchangeable classifier providers.
package classify

import (
	"fmt"

	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/ports"
)

// Registry keeps a mapping from provider names to classifier implementations.
type Registry struct {
	providers map[string]ports.Classifier
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: map[string]ports.Classifier{}}
}

// Register adds or replaces a provider under the given name.
func (r *Registry) Register(name string, classifier ports.Classifier) {
	if r.providers == nil {
		r.providers = map[string]ports.Classifier{}
	}
	r.providers[name] = classifier
}

// Resolve returns a provider by name or an error if it is absent.
func (r *Registry) Resolve(name string) (ports.Classifier, error) {
	if classifier, ok := r.providers[name]; ok {
		return classifier, nil
	}
	return nil, fmt.Errorf("classifier %s is not registered", name)
}
