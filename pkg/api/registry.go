package api

import (
	"fmt"
	"sync"
)

// Registry is the default TestClassIntrospector: an explicit, process-local
// registration of ClassModels. Test packages typically register their
// classes from init functions against the default registry.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	classes map[string]*ClassModel
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]*ClassModel)}
}

// Register adds a class model. Registering an unnamed class or a duplicate
// name is an error.
func (r *Registry) Register(model *ClassModel) error {
	if model == nil || model.Name == "" {
		return fmt.Errorf("test class registration requires a name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.classes[model.Name]; exists {
		return fmt.Errorf("test class %q already registered", model.Name)
	}
	r.classes[model.Name] = model
	r.order = append(r.order, model.Name)
	return nil
}

// MustRegister is Register, panicking on error. Intended for init functions.
func (r *Registry) MustRegister(model *ClassModel) {
	if err := r.Register(model); err != nil {
		panic(err)
	}
}

// ClassNames implements TestClassIntrospector.
func (r *Registry) ClassNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Introspect implements TestClassIntrospector.
func (r *Registry) Introspect(className string) (*ClassModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	model, ok := r.classes[className]
	if !ok {
		return nil, fmt.Errorf("test class %q is not registered", className)
	}
	return model, nil
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry used by the CLI.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds a class model to the default registry, panicking on error.
func Register(model *ClassModel) {
	defaultRegistry.MustRegister(model)
}
