package bot

import (
	"slices"
	"sync"
)

// Registry collects the feature modules the bot starts with, such as the
// music queue module. Order of registration is the order of initialization.
type Registry struct {
	mu      sync.RWMutex
	modules []Module
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		modules: make([]Module, 0),
	}
}

// Register appends m.
func (r *Registry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules = append(r.modules, m)
}

// Modules returns a copy of the registered modules.
func (r *Registry) Modules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.modules)
}

// Modules register themselves here from init(); the binary selects them
// with blank imports.
var globalRegistry = NewRegistry()

// Register adds m to the process-wide registry.
func Register(m Module) {
	globalRegistry.Register(m)
}

// Modules returns every module registered from init().
func Modules() []Module {
	return globalRegistry.Modules()
}

// ResetGlobalRegistry empties the process-wide registry. Tests only.
func ResetGlobalRegistry() {
	globalRegistry = NewRegistry()
}
