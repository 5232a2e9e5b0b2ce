// Package registry maps job types to handler capabilities.
package registry

import (
	"sync"

	"github.com/Pavitra-A/queuectl/core"
	"github.com/Pavitra-A/queuectl/errors"
)

// Registry is a thread-safe handler registry
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]core.HandlerFunc
}

// NewRegistry creates a new registry
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]core.HandlerFunc),
	}
}

// Register adds a handler for a job type
func (r *Registry) Register(jobType string, handler core.HandlerFunc) error {
	if jobType == "" {
		return errors.ErrEmptyJobType
	}

	if handler == nil {
		return errors.ErrNilHandler
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers[jobType] = handler
	return nil
}

// Get retrieves a handler by job type
func (r *Registry) Get(jobType string) (core.HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handler, ok := r.handlers[jobType]
	return handler, ok
}

// List returns all registered job types
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.handlers))
	for jobType := range r.handlers {
		types = append(types, jobType)
	}

	return types
}

// Remove unregisters a handler
func (r *Registry) Remove(jobType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.handlers, jobType)
	return nil
}

// Clear removes all registered handlers
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers = make(map[string]core.HandlerFunc)
}
