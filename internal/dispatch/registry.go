package dispatch

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/koustreak/vschema/internal/errs"
	"github.com/koustreak/vschema/internal/logger"
	"github.com/koustreak/vschema/internal/request"
)

// Adapter serves decoded requests for one kind of external source.
// exaMeta is the engine's opaque execution context, passed through untouched.
type Adapter interface {
	Handle(ctx context.Context, exaMeta any, req request.AdapterRequest) (string, error)
}

// Factory creates an Adapter that logs through log.
type Factory func(log *logger.Logger) Adapter

// Registry maps adapter names to factories. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds an adapter factory. A later registration under the same
// name replaces the earlier one.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Get retrieves an adapter factory by name.
func (r *Registry) Get(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Names returns all registered adapter names (sorted).
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates the adapter registered under name.
func (r *Registry) New(name string, log *logger.Logger) (Adapter, error) {
	if name == "" {
		return nil, errs.New(errs.ErrKindUnknownAdapter, "adapter name not specified")
	}
	f, ok := r.Get(name)
	if !ok {
		return nil, &errs.Error{
			Kind:    errs.ErrKindUnknownAdapter,
			Message: fmt.Sprintf("no adapter registered (available: %v)", r.Names()),
			Token:   name,
		}
	}
	return f(log), nil
}
