package tabular

import (
	"context"
	"fmt"
	"sync"

	"github.com/healthsignal/health-engine/pkg/models"
)

// Factory builds a Store for one source type. Factories run lazily so that
// an unconfigured backend only fails when a caller switches to it.
type Factory func(ctx context.Context) (Store, error)

// Registry maps source types to store factories and caches opened stores.
type Registry struct {
	mu        sync.Mutex
	factories map[models.SourceType]Factory
	open      map[models.SourceType]Store
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[models.SourceType]Factory),
		open:      make(map[models.SourceType]Store),
	}
}

// Register installs the factory for a source type, replacing any previous one.
func (r *Registry) Register(t models.SourceType, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[t] = f
}

// Open returns the store for a source type, constructing it on first use.
func (r *Registry) Open(ctx context.Context, t models.SourceType) (Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.open[t]; ok {
		return s, nil
	}
	f, ok := r.factories[t]
	if !ok {
		return nil, fmt.Errorf("no store registered for source %q", t)
	}
	s, err := f(ctx)
	if err != nil {
		return nil, err
	}
	r.open[t] = s
	return s, nil
}

// CloseAll closes every opened store.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for t, s := range r.open {
		_ = s.Close()
		delete(r.open, t)
	}
}
