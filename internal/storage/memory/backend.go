package memory

import (
	"context"
	"sync"

	"github.com/sglre6355/guildkeeper/internal/guilddata"
)

// Backend hands out one in-memory Store per collection name.
type Backend struct {
	mu          sync.Mutex
	collections map[string]*Store
}

// NewBackend creates an empty Backend.
func NewBackend() *Backend {
	return &Backend{
		collections: make(map[string]*Store),
	}
}

// Collection returns the store for name, creating it on first use.
func (b *Backend) Collection(name string) guilddata.Store {
	b.mu.Lock()
	defer b.mu.Unlock()

	store, ok := b.collections[name]
	if !ok {
		store = NewStore()
		b.collections[name] = store
	}
	return store
}

// Ping always succeeds.
func (b *Backend) Ping(context.Context) error {
	return nil
}

// Close is a no-op.
func (b *Backend) Close(context.Context) error {
	return nil
}
