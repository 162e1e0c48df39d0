package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// Store implements ports.ValueStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]ports.Values
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]ports.Values),
	}
}

// Save keeps a deep copy of values, so later changes by the caller do not leak in.
func (s *Store) Save(ctx context.Context, sessionID string, values ports.Values) error {
	copied := clone(values)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = copied
	return nil
}

// Load retrieves a copy of the values stored for sessionID.
func (s *Store) Load(ctx context.Context, sessionID string) (ports.Values, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return clone(values), nil
}

func clone(values ports.Values) ports.Values {
	out := make(ports.Values, len(values))
	for id, v := range values {
		out[id] = domain.Clone(v)
	}
	return out
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns active sessions, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.data)), nil
}
