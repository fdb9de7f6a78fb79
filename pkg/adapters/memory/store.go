// Package memory provides in-process adapters: a SessionStore and a
// PageLoader backed by maps. Both are safe for concurrent use and are the
// default wiring for tests and embedded usage.
package memory

import (
	"context"
	"sync"

	"github.com/masonrylabs/masonry/pkg/domain"
)

// Store implements ports.SessionStore in memory.
type Store struct {
	mu   sync.RWMutex
	data map[string]*domain.WizardState
}

// NewStore creates a new in-memory session store.
func NewStore() *Store {
	return &Store{data: make(map[string]*domain.WizardState)}
}

// Save persists the state in memory. The state is cloned so callers cannot
// mutate stored sessions through retained pointers.
func (s *Store) Save(ctx context.Context, sessionID string, state *domain.WizardState) error {
	copied := state.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = copied
	return nil
}

// Load retrieves a clone of the stored state.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.WizardState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return state.Clone(), nil
}

// Delete removes the state.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}
