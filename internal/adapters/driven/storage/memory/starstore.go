package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/unify-search/unify-cli/internal/core/ports/driven"
)

// Ensure StarStore implements the interface.
var _ driven.StarStore = (*StarStore)(nil)

// StarStore is an in-memory implementation of driven.StarStore.
type StarStore struct {
	mu      sync.RWMutex
	starred map[string]bool
}

// NewStarStore creates a new in-memory star store.
func NewStarStore() *StarStore {
	return &StarStore{
		starred: make(map[string]bool),
	}
}

// IsStarred reports whether the result id is starred.
func (s *StarStore) IsStarred(_ context.Context, resultID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.starred[resultID], nil
}

// SetStarred stars or unstars a result id.
func (s *StarStore) SetStarred(_ context.Context, resultID string, starred bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if starred {
		s.starred[resultID] = true
	} else {
		delete(s.starred, resultID)
	}
	return nil
}

// StarredIDs returns every starred result id in sorted order.
func (s *StarStore) StarredIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.starred))
	for id := range s.starred {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
