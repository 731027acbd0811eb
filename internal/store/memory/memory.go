package memory

import (
	"context"
	"sync"

	"finas/internal/core"
	"finas/internal/store"
)

// Store is the in-memory backend, selectable for database-free runs and
// used as the test double everywhere else.
type Store struct {
	mu       sync.Mutex
	items    []core.Transaction // newest first
	ids      map[string]struct{}
	settings core.AppSettings
	saved    bool
}

func New() *Store {
	return &Store{ids: make(map[string]struct{})}
}

// Append prepends the transaction so the newest record is always first.
func (s *Store) Append(_ context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.ids[t.ID]; exists {
		return core.ErrDuplicateID
	}
	s.ids[t.ID] = struct{}{}
	s.items = append([]core.Transaction{t}, s.items...)
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.items {
		if t.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			delete(s.ids, id)
			return nil
		}
	}
	return store.ErrNotFound
}

// List returns a copy; callers may not mutate the store through it.
func (s *Store) List(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *Store) Settings(_ context.Context) (core.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.saved {
		return core.DefaultSettings(), nil
	}
	return s.settings, nil
}

func (s *Store) SaveSettings(_ context.Context, settings core.AppSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.saved = true
	return nil
}
