package memory

import (
	"context"
	"sync"

	"trade-journal/internal/domain"
	"trade-journal/internal/storage"
)

// ProfileStore is an in-memory implementation of storage.ProfileStore.
type ProfileStore struct {
	mu   sync.RWMutex
	data map[string]*domain.UserProfile // keyed by user_id
}

// NewProfileStore creates a new in-memory profile store.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		data: make(map[string]*domain.UserProfile),
	}
}

// Get retrieves a profile. Returns ErrNotFound if not exists.
func (s *ProfileStore) Get(_ context.Context, userID string) (*domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[userID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	copy := *p
	return &copy, nil
}

// Upsert inserts or replaces a profile.
func (s *ProfileStore) Upsert(_ context.Context, p *domain.UserProfile) error {
	if p == nil || p.UserID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *p
	s.data[p.UserID] = &copy
	return nil
}

var _ storage.ProfileStore = (*ProfileStore)(nil)
