package memory

import (
	"context"
	"sync"

	"trade-journal/internal/domain"
	"trade-journal/internal/storage"
)

// AchievementStore is an in-memory implementation of storage.AchievementStore.
type AchievementStore struct {
	mu   sync.RWMutex
	data map[string]*domain.UserAchievements // keyed by user_id
}

// NewAchievementStore creates a new in-memory achievement store.
func NewAchievementStore() *AchievementStore {
	return &AchievementStore{
		data: make(map[string]*domain.UserAchievements),
	}
}

// Get retrieves a user's state. Returns ErrNotFound if not exists.
func (s *AchievementStore) Get(_ context.Context, userID string) (*domain.UserAchievements, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, exists := s.data[userID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return a.Clone(), nil
}

// Save replaces the user's state.
func (s *AchievementStore) Save(_ context.Context, a *domain.UserAchievements) error {
	if a == nil || a.UserID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[a.UserID] = a.Clone()
	return nil
}

var _ storage.AchievementStore = (*AchievementStore)(nil)
