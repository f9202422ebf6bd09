package memory

import (
	"context"
	"sync"

	"trade-journal/internal/domain"
	"trade-journal/internal/storage"
)

// MetricsStore is an in-memory implementation of storage.MetricsStore.
type MetricsStore struct {
	mu   sync.RWMutex
	data map[string]*domain.MetricsSnapshot // keyed by user_id
}

// NewMetricsStore creates a new in-memory metrics store.
func NewMetricsStore() *MetricsStore {
	return &MetricsStore{
		data: make(map[string]*domain.MetricsSnapshot),
	}
}

// Get retrieves a snapshot. Returns ErrNotFound if not exists.
func (s *MetricsStore) Get(_ context.Context, userID string) (*domain.MetricsSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, exists := s.data[userID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	copy := *m
	return &copy, nil
}

// Save replaces the user's snapshot.
func (s *MetricsStore) Save(_ context.Context, m *domain.MetricsSnapshot) error {
	if m == nil || m.UserID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *m
	s.data[m.UserID] = &copy
	return nil
}

var _ storage.MetricsStore = (*MetricsStore)(nil)
