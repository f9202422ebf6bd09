package memory

import (
	"context"
	"sort"
	"sync"

	"trade-journal/internal/domain"
	"trade-journal/internal/storage"
)

// MetricsHistoryStore is an in-memory implementation of storage.MetricsHistoryStore.
type MetricsHistoryStore struct {
	mu     sync.RWMutex
	ids    map[string]struct{}
	byUser map[string][]*domain.MetricsHistoryRecord // append order
}

// NewMetricsHistoryStore creates a new in-memory history store.
func NewMetricsHistoryStore() *MetricsHistoryStore {
	return &MetricsHistoryStore{
		ids:    make(map[string]struct{}),
		byUser: make(map[string][]*domain.MetricsHistoryRecord),
	}
}

// Append adds a record. Returns ErrDuplicateKey if the id exists.
func (s *MetricsHistoryStore) Append(_ context.Context, r *domain.MetricsHistoryRecord) error {
	if r == nil || r.ID == "" || r.UserID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ids[r.ID]; exists {
		return storage.ErrDuplicateKey
	}
	s.ids[r.ID] = struct{}{}

	copy := *r
	s.byUser[r.UserID] = append(s.byUser[r.UserID], &copy)
	return nil
}

// ListByUser returns up to limit records for a user, newest first.
func (s *MetricsHistoryStore) ListByUser(_ context.Context, userID string, limit int) ([]*domain.MetricsHistoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.byUser[userID]
	result := make([]*domain.MetricsHistoryRecord, 0, len(records))
	for _, r := range records {
		copy := *r
		result = append(result, &copy)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].RecordedAt.After(result[j].RecordedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

var _ storage.MetricsHistoryStore = (*MetricsHistoryStore)(nil)
