package memory

import (
	"context"
	"sort"
	"sync"

	"trade-journal/internal/domain"
	"trade-journal/internal/storage"
)

// TradeStore is an in-memory implementation of storage.TradeStore.
type TradeStore struct {
	mu   sync.RWMutex
	data map[string]map[string]*domain.TradeRecord // user_id -> trade_id -> trade
}

// NewTradeStore creates a new in-memory trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{
		data: make(map[string]map[string]*domain.TradeRecord),
	}
}

// Upsert inserts or replaces a trade.
func (s *TradeStore) Upsert(_ context.Context, t *domain.TradeRecord) error {
	if t == nil || t.ID == "" || t.UserID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byID, ok := s.data[t.UserID]
	if !ok {
		byID = make(map[string]*domain.TradeRecord)
		s.data[t.UserID] = byID
	}
	byID[t.ID] = cloneTrade(t)
	return nil
}

// GetByID retrieves a trade. Returns ErrNotFound if not exists.
func (s *TradeStore) GetByID(_ context.Context, userID, tradeID string) (*domain.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.data[userID][tradeID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return cloneTrade(t), nil
}

// Delete removes a trade. Returns ErrNotFound if not exists.
func (s *TradeStore) Delete(_ context.Context, userID, tradeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := s.data[userID]
	if _, exists := byID[tradeID]; !exists {
		return storage.ErrNotFound
	}
	delete(byID, tradeID)
	if len(byID) == 0 {
		delete(s.data, userID)
	}
	return nil
}

// ListByUser retrieves all trades of a user, ordered by created_at DESC, trade_id ASC.
func (s *TradeStore) ListByUser(_ context.Context, userID string) ([]*domain.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.TradeRecord, 0, len(s.data[userID]))
	for _, t := range s.data[userID] {
		result = append(result, cloneTrade(t))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// ListUserIDs returns every user with at least one trade, sorted.
func (s *TradeStore) ListUserIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// cloneTrade copies t including the values behind its pointer fields.
func cloneTrade(t *domain.TradeRecord) *domain.TradeRecord {
	c := *t
	c.ExitPrice = clonePtr(t.ExitPrice)
	c.StopLoss = clonePtr(t.StopLoss)
	c.TakeProfit = clonePtr(t.TakeProfit)
	c.Pips = clonePtr(t.Pips)
	c.ProfitLoss = clonePtr(t.ProfitLoss)
	c.CloseDate = clonePtr(t.CloseDate)
	c.Discipline = clonePtr(t.Discipline)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

var _ storage.TradeStore = (*TradeStore)(nil)
