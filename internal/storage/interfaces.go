package storage

import (
	"context"

	"trade-journal/internal/domain"
)

// TradeStore provides access to the trades table.
type TradeStore interface {
	// Upsert inserts or replaces a trade keyed by (user_id, trade_id).
	// Returns ErrInvalidInput if either key is empty.
	Upsert(ctx context.Context, t *domain.TradeRecord) error

	// GetByID retrieves one trade. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, userID, tradeID string) (*domain.TradeRecord, error)

	// Delete removes one trade. Returns ErrNotFound if not exists.
	Delete(ctx context.Context, userID, tradeID string) error

	// ListByUser retrieves all trades of a user ordered by created_at DESC, trade_id ASC.
	ListByUser(ctx context.Context, userID string) ([]*domain.TradeRecord, error)

	// ListUserIDs returns every user with at least one trade, sorted.
	ListUserIDs(ctx context.Context) ([]string, error)
}

// ProfileStore provides access to user_profiles storage.
type ProfileStore interface {
	// Get retrieves a profile. Returns ErrNotFound if not exists.
	Get(ctx context.Context, userID string) (*domain.UserProfile, error)

	// Upsert inserts or replaces a profile.
	Upsert(ctx context.Context, p *domain.UserProfile) error
}

// MetricsStore provides access to the userMetrics documents.
type MetricsStore interface {
	// Get retrieves the last saved snapshot. Returns ErrNotFound if not exists.
	Get(ctx context.Context, userID string) (*domain.MetricsSnapshot, error)

	// Save replaces the user's snapshot.
	Save(ctx context.Context, m *domain.MetricsSnapshot) error
}

// AchievementStore provides access to the userAchievements documents.
type AchievementStore interface {
	// Get retrieves the user's achievement state. Returns ErrNotFound if not exists.
	Get(ctx context.Context, userID string) (*domain.UserAchievements, error)

	// Save replaces the user's achievement state.
	Save(ctx context.Context, a *domain.UserAchievements) error
}

// MetricsHistoryStore is the append-only analytics log of pass results.
type MetricsHistoryStore interface {
	// Append adds a record. Returns ErrDuplicateKey if the id exists.
	Append(ctx context.Context, r *domain.MetricsHistoryRecord) error

	// ListByUser returns up to limit records for a user, newest first.
	// limit <= 0 returns all.
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.MetricsHistoryRecord, error)
}
