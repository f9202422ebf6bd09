package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"trade-journal/internal/domain"
	"trade-journal/internal/storage"
)

// MetricsStore implements storage.MetricsStore using PostgreSQL.
// The snapshot is stored as a JSONB document keyed by user.
type MetricsStore struct {
	pool *Pool
}

// NewMetricsStore creates a new MetricsStore.
func NewMetricsStore(pool *Pool) *MetricsStore {
	return &MetricsStore{pool: pool}
}

// Compile-time interface check.
var _ storage.MetricsStore = (*MetricsStore)(nil)

// Get retrieves a snapshot. Returns ErrNotFound if not exists.
func (s *MetricsStore) Get(ctx context.Context, userID string) (*domain.MetricsSnapshot, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx, `SELECT snapshot FROM user_metrics WHERE user_id = $1`, userID).Scan(&doc)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get user metrics: %w", err)
	}

	var m domain.MetricsSnapshot
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, fmt.Errorf("decode user metrics: %w", err)
	}
	return &m, nil
}

// Save replaces the user's snapshot.
func (s *MetricsStore) Save(ctx context.Context, m *domain.MetricsSnapshot) error {
	if m == nil || m.UserID == "" {
		return storage.ErrInvalidInput
	}

	doc, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode user metrics: %w", err)
	}

	query := `
		INSERT INTO user_metrics (user_id, snapshot, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			snapshot = EXCLUDED.snapshot,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := s.pool.Exec(ctx, query, m.UserID, doc, m.UpdatedAt); err != nil {
		return fmt.Errorf("save user metrics: %w", err)
	}
	return nil
}

// AchievementStore implements storage.AchievementStore using PostgreSQL.
// Points and level are columns; per-achievement progress is JSONB.
type AchievementStore struct {
	pool *Pool
}

// NewAchievementStore creates a new AchievementStore.
func NewAchievementStore(pool *Pool) *AchievementStore {
	return &AchievementStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AchievementStore = (*AchievementStore)(nil)

// Get retrieves a user's state. Returns ErrNotFound if not exists.
func (s *AchievementStore) Get(ctx context.Context, userID string) (*domain.UserAchievements, error) {
	query := `
		SELECT user_id, total_points, level, achievements, updated_at
		FROM user_achievements
		WHERE user_id = $1
	`

	var (
		a   domain.UserAchievements
		doc []byte
	)
	err := s.pool.QueryRow(ctx, query, userID).Scan(&a.UserID, &a.TotalPoints, &a.Level, &doc, &a.UpdatedAt)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get user achievements: %w", err)
	}

	a.Achievements = make(map[string]domain.AchievementProgress)
	if err := json.Unmarshal(doc, &a.Achievements); err != nil {
		return nil, fmt.Errorf("decode user achievements: %w", err)
	}
	a.UpdatedAt = a.UpdatedAt.UTC()
	return &a, nil
}

// Save replaces the user's state.
func (s *AchievementStore) Save(ctx context.Context, a *domain.UserAchievements) error {
	if a == nil || a.UserID == "" {
		return storage.ErrInvalidInput
	}

	progress := a.Achievements
	if progress == nil {
		progress = map[string]domain.AchievementProgress{}
	}
	doc, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("encode user achievements: %w", err)
	}

	query := `
		INSERT INTO user_achievements (user_id, total_points, level, achievements, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			total_points = EXCLUDED.total_points,
			level = EXCLUDED.level,
			achievements = EXCLUDED.achievements,
			updated_at = EXCLUDED.updated_at
	`
	_, err = s.pool.Exec(ctx, query, a.UserID, a.TotalPoints, a.Level, doc, a.UpdatedAt)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("%w: %v", storage.ErrInvalidInput, err)
		}
		return fmt.Errorf("save user achievements: %w", err)
	}
	return nil
}
