package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"trade-journal/internal/domain"
	"trade-journal/internal/storage"
)

// ProfileStore implements storage.ProfileStore using PostgreSQL.
// Balances are NUMERIC columns exchanged as text to keep exact decimals.
type ProfileStore struct {
	pool *Pool
}

// NewProfileStore creates a new ProfileStore.
func NewProfileStore(pool *Pool) *ProfileStore {
	return &ProfileStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ProfileStore = (*ProfileStore)(nil)

// Get retrieves a profile. Returns ErrNotFound if not exists.
func (s *ProfileStore) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	query := `
		SELECT user_id, initial_balance::text, current_balance::text
		FROM user_profiles
		WHERE user_id = $1
	`

	var (
		p       domain.UserProfile
		initial string
		current string
	)
	err := s.pool.QueryRow(ctx, query, userID).Scan(&p.UserID, &initial, &current)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	if p.InitialBalance, err = decimal.NewFromString(initial); err != nil {
		return nil, fmt.Errorf("parse initial balance: %w", err)
	}
	if p.CurrentBalance, err = decimal.NewFromString(current); err != nil {
		return nil, fmt.Errorf("parse current balance: %w", err)
	}
	return &p, nil
}

// Upsert inserts or replaces a profile.
func (s *ProfileStore) Upsert(ctx context.Context, p *domain.UserProfile) error {
	if p == nil || p.UserID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO user_profiles (user_id, initial_balance, current_balance, updated_at)
		VALUES ($1, $2::numeric, $3::numeric, now())
		ON CONFLICT (user_id) DO UPDATE SET
			initial_balance = EXCLUDED.initial_balance,
			current_balance = EXCLUDED.current_balance,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query, p.UserID, p.InitialBalance.String(), p.CurrentBalance.String())
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
