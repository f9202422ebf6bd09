package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal/internal/domain"
	"trade-journal/internal/storage"
)

func TestProfileStore_RoundTripExactDecimals(t *testing.T) {
	pool := setupTestDB(t)

	ctx := context.Background()
	store := NewProfileStore(pool)

	_, err := store.Get(ctx, "u1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	p := &domain.UserProfile{
		UserID:         "u1",
		InitialBalance: decimal.RequireFromString("10000.10"),
		CurrentBalance: decimal.RequireFromString("10500.3333"),
	}
	require.NoError(t, store.Upsert(ctx, p))

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, p.InitialBalance.Equal(got.InitialBalance), got.InitialBalance.String())
	assert.True(t, p.CurrentBalance.Equal(got.CurrentBalance), got.CurrentBalance.String())

	p.CurrentBalance = decimal.NewFromInt(9000)
	require.NoError(t, store.Upsert(ctx, p))
	got, err = store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(9000).Equal(got.CurrentBalance))
}

func TestMetricsStore_SaveAndGet(t *testing.T) {
	pool := setupTestDB(t)

	ctx := context.Background()
	store := NewMetricsStore(pool)

	_, err := store.Get(ctx, "u1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	m := &domain.MetricsSnapshot{
		UserID:               "u1",
		TotalTrades:          12,
		WinningStreak:        3,
		WinRate:              58.33,
		PlanAdherencePercent: 75,
		UpdatedAt:            baseTime,
	}
	require.NoError(t, store.Save(ctx, m))

	m.TotalTrades = 13
	m.UpdatedAt = baseTime.Add(time.Minute)
	require.NoError(t, store.Save(ctx, m))

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 13, got.TotalTrades)
	assert.Equal(t, 3, got.WinningStreak)
	assert.InDelta(t, 58.33, got.WinRate, 0.0001)
	assert.True(t, m.UpdatedAt.Equal(got.UpdatedAt))
}

func TestAchievementStore_SaveAndGet(t *testing.T) {
	pool := setupTestDB(t)

	ctx := context.Background()
	store := NewAchievementStore(pool)

	_, err := store.Get(ctx, "u1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	at := baseTime
	a := domain.NewUserAchievements("u1")
	a.Achievements["perf_first_win"] = domain.AchievementProgress{IsComplete: true, CompletedAt: &at, Progress: 100, PointsAwarded: 10}
	a.Achievements["perf_win_streak_5"] = domain.AchievementProgress{Progress: 40}
	a.TotalPoints = 10
	a.UpdatedAt = baseTime
	require.NoError(t, store.Save(ctx, a))

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 10, got.TotalPoints)
	assert.Equal(t, 1, got.Level)
	require.Len(t, got.Achievements, 2)
	first := got.Achievements["perf_first_win"]
	assert.True(t, first.IsComplete)
	require.NotNil(t, first.CompletedAt)
	assert.True(t, at.Equal(*first.CompletedAt))
	assert.Equal(t, 40, got.Achievements["perf_win_streak_5"].Progress)
}

func TestAchievementStore_RejectsInvalidLevel(t *testing.T) {
	pool := setupTestDB(t)

	a := domain.NewUserAchievements("u1")
	a.Level = 12
	a.UpdatedAt = baseTime

	err := NewAchievementStore(pool).Save(context.Background(), a)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
