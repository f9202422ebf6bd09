package clickhouse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal/internal/domain"
	"trade-journal/internal/storage"
)

func historyRecord(id string, at time.Time, points int) *domain.MetricsHistoryRecord {
	return &domain.MetricsHistoryRecord{
		ID:             id,
		UserID:         "u1",
		Trigger:        domain.TriggerTradeCreated,
		CatalogVersion: 3,
		Metrics: domain.MetricsSnapshot{
			UserID:        "u1",
			TotalTrades:   10,
			WinningTrades: 6,
			WinRate:       60,
			UpdatedAt:     at,
		},
		TotalPoints: points,
		Level:       2,
		Unlocked:    1,
		RecordedAt:  at,
	}
}

func TestMetricsHistoryStore_AppendAndList(t *testing.T) {
	conn := setupTestDB(t)

	ctx := context.Background()
	store := NewMetricsHistoryStore(conn)
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Append(ctx, historyRecord("h1", base, 100)))
	require.NoError(t, store.Append(ctx, historyRecord("h2", base.Add(time.Minute), 120)))

	records, err := store.ListByUser(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "h2", records[0].ID)
	assert.Equal(t, 120, records[0].TotalPoints)
	assert.Equal(t, domain.TriggerTradeCreated, records[0].Trigger)
	assert.Equal(t, 6, records[0].Metrics.WinningTrades)
	assert.True(t, base.Add(time.Minute).Equal(records[0].RecordedAt))

	limited, err := store.ListByUser(ctx, "u1", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestMetricsHistoryStore_Duplicate(t *testing.T) {
	conn := setupTestDB(t)

	ctx := context.Background()
	store := NewMetricsHistoryStore(conn)
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Append(ctx, historyRecord("h1", at, 100)))
	assert.ErrorIs(t, store.Append(ctx, historyRecord("h1", at, 100)), storage.ErrDuplicateKey)
}
