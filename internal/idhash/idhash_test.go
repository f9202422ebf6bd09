package idhash

import (
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal/internal/domain"
)

var at = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func TestComputeNotificationID(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		kind   domain.NotificationKind
		key    string
	}{
		{"unlock", "u1", domain.NotificationAchievementUnlocked, "perf_first_win"},
		{"level up", "u1", domain.NotificationLevelUp, "3"},
		{"other user", "u2", domain.NotificationAchievementUnlocked, "perf_first_win"},
	}

	seen := make(map[string]string)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeNotificationID(tt.userID, tt.kind, tt.key, at)

			raw, err := base58.Decode(got)
			require.NoError(t, err)
			assert.Len(t, raw, NotificationIDLength)

			// Determinism
			assert.Equal(t, got, ComputeNotificationID(tt.userID, tt.kind, tt.key, at))

			prev, dup := seen[got]
			assert.False(t, dup, "collides with %s", prev)
			seen[got] = tt.name
		})
	}
}

func TestComputeNotificationID_TimeZoneIndependent(t *testing.T) {
	tz := time.FixedZone("UTC+3", 3*60*60)
	assert.Equal(t,
		UnlockID("u1", "a", at),
		UnlockID("u1", "a", at.In(tz)))
}

func TestUnlockID_ReUnlockDiffers(t *testing.T) {
	// After a revoke the same achievement unlocks again at a later time.
	assert.NotEqual(t, UnlockID("u1", "a", at), UnlockID("u1", "a", at.Add(time.Second)))
}

func TestLevelUpID(t *testing.T) {
	assert.Equal(t, ComputeNotificationID("u1", domain.NotificationLevelUp, "4", at), LevelUpID("u1", 4, at))
	assert.NotEqual(t, LevelUpID("u1", 4, at), LevelUpID("u1", 5, at))
}

func TestComputeSnapshotID(t *testing.T) {
	a := ComputeSnapshotID("u1", "trade_created", at.UnixNano())
	b := ComputeSnapshotID("u1", "trade_created", at.UnixNano())
	c := ComputeSnapshotID("u1", "trade_deleted", at.UnixNano())

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
