package idhash

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/mr-tron/base58"

	"trade-journal/internal/domain"
)

// NotificationIDLength is the number of hash bytes kept before encoding.
const NotificationIDLength = 16

// ComputeNotificationID computes a deterministic notification id.
// Formula: SHA256(user_id|kind|key|at_unix_nano), first 16 bytes, base58.
// key is the achievement id for unlocks and the new level for level-ups.
// The same unlock always maps to the same id, so a replayed pass can be
// deduplicated downstream.
func ComputeNotificationID(userID string, kind domain.NotificationKind, key string, at time.Time) string {
	data := fmt.Sprintf("%s|%s|%s|%d",
		userID,
		string(kind),
		key,
		at.UTC().UnixNano(),
	)

	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:NotificationIDLength])
}

// UnlockID is ComputeNotificationID for an achievement unlock.
func UnlockID(userID, achievementID string, completedAt time.Time) string {
	return ComputeNotificationID(userID, domain.NotificationAchievementUnlocked, achievementID, completedAt)
}

// LevelUpID is ComputeNotificationID for a level-up.
func LevelUpID(userID string, newLevel int, at time.Time) string {
	return ComputeNotificationID(userID, domain.NotificationLevelUp, fmt.Sprintf("%d", newLevel), at)
}
