package domain

import "time"

// NotificationKind tags the NotificationEvent union.
type NotificationKind string

// Notification kinds
const (
	NotificationAchievementUnlocked NotificationKind = "achievement_unlocked"
	NotificationLevelUp             NotificationKind = "level_up"
)

// NotificationEvent is either an achievement unlock or a level-up.
// Exactly one of Achievement / NewLevel is meaningful, selected by Kind.
type NotificationEvent struct {
	ID          string                 `json:"id"`
	UserID      string                 `json:"userId"`
	Kind        NotificationKind       `json:"kind"`
	Achievement *AchievementDefinition `json:"achievement,omitempty"`
	NewLevel    int                    `json:"newLevel,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
}

// AchievementUnlocked builds an unlock event.
func AchievementUnlocked(id, userID string, def AchievementDefinition, at time.Time) NotificationEvent {
	return NotificationEvent{
		ID:          id,
		UserID:      userID,
		Kind:        NotificationAchievementUnlocked,
		Achievement: &def,
		CreatedAt:   at,
	}
}

// LevelUp builds a level-up event.
func LevelUp(id, userID string, newLevel int, at time.Time) NotificationEvent {
	return NotificationEvent{
		ID:        id,
		UserID:    userID,
		Kind:      NotificationLevelUp,
		NewLevel:  newLevel,
		CreatedAt: at,
	}
}
