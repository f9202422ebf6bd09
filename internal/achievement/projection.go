package achievement

import (
	"time"

	"trade-journal/internal/catalog"
	"trade-journal/internal/domain"
	"trade-journal/internal/level"
)

// EnhancedAchievement joins a definition with the user's progress on it.
type EnhancedAchievement struct {
	domain.AchievementDefinition
	IsComplete  bool       `json:"isComplete"`
	CompletedAt *time.Time `json:"completedAt"`
	Progress    int        `json:"progress"`
}

// Projection is the read model served to the UI.
type Projection struct {
	UserID         string                `json:"userId"`
	CatalogVersion int                   `json:"catalogVersion"`
	TotalPoints    int                   `json:"totalPoints"`
	Level          int                   `json:"level"`
	NextLevel      level.NextLevel       `json:"nextLevel"`
	Completed      int                   `json:"completed"`
	Achievements   []EnhancedAchievement `json:"achievements"`
}

// Project builds the read model for userID. state may be nil.
// Achievements follow catalog order.
func Project(c *catalog.Catalog, userID string, state *domain.UserAchievements) *Projection {
	if state == nil {
		state = domain.NewUserAchievements(userID)
	}

	p := &Projection{
		UserID:         userID,
		CatalogVersion: c.Version(),
		TotalPoints:    state.TotalPoints,
		Level:          level.Level(state.TotalPoints),
		NextLevel:      level.Next(state.TotalPoints),
		Achievements:   make([]EnhancedAchievement, 0, c.Len()),
	}

	for _, def := range c.All() {
		prog := state.Achievements[def.ID]
		if prog.IsComplete {
			p.Completed++
		}
		p.Achievements = append(p.Achievements, EnhancedAchievement{
			AchievementDefinition: def,
			IsComplete:            prog.IsComplete,
			CompletedAt:           prog.CompletedAt,
			Progress:              prog.Progress,
		})
	}
	return p
}
