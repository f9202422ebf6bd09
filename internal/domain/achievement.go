package domain

import (
	"fmt"
	"time"
)

// Category groups achievements for display.
type Category string

// Achievement categories
const (
	CategoryDiscipline  Category = "discipline"
	CategoryPerformance Category = "performance"
	CategoryConsistency Category = "consistency"
	CategoryLearning    Category = "learning"
)

// Rank is the ordered tier of an achievement. Bronze is the lowest.
type Rank int

// Ranks in ascending order.
const (
	RankBronze Rank = iota + 1
	RankSilver
	RankGold
	RankPlatinum
	RankDiamond
	RankRuby
	RankSapphire
	RankLegend
	RankMaster
)

var rankNames = [...]string{
	RankBronze:   "bronze",
	RankSilver:   "silver",
	RankGold:     "gold",
	RankPlatinum: "platinum",
	RankDiamond:  "diamond",
	RankRuby:     "ruby",
	RankSapphire: "sapphire",
	RankLegend:   "legend",
	RankMaster:   "master",
}

func (r Rank) String() string {
	if r < RankBronze || r > RankMaster {
		return "unknown"
	}
	return rankNames[r]
}

// MarshalText encodes the rank by name.
func (r Rank) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a rank name.
func (r *Rank) UnmarshalText(text []byte) error {
	for i := RankBronze; i <= RankMaster; i++ {
		if rankNames[i] == string(text) {
			*r = i
			return nil
		}
	}
	return fmt.Errorf("unknown rank %q", text)
}

// Comparison is the criteria comparator.
type Comparison string

// Comparators. ComparisonGreater is inclusive: actual >= threshold.
const (
	ComparisonGreater Comparison = "greater"
	ComparisonEquals  Comparison = "equals"
	ComparisonLess    Comparison = "less"
)

// Criteria is a single (metric, comparator, threshold) unlock condition.
type Criteria struct {
	Metric     MetricName `json:"metricName"`
	Value      float64    `json:"metricValue"`
	Comparison Comparison `json:"comparison"`
	Streak     bool       `json:"streak,omitempty"` // progress is tracked while locked
}

// AchievementDefinition is immutable catalog data.
type AchievementDefinition struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Rank        Rank     `json:"level"`
	Icon        Icon     `json:"icon"`
	Criteria    Criteria `json:"criteria"`
	Points      int      `json:"points"`
}

// AchievementProgress is the per-user completion state of one achievement.
type AchievementProgress struct {
	IsComplete    bool       `json:"isComplete"`
	CompletedAt   *time.Time `json:"completedAt"`
	Progress      int        `json:"progress"` // 0..100
	PointsAwarded int        `json:"pointsAwarded,omitempty"`
}

// UserAchievements is the userAchievements/{userId} document.
type UserAchievements struct {
	UserID       string                         `json:"userId"`
	TotalPoints  int                            `json:"totalPoints"`
	Level        int                            `json:"level"`
	Achievements map[string]AchievementProgress `json:"achievements"`
	UpdatedAt    time.Time                      `json:"updatedAt"`
}

// NewUserAchievements returns the empty state of a user with no unlocks.
func NewUserAchievements(userID string) *UserAchievements {
	return &UserAchievements{
		UserID:       userID,
		Level:        1,
		Achievements: make(map[string]AchievementProgress),
	}
}

// Clone returns a deep copy.
func (u *UserAchievements) Clone() *UserAchievements {
	if u == nil {
		return nil
	}
	c := *u
	c.Achievements = make(map[string]AchievementProgress, len(u.Achievements))
	for id, p := range u.Achievements {
		if p.CompletedAt != nil {
			at := *p.CompletedAt
			p.CompletedAt = &at
		}
		c.Achievements[id] = p
	}
	return &c
}

// CompletedPoints sums the points awarded to every entry currently marked
// complete.
func (u *UserAchievements) CompletedPoints() int {
	total := 0
	for _, p := range u.Achievements {
		if p.IsComplete {
			total += p.PointsAwarded
		}
	}
	return total
}
