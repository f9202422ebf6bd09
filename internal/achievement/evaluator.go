// Package achievement matches a metrics snapshot against the catalog and
// advances per-user completion state.
package achievement

import (
	"errors"
	"fmt"
	"math"
	"time"

	"trade-journal/internal/catalog"
	"trade-journal/internal/domain"
)

// Revocation errors.
var (
	ErrUnknownAchievement = errors.New("unknown achievement")
	ErrNotCompleted       = errors.New("achievement is not completed")
)

// Result is the outcome of one evaluation.
type Result struct {
	// State is the updated state. The input state is never modified.
	State *domain.UserAchievements

	// Unlocked lists newly completed definitions in catalog order.
	Unlocked []domain.AchievementDefinition

	// PreviousPoints is the total before this evaluation.
	PreviousPoints int
}

// Changed reports whether the evaluation altered anything worth persisting.
func (r *Result) Changed() bool {
	return len(r.Unlocked) > 0 || r.State.TotalPoints != r.PreviousPoints
}

// Evaluator applies catalog criteria to metrics.
type Evaluator struct {
	catalog *catalog.Catalog
}

// NewEvaluator creates an evaluator over c.
func NewEvaluator(c *catalog.Catalog) *Evaluator {
	return &Evaluator{catalog: c}
}

// Catalog returns the catalog the evaluator uses.
func (e *Evaluator) Catalog() *catalog.Catalog {
	return e.catalog
}

// Evaluate checks every incomplete catalog entry against m.
// Completed entries are never revisited. state may be nil for a new user.
func (e *Evaluator) Evaluate(m *domain.MetricsSnapshot, state *domain.UserAchievements, now time.Time) *Result {
	next := state.Clone()
	if next == nil {
		next = domain.NewUserAchievements(m.UserID)
	}
	if next.Achievements == nil {
		next.Achievements = make(map[string]domain.AchievementProgress)
	}

	res := &Result{State: next, PreviousPoints: next.TotalPoints}
	now = now.UTC()

	for _, def := range e.catalog.All() {
		cur := next.Achievements[def.ID]
		if cur.IsComplete {
			continue
		}

		actual, ok := m.Value(def.Criteria.Metric)
		if !ok {
			continue
		}

		if Satisfied(def.Criteria, actual) {
			at := now
			next.Achievements[def.ID] = domain.AchievementProgress{
				IsComplete:    true,
				CompletedAt:   &at,
				Progress:      100,
				PointsAwarded: def.Points,
			}
			res.Unlocked = append(res.Unlocked, def)
			continue
		}

		if def.Criteria.Streak {
			p := Progress(def.Criteria, actual)
			if p != cur.Progress {
				cur.Progress = p
				next.Achievements[def.ID] = cur
			}
		}
	}

	next.TotalPoints = next.CompletedPoints()
	next.UpdatedAt = now
	return res
}

// Satisfied applies the comparator. "greater" is inclusive.
func Satisfied(c domain.Criteria, actual float64) bool {
	if math.IsNaN(actual) {
		return false
	}
	switch c.Comparison {
	case domain.ComparisonGreater:
		return actual >= c.Value
	case domain.ComparisonEquals:
		return actual == c.Value
	case domain.ComparisonLess:
		return actual <= c.Value
	default:
		return false
	}
}

// Progress returns floor(actual/threshold*100) clamped to [0, 100].
// A non-positive threshold yields 0.
func Progress(c domain.Criteria, actual float64) int {
	if c.Value <= 0 || actual <= 0 || math.IsNaN(actual) {
		return 0
	}
	p := int(math.Floor(actual / c.Value * 100))
	if p > 100 {
		p = 100
	}
	return p
}

// Revoke clears a completed achievement and the points it awarded.
// Returns the updated copy of state.
func (e *Evaluator) Revoke(state *domain.UserAchievements, id string, now time.Time) (*domain.UserAchievements, error) {
	if _, ok := e.catalog.Get(id); !ok {
		if state == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAchievement, id)
		}
		if _, known := state.Achievements[id]; !known {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAchievement, id)
		}
	}
	if state == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotCompleted, id)
	}

	cur, ok := state.Achievements[id]
	if !ok || !cur.IsComplete {
		return nil, fmt.Errorf("%w: %s", ErrNotCompleted, id)
	}

	next := state.Clone()
	next.Achievements[id] = domain.AchievementProgress{}
	next.TotalPoints = next.CompletedPoints()
	next.UpdatedAt = now.UTC()
	return next, nil
}
