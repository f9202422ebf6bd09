// Package catalog holds the versioned, immutable list of achievement
// definitions.
package catalog

import (
	"errors"
	"fmt"

	"trade-journal/internal/domain"
)

// Version of the built-in catalog. Bump when definitions are added or
// retired; ids are never reused.
const Version = 3

// Catalog validation errors.
var (
	ErrDuplicateID    = errors.New("duplicate achievement id")
	ErrRetiredID      = errors.New("achievement id was retired by an earlier catalog version")
	ErrInvalidPoints  = errors.New("achievement points must be positive")
	ErrUnknownMetric  = errors.New("criteria references an unknown metric")
	ErrInvalidCompare = errors.New("criteria comparison must be greater, equals or less")
)

// Catalog is an ordered, read-only set of achievement definitions.
// Safe for concurrent use.
type Catalog struct {
	version int
	defs    []domain.AchievementDefinition
	byID    map[string]int
}

// New validates defs and builds a catalog. Definition order is preserved
// and is the order unlocks are announced in.
func New(version int, defs []domain.AchievementDefinition) (*Catalog, error) {
	probe := &domain.MetricsSnapshot{}
	c := &Catalog{
		version: version,
		defs:    make([]domain.AchievementDefinition, len(defs)),
		byID:    make(map[string]int, len(defs)),
	}
	copy(c.defs, defs)

	for i, d := range c.defs {
		if _, ok := c.byID[d.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, d.ID)
		}
		if _, ok := retiredIDs[d.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrRetiredID, d.ID)
		}
		if d.Points <= 0 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPoints, d.ID)
		}
		if _, ok := probe.Value(d.Criteria.Metric); !ok {
			return nil, fmt.Errorf("%w: %s uses %q", ErrUnknownMetric, d.ID, d.Criteria.Metric)
		}
		switch d.Criteria.Comparison {
		case domain.ComparisonGreater, domain.ComparisonEquals, domain.ComparisonLess:
		default:
			return nil, fmt.Errorf("%w: %s", ErrInvalidCompare, d.ID)
		}
		c.byID[d.ID] = i
	}

	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(Version, definitions)
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in definitions invalid: %v", err))
	}
	return c
}

// Version returns the catalog version.
func (c *Catalog) Version() int {
	return c.version
}

// All returns the definitions in catalog order. The slice is a copy.
func (c *Catalog) All() []domain.AchievementDefinition {
	out := make([]domain.AchievementDefinition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	return len(c.defs)
}

// Get returns the definition with the given id.
func (c *Catalog) Get(id string) (domain.AchievementDefinition, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.AchievementDefinition{}, false
	}
	return c.defs[i], true
}

// MaxStreakThreshold returns the largest threshold, in trades, of any
// trade-counted streak criteria. The streak window must be at least this
// long. Day streaks scan the whole history and are not included.
func (c *Catalog) MaxStreakThreshold() int {
	max := 0
	for _, d := range c.defs {
		if !d.Criteria.Metric.IsTradeStreakMetric() {
			continue
		}
		if v := int(d.Criteria.Value); v > max {
			max = v
		}
	}
	return max
}

// TotalPoints is the sum of all definition points.
func (c *Catalog) TotalPoints() int {
	total := 0
	for _, d := range c.defs {
		total += d.Points
	}
	return total
}
