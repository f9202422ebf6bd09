// Package metrics derives the per-user MetricsSnapshot from trade history.
// Everything here is pure: the same trades and profile always produce the
// same snapshot.
package metrics

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"trade-journal/internal/domain"
)

// Default tuning values.
const (
	// DefaultStreakWindow bounds how many of the most recent trades a
	// trade-counted streak scan looks at. Must stay >= the longest such
	// threshold in the catalog.
	DefaultStreakWindow = 100

	// MinTradesForAdherence gates the plan adherence achievements.
	// PlanAdherencePercent stays 0 below it.
	MinTradesForAdherence = 50

	// MinTradesForWinRate is the minimum number of decisive (non
	// break-even) closed trades before WinRate is reported.
	MinTradesForWinRate = 20

	// MinStrategyTrades is the minimum closed trades for a strategy to be
	// considered profitable.
	MinStrategyTrades = 3
)

// Options tune a computation.
type Options struct {
	StreakWindow int       // <= 0 uses DefaultStreakWindow
	Now          time.Time // snapshot UpdatedAt; zero uses time.Now()
}

// Compute calculates the metrics snapshot for one user.
// trades are expected newest first; they are re-sorted by CreatedAt DESC,
// ID ASC so the result does not depend on the store's ordering.
// profile may be nil.
func Compute(userID string, trades []*domain.TradeRecord, profile *domain.UserProfile, opts Options) *domain.MetricsSnapshot {
	window := opts.StreakWindow
	if window <= 0 {
		window = DefaultStreakWindow
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	newest := sortNewestFirst(trades)

	m := &domain.MetricsSnapshot{
		UserID:    userID,
		UpdatedAt: now.UTC(),
	}

	computeCounts(m, newest)

	// Streaks only look at the most recent window.
	recent := newest
	if len(recent) > window {
		recent = recent[:window]
	}

	m.WinningStreak = computeWinningStreak(recent)
	m.LongestWinningStreak = computeLongestWinningStreak(newest)

	m.NotEnteredEarlyStreak = disciplineStreak(recent, func(d *domain.Discipline) bool { return !d.EnteredEarly })
	m.NoRevengeTradesStreak = disciplineStreak(recent, func(d *domain.Discipline) bool { return !d.Revenge })
	m.NotMovedStopLossStreak = disciplineStreak(recent, func(d *domain.Discipline) bool { return !d.MovedStopLoss })
	m.FollowedPlanStreak = disciplineStreak(recent, func(d *domain.Discipline) bool { return d.FollowedPlan })
	m.PerfectEmotionalControlStreak = disciplineStreak(recent, (*domain.Discipline).Perfect)
	// Counted in days, so the trade window does not apply.
	m.NoOverLeveragedDaysStreak = computeNoOverLeveragedDaysStreak(newest)

	m.PlanAdherencePercent, m.HasMinimumTradesForAdherence = computePlanAdherence(newest)
	m.TotalProfitPercent = computeTotalProfitPercent(profile)

	m.UniquePairsTradedCount = countDistinct(newest, func(t *domain.TradeRecord) string { return t.Pair })
	m.UniqueStrategiesCount = countDistinct(newest, func(t *domain.TradeRecord) string { return t.Strategy })
	m.ProfitableStrategiesCreated = computeProfitableStrategies(newest)
	m.AllMarketConditionsProfitable = computeAllMarketConditionsProfitable(newest)

	m.JournaledTradesCount = computeJournaledTrades(newest)
	m.TradingDaysCount = len(tradingDays(newest))

	return m
}

// sortNewestFirst returns a copy of trades ordered by CreatedAt DESC, ID ASC.
// nil entries are dropped.
func sortNewestFirst(trades []*domain.TradeRecord) []*domain.TradeRecord {
	sorted := make([]*domain.TradeRecord, 0, len(trades))
	for _, t := range trades {
		if t != nil {
			sorted = append(sorted, t)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// outcome classifies a closed trade by pips.
type outcome int

const (
	outcomeUnknown outcome = iota // open, or pips missing
	outcomeWin
	outcomeLoss
	outcomeBreakEven
)

func classify(t *domain.TradeRecord) outcome {
	if t.IsOpen || t.Pips == nil || math.IsNaN(*t.Pips) {
		return outcomeUnknown
	}
	switch p := *t.Pips; {
	case p > 0:
		return outcomeWin
	case p < 0:
		return outcomeLoss
	default:
		return outcomeBreakEven
	}
}

// computeCounts fills trade counts and win rate.
// Closed trades without pips are not counted as closed.
func computeCounts(m *domain.MetricsSnapshot, trades []*domain.TradeRecord) {
	m.TotalTrades = len(trades)
	for _, t := range trades {
		switch classify(t) {
		case outcomeWin:
			m.WinningTrades++
		case outcomeLoss:
			m.LosingTrades++
		case outcomeBreakEven:
			m.BreakEvenTrades++
		}
	}
	m.TotalClosedTrades = m.WinningTrades + m.LosingTrades + m.BreakEvenTrades
	if m.TotalClosedTrades-m.BreakEvenTrades >= MinTradesForWinRate {
		m.WinRate = computeWinRate(m.WinningTrades, m.TotalClosedTrades, m.BreakEvenTrades)
	}
}

// computeWinRate calculates wins / (closed - breakEven) * 100.
// Returns 0 when every closed trade broke even. Callers apply the sample
// size minimum.
func computeWinRate(wins, closed, breakEven int) float64 {
	denom := closed - breakEven
	if denom <= 0 {
		return 0
	}
	return float64(wins) / float64(denom) * 100
}

// computePlanAdherence returns followedPlan / closed * 100 over all closed
// trades and whether the minimum sample size is met. The percentage is 0
// until the gate opens.
func computePlanAdherence(trades []*domain.TradeRecord) (float64, int) {
	closed := 0
	followed := 0
	for _, t := range trades {
		if classify(t) == outcomeUnknown {
			continue
		}
		closed++
		if t.Discipline != nil && t.Discipline.FollowedPlan {
			followed++
		}
	}

	if closed < MinTradesForAdherence {
		return 0, 0
	}
	return float64(followed) / float64(closed) * 100, 1
}

var hundred = decimal.NewFromInt(100)

// computeTotalProfitPercent returns (current - initial) / initial * 100,
// rounded to 2 decimals. Losses and unknown balances yield 0.
func computeTotalProfitPercent(p *domain.UserProfile) float64 {
	if p == nil || !p.InitialBalance.IsPositive() {
		return 0
	}
	pct := p.CurrentBalance.Sub(p.InitialBalance).
		Div(p.InitialBalance).
		Mul(hundred).
		Round(2)
	if pct.IsNegative() {
		return 0
	}
	return pct.InexactFloat64()
}

// countDistinct counts distinct non-empty keys.
func countDistinct(trades []*domain.TradeRecord, key func(*domain.TradeRecord) string) int {
	seen := make(map[string]struct{})
	for _, t := range trades {
		if k := key(t); k != "" {
			seen[k] = struct{}{}
		}
	}
	return len(seen)
}

// computeProfitableStrategies counts strategies with at least
// MinStrategyTrades closed trades and a win rate above 50%.
func computeProfitableStrategies(trades []*domain.TradeRecord) int {
	type tally struct{ closed, wins, breakEven int }
	byStrategy := make(map[string]*tally)

	for _, t := range trades {
		if t.Strategy == "" {
			continue
		}
		o := classify(t)
		if o == outcomeUnknown {
			continue
		}
		s := byStrategy[t.Strategy]
		if s == nil {
			s = &tally{}
			byStrategy[t.Strategy] = s
		}
		s.closed++
		switch o {
		case outcomeWin:
			s.wins++
		case outcomeBreakEven:
			s.breakEven++
		}
	}

	count := 0
	for _, s := range byStrategy {
		if s.closed >= MinStrategyTrades && computeWinRate(s.wins, s.closed, s.breakEven) > 50 {
			count++
		}
	}
	return count
}

// computeAllMarketConditionsProfitable returns 1 when every market condition
// has at least one winning closed trade.
func computeAllMarketConditionsProfitable(trades []*domain.TradeRecord) int {
	profitable := make(map[domain.MarketCondition]bool)
	for _, t := range trades {
		if classify(t) == outcomeWin && t.MarketCondition.Valid() {
			profitable[t.MarketCondition] = true
		}
	}
	for _, c := range domain.AllMarketConditions {
		if !profitable[c] {
			return 0
		}
	}
	return 1
}

// computeJournaledTrades counts trades with written notes.
func computeJournaledTrades(trades []*domain.TradeRecord) int {
	n := 0
	for _, t := range trades {
		if strings.TrimSpace(t.Notes) != "" {
			n++
		}
	}
	return n
}

