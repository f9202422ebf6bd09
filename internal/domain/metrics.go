package domain

import "time"

// MetricName identifies one field of MetricsSnapshot.
// Achievement criteria reference metrics only through this type.
type MetricName string

// Metric names. The string values are the persisted document keys.
const (
	MetricTotalTrades       MetricName = "totalTrades"
	MetricTotalClosedTrades MetricName = "totalClosedTrades"
	MetricWinningTrades     MetricName = "winningTrades"
	MetricLosingTrades      MetricName = "losingTrades"
	MetricBreakEvenTrades   MetricName = "breakEvenTrades"
	MetricWinRate           MetricName = "winRate"

	MetricWinningStreak        MetricName = "winningStreak"
	MetricLongestWinningStreak MetricName = "longestWinningStreak"

	MetricNotEnteredEarlyStreak         MetricName = "notEnteredEarlyStreak"
	MetricNoRevengeTradesStreak         MetricName = "noRevengeTradesStreak"
	MetricNotMovedStopLossStreak        MetricName = "notMovedStopLossStreak"
	MetricFollowedPlanStreak            MetricName = "followedPlanStreak"
	MetricPerfectEmotionalControlStreak MetricName = "perfectEmotionalControlStreak"
	MetricNoOverLeveragedDaysStreak     MetricName = "noOverLeveragedDaysStreak"

	MetricPlanAdherencePercent         MetricName = "planAdherencePercent"
	MetricHasMinimumTradesForAdherence MetricName = "hasMinimumTradesForAdherence"

	MetricTotalProfitPercent MetricName = "totalProfitPercent"

	MetricUniquePairsTradedCount        MetricName = "uniquePairsTradedCount"
	MetricUniqueStrategiesCount         MetricName = "uniqueStrategiesCount"
	MetricProfitableStrategiesCreated   MetricName = "profitableStrategiesCreated"
	MetricAllMarketConditionsProfitable MetricName = "allMarketConditionsProfitable"

	MetricJournaledTradesCount MetricName = "journaledTradesCount"
	MetricTradingDaysCount     MetricName = "tradingDaysCount"
)

// MetricsSnapshot is the derived per-user metrics document (userMetrics/{userId}).
// Every field is zero when there is not enough data and never negative.
type MetricsSnapshot struct {
	UserID string `json:"userId"`

	// Counts / rates
	TotalTrades       int     `json:"totalTrades"`
	TotalClosedTrades int     `json:"totalClosedTrades"`
	WinningTrades     int     `json:"winningTrades"`
	LosingTrades      int     `json:"losingTrades"`
	BreakEvenTrades   int     `json:"breakEvenTrades"`
	WinRate           float64 `json:"winRate"` // 0..100

	// Performance streaks
	WinningStreak        int `json:"winningStreak"`
	LongestWinningStreak int `json:"longestWinningStreak"`

	// Discipline streaks (current unbroken runs, newest first)
	NotEnteredEarlyStreak         int `json:"notEnteredEarlyStreak"`
	NoRevengeTradesStreak         int `json:"noRevengeTradesStreak"`
	NotMovedStopLossStreak        int `json:"notMovedStopLossStreak"`
	FollowedPlanStreak            int `json:"followedPlanStreak"`
	PerfectEmotionalControlStreak int `json:"perfectEmotionalControlStreak"`
	NoOverLeveragedDaysStreak     int `json:"noOverLeveragedDaysStreak"`

	// Plan adherence
	PlanAdherencePercent         float64 `json:"planAdherencePercent"`
	HasMinimumTradesForAdherence int     `json:"hasMinimumTradesForAdherence"` // 0 | 1

	// Profit
	TotalProfitPercent float64 `json:"totalProfitPercent"`

	// Diversity
	UniquePairsTradedCount        int `json:"uniquePairsTradedCount"`
	UniqueStrategiesCount         int `json:"uniqueStrategiesCount"`
	ProfitableStrategiesCreated   int `json:"profitableStrategiesCreated"`
	AllMarketConditionsProfitable int `json:"allMarketConditionsProfitable"` // 0 | 1

	// Learning
	JournaledTradesCount int `json:"journaledTradesCount"`
	TradingDaysCount     int `json:"tradingDaysCount"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// Value returns the numeric value of the named metric.
// The second result is false for names the snapshot does not carry.
func (m *MetricsSnapshot) Value(name MetricName) (float64, bool) {
	if m == nil {
		return 0, false
	}
	switch name {
	case MetricTotalTrades:
		return float64(m.TotalTrades), true
	case MetricTotalClosedTrades:
		return float64(m.TotalClosedTrades), true
	case MetricWinningTrades:
		return float64(m.WinningTrades), true
	case MetricLosingTrades:
		return float64(m.LosingTrades), true
	case MetricBreakEvenTrades:
		return float64(m.BreakEvenTrades), true
	case MetricWinRate:
		return m.WinRate, true
	case MetricWinningStreak:
		return float64(m.WinningStreak), true
	case MetricLongestWinningStreak:
		return float64(m.LongestWinningStreak), true
	case MetricNotEnteredEarlyStreak:
		return float64(m.NotEnteredEarlyStreak), true
	case MetricNoRevengeTradesStreak:
		return float64(m.NoRevengeTradesStreak), true
	case MetricNotMovedStopLossStreak:
		return float64(m.NotMovedStopLossStreak), true
	case MetricFollowedPlanStreak:
		return float64(m.FollowedPlanStreak), true
	case MetricPerfectEmotionalControlStreak:
		return float64(m.PerfectEmotionalControlStreak), true
	case MetricNoOverLeveragedDaysStreak:
		return float64(m.NoOverLeveragedDaysStreak), true
	case MetricPlanAdherencePercent:
		return m.PlanAdherencePercent, true
	case MetricHasMinimumTradesForAdherence:
		return float64(m.HasMinimumTradesForAdherence), true
	case MetricTotalProfitPercent:
		return m.TotalProfitPercent, true
	case MetricUniquePairsTradedCount:
		return float64(m.UniquePairsTradedCount), true
	case MetricUniqueStrategiesCount:
		return float64(m.UniqueStrategiesCount), true
	case MetricProfitableStrategiesCreated:
		return float64(m.ProfitableStrategiesCreated), true
	case MetricAllMarketConditionsProfitable:
		return float64(m.AllMarketConditionsProfitable), true
	case MetricJournaledTradesCount:
		return float64(m.JournaledTradesCount), true
	case MetricTradingDaysCount:
		return float64(m.TradingDaysCount), true
	default:
		return 0, false
	}
}

// AllMetricNames lists every metric the snapshot exposes, in document order.
var AllMetricNames = []MetricName{
	MetricTotalTrades,
	MetricTotalClosedTrades,
	MetricWinningTrades,
	MetricLosingTrades,
	MetricBreakEvenTrades,
	MetricWinRate,
	MetricWinningStreak,
	MetricLongestWinningStreak,
	MetricNotEnteredEarlyStreak,
	MetricNoRevengeTradesStreak,
	MetricNotMovedStopLossStreak,
	MetricFollowedPlanStreak,
	MetricPerfectEmotionalControlStreak,
	MetricNoOverLeveragedDaysStreak,
	MetricPlanAdherencePercent,
	MetricHasMinimumTradesForAdherence,
	MetricTotalProfitPercent,
	MetricUniquePairsTradedCount,
	MetricUniqueStrategiesCount,
	MetricProfitableStrategiesCreated,
	MetricAllMarketConditionsProfitable,
	MetricJournaledTradesCount,
	MetricTradingDaysCount,
}

// IsStreakMetric reports whether the metric is a current-run streak.
func (n MetricName) IsStreakMetric() bool {
	return n.IsTradeStreakMetric() || n == MetricNoOverLeveragedDaysStreak
}

// IsTradeStreakMetric reports whether the metric is a streak counted in
// trades. These are the streaks bounded by the streak window.
func (n MetricName) IsTradeStreakMetric() bool {
	switch n {
	case MetricWinningStreak,
		MetricNotEnteredEarlyStreak,
		MetricNoRevengeTradesStreak,
		MetricNotMovedStopLossStreak,
		MetricFollowedPlanStreak,
		MetricPerfectEmotionalControlStreak:
		return true
	}
	return false
}
