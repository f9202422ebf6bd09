package catalog

import "trade-journal/internal/domain"

// retiredIDs were shipped in earlier catalog versions and must never be
// reused with a different meaning.
var retiredIDs = map[string]struct{}{
	"perf_win_rate_70":     {}, // v2: replaced by perf_win_rate_65
	"cons_weekly_journal":  {}, // v2: needed calendar data the journal no longer stores
	"learn_screenshot_10":  {}, // v3: screenshots moved out of the journal
	"disc_risk_1pct_first": {}, // v3: risk per trade no longer captured
}

func atLeast(metric domain.MetricName, v float64) domain.Criteria {
	return domain.Criteria{Metric: metric, Value: v, Comparison: domain.ComparisonGreater}
}

func streakOf(metric domain.MetricName, v float64) domain.Criteria {
	return domain.Criteria{Metric: metric, Value: v, Comparison: domain.ComparisonGreater, Streak: true}
}

func flag(metric domain.MetricName) domain.Criteria {
	return domain.Criteria{Metric: metric, Value: 1, Comparison: domain.ComparisonEquals}
}

// definitions is the built-in catalog, in announcement order.
var definitions = []domain.AchievementDefinition{
	// Discipline
	{
		ID: "disc_patient_entry_5", Name: "Patient Hunter",
		Description: "Wait for your entry signal on 5 trades in a row",
		Category:    domain.CategoryDiscipline, Rank: domain.RankBronze, Icon: domain.IconClock,
		Criteria: streakOf(domain.MetricNotEnteredEarlyStreak, 5), Points: 25,
	},
	{
		ID: "disc_patient_entry_15", Name: "Sniper's Patience",
		Description: "Wait for your entry signal on 15 trades in a row",
		Category:    domain.CategoryDiscipline, Rank: domain.RankSilver, Icon: domain.IconClock,
		Criteria: streakOf(domain.MetricNotEnteredEarlyStreak, 15), Points: 75,
	},
	{
		ID: "disc_patient_entry_30", Name: "Zen Entry",
		Description: "Wait for your entry signal on 30 trades in a row",
		Category:    domain.CategoryDiscipline, Rank: domain.RankGold, Icon: domain.IconClock,
		Criteria: streakOf(domain.MetricNotEnteredEarlyStreak, 30), Points: 150,
	},
	{
		ID: "disc_no_revenge_5", Name: "Cool Head",
		Description: "5 trades in a row without a revenge trade",
		Category:    domain.CategoryDiscipline, Rank: domain.RankBronze, Icon: domain.IconBrain,
		Criteria: streakOf(domain.MetricNoRevengeTradesStreak, 5), Points: 25,
	},
	{
		ID: "disc_no_revenge_15", Name: "Ice in the Veins",
		Description: "15 trades in a row without a revenge trade",
		Category:    domain.CategoryDiscipline, Rank: domain.RankSilver, Icon: domain.IconBrain,
		Criteria: streakOf(domain.MetricNoRevengeTradesStreak, 15), Points: 75,
	},
	{
		ID: "disc_no_revenge_30", Name: "Unshakeable",
		Description: "30 trades in a row without a revenge trade",
		Category:    domain.CategoryDiscipline, Rank: domain.RankGold, Icon: domain.IconBrain,
		Criteria: streakOf(domain.MetricNoRevengeTradesStreak, 30), Points: 150,
	},
	{
		ID: "disc_stop_respected_5", Name: "Stop Respecter",
		Description: "Leave your stop loss alone for 5 trades in a row",
		Category:    domain.CategoryDiscipline, Rank: domain.RankBronze, Icon: domain.IconShield,
		Criteria: streakOf(domain.MetricNotMovedStopLossStreak, 5), Points: 25,
	},
	{
		ID: "disc_stop_respected_15", Name: "Risk Guardian",
		Description: "Leave your stop loss alone for 15 trades in a row",
		Category:    domain.CategoryDiscipline, Rank: domain.RankSilver, Icon: domain.IconShield,
		Criteria: streakOf(domain.MetricNotMovedStopLossStreak, 15), Points: 75,
	},
	{
		ID: "disc_stop_respected_30", Name: "Iron Stop",
		Description: "Leave your stop loss alone for 30 trades in a row",
		Category:    domain.CategoryDiscipline, Rank: domain.RankGold, Icon: domain.IconShield,
		Criteria: streakOf(domain.MetricNotMovedStopLossStreak, 30), Points: 150,
	},
	{
		ID: "disc_plan_follower_10", Name: "By the Book",
		Description: "Follow your trading plan on 10 trades in a row",
		Category:    domain.CategoryDiscipline, Rank: domain.RankSilver, Icon: domain.IconTarget,
		Criteria: streakOf(domain.MetricFollowedPlanStreak, 10), Points: 60,
	},
	{
		ID: "disc_plan_follower_25", Name: "Plan Keeper",
		Description: "Follow your trading plan on 25 trades in a row",
		Category:    domain.CategoryDiscipline, Rank: domain.RankGold, Icon: domain.IconTarget,
		Criteria: streakOf(domain.MetricFollowedPlanStreak, 25), Points: 150,
	},
	{
		ID: "disc_perfect_control_5", Name: "Emotional Control",
		Description: "5 trades in a row with a perfect discipline checklist",
		Category:    domain.CategoryDiscipline, Rank: domain.RankSilver, Icon: domain.IconScale,
		Criteria: streakOf(domain.MetricPerfectEmotionalControlStreak, 5), Points: 100,
	},
	{
		ID: "disc_perfect_control_10", Name: "Master of Emotions",
		Description: "10 trades in a row with a perfect discipline checklist",
		Category:    domain.CategoryDiscipline, Rank: domain.RankPlatinum, Icon: domain.IconScale,
		Criteria: streakOf(domain.MetricPerfectEmotionalControlStreak, 10), Points: 250,
	},
	{
		ID: "disc_perfect_control_25", Name: "Stoic Trader",
		Description: "25 trades in a row with a perfect discipline checklist",
		Category:    domain.CategoryDiscipline, Rank: domain.RankDiamond, Icon: domain.IconScale,
		Criteria: streakOf(domain.MetricPerfectEmotionalControlStreak, 25), Points: 500,
	},
	{
		ID: "disc_perfect_control_50", Name: "Machine Mind",
		Description: "50 trades in a row with a perfect discipline checklist",
		Category:    domain.CategoryDiscipline, Rank: domain.RankRuby, Icon: domain.IconScale,
		Criteria: streakOf(domain.MetricPerfectEmotionalControlStreak, 50), Points: 1000,
	},
	{
		ID: "disc_leverage_days_5", Name: "Sized Right",
		Description: "5 trading days in a row without over-leveraging",
		Category:    domain.CategoryDiscipline, Rank: domain.RankSilver, Icon: domain.IconShield,
		Criteria: streakOf(domain.MetricNoOverLeveragedDaysStreak, 5), Points: 75,
	},
	{
		ID: "disc_leverage_days_20", Name: "Capital Protector",
		Description: "20 trading days in a row without over-leveraging",
		Category:    domain.CategoryDiscipline, Rank: domain.RankGold, Icon: domain.IconShield,
		Criteria: streakOf(domain.MetricNoOverLeveragedDaysStreak, 20), Points: 200,
	},
	{
		ID: "disc_adherence_80", Name: "Planned Trader",
		Description: "Follow your plan on at least 80% of closed trades",
		Category:    domain.CategoryDiscipline, Rank: domain.RankSilver, Icon: domain.IconTarget,
		Criteria: atLeast(domain.MetricPlanAdherencePercent, 80), Points: 80,
	},
	{
		ID: "disc_adherence_95", Name: "Plan Perfectionist",
		Description: "Follow your plan on at least 95% of closed trades",
		Category:    domain.CategoryDiscipline, Rank: domain.RankPlatinum, Icon: domain.IconTarget,
		Criteria: atLeast(domain.MetricPlanAdherencePercent, 95), Points: 250,
	},
	{
		ID: "disc_adherence_sample", Name: "Proven Process",
		Description: "Log 50 closed trades so your plan adherence is statistically meaningful",
		Category:    domain.CategoryDiscipline, Rank: domain.RankGold, Icon: domain.IconCompass,
		Criteria: flag(domain.MetricHasMinimumTradesForAdherence), Points: 150,
	},

	// Performance
	{
		ID: "perf_first_win", Name: "First Blood",
		Description: "Close your first winning trade",
		Category:    domain.CategoryPerformance, Rank: domain.RankBronze, Icon: domain.IconTrophy,
		Criteria: atLeast(domain.MetricWinningTrades, 1), Points: 10,
	},
	{
		ID: "perf_wins_10", Name: "Getting Paid",
		Description: "Close 10 winning trades",
		Category:    domain.CategoryPerformance, Rank: domain.RankBronze, Icon: domain.IconTrophy,
		Criteria: atLeast(domain.MetricWinningTrades, 10), Points: 30,
	},
	{
		ID: "perf_wins_50", Name: "Consistent Winner",
		Description: "Close 50 winning trades",
		Category:    domain.CategoryPerformance, Rank: domain.RankSilver, Icon: domain.IconTrophy,
		Criteria: atLeast(domain.MetricWinningTrades, 50), Points: 100,
	},
	{
		ID: "perf_wins_100", Name: "Centurion",
		Description: "Close 100 winning trades",
		Category:    domain.CategoryPerformance, Rank: domain.RankGold, Icon: domain.IconTrophy,
		Criteria: atLeast(domain.MetricWinningTrades, 100), Points: 200,
	},
	{
		ID: "perf_wins_500", Name: "Profit Machine",
		Description: "Close 500 winning trades",
		Category:    domain.CategoryPerformance, Rank: domain.RankSapphire, Icon: domain.IconCrown,
		Criteria: atLeast(domain.MetricWinningTrades, 500), Points: 1200,
	},
	{
		ID: "perf_win_streak_3", Name: "Hat Trick",
		Description: "Win 3 trades in a row",
		Category:    domain.CategoryPerformance, Rank: domain.RankBronze, Icon: domain.IconFire,
		Criteria: streakOf(domain.MetricWinningStreak, 3), Points: 30,
	},
	{
		ID: "perf_win_streak_5", Name: "On Fire",
		Description: "Win 5 trades in a row",
		Category:    domain.CategoryPerformance, Rank: domain.RankSilver, Icon: domain.IconFire,
		Criteria: streakOf(domain.MetricWinningStreak, 5), Points: 75,
	},
	{
		ID: "perf_win_streak_10", Name: "Unstoppable",
		Description: "Win 10 trades in a row",
		Category:    domain.CategoryPerformance, Rank: domain.RankPlatinum, Icon: domain.IconFire,
		Criteria: streakOf(domain.MetricWinningStreak, 10), Points: 300,
	},
	{
		ID: "perf_longest_streak_15", Name: "Legendary Run",
		Description: "Reach a winning streak of 15 trades at any point",
		Category:    domain.CategoryPerformance, Rank: domain.RankDiamond, Icon: domain.IconStar,
		Criteria: atLeast(domain.MetricLongestWinningStreak, 15), Points: 600,
	},
	{
		ID: "perf_win_rate_55", Name: "Edge Found",
		Description: "Hold a win rate of at least 55%",
		Category:    domain.CategoryPerformance, Rank: domain.RankSilver, Icon: domain.IconChart,
		Criteria: atLeast(domain.MetricWinRate, 55), Points: 60,
	},
	{
		ID: "perf_win_rate_65", Name: "Sharp Edge",
		Description: "Hold a win rate of at least 65%",
		Category:    domain.CategoryPerformance, Rank: domain.RankGold, Icon: domain.IconChart,
		Criteria: atLeast(domain.MetricWinRate, 65), Points: 150,
	},
	{
		ID: "perf_profit_5", Name: "In the Green",
		Description: "Grow your account by 5%",
		Category:    domain.CategoryPerformance, Rank: domain.RankSilver, Icon: domain.IconMoney,
		Criteria: atLeast(domain.MetricTotalProfitPercent, 5), Points: 75,
	},
	{
		ID: "perf_profit_25", Name: "Compounding",
		Description: "Grow your account by 25%",
		Category:    domain.CategoryPerformance, Rank: domain.RankPlatinum, Icon: domain.IconMoney,
		Criteria: atLeast(domain.MetricTotalProfitPercent, 25), Points: 400,
	},
	{
		ID: "perf_profit_50", Name: "Half Way Up",
		Description: "Grow your account by 50%",
		Category:    domain.CategoryPerformance, Rank: domain.RankRuby, Icon: domain.IconMoney,
		Criteria: atLeast(domain.MetricTotalProfitPercent, 50), Points: 900,
	},
	{
		ID: "perf_profit_100", Name: "Account Doubler",
		Description: "Double your account",
		Category:    domain.CategoryPerformance, Rank: domain.RankLegend, Icon: domain.IconCrown,
		Criteria: atLeast(domain.MetricTotalProfitPercent, 100), Points: 2000,
	},
	{
		ID: "perf_profitable_strategy_1", Name: "Strategy Architect",
		Description: "Build a strategy with at least 3 trades and a win rate above 50%",
		Category:    domain.CategoryPerformance, Rank: domain.RankSilver, Icon: domain.IconCompass,
		Criteria: atLeast(domain.MetricProfitableStrategiesCreated, 1), Points: 100,
	},
	{
		ID: "perf_profitable_strategy_3", Name: "Playbook Master",
		Description: "Build 3 profitable strategies",
		Category:    domain.CategoryPerformance, Rank: domain.RankPlatinum, Icon: domain.IconCompass,
		Criteria: atLeast(domain.MetricProfitableStrategiesCreated, 3), Points: 350,
	},
	{
		ID: "perf_all_conditions", Name: "All-Weather Trader",
		Description: "Close a winning trade in every market condition",
		Category:    domain.CategoryPerformance, Rank: domain.RankDiamond, Icon: domain.IconGlobe,
		Criteria: flag(domain.MetricAllMarketConditionsProfitable), Points: 500,
	},

	// Consistency
	{
		ID: "cons_first_trade", Name: "First Step",
		Description: "Log your first trade",
		Category:    domain.CategoryConsistency, Rank: domain.RankBronze, Icon: domain.IconDefault,
		Criteria: atLeast(domain.MetricTotalTrades, 1), Points: 10,
	},
	{
		ID: "cons_trades_10", Name: "Warming Up",
		Description: "Log 10 trades",
		Category:    domain.CategoryConsistency, Rank: domain.RankBronze, Icon: domain.IconCalendar,
		Criteria: atLeast(domain.MetricTotalTrades, 10), Points: 25,
	},
	{
		ID: "cons_trades_50", Name: "Regular",
		Description: "Log 50 trades",
		Category:    domain.CategoryConsistency, Rank: domain.RankSilver, Icon: domain.IconCalendar,
		Criteria: atLeast(domain.MetricTotalTrades, 50), Points: 75,
	},
	{
		ID: "cons_trades_100", Name: "Committed",
		Description: "Log 100 trades",
		Category:    domain.CategoryConsistency, Rank: domain.RankGold, Icon: domain.IconCalendar,
		Criteria: atLeast(domain.MetricTotalTrades, 100), Points: 150,
	},
	{
		ID: "cons_trades_250", Name: "Seasoned",
		Description: "Log 250 trades",
		Category:    domain.CategoryConsistency, Rank: domain.RankPlatinum, Icon: domain.IconCalendar,
		Criteria: atLeast(domain.MetricTotalTrades, 250), Points: 350,
	},
	{
		ID: "cons_trades_500", Name: "Veteran",
		Description: "Log 500 trades",
		Category:    domain.CategoryConsistency, Rank: domain.RankDiamond, Icon: domain.IconStar,
		Criteria: atLeast(domain.MetricTotalTrades, 500), Points: 700,
	},
	{
		ID: "cons_trades_1000", Name: "Journal Legend",
		Description: "Log 1000 trades",
		Category:    domain.CategoryConsistency, Rank: domain.RankMaster, Icon: domain.IconCrown,
		Criteria: atLeast(domain.MetricTotalTrades, 1000), Points: 3000,
	},
	{
		ID: "cons_trading_days_5", Name: "Showing Up",
		Description: "Trade on 5 different days",
		Category:    domain.CategoryConsistency, Rank: domain.RankBronze, Icon: domain.IconCalendar,
		Criteria: atLeast(domain.MetricTradingDaysCount, 5), Points: 25,
	},
	{
		ID: "cons_trading_days_20", Name: "Routine",
		Description: "Trade on 20 different days",
		Category:    domain.CategoryConsistency, Rank: domain.RankSilver, Icon: domain.IconCalendar,
		Criteria: atLeast(domain.MetricTradingDaysCount, 20), Points: 75,
	},
	{
		ID: "cons_trading_days_60", Name: "Habit Formed",
		Description: "Trade on 60 different days",
		Category:    domain.CategoryConsistency, Rank: domain.RankGold, Icon: domain.IconCalendar,
		Criteria: atLeast(domain.MetricTradingDaysCount, 60), Points: 200,
	},
	{
		ID: "cons_trading_days_120", Name: "Professional Rhythm",
		Description: "Trade on 120 different days",
		Category:    domain.CategoryConsistency, Rank: domain.RankSapphire, Icon: domain.IconClock,
		Criteria: atLeast(domain.MetricTradingDaysCount, 120), Points: 800,
	},
	{
		ID: "cons_closed_100", Name: "Finisher",
		Description: "Close 100 trades with results recorded",
		Category:    domain.CategoryConsistency, Rank: domain.RankGold, Icon: domain.IconTarget,
		Criteria: atLeast(domain.MetricTotalClosedTrades, 100), Points: 150,
	},

	// Learning
	{
		ID: "learn_first_note", Name: "Dear Diary",
		Description: "Write notes on a trade",
		Category:    domain.CategoryLearning, Rank: domain.RankBronze, Icon: domain.IconBook,
		Criteria: atLeast(domain.MetricJournaledTradesCount, 1), Points: 10,
	},
	{
		ID: "learn_notes_25", Name: "Reflective Trader",
		Description: "Write notes on 25 trades",
		Category:    domain.CategoryLearning, Rank: domain.RankSilver, Icon: domain.IconBook,
		Criteria: atLeast(domain.MetricJournaledTradesCount, 25), Points: 60,
	},
	{
		ID: "learn_notes_100", Name: "Scholar",
		Description: "Write notes on 100 trades",
		Category:    domain.CategoryLearning, Rank: domain.RankGold, Icon: domain.IconBook,
		Criteria: atLeast(domain.MetricJournaledTradesCount, 100), Points: 200,
	},
	{
		ID: "learn_notes_250", Name: "Market Historian",
		Description: "Write notes on 250 trades",
		Category:    domain.CategoryLearning, Rank: domain.RankSapphire, Icon: domain.IconBook,
		Criteria: atLeast(domain.MetricJournaledTradesCount, 250), Points: 800,
	},
	{
		ID: "learn_pairs_3", Name: "Explorer",
		Description: "Trade 3 different pairs",
		Category:    domain.CategoryLearning, Rank: domain.RankBronze, Icon: domain.IconGlobe,
		Criteria: atLeast(domain.MetricUniquePairsTradedCount, 3), Points: 20,
	},
	{
		ID: "learn_pairs_10", Name: "Globetrotter",
		Description: "Trade 10 different pairs",
		Category:    domain.CategoryLearning, Rank: domain.RankGold, Icon: domain.IconGlobe,
		Criteria: atLeast(domain.MetricUniquePairsTradedCount, 10), Points: 150,
	},
	{
		ID: "learn_strategies_3", Name: "Experimenter",
		Description: "Try 3 different strategies",
		Category:    domain.CategoryLearning, Rank: domain.RankBronze, Icon: domain.IconBrain,
		Criteria: atLeast(domain.MetricUniqueStrategiesCount, 3), Points: 30,
	},
	{
		ID: "learn_strategies_5", Name: "Strategist",
		Description: "Try 5 different strategies",
		Category:    domain.CategoryLearning, Rank: domain.RankSilver, Icon: domain.IconBrain,
		Criteria: atLeast(domain.MetricUniqueStrategiesCount, 5), Points: 75,
	},
}
