package metrics

import (
	"trade-journal/internal/domain"
)

// computeWinningStreak counts the current run of winning closed trades,
// newest first. Open trades are skipped; the run stops at the first
// closed trade that is not a win (break-even and missing pips included).
func computeWinningStreak(newest []*domain.TradeRecord) int {
	streak := 0
	for _, t := range newest {
		if t.IsOpen {
			continue
		}
		if classify(t) != outcomeWin {
			break
		}
		streak++
	}
	return streak
}

// computeLongestWinningStreak finds the longest run of winning closed trades
// anywhere in history. Walks oldest to newest.
func computeLongestWinningStreak(newest []*domain.TradeRecord) int {
	longest := 0
	current := 0

	for i := len(newest) - 1; i >= 0; i-- {
		t := newest[i]
		if t.IsOpen {
			continue
		}
		if classify(t) == outcomeWin {
			current++
			continue
		}
		if current > longest {
			longest = current
		}
		current = 0
	}

	// The last run is still open when the loop ends.
	if current > longest {
		longest = current
	}
	return longest
}

// disciplineStreak counts the current run of trades whose discipline record
// satisfies good, newest first. A trade without a discipline record ends
// the run.
func disciplineStreak(newest []*domain.TradeRecord, good func(*domain.Discipline) bool) int {
	streak := 0
	for _, t := range newest {
		if t.Discipline == nil || !good(t.Discipline) {
			break
		}
		streak++
	}
	return streak
}

// computeNoOverLeveragedDaysStreak counts consecutive trading days, newest
// first, on which no trade was over-leveraged. Days without trades do not
// break the run; a day containing a trade without discipline data does.
func computeNoOverLeveragedDaysStreak(newest []*domain.TradeRecord) int {
	days := tradingDays(newest)
	if len(days) == 0 {
		return 0
	}

	clean := make(map[string]bool, len(days))
	for _, d := range days {
		clean[d] = true
	}
	for _, t := range newest {
		if t.Discipline == nil || t.Discipline.OverLeveraged {
			clean[dayKey(t)] = false
		}
	}

	streak := 0
	for _, d := range days {
		if !clean[d] {
			break
		}
		streak++
	}
	return streak
}

// tradingDays returns the distinct UTC days with trades, newest first.
// trades must be sorted newest first.
func tradingDays(newest []*domain.TradeRecord) []string {
	var days []string
	seen := make(map[string]struct{})
	for _, t := range newest {
		d := dayKey(t)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	return days
}

func dayKey(t *domain.TradeRecord) string {
	return t.CreatedAt.UTC().Format("2006-01-02")
}
