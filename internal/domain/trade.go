package domain

import "time"

// TradeRecord is a single journal entry owned by the trade store.
// The engine only reads trades; pointer fields are nil when the user
// never filled them in.
type TradeRecord struct {
	ID     string `json:"id"`     // PRIMARY KEY (with UserID)
	UserID string `json:"userId"` // owner

	Pair      string    `json:"pair"` // e.g. "EURUSD"
	Direction Direction `json:"direction"`

	EntryPrice float64  `json:"entryPrice"`
	ExitPrice  *float64 `json:"exitPrice,omitempty"` // nil while open
	StopLoss   *float64 `json:"stopLoss,omitempty"`
	TakeProfit *float64 `json:"takeProfit,omitempty"`
	LotSize    float64  `json:"lotSize"`

	Pips       *float64 `json:"pips,omitempty"`       // nil when not recorded
	ProfitLoss *float64 `json:"profitLoss,omitempty"` // account currency

	IsOpen    bool       `json:"isOpen"`
	CloseDate *time.Time `json:"closeDate,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`

	Notes           string          `json:"notes"`
	MarketCondition MarketCondition `json:"marketCondition"`
	Strategy        string          `json:"strategy"`

	Discipline *Discipline `json:"discipline,omitempty"` // nil when the checklist was skipped
}

// Discipline is the post-trade self-assessment checklist.
// The "good" value is true for FollowedPlan and false for the rest.
type Discipline struct {
	FollowedPlan  bool `json:"followedPlan"`
	EnteredEarly  bool `json:"enteredEarly"`
	Revenge       bool `json:"revenge"`
	MovedStopLoss bool `json:"movedStopLoss"`
	OverLeveraged bool `json:"overLeveraged"` // only used by day streaks
}

// Perfect reports whether all four per-trade emotional control flags hold.
func (d *Discipline) Perfect() bool {
	return d != nil && d.FollowedPlan && !d.EnteredEarly && !d.Revenge && !d.MovedStopLoss
}

// IsClosed reports whether the trade counts towards closed-trade metrics.
func (t *TradeRecord) IsClosed() bool {
	return !t.IsOpen
}

// Direction of a trade.
type Direction string

// Trade directions
const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// MarketCondition is the user-tagged market regime at entry.
type MarketCondition string

// Market conditions recognised by the journal.
const (
	MarketTrending MarketCondition = "trending"
	MarketRanging  MarketCondition = "ranging"
	MarketVolatile MarketCondition = "volatile"
	MarketBreakout MarketCondition = "breakout"
)

// AllMarketConditions is the fixed enumeration every "all conditions"
// metric is checked against.
var AllMarketConditions = []MarketCondition{
	MarketTrending,
	MarketRanging,
	MarketVolatile,
	MarketBreakout,
}

// Valid reports whether c is one of AllMarketConditions.
func (c MarketCondition) Valid() bool {
	for _, m := range AllMarketConditions {
		if m == c {
			return true
		}
	}
	return false
}
