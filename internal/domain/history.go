package domain

import "time"

// Trigger names what started an orchestration pass.
type Trigger string

// Pass triggers
const (
	TriggerTradeCreated   Trigger = "trade_created"
	TriggerTradeUpdated   Trigger = "trade_updated"
	TriggerTradeDeleted   Trigger = "trade_deleted"
	TriggerProfileUpdated Trigger = "profile_updated"
	TriggerRecompute      Trigger = "recompute"
	TriggerRevoke         Trigger = "revoke"
)

// MetricsHistoryRecord is one append-only analytics row written per pass.
type MetricsHistoryRecord struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	Trigger        Trigger         `json:"trigger"`
	CatalogVersion int             `json:"catalogVersion"`
	Metrics        MetricsSnapshot `json:"metrics"`
	TotalPoints    int             `json:"totalPoints"`
	Level          int             `json:"level"`
	Unlocked       int             `json:"unlocked"`
	RecordedAt     time.Time       `json:"recordedAt"`
}
