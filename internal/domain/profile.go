package domain

import "github.com/shopspring/decimal"

// UserProfile carries the account balances used by profit metrics.
// Corresponds to user_profiles table in PostgreSQL.
type UserProfile struct {
	UserID         string          `json:"userId"`
	InitialBalance decimal.Decimal `json:"initialBalance"` // zero when unknown
	CurrentBalance decimal.Decimal `json:"currentBalance"`
}
