package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"trade-journal/internal/domain"
	"trade-journal/internal/storage"
)

// TradeStore implements storage.TradeStore using PostgreSQL.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

const tradeColumns = `
	user_id, trade_id, pair, direction,
	entry_price, exit_price, stop_loss, take_profit, lot_size,
	pips, profit_loss, is_open, close_date, created_at,
	notes, market_condition, strategy, discipline
`

// Upsert inserts or replaces a trade keyed by (user_id, trade_id).
func (s *TradeStore) Upsert(ctx context.Context, t *domain.TradeRecord) error {
	if t == nil || t.ID == "" || t.UserID == "" {
		return storage.ErrInvalidInput
	}

	discipline, err := marshalDiscipline(t.Discipline)
	if err != nil {
		return fmt.Errorf("encode discipline: %w", err)
	}

	query := `
		INSERT INTO trades (` + tradeColumns + `) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8, $9,
			$10, $11, $12, $13, $14,
			$15, $16, $17, $18
		)
		ON CONFLICT (user_id, trade_id) DO UPDATE SET
			pair = EXCLUDED.pair,
			direction = EXCLUDED.direction,
			entry_price = EXCLUDED.entry_price,
			exit_price = EXCLUDED.exit_price,
			stop_loss = EXCLUDED.stop_loss,
			take_profit = EXCLUDED.take_profit,
			lot_size = EXCLUDED.lot_size,
			pips = EXCLUDED.pips,
			profit_loss = EXCLUDED.profit_loss,
			is_open = EXCLUDED.is_open,
			close_date = EXCLUDED.close_date,
			created_at = EXCLUDED.created_at,
			notes = EXCLUDED.notes,
			market_condition = EXCLUDED.market_condition,
			strategy = EXCLUDED.strategy,
			discipline = EXCLUDED.discipline
	`

	_, err = s.pool.Exec(ctx, query,
		t.UserID, t.ID, t.Pair, string(t.Direction),
		t.EntryPrice, t.ExitPrice, t.StopLoss, t.TakeProfit, t.LotSize,
		t.Pips, t.ProfitLoss, t.IsOpen, t.CloseDate, t.CreatedAt,
		t.Notes, string(t.MarketCondition), t.Strategy, discipline,
	)
	if err != nil {
		return fmt.Errorf("upsert trade: %w", err)
	}
	return nil
}

// GetByID retrieves a trade. Returns ErrNotFound if not exists.
func (s *TradeStore) GetByID(ctx context.Context, userID, tradeID string) (*domain.TradeRecord, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE user_id = $1 AND trade_id = $2`

	row := s.pool.QueryRow(ctx, query, userID, tradeID)
	t, err := scanTrade(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get trade by id: %w", err)
	}
	return t, nil
}

// Delete removes a trade. Returns ErrNotFound if not exists.
func (s *TradeStore) Delete(ctx context.Context, userID, tradeID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM trades WHERE user_id = $1 AND trade_id = $2`, userID, tradeID)
	if err != nil {
		return fmt.Errorf("delete trade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListByUser retrieves all trades of a user, ordered by created_at DESC, trade_id ASC.
func (s *TradeStore) ListByUser(ctx context.Context, userID string) ([]*domain.TradeRecord, error) {
	query := `
		SELECT ` + tradeColumns + `
		FROM trades
		WHERE user_id = $1
		ORDER BY created_at DESC, trade_id ASC
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list trades by user: %w", err)
	}
	defer rows.Close()

	var result []*domain.TradeRecord
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trades: %w", err)
	}
	return result, nil
}

// ListUserIDs returns every user with at least one trade, sorted.
func (s *TradeStore) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT user_id FROM trades ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list trade users: %w", err)
	}
	defer rows.Close()

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect trade users: %w", err)
	}
	return ids, nil
}

func scanTrade(row pgx.Row) (*domain.TradeRecord, error) {
	var (
		t               domain.TradeRecord
		direction       string
		marketCondition string
		discipline      []byte
	)
	err := row.Scan(
		&t.UserID, &t.ID, &t.Pair, &direction,
		&t.EntryPrice, &t.ExitPrice, &t.StopLoss, &t.TakeProfit, &t.LotSize,
		&t.Pips, &t.ProfitLoss, &t.IsOpen, &t.CloseDate, &t.CreatedAt,
		&t.Notes, &marketCondition, &t.Strategy, &discipline,
	)
	if err != nil {
		return nil, err
	}

	t.Direction = domain.Direction(direction)
	t.MarketCondition = domain.MarketCondition(marketCondition)
	t.CreatedAt = t.CreatedAt.UTC()
	if t.CloseDate != nil {
		cd := t.CloseDate.UTC()
		t.CloseDate = &cd
	}

	if len(discipline) > 0 {
		var d domain.Discipline
		if err := json.Unmarshal(discipline, &d); err != nil {
			return nil, fmt.Errorf("decode discipline: %w", err)
		}
		t.Discipline = &d
	}
	return &t, nil
}

// marshalDiscipline returns nil for a missing checklist so the column is NULL.
func marshalDiscipline(d *domain.Discipline) ([]byte, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}
