package clickhouse

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"trade-journal/internal/domain"
	"trade-journal/internal/storage"
)

// MetricsHistoryStore implements storage.MetricsHistoryStore using ClickHouse.
// Headline metrics are columns for analytics; the full snapshot is kept as JSON.
type MetricsHistoryStore struct {
	conn *Conn
}

// NewMetricsHistoryStore creates a new MetricsHistoryStore.
func NewMetricsHistoryStore(conn *Conn) *MetricsHistoryStore {
	return &MetricsHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.MetricsHistoryStore = (*MetricsHistoryStore)(nil)

// Append adds a record. Returns ErrDuplicateKey if the id exists.
func (s *MetricsHistoryStore) Append(ctx context.Context, r *domain.MetricsHistoryRecord) error {
	if r == nil || r.ID == "" || r.UserID == "" {
		return storage.ErrInvalidInput
	}

	// MergeTree does not enforce uniqueness, check explicitly.
	exists, err := s.exists(ctx, r.UserID, r.ID)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	snapshot, err := json.Marshal(r.Metrics)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	query := `
		INSERT INTO metrics_history (
			id, user_id, trigger, catalog_version,
			total_trades, total_closed_trades, winning_trades, win_rate, winning_streak,
			plan_adherence_pct, total_profit_pct,
			total_points, level, unlocked,
			snapshot, recorded_at
		) VALUES (
			?, ?, ?, ?,
			?, ?, ?, ?, ?,
			?, ?,
			?, ?, ?,
			?, ?
		)
	`

	m := r.Metrics
	err = s.conn.Exec(ctx, query,
		r.ID, r.UserID, string(r.Trigger), uint32(r.CatalogVersion),
		uint32(m.TotalTrades), uint32(m.TotalClosedTrades), uint32(m.WinningTrades), m.WinRate, uint32(m.WinningStreak),
		m.PlanAdherencePercent, m.TotalProfitPercent,
		uint32(r.TotalPoints), uint8(r.Level), uint16(r.Unlocked),
		string(snapshot), r.RecordedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert metrics history: %w", err)
	}
	return nil
}

// ListByUser returns up to limit records for a user, newest first.
func (s *MetricsHistoryStore) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.MetricsHistoryRecord, error) {
	query := `
		SELECT id, user_id, trigger, catalog_version, total_points, level, unlocked, snapshot, recorded_at
		FROM metrics_history
		WHERE user_id = ?
		ORDER BY recorded_at DESC, id ASC
	`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, uint64(limit))
	}

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query metrics history: %w", err)
	}
	defer rows.Close()

	var result []*domain.MetricsHistoryRecord
	for rows.Next() {
		var (
			r              domain.MetricsHistoryRecord
			trigger        string
			catalogVersion uint32
			totalPoints    uint32
			level          uint8
			unlocked       uint16
			snapshot       string
			recordedAt     time.Time
		)
		if err := rows.Scan(&r.ID, &r.UserID, &trigger, &catalogVersion, &totalPoints, &level, &unlocked, &snapshot, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan metrics history: %w", err)
		}
		if err := json.Unmarshal([]byte(snapshot), &r.Metrics); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		r.Trigger = domain.Trigger(trigger)
		r.CatalogVersion = int(catalogVersion)
		r.TotalPoints = int(totalPoints)
		r.Level = int(level)
		r.Unlocked = int(unlocked)
		r.RecordedAt = recordedAt.UTC()
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metrics history: %w", err)
	}
	return result, nil
}

func (s *MetricsHistoryStore) exists(ctx context.Context, userID, id string) (bool, error) {
	var count uint64
	row := s.conn.QueryRow(ctx, `SELECT count() FROM metrics_history WHERE user_id = ? AND id = ?`, userID, id)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
