package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal/internal/achievement"
	"trade-journal/internal/catalog"
	"trade-journal/internal/domain"
	"trade-journal/internal/notification"
	"trade-journal/internal/orchestrator"
	"trade-journal/internal/storage/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router   *gin.Engine
	engine   *orchestrator.Orchestrator
	trades   *memory.TradeStore
	profiles *memory.ProfileStore
	hub      *notification.Hub
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(1, []domain.AchievementDefinition{
		{
			ID: "first_trade", Name: "First trade", Category: domain.CategoryConsistency,
			Rank: domain.RankBronze, Icon: domain.IconChart, Points: 10,
			Criteria: domain.Criteria{Metric: domain.MetricTotalTrades, Value: 1, Comparison: domain.ComparisonGreater},
		},
		{
			ID: "first_win", Name: "First win", Category: domain.CategoryPerformance,
			Rank: domain.RankSilver, Icon: domain.IconTrophy, Points: 100,
			Criteria: domain.Criteria{Metric: domain.MetricWinningTrades, Value: 1, Comparison: domain.ComparisonGreater},
		},
	})
	require.NoError(t, err)
	return c
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	trades := memory.NewTradeStore()
	profiles := memory.NewProfileStore()
	metrics := memory.NewMetricsStore()
	history := memory.NewMetricsHistoryStore()
	hub := notification.NewHub()

	engine := orchestrator.New(orchestrator.Options{
		TradeStore:       trades,
		ProfileStore:     profiles,
		MetricsStore:     metrics,
		AchievementStore: memory.NewAchievementStore(),
		HistoryStore:     history,
		Catalog:          testCatalog(t),
		Notifier:         hub,
	})
	t.Cleanup(engine.Wait)

	router := NewRouter(Options{
		Engine:   engine,
		Trades:   trades,
		Profiles: profiles,
		Metrics:  metrics,
		History:  history,
		Hub:      hub,
		Checks: map[string]Pinger{
			"memory": func(context.Context) error { return nil },
		},
	})
	return &testEnv{router: router, engine: engine, trades: trades, profiles: profiles, hub: hub}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

const winningTrade = `{
	"pair": "EURUSD",
	"direction": "long",
	"entryPrice": 1.1,
	"exitPrice": 1.101,
	"lotSize": 1,
	"pips": 10,
	"profitLoss": 100,
	"isOpen": false,
	"createdAt": "2026-03-02T09:00:00Z",
	"marketCondition": "trending",
	"strategy": "breakout"
}`

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "trade_journal_")
}

func TestReady_FailingCheck(t *testing.T) {
	router := NewRouter(Options{
		Hub: notification.NewHub(),
		Checks: map[string]Pinger{
			"postgres": func(context.Context) error { return errors.New("connection refused") },
		},
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestRequestID(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodGet, "/health", "")
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestPutTrade_TriggersPass(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodPut, "/api/v1/users/u1/trades/t1", winningTrade)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, body.Meta["created"])
	env.engine.Wait()

	stored, err := env.trades.GetByID(context.Background(), "u1", "t1")
	require.NoError(t, err)
	assert.Equal(t, "u1", stored.UserID)
	require.NotNil(t, stored.Pips)
	assert.Equal(t, 10.0, *stored.Pips)

	rec, body = env.do(t, http.MethodGet, "/api/v1/users/u1/achievements", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var p achievement.Projection
	require.NoError(t, json.Unmarshal(body.Data, &p))
	assert.Equal(t, 110, p.TotalPoints)
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, 2, p.Completed)

	// Second write of the same id is an update.
	rec, body = env.do(t, http.MethodPut, "/api/v1/users/u1/trades/t1", winningTrade)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body.Meta["created"])
	env.engine.Wait()

	rec, body = env.do(t, http.MethodGet, "/api/v1/users/u1/trades", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body.Meta["total"])
}

func TestPutTrade_UpdateKeepsCreatedAt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	oldLoss := `{"pair":"EURUSD","direction":"long","entryPrice":1.1,"lotSize":1,"pips":-5,"createdAt":"2026-01-01T10:00:00Z"}`
	newWin := `{"pair":"EURUSD","direction":"long","entryPrice":1.1,"lotSize":1,"pips":5,"createdAt":"2026-02-01T10:00:00Z"}`
	edit := `{"pair":"EURUSD","direction":"long","entryPrice":1.1,"lotSize":1,"pips":-5,"notes":"late entry"}`

	for _, req := range []struct{ id, body string }{{"old", oldLoss}, {"new", newWin}, {"old", edit}} {
		rec, _ := env.do(t, http.MethodPut, "/api/v1/users/u1/trades/"+req.id, req.body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	env.engine.Wait()

	old, err := env.trades.GetByID(ctx, "u1", "old")
	require.NoError(t, err)
	assert.Equal(t, "late entry", old.Notes)
	assert.True(t, old.CreatedAt.Equal(time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)), "got %s", old.CreatedAt)

	trades, err := env.trades.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, "new", trades[0].ID, "edit must not move the trade to the top of history")
	assert.Equal(t, "old", trades[1].ID)

	// An explicit createdAt still moves the trade.
	moved := `{"pair":"EURUSD","direction":"long","entryPrice":1.1,"lotSize":1,"pips":-5,"createdAt":"2026-03-01T10:00:00Z"}`
	rec, _ := env.do(t, http.MethodPut, "/api/v1/users/u1/trades/old", moved)
	require.Equal(t, http.StatusOK, rec.Code)
	env.engine.Wait()

	trades, err = env.trades.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "old", trades[0].ID)
}

func TestPutTrade_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"pair":`},
		{"bad direction", `{"pair":"EURUSD","direction":"sideways","entryPrice":1}`},
		{"bad market condition", `{"pair":"EURUSD","direction":"long","entryPrice":1,"marketCondition":"choppy"}`},
		{"negative lot", `{"pair":"EURUSD","direction":"short","entryPrice":1,"lotSize":-1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := env.do(t, http.MethodPut, "/api/v1/users/u1/trades/t1", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, http.StatusBadRequest, body.Code)
		})
	}
}

func TestDeleteTrade(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodDelete, "/api/v1/users/u1/trades/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = env.do(t, http.MethodPut, "/api/v1/users/u1/trades/t1", winningTrade)
	require.Equal(t, http.StatusOK, rec.Code)
	env.engine.Wait()

	rec, _ = env.do(t, http.MethodDelete, "/api/v1/users/u1/trades/t1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	env.engine.Wait()

	// Completion is sticky across deletions.
	p, err := env.engine.GetEnhancedAchievements(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 110, p.TotalPoints)
}

func TestPutProfile(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodPut, "/api/v1/users/u1/profile",
		`{"initialBalance":"1000.00","currentBalance":"1250.50"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env.engine.Wait()

	p, err := env.profiles.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "1250.5", p.CurrentBalance.String())

	rec, _ = env.do(t, http.MethodPut, "/api/v1/users/u1/profile", `{"initialBalance":"-5"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecomputeAndHistory(t *testing.T) {
	env := newTestEnv(t)
	pips := 5.0
	require.NoError(t, env.trades.Upsert(context.Background(), &domain.TradeRecord{
		ID: "t1", UserID: "u1", Pair: "GBPUSD", Direction: domain.DirectionShort,
		Pips: &pips, CreatedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}))

	rec, body := env.do(t, http.MethodPost, "/api/v1/users/u1/recompute", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res recomputeResponse
	require.NoError(t, json.Unmarshal(body.Data, &res))
	assert.Equal(t, []string{"first_trade", "first_win"}, res.Unlocked)
	assert.Equal(t, 110, res.TotalPoints)
	assert.True(t, res.LevelUp)

	rec, body = env.do(t, http.MethodGet, "/api/v1/users/u1/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var m domain.MetricsSnapshot
	require.NoError(t, json.Unmarshal(body.Data, &m))
	assert.Equal(t, 1, m.WinningTrades)

	rec, body = env.do(t, http.MethodGet, "/api/v1/users/u1/metrics/history?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var history []domain.MetricsHistoryRecord
	require.NoError(t, json.Unmarshal(body.Data, &history))
	require.Len(t, history, 1)
	assert.Equal(t, domain.TriggerRecompute, history[0].Trigger)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/users/u1/metrics/history?limit=x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/users/nobody/metrics", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRevokeAchievement(t *testing.T) {
	env := newTestEnv(t)
	rec, _ := env.do(t, http.MethodPut, "/api/v1/users/u1/trades/t1", winningTrade)
	require.Equal(t, http.StatusOK, rec.Code)
	env.engine.Wait()

	rec, body := env.do(t, http.MethodDelete, "/api/v1/users/u1/achievements/first_win", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var state domain.UserAchievements
	require.NoError(t, json.Unmarshal(body.Data, &state))
	assert.Equal(t, 10, state.TotalPoints)
	assert.Equal(t, 1, state.Level)

	rec, _ = env.do(t, http.MethodDelete, "/api/v1/users/u1/achievements/first_win", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = env.do(t, http.MethodDelete, "/api/v1/users/u1/achievements/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotifications_CurrentAndDismiss(t *testing.T) {
	env := newTestEnv(t)
	rec, _ := env.do(t, http.MethodPut, "/api/v1/users/u1/trades/t1", winningTrade)
	require.Equal(t, http.StatusOK, rec.Code)
	env.engine.Wait()

	rec, body := env.do(t, http.MethodGet, "/api/v1/users/u1/notifications/current", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cur currentResponse
	require.NoError(t, json.Unmarshal(body.Data, &cur))
	require.NotNil(t, cur.Slot)
	assert.Equal(t, "first_trade", cur.Slot.Event.Achievement.ID)
	require.NotNil(t, cur.Slot.LevelUp)
	assert.Equal(t, 2, cur.Slot.LevelUp.NewLevel)
	assert.Equal(t, 1, cur.Pending)

	// A stale seq is ignored.
	rec, body = env.do(t, http.MethodPost, "/api/v1/users/u1/notifications/dismiss", `{"seq": 999}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(body.Data), `"dismissed":false`)

	rec, body = env.do(t, http.MethodPost, "/api/v1/users/u1/notifications/dismiss", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(body.Data), `"dismissed":true`)

	s, ok := env.hub.Queue("u1").Current()
	require.True(t, ok)
	assert.Equal(t, "first_win", s.Event.Achievement.ID)
}

func TestNotifications_ReadsDoNotCreateQueues(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/api/v1/users/ghost/notifications/current", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cur currentResponse
	require.NoError(t, json.Unmarshal(body.Data, &cur))
	assert.Nil(t, cur.Slot)
	assert.Zero(t, cur.Pending)

	rec, body = env.do(t, http.MethodPost, "/api/v1/users/ghost/notifications/dismiss", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(body.Data), `"dismissed":false`)

	assert.Equal(t, 0, env.hub.Users())
}

func TestNotifications_WebSocket(t *testing.T) {
	env := newTestEnv(t)
	server := httptest.NewServer(env.router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/users/u1/notifications/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	env.hub.Queue("u1").Enqueue(
		domain.AchievementUnlocked("n1", "u1", domain.AchievementDefinition{ID: "first_trade"}, time.Now()),
		domain.AchievementUnlocked("n2", "u1", domain.AchievementDefinition{ID: "first_win"}, time.Now()),
	)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var first notification.Slot
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "first_trade", first.Event.Achievement.ID)

	require.NoError(t, conn.WriteJSON(clientMessage{Type: "dismiss", Seq: first.Seq}))

	var second notification.Slot
	require.NoError(t, conn.ReadJSON(&second))
	assert.Equal(t, "first_win", second.Event.Achievement.ID)
	assert.Greater(t, second.Seq, first.Seq)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(achievement.ErrUnknownAchievement))
	assert.Equal(t, http.StatusConflict, statusFor(achievement.ErrNotCompleted))
	assert.Equal(t, http.StatusGatewayTimeout, statusFor(context.DeadlineExceeded))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}
