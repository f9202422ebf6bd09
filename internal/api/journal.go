package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"trade-journal/internal/domain"
	"trade-journal/internal/orchestrator"
	"trade-journal/internal/storage"
)

// JournalHandler exposes trade and profile writes plus the achievement
// read model. Every write schedules a background pass.
type JournalHandler struct {
	Engine   *orchestrator.Orchestrator
	Trades   storage.TradeStore
	Profiles storage.ProfileStore
	Metrics  storage.MetricsStore
	History  storage.MetricsHistoryStore // nil disables the history route
	Logger   *zap.Logger
}

func (h *JournalHandler) Register(r *gin.Engine) {
	g := r.Group("/api/v1/users/:userID")
	g.GET("/trades", h.listTrades)
	g.PUT("/trades/:tradeID", h.putTrade)
	g.DELETE("/trades/:tradeID", h.deleteTrade)
	g.PUT("/profile", h.putProfile)
	g.POST("/recompute", h.recompute)
	g.GET("/metrics", h.getMetrics)
	g.GET("/metrics/history", h.listHistory)
	g.GET("/achievements", h.getAchievements)
	g.DELETE("/achievements/:achievementID", h.revoke)
}

func (h *JournalHandler) listTrades(c *gin.Context) {
	trades, err := h.Trades.ListByUser(c.Request.Context(), c.Param("userID"))
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, trades, map[string]any{"total": len(trades)})
}

func (h *JournalHandler) putTrade(c *gin.Context) {
	ctx := c.Request.Context()
	userID, tradeID := c.Param("userID"), c.Param("tradeID")

	var t domain.TradeRecord
	if err := c.ShouldBindJSON(&t); err != nil {
		Error(c, http.StatusBadRequest, "invalid trade body: "+err.Error(), nil)
		return
	}
	t.UserID, t.ID = userID, tradeID
	if err := validateTrade(&t); err != nil {
		fail(c, err)
		return
	}

	existing, err := h.Trades.GetByID(ctx, userID, tradeID)
	created := errors.Is(err, storage.ErrNotFound)
	if err != nil && !created {
		fail(c, err)
		return
	}
	// An edit keeps the trade's place in history unless the body moves it.
	if t.CreatedAt.IsZero() {
		if created {
			t.CreatedAt = time.Now().UTC()
		} else {
			t.CreatedAt = existing.CreatedAt
		}
	}

	if err := h.Trades.Upsert(ctx, &t); err != nil {
		fail(c, err)
		return
	}

	if created {
		h.Engine.OnTradeCreated(userID)
	} else {
		h.Engine.OnTradeUpdated(userID)
	}
	Ok(c, &t, map[string]any{"created": created})
}

func validateTrade(t *domain.TradeRecord) error {
	if t.Direction != domain.DirectionLong && t.Direction != domain.DirectionShort {
		return fmt.Errorf("%w: direction must be long or short", storage.ErrInvalidInput)
	}
	if t.MarketCondition != "" && !t.MarketCondition.Valid() {
		return fmt.Errorf("%w: unknown market condition %q", storage.ErrInvalidInput, t.MarketCondition)
	}
	if t.EntryPrice < 0 || t.LotSize < 0 {
		return fmt.Errorf("%w: prices and lot size must not be negative", storage.ErrInvalidInput)
	}
	if !t.IsOpen && t.CloseDate == nil && t.ExitPrice != nil {
		now := time.Now().UTC()
		t.CloseDate = &now
	}
	return nil
}

func (h *JournalHandler) deleteTrade(c *gin.Context) {
	userID := c.Param("userID")
	if err := h.Trades.Delete(c.Request.Context(), userID, c.Param("tradeID")); err != nil {
		fail(c, err)
		return
	}
	h.Engine.OnTradeDeleted(userID)
	Ok(c, nil, nil)
}

type putProfileRequest struct {
	InitialBalance decimal.Decimal `json:"initialBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
}

func (h *JournalHandler) putProfile(c *gin.Context) {
	userID := c.Param("userID")

	var req putProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid profile body: "+err.Error(), nil)
		return
	}
	if req.InitialBalance.IsNegative() {
		Error(c, http.StatusBadRequest, "initialBalance must not be negative", nil)
		return
	}

	p := &domain.UserProfile{
		UserID:         userID,
		InitialBalance: req.InitialBalance,
		CurrentBalance: req.CurrentBalance,
	}
	if err := h.Profiles.Upsert(c.Request.Context(), p); err != nil {
		fail(c, err)
		return
	}
	h.Engine.OnProfileUpdated(userID)
	Ok(c, p, nil)
}

type recomputeResponse struct {
	TotalPoints int      `json:"totalPoints"`
	Level       int      `json:"level"`
	LevelUp     bool     `json:"levelUp"`
	Unlocked    []string `json:"unlocked"`
}

func (h *JournalHandler) recompute(c *gin.Context) {
	res, err := h.Engine.Process(c.Request.Context(), c.Param("userID"), domain.TriggerRecompute)
	if err != nil {
		fail(c, err)
		return
	}

	unlocked := make([]string, 0, len(res.Unlocked))
	for _, def := range res.Unlocked {
		unlocked = append(unlocked, def.ID)
	}
	Ok(c, recomputeResponse{
		TotalPoints: res.State.TotalPoints,
		Level:       res.Level,
		LevelUp:     res.LevelUp,
		Unlocked:    unlocked,
	}, nil)
}

func (h *JournalHandler) getMetrics(c *gin.Context) {
	m, err := h.Metrics.Get(c.Request.Context(), c.Param("userID"))
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, m, nil)
}

func (h *JournalHandler) listHistory(c *gin.Context) {
	if h.History == nil {
		Error(c, http.StatusNotImplemented, "metrics history is disabled", nil)
		return
	}
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			Error(c, http.StatusBadRequest, "invalid limit", nil)
			return
		}
		limit = n
	}

	records, err := h.History.ListByUser(c.Request.Context(), c.Param("userID"), limit)
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, records, map[string]any{"limit": limit})
}

func (h *JournalHandler) getAchievements(c *gin.Context) {
	p, err := h.Engine.GetEnhancedAchievements(c.Request.Context(), c.Param("userID"))
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, p, nil)
}

func (h *JournalHandler) revoke(c *gin.Context) {
	state, err := h.Engine.Revoke(c.Request.Context(), c.Param("userID"), c.Param("achievementID"))
	if err != nil {
		fail(c, err)
		return
	}
	h.Logger.Info("achievement revoked via api",
		zap.String("user_id", state.UserID),
		zap.String("achievement_id", c.Param("achievementID")),
		zap.String("request_id", c.GetString(requestIDKey)))
	Ok(c, state, nil)
}
