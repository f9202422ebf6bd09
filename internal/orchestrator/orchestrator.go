// Package orchestrator runs the metrics and achievement pass for a user.
// It coordinates: trades + profile → metrics → evaluation → level →
// persistence → notifications
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"trade-journal/internal/achievement"
	"trade-journal/internal/catalog"
	"trade-journal/internal/domain"
	"trade-journal/internal/idhash"
	"trade-journal/internal/level"
	"trade-journal/internal/metrics"
	"trade-journal/internal/observability"
	"trade-journal/internal/storage"
)

const (
	// DefaultPassTimeout bounds an asynchronous pass once it holds the
	// user's lock.
	DefaultPassTimeout = 30 * time.Second

	// DefaultLockTimeout bounds how long an asynchronous pass waits for
	// the user's lock.
	DefaultLockTimeout = 5 * time.Minute
)

// Notifier receives the events produced by a pass.
type Notifier interface {
	Notify(ctx context.Context, userID string, events []domain.NotificationEvent) error
}

// ProjectionCache stores read models between passes.
type ProjectionCache interface {
	Get(ctx context.Context, userID string) (*achievement.Projection, bool, error)
	Put(ctx context.Context, p *achievement.Projection) error
	Invalidate(ctx context.Context, userID string) error
}

// Orchestrator serializes passes per user and runs different users in parallel.
type Orchestrator struct {
	// Stores
	tradeStore       storage.TradeStore
	profileStore     storage.ProfileStore
	metricsStore     storage.MetricsStore
	achievementStore storage.AchievementStore
	historyStore     storage.MetricsHistoryStore

	evaluator *achievement.Evaluator
	notifier  Notifier
	cache     ProjectionCache
	logger    *zap.Logger

	// Options
	streakWindow int
	passTimeout  time.Duration
	lockTimeout  time.Duration
	clock        func() time.Time

	locks *keyedMutex
	wg    sync.WaitGroup
}

// Options for creating Orchestrator.
type Options struct {
	// Required stores
	TradeStore       storage.TradeStore
	ProfileStore     storage.ProfileStore
	MetricsStore     storage.MetricsStore
	AchievementStore storage.AchievementStore

	// Optional analytics log; nil disables history.
	HistoryStore storage.MetricsHistoryStore

	Catalog  *catalog.Catalog // nil uses catalog.Default()
	Notifier Notifier         // nil drops events
	Cache    ProjectionCache  // nil disables projection caching
	Logger   *zap.Logger

	StreakWindow int           // <= 0 uses metrics.DefaultStreakWindow
	PassTimeout  time.Duration // <= 0 uses DefaultPassTimeout
	LockTimeout  time.Duration // <= 0 uses DefaultLockTimeout
	Clock        func() time.Time
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := opts.PassTimeout
	if timeout <= 0 {
		timeout = DefaultPassTimeout
	}
	lockTimeout := opts.LockTimeout
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	window := opts.StreakWindow
	if window <= 0 {
		window = metrics.DefaultStreakWindow
	}
	// A window shorter than a streak threshold would make that entry unreachable.
	if threshold := cat.MaxStreakThreshold(); window < threshold {
		logger.Warn("streak window below catalog streak threshold; raising it",
			zap.Int("configured", window),
			zap.Int("threshold", threshold))
		window = threshold
	}

	return &Orchestrator{
		tradeStore:       opts.TradeStore,
		profileStore:     opts.ProfileStore,
		metricsStore:     opts.MetricsStore,
		achievementStore: opts.AchievementStore,
		historyStore:     opts.HistoryStore,
		evaluator:        achievement.NewEvaluator(cat),
		notifier:         opts.Notifier,
		cache:            opts.Cache,
		logger:           logger.Named("orchestrator"),
		streakWindow:     window,
		passTimeout:      timeout,
		lockTimeout:      lockTimeout,
		clock:            clock,
		locks:            newKeyedMutex(),
	}
}

// Catalog returns the catalog passes are evaluated against.
func (o *Orchestrator) Catalog() *catalog.Catalog {
	return o.evaluator.Catalog()
}

// PassResult contains the outcome of one pass.
type PassResult struct {
	UserID   string
	Trigger  domain.Trigger
	Metrics  *domain.MetricsSnapshot
	State    *domain.UserAchievements
	Unlocked []domain.AchievementDefinition

	PreviousLevel int
	Level         int
	LevelUp       bool

	// Events are the notifications handed to the notifier, in order.
	Events []domain.NotificationEvent
}

// OnTradeCreated schedules a pass after a trade was added.
func (o *Orchestrator) OnTradeCreated(userID string) {
	o.Trigger(userID, domain.TriggerTradeCreated)
}

// OnTradeUpdated schedules a pass after a trade was edited.
func (o *Orchestrator) OnTradeUpdated(userID string) {
	o.Trigger(userID, domain.TriggerTradeUpdated)
}

// OnTradeDeleted schedules a pass after a trade was removed.
func (o *Orchestrator) OnTradeDeleted(userID string) {
	o.Trigger(userID, domain.TriggerTradeDeleted)
}

// OnProfileUpdated schedules a pass after the balance figures changed.
func (o *Orchestrator) OnProfileUpdated(userID string) {
	o.Trigger(userID, domain.TriggerProfileUpdated)
}

// Trigger runs a pass in the background. Waiting for the user's lock is
// bounded by the lock timeout; the pass timeout starts once the lock is
// held. Errors are logged and never reach the caller.
func (o *Orchestrator) Trigger(userID string, trigger domain.Trigger) {
	o.wg.Add(1)
	observability.DefaultMetrics.PassesInFlight.Inc()

	go func() {
		defer o.wg.Done()
		defer observability.DefaultMetrics.PassesInFlight.Dec()

		ctx, cancel := context.WithTimeout(context.Background(), o.lockTimeout)
		defer cancel()

		_, _ = o.process(ctx, userID, trigger, o.passTimeout)
	}()
}

// Wait blocks until every background pass has finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Process runs one pass for userID under the user's lock. ctx bounds both
// the lock wait and the pass.
func (o *Orchestrator) Process(ctx context.Context, userID string, trigger domain.Trigger) (*PassResult, error) {
	return o.process(ctx, userID, trigger, 0)
}

// process waits for the user's lock under ctx. A positive passTimeout
// gives the pass its own deadline, counted from lock acquisition and
// detached from ctx's deadline.
func (o *Orchestrator) process(ctx context.Context, userID string, trigger domain.Trigger, passTimeout time.Duration) (*PassResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", storage.ErrInvalidInput)
	}

	start := time.Now()
	unlock, err := o.locks.Lock(ctx, userID)
	if err != nil {
		observability.RecordPassError("lock")
		observability.RecordPass(string(trigger), err, time.Since(start))
		o.logger.Warn("pass abandoned waiting for user lock",
			zap.String("user_id", userID),
			zap.String("trigger", string(trigger)),
			zap.Error(err))
		return nil, fmt.Errorf("acquire lock for %s: %w", userID, err)
	}
	defer unlock()
	observability.RecordLockWait(time.Since(start))

	if passTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.WithoutCancel(ctx), passTimeout)
		defer cancel()
	}

	res, err := o.pass(ctx, userID, trigger)
	observability.RecordPass(string(trigger), err, time.Since(start))
	if err != nil {
		o.logger.Error("pass failed",
			zap.String("user_id", userID),
			zap.String("trigger", string(trigger)),
			zap.Error(err))
		return nil, err
	}

	o.logger.Debug("pass completed",
		zap.String("user_id", userID),
		zap.String("trigger", string(trigger)),
		zap.Int("unlocked", len(res.Unlocked)),
		zap.Int("total_points", res.State.TotalPoints),
		zap.Int("level", res.Level),
		zap.Duration("took", time.Since(start)))
	return res, nil
}

// pass must be called with the user's lock held.
// Phases:
//  1. Load trades, profile and current state
//  2. Compute and save the metrics snapshot
//  3. Evaluate, derive the level and save the state
//  4. Append history, invalidate the projection
//  5. Notify
func (o *Orchestrator) pass(ctx context.Context, userID string, trigger domain.Trigger) (*PassResult, error) {
	// Phase 1: Load inputs
	var (
		trades  []*domain.TradeRecord
		profile *domain.UserProfile
		state   *domain.UserAchievements
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		trades, err = timed("trades", "list_by_user", func() ([]*domain.TradeRecord, error) {
			return o.tradeStore.ListByUser(gctx, userID)
		})
		if err != nil {
			return fmt.Errorf("load trades: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		profile, err = timed("profiles", "get", func() (*domain.UserProfile, error) {
			return o.profileStore.Get(gctx, userID)
		})
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("load profile: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		state, err = o.loadState(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		observability.RecordPassError("load")
		return nil, err
	}

	// Phase 2: Metrics
	now := o.clock().UTC()
	snapshot := metrics.Compute(userID, trades, profile, metrics.Options{
		StreakWindow: o.streakWindow,
		Now:          now,
	})
	if _, err := timed("metrics", "save", func() (struct{}, error) {
		return struct{}{}, o.metricsStore.Save(ctx, snapshot)
	}); err != nil {
		observability.RecordPassError("save_metrics")
		return nil, fmt.Errorf("save metrics: %w", err)
	}

	// Phase 3: Evaluation
	eval := o.evaluator.Evaluate(snapshot, state, now)
	next := eval.State
	prevLevel := level.Level(eval.PreviousPoints)
	next.Level = level.Level(next.TotalPoints)
	newLevel, levelUp := level.Changed(eval.PreviousPoints, next.TotalPoints)

	if err := o.saveState(ctx, next); err != nil {
		observability.RecordPassError("save_achievements")
		return nil, err
	}

	res := &PassResult{
		UserID:        userID,
		Trigger:       trigger,
		Metrics:       snapshot,
		State:         next,
		Unlocked:      eval.Unlocked,
		PreviousLevel: prevLevel,
		Level:         newLevel,
		LevelUp:       levelUp,
	}

	// Phase 4: Side tables
	o.appendHistory(ctx, res, now)
	o.invalidate(ctx, userID)

	// Phase 5: Notifications, only after the state is durable
	res.Events = buildEvents(userID, eval.Unlocked, newLevel, levelUp, now)
	for _, def := range eval.Unlocked {
		observability.RecordUnlock(string(def.Category), def.Rank.String())
	}
	if levelUp {
		observability.RecordLevelUp(strconv.Itoa(newLevel))
	}
	o.notify(ctx, userID, res.Events)

	return res, nil
}

// buildEvents returns one unlock per definition in catalog order followed
// by the level-up, if any.
func buildEvents(userID string, unlocked []domain.AchievementDefinition, newLevel int, levelUp bool, now time.Time) []domain.NotificationEvent {
	if len(unlocked) == 0 && !levelUp {
		return nil
	}
	events := make([]domain.NotificationEvent, 0, len(unlocked)+1)
	for _, def := range unlocked {
		events = append(events, domain.AchievementUnlocked(idhash.UnlockID(userID, def.ID, now), userID, def, now))
	}
	if levelUp {
		events = append(events, domain.LevelUp(idhash.LevelUpID(userID, newLevel, now), userID, newLevel, now))
	}
	return events
}

func (o *Orchestrator) notify(ctx context.Context, userID string, events []domain.NotificationEvent) {
	if o.notifier == nil || len(events) == 0 {
		return
	}
	if err := o.notifier.Notify(ctx, userID, events); err != nil {
		observability.RecordPassError("notify")
		o.logger.Warn("notify failed",
			zap.String("user_id", userID),
			zap.Int("events", len(events)),
			zap.Error(err))
		return
	}
	for _, ev := range events {
		observability.RecordNotificationQueued(string(ev.Kind))
	}
}

func (o *Orchestrator) appendHistory(ctx context.Context, res *PassResult, now time.Time) {
	if o.historyStore == nil {
		return
	}
	rec := &domain.MetricsHistoryRecord{
		ID:             idhash.ComputeSnapshotID(res.UserID, string(res.Trigger), now.UnixNano()),
		UserID:         res.UserID,
		Trigger:        res.Trigger,
		CatalogVersion: o.Catalog().Version(),
		Metrics:        *res.Metrics,
		TotalPoints:    res.State.TotalPoints,
		Level:          res.State.Level,
		Unlocked:       len(res.Unlocked),
		RecordedAt:     now,
	}
	_, err := timed("metrics_history", "append", func() (struct{}, error) {
		return struct{}{}, o.historyStore.Append(ctx, rec)
	})
	if err != nil {
		// History is analytics only; the pass stands.
		observability.RecordPassError("history")
		o.logger.Warn("append metrics history failed",
			zap.String("user_id", res.UserID),
			zap.String("record_id", rec.ID),
			zap.Error(err))
	}
}

func (o *Orchestrator) invalidate(ctx context.Context, userID string) {
	if o.cache == nil {
		return
	}
	if err := o.cache.Invalidate(ctx, userID); err != nil {
		o.logger.Warn("invalidate projection failed", zap.String("user_id", userID), zap.Error(err))
	}
}

// loadState returns nil for a user without saved state.
func (o *Orchestrator) loadState(ctx context.Context, userID string) (*domain.UserAchievements, error) {
	state, err := timed("achievements", "get", func() (*domain.UserAchievements, error) {
		return o.achievementStore.Get(ctx, userID)
	})
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load achievements: %w", err)
	}
	return state, nil
}

func (o *Orchestrator) saveState(ctx context.Context, state *domain.UserAchievements) error {
	_, err := timed("achievements", "save", func() (struct{}, error) {
		return struct{}{}, o.achievementStore.Save(ctx, state)
	})
	if err != nil {
		return fmt.Errorf("save achievements: %w", err)
	}
	return nil
}

// GetEnhancedAchievements returns the user's read model, served from the
// projection cache when possible.
func (o *Orchestrator) GetEnhancedAchievements(ctx context.Context, userID string) (*achievement.Projection, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", storage.ErrInvalidInput)
	}

	if o.cache != nil {
		p, ok, err := o.cache.Get(ctx, userID)
		switch {
		case err != nil:
			observability.RecordCacheLookup("error")
			o.logger.Warn("projection cache read failed", zap.String("user_id", userID), zap.Error(err))
		case ok && p.CatalogVersion == o.Catalog().Version():
			observability.RecordCacheLookup("hit")
			return p, nil
		default:
			observability.RecordCacheLookup("miss")
		}
	}

	state, err := o.loadState(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := achievement.Project(o.Catalog(), userID, state)

	if o.cache != nil {
		if err := o.cache.Put(ctx, p); err != nil {
			o.logger.Warn("projection cache write failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return p, nil
}

// Revoke clears a completed achievement and recomputes points and level.
// A later pass unlocks it again if its criteria still hold.
func (o *Orchestrator) Revoke(ctx context.Context, userID, achievementID string) (*domain.UserAchievements, error) {
	if userID == "" || achievementID == "" {
		return nil, fmt.Errorf("%w: empty user or achievement id", storage.ErrInvalidInput)
	}

	unlock, err := o.locks.Lock(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("acquire lock for %s: %w", userID, err)
	}
	defer unlock()

	state, err := o.loadState(ctx, userID)
	if err != nil {
		return nil, err
	}
	next, err := o.evaluator.Revoke(state, achievementID, o.clock())
	if err != nil {
		return nil, err
	}
	next.Level = level.Level(next.TotalPoints)

	if err := o.saveState(ctx, next); err != nil {
		observability.RecordPassError("revoke")
		return nil, err
	}
	o.invalidate(ctx, userID)
	observability.RecordRevoke()

	o.logger.Info("achievement revoked",
		zap.String("user_id", userID),
		zap.String("achievement_id", achievementID),
		zap.Int("total_points", next.TotalPoints),
		zap.Int("level", next.Level))
	return next, nil
}

// RecomputeResult summarizes a RecomputeAll run.
type RecomputeResult struct {
	Users    int
	Unlocked int
	LevelUps int
	Errors   []string
}

// RecomputeAll runs a recompute pass for every user with trades, at most
// concurrency at a time. Per-user failures are collected, not fatal.
func (o *Orchestrator) RecomputeAll(ctx context.Context, concurrency int) (*RecomputeResult, error) {
	users, err := o.tradeStore.ListUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	var (
		mu     sync.Mutex
		result = &RecomputeResult{Users: len(users)}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, userID := range users {
		g.Go(func() error {
			res, err := o.Process(gctx, userID, domain.TriggerRecompute)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("recompute %s: %v", userID, err))
				return nil
			}
			result.Unlocked += len(res.Unlocked)
			if res.LevelUp {
				result.LevelUps++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// timed runs fn and records its duration and outcome per store operation.
// ErrNotFound is an expected outcome and not counted as a failure.
func timed[T any](store, operation string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	recorded := err
	if errors.Is(err, storage.ErrNotFound) {
		recorded = nil
	}
	observability.RecordDBQuery(store, operation, time.Since(start), recorded)
	return v, err
}
