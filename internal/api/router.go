package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"trade-journal/internal/notification"
	"trade-journal/internal/observability"
	"trade-journal/internal/orchestrator"
	"trade-journal/internal/storage"
)

// Options for creating the router.
type Options struct {
	Engine   *orchestrator.Orchestrator
	Trades   storage.TradeStore
	Profiles storage.ProfileStore
	Metrics  storage.MetricsStore
	History  storage.MetricsHistoryStore // optional
	Hub      *notification.Hub
	Logger   *zap.Logger
	Checks   map[string]Pinger

	// CheckOrigin overrides the websocket origin check; nil allows all.
	CheckOrigin func(r *http.Request) bool
}

// NewRouter builds the HTTP surface with every handler registered.
func NewRouter(opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("api")

	checkOrigin := opts.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestID())
	engine.Use(Metrics())
	engine.Use(AccessLog(logger))

	health := &HealthHandler{Checks: opts.Checks}
	health.Register(engine)
	engine.GET("/metrics", gin.WrapH(observability.Handler()))

	journal := &JournalHandler{
		Engine:   opts.Engine,
		Trades:   opts.Trades,
		Profiles: opts.Profiles,
		Metrics:  opts.Metrics,
		History:  opts.History,
		Logger:   logger,
	}
	journal.Register(engine)

	notifications := &NotificationHandler{
		Hub:      opts.Hub,
		Logger:   logger,
		Upgrader: websocket.Upgrader{CheckOrigin: checkOrigin},
	}
	notifications.Register(engine)

	return engine
}
