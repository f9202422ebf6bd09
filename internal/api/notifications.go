package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"trade-journal/internal/notification"
	"trade-journal/internal/observability"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPongWait     = 60 * time.Second
	wsPingInterval = 30 * time.Second
)

// NotificationHandler serves the per-user notification queue.
type NotificationHandler struct {
	Hub      *notification.Hub
	Logger   *zap.Logger
	Upgrader websocket.Upgrader
}

func (h *NotificationHandler) Register(r *gin.Engine) {
	g := r.Group("/api/v1/users/:userID/notifications")
	g.GET("/current", h.current)
	g.POST("/dismiss", h.dismiss)
	g.GET("/ws", h.stream)
}

type currentResponse struct {
	Slot    *notification.Slot `json:"slot"`
	Pending int                `json:"pending"`
}

func (h *NotificationHandler) current(c *gin.Context) {
	var resp currentResponse
	if q, ok := h.Hub.Lookup(c.Param("userID")); ok {
		resp.Pending = q.Len()
		if s, ok := q.Current(); ok {
			resp.Slot = &s
		}
	}
	Ok(c, resp, nil)
}

type dismissRequest struct {
	Seq *uint64 `json:"seq"`
}

// dismiss clears the current slot. With a seq in the body only that slot
// is dismissed.
func (h *NotificationHandler) dismiss(c *gin.Context) {
	var req dismissRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			Error(c, http.StatusBadRequest, "invalid dismiss body: "+err.Error(), nil)
			return
		}
	}

	q, ok := h.Hub.Lookup(c.Param("userID"))
	if !ok {
		Ok(c, gin.H{"dismissed": false, "pending": 0}, nil)
		return
	}
	var dismissed bool
	if req.Seq != nil {
		dismissed = q.DismissSeq(*req.Seq)
	} else {
		dismissed = q.DismissCurrent()
	}
	if dismissed {
		observability.RecordNotificationDismissed()
	}
	Ok(c, gin.H{"dismissed": dismissed, "pending": q.Len()}, nil)
}

// clientMessage is what a websocket client sends.
type clientMessage struct {
	Type string `json:"type"` // "dismiss"
	Seq  uint64 `json:"seq"`
}

// stream pushes every new current slot over a websocket and accepts
// dismiss messages. Closing the socket leaves the queue untouched.
func (h *NotificationHandler) stream(c *gin.Context) {
	userID := c.Param("userID")
	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Warn("websocket upgrade failed", zap.String("user_id", userID), zap.Error(err))
		return
	}
	defer conn.Close()

	observability.DefaultMetrics.ConsumersConnected.Inc()
	defer observability.DefaultMetrics.ConsumersConnected.Dec()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	queue := h.Hub.Queue(userID)
	go h.readLoop(conn, queue, cancel)
	go pingLoop(ctx, conn)

	err = notification.NewConsumer(queue).Run(ctx, func(_ context.Context, s notification.Slot) error {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		return conn.WriteJSON(s)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		h.Logger.Debug("notification stream closed", zap.String("user_id", userID), zap.Error(err))
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(wsWriteTimeout))
}

// readLoop is the connection's only reader. It cancels the stream when the
// client goes away.
func (h *NotificationHandler) readLoop(conn *websocket.Conn, queue *notification.Queue, cancel context.CancelFunc) {
	defer cancel()

	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		if msg.Type == "dismiss" && queue.DismissSeq(msg.Seq) {
			observability.RecordNotificationDismissed()
		}
	}
}

// pingLoop keeps idle connections alive. WriteControl is safe to call
// alongside the consumer's writes.
func pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
		}
	}
}
