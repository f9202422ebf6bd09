package notification

import (
	"context"
	"sync"

	"trade-journal/internal/domain"
)

// Hub owns one queue per user.
type Hub struct {
	mu     sync.Mutex
	queues map[string]*Queue
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{queues: make(map[string]*Queue)}
}

// Queue returns the user's queue, creating it on first use.
func (h *Hub) Queue(userID string) *Queue {
	h.mu.Lock()
	defer h.mu.Unlock()

	q, ok := h.queues[userID]
	if !ok {
		q = NewQueue()
		h.queues[userID] = q
	}
	return q
}

// Lookup returns the user's queue without creating one. Reads use it so
// that asking about a user leaves the hub unchanged.
func (h *Hub) Lookup(userID string) (*Queue, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	q, ok := h.queues[userID]
	return q, ok
}

// Notify enqueues events on the user's queue in order.
func (h *Hub) Notify(_ context.Context, userID string, events []domain.NotificationEvent) error {
	h.Queue(userID).Enqueue(events...)
	return nil
}

// Users returns the number of users with a queue.
func (h *Hub) Users() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.queues)
}
