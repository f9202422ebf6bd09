// Package notification holds the per-user queue of unlock and level-up
// events shown to the UI one at a time.
package notification

import (
	"sync"

	"trade-journal/internal/domain"
)

// Slot is what the consumer currently shows.
type Slot struct {
	// Seq increases every time a new slot becomes current.
	Seq uint64 `json:"seq"`

	// Event is the achievement unlock, or a level-up when it arrived with
	// nothing showing.
	Event domain.NotificationEvent `json:"event"`

	// LevelUp decorates Event with a level reached while it was showing.
	LevelUp *domain.NotificationEvent `json:"levelUp,omitempty"`
}

// Queue is a FIFO with exactly one current slot.
//
//	Empty   --enqueue-->  Showing
//	Showing --enqueue-->  Showing (event appended to backlog)
//	Showing --dismiss-->  Showing(next) | Empty
//
// A level-up does not take a place in the FIFO; it is attached to the
// current slot and cleared with it. Safe for concurrent use.
type Queue struct {
	mu      sync.Mutex
	seq     uint64
	current *Slot
	backlog []domain.NotificationEvent
	changed chan struct{}
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{changed: make(chan struct{})}
}

// Enqueue adds events in order.
func (q *Queue) Enqueue(events ...domain.NotificationEvent) {
	if len(events) == 0 {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	for _, ev := range events {
		q.enqueueLocked(ev)
	}
	q.notifyLocked()
}

func (q *Queue) enqueueLocked(ev domain.NotificationEvent) {
	if ev.Kind == domain.NotificationLevelUp {
		if q.current == nil {
			q.showLocked(ev)
			return
		}
		// Keep the highest level if several arrive while one slot shows.
		if q.current.LevelUp == nil || ev.NewLevel >= q.current.LevelUp.NewLevel {
			lu := ev
			q.current.LevelUp = &lu
		}
		return
	}

	if q.current == nil {
		q.showLocked(ev)
		return
	}
	q.backlog = append(q.backlog, ev)
}

func (q *Queue) showLocked(ev domain.NotificationEvent) {
	q.seq++
	q.current = &Slot{Seq: q.seq, Event: ev}
}

// DismissCurrent clears the current slot and promotes the next backlog
// event. Returns false when nothing was showing.
func (q *Queue) DismissCurrent() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.current == nil {
		return false
	}
	q.dismissLocked()
	return true
}

// DismissSeq dismisses the current slot only if its Seq is seq.
// A stale dismiss from a client that has not seen the latest slot is a no-op.
func (q *Queue) DismissSeq(seq uint64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.current == nil || q.current.Seq != seq {
		return false
	}
	q.dismissLocked()
	return true
}

func (q *Queue) dismissLocked() {
	q.current = nil
	if len(q.backlog) > 0 {
		next := q.backlog[0]
		q.backlog[0] = domain.NotificationEvent{}
		q.backlog = q.backlog[1:]
		q.showLocked(next)
	}
	q.notifyLocked()
}

// Current returns a copy of the current slot.
func (q *Queue) Current() (Slot, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.current == nil {
		return Slot{}, false
	}
	s := *q.current
	if s.LevelUp != nil {
		lu := *s.LevelUp
		s.LevelUp = &lu
	}
	return s, true
}

// Len returns the number of events waiting behind the current slot.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.backlog)
}

// Changes returns a channel closed at the next state change.
// Call again after it fires to wait for the following one.
func (q *Queue) Changes() <-chan struct{} {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.changed
}

func (q *Queue) notifyLocked() {
	close(q.changed)
	q.changed = make(chan struct{})
}
