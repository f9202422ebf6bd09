package notification

import (
	"context"
)

// DeliverFunc shows a slot to the user. Returning an error stops the
// consumer; the slot stays current.
type DeliverFunc func(ctx context.Context, slot Slot) error

// Consumer drains a queue by delivering each new current slot once.
// It never dismisses: the user does that through Queue.DismissCurrent,
// so stopping a consumer loses nothing.
type Consumer struct {
	queue   *Queue
	lastSeq uint64
	lastLvl int
}

// NewConsumer creates a consumer for q.
func NewConsumer(q *Queue) *Consumer {
	return &Consumer{queue: q}
}

// Run delivers the current slot whenever it changes, until ctx is done or
// deliver fails. A slot is redelivered if a level-up decoration is
// attached after it was first shown.
func (c *Consumer) Run(ctx context.Context, deliver DeliverFunc) error {
	for {
		// Take the change channel before reading state so no update
		// between the read and the wait is missed.
		changed := c.queue.Changes()

		if slot, ok := c.queue.Current(); ok && c.isNew(slot) {
			if err := deliver(ctx, slot); err != nil {
				return err
			}
			c.lastSeq = slot.Seq
			c.lastLvl = decorationLevel(slot)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		}
	}
}

func (c *Consumer) isNew(s Slot) bool {
	return s.Seq != c.lastSeq || decorationLevel(s) != c.lastLvl
}

func decorationLevel(s Slot) int {
	if s.LevelUp == nil {
		return 0
	}
	return s.LevelUp.NewLevel
}
