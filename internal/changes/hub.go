// Package changes fans out row-change events from the store to observers.
package changes

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"medistore/internal/domain"
	"medistore/internal/logging"
)

// Filter selects events. Empty fields match anything.
type Filter struct {
	Collection string
	Event      string
	UserID     string
}

func (f Filter) Match(e domain.ChangeEvent) bool {
	if f.Collection != "" && f.Collection != e.Collection {
		return false
	}
	if f.Event != "" && f.Event != e.Event {
		return false
	}
	if f.UserID != "" && f.UserID != e.UserID {
		return false
	}
	return true
}

type subscriber struct {
	filter Filter
	ch     chan domain.ChangeEvent
}

// Hub delivers published events to every matching observer. Delivery never
// blocks the publisher: an observer whose buffer is full misses the event.
type Hub struct {
	buffer int
	logger *zap.Logger

	mu      sync.RWMutex
	subs    map[uint64]*subscriber
	nextID  uint64
	dropped atomic.Int64
}

// NewHub returns a Hub giving each observer a buffer of the given size
// (16 when not positive).
func NewHub(buffer int, logger *zap.Logger) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{buffer: buffer, logger: logging.OrNop(logger), subs: make(map[uint64]*subscriber)}
}

// Observe streams events matching f until ctx is done, then closes the
// channel.
func (h *Hub) Observe(ctx context.Context, f Filter) <-chan domain.ChangeEvent {
	sub := &subscriber{filter: f, ch: make(chan domain.ChangeEvent, h.buffer)}

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = sub
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
		close(sub.ch)
	}()
	return sub.ch
}

// Publish delivers e to matching observers.
func (h *Hub) Publish(e domain.ChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		if !sub.filter.Match(e) {
			continue
		}
		select {
		case sub.ch <- e:
		default:
			n := h.dropped.Add(1)
			h.logger.Warn("changes: observer too slow, event dropped",
				zap.String("collection", e.Collection), zap.String("row_id", e.RowID), zap.Int64("dropped_total", n))
		}
	}
}

// Dropped is the number of events lost to slow observers.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Observers is the number of active observers.
func (h *Hub) Observers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
