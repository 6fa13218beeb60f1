package signal

import (
	"sync"
	"time"

	"github.com/openjamlab/bandroom/internal/domain"
)

// EventRateLimiter bounds how many performance events one connection may
// push per window. Over-limit events are dropped silently; a jam session
// flooding the fan-out hurts everyone else in the room.
type EventRateLimiter struct {
	mu      sync.Mutex
	history map[domain.ClientID][]time.Time
	limit   int
	window  time.Duration
}

// NewEventRateLimiter returns nil when limit <= 0, which disables
// limiting entirely.
func NewEventRateLimiter(limit int, window time.Duration) *EventRateLimiter {
	if limit <= 0 {
		return nil
	}
	return &EventRateLimiter{
		history: make(map[domain.ClientID][]time.Time),
		limit:   limit,
		window:  window,
	}
}

func (rl *EventRateLimiter) Allow(id domain.ClientID) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.window)

	attempts := rl.history[id]
	fresh := make([]time.Time, 0, len(attempts))
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= rl.limit {
		rl.history[id] = fresh
		return false
	}

	fresh = append(fresh, now)
	rl.history[id] = fresh
	return true
}

// Forget drops a connection's history once it is gone.
func (rl *EventRateLimiter) Forget(id domain.ClientID) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.history, id)
}
