// server/ratelimit.go
package server

import (
	"sync"
	"time"
)

const (
	maxActionsPerWindow = 20
	rateWindow          = time.Second
	minActionGap        = 30 * time.Millisecond
)

type rateEntry struct {
	windowStart time.Time
	count       int
	lastAction  time.Time
}

// actionLimiter throttles game actions per connection: at most 20 per
// rolling second with a 30ms minimum gap. Rejected actions never reach a
// room.
type actionLimiter struct {
	mu      sync.Mutex
	entries map[string]*rateEntry
}

func newActionLimiter() *actionLimiter {
	return &actionLimiter{
		entries: make(map[string]*rateEntry),
	}
}

func (l *actionLimiter) Allow(sessionID string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, exists := l.entries[sessionID]
	if !exists {
		e = &rateEntry{windowStart: now}
		l.entries[sessionID] = e
	}

	if now.Sub(e.windowStart) > rateWindow {
		e.count = 0
		e.windowStart = now
	}

	if e.count >= maxActionsPerWindow {
		return false
	}
	if !e.lastAction.IsZero() && now.Sub(e.lastAction) < minActionGap {
		return false
	}

	e.count++
	e.lastAction = now
	return true
}

func (l *actionLimiter) Forget(sessionID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, sessionID)
}
