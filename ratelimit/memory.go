package ratelimit

import (
	"context"
	"sync"
	"time"
)

const maxMemoryKeys = 10000

// window is the log of accepted request times for one rule and key,
// oldest first.
type window struct {
	span time.Duration
	hits []time.Time
}

// prune drops hits that have left the window ending at now.
func (w *window) prune(now time.Time) {
	cutoff := now.Add(-w.span)
	i := 0
	for i < len(w.hits) && !w.hits[i].After(cutoff) {
		i++
	}
	if i > 0 {
		w.hits = append(w.hits[:0], w.hits[i:]...)
	}
}

// MemoryLimiter is the sliding-window limiter kept in process memory.
// Budgets are not shared between processes.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{windows: make(map[string]*window), now: time.Now}
}

func (l *MemoryLimiter) Allow(_ context.Context, rule Rule, key string) (Result, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	id := rule.Name + ":" + key
	w, ok := l.windows[id]
	if !ok {
		if len(l.windows) >= maxMemoryKeys {
			l.evictIdle(now)
		}
		w = &window{span: rule.Window}
		l.windows[id] = w
	}

	w.prune(now)
	if len(w.hits) >= rule.Limit {
		return Result{Limit: rule.Limit, RetryAfter: w.hits[0].Add(rule.Window).Sub(now)}, nil
	}
	w.hits = append(w.hits, now)
	return Result{Allowed: true, Limit: rule.Limit, Remaining: rule.Limit - len(w.hits)}, nil
}

// evictIdle drops keys with no hits left in their window.
func (l *MemoryLimiter) evictIdle(now time.Time) {
	for id, w := range l.windows {
		w.prune(now)
		if len(w.hits) == 0 {
			delete(l.windows, id)
		}
	}
}
