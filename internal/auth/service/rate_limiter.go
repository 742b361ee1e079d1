package service

import (
	"sync"
	"time"

	apperrors "github.com/allisson/authgate/internal/errors"
)

// RateLimitRule is an attempt budget within a fixed window.
type RateLimitRule struct {
	MaxAttempts int
	Window      time.Duration
}

// defaultRule applies to endpoints with no configured rule: one attempt per
// five minutes, the most restrictive sane budget.
var defaultRule = RateLimitRule{MaxAttempts: 1, Window: 5 * time.Minute}

// attemptWindow tracks attempts for one (endpoint, client identity) key.
type attemptWindow struct {
	count     int
	startedAt time.Time
	lastSeen  time.Time
}

// FixedWindowRateLimiter implements RateLimiter with a fixed window per
// (endpoint, client identity) key. The window resets when its duration has
// elapsed; an exhausted window rejects without counting further attempts.
// Bursts at window boundaries are an accepted tradeoff of the fixed-window
// approach.
//
// State is partitioned by key and guarded by a single mutex; a janitor
// goroutine evicts windows idle for over an hour so the key space cannot grow
// without bound. Call Stop to release the janitor.
type FixedWindowRateLimiter struct {
	rules map[string]RateLimitRule

	mu      sync.Mutex
	windows map[string]*attemptWindow

	now      func() time.Time
	done     chan struct{}
	stopOnce sync.Once
}

// NewFixedWindowRateLimiter creates a limiter with per-endpoint rules.
// Endpoints absent from the rules map get the restrictive default budget.
func NewFixedWindowRateLimiter(rules map[string]RateLimitRule) *FixedWindowRateLimiter {
	l := &FixedWindowRateLimiter{
		rules:   rules,
		windows: make(map[string]*attemptWindow),
		now:     time.Now,
		done:    make(chan struct{}),
	}

	// Evict stale windows every 5 minutes
	go l.janitor(5 * time.Minute)

	return l
}

// CheckAndRecord counts an attempt for the key and admits or rejects it.
func (l *FixedWindowRateLimiter) CheckAndRecord(endpointKey, clientIdentity string) error {
	rule, ok := l.rules[endpointKey]
	if !ok {
		rule = defaultRule
	}

	key := endpointKey + "\x00" + clientIdentity
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok {
		w = &attemptWindow{startedAt: now}
		l.windows[key] = w
	}

	// Expired window resets before the attempt is evaluated
	if now.Sub(w.startedAt) > rule.Window {
		w.count = 0
		w.startedAt = now
	}
	w.lastSeen = now

	if w.count >= rule.MaxAttempts {
		return apperrors.Wrapf(apperrors.ErrRateLimited, "endpoint %q", endpointKey)
	}

	w.count++
	return nil
}

// Stop terminates the janitor goroutine. Safe to call more than once.
func (l *FixedWindowRateLimiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})
}

// janitor removes windows that haven't been touched recently.
func (l *FixedWindowRateLimiter) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			threshold := l.now().Add(-1 * time.Hour)
			l.mu.Lock()
			for key, w := range l.windows {
				if w.lastSeen.Before(threshold) {
					delete(l.windows, key)
				}
			}
			l.mu.Unlock()
		}
	}
}
