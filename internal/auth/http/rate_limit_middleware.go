package http

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "github.com/allisson/authgate/internal/errors"
	"github.com/allisson/authgate/internal/httputil"
)

// IPRateLimiter enforces per-IP rate limiting on public endpoints.
//
// This is a coarse transport-level throttle sitting in front of the per-client
// attempt budgets enforced inside the use cases, protecting the server from a
// single source flooding the unauthenticated endpoints. Uses a token bucket
// via golang.org/x/time/rate; each client IP gets an independent limiter.
//
// A janitor goroutine evicts limiters for IPs that have gone quiet so the
// key space cannot grow without bound. Call Stop to release the janitor.
type IPRateLimiter struct {
	limiters sync.Map // map[string]*ipLimiterEntry
	rps      float64
	burst    int
	logger   *slog.Logger

	done     chan struct{}
	stopOnce sync.Once
}

// ipLimiterEntry holds a rate limiter and last access time for cleanup.
type ipLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	mu         sync.Mutex
}

// NewIPRateLimiter creates a per-IP rate limiter and starts its cleanup
// janitor (runs every 5 minutes).
func NewIPRateLimiter(rps float64, burst int, logger *slog.Logger) *IPRateLimiter {
	l := &IPRateLimiter{
		rps:    rps,
		burst:  burst,
		logger: logger,
		done:   make(chan struct{}),
	}

	go l.cleanupStale(5 * time.Minute)

	return l
}

// Middleware returns the gin middleware enforcing the per-IP limit.
//
// Returns 429 Too Many Requests with a Retry-After header when the bucket is
// empty.
func (l *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := l.getLimiter(c.ClientIP())

		if !limiter.Allow() {
			reservation := limiter.Reserve()
			retryAfter := int(reservation.Delay().Seconds())
			reservation.Cancel()

			l.logger.Debug("ip rate limit exceeded",
				slog.String("client_ip", c.ClientIP()),
				slog.Int("retry_after", retryAfter))

			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			httputil.HandleErrorGin(c, apperrors.ErrRateLimited, l.logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

// Stop terminates the janitor goroutine. Safe to call more than once.
func (l *IPRateLimiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})
}

// getLimiter retrieves or creates a rate limiter for a client IP.
func (l *IPRateLimiter) getLimiter(clientIP string) *rate.Limiter {
	if val, ok := l.limiters.Load(clientIP); ok {
		entry := val.(*ipLimiterEntry)
		entry.mu.Lock()
		entry.lastAccess = time.Now()
		entry.mu.Unlock()
		return entry.limiter
	}

	limiter := rate.NewLimiter(rate.Limit(l.rps), l.burst)
	entry := &ipLimiterEntry{
		limiter:    limiter,
		lastAccess: time.Now(),
	}

	l.limiters.Store(clientIP, entry)
	return limiter
}

// cleanupStale removes rate limiters that haven't been accessed recently.
// Runs periodically to prevent unbounded memory growth.
func (l *IPRateLimiter) cleanupStale(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			threshold := time.Now().Add(-1 * time.Hour)
			l.limiters.Range(func(key, value interface{}) bool {
				entry := value.(*ipLimiterEntry)
				entry.mu.Lock()
				shouldDelete := entry.lastAccess.Before(threshold)
				entry.mu.Unlock()

				if shouldDelete {
					l.limiters.Delete(key)
				}
				return true
			})
		}
	}
}
