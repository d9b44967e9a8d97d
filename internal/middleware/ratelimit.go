package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is injected rather than kept as a package-global so a
// multi-instance deployment can swap the in-process counter for a
// shared store (see RedisRateLimiter).
type RateLimiter interface {
	// Allow reports whether the caller identified by key may proceed,
	// and if not, how long to wait before retrying.
	Allow(key string) (bool, time.Duration)
}

// MemoryRateLimiter is a fixed-window counter suitable for a single
// instance.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	count   int
	resetAt time.Time
}

func NewMemoryRateLimiter(limit int, window time.Duration) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		limit:   limit,
		window:  window,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (l *MemoryRateLimiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok || now.After(b.resetAt) {
		l.buckets[key] = &bucket{count: 1, resetAt: now.Add(l.window)}
		return true, 0
	}
	if b.count >= l.limit {
		return false, time.Until(b.resetAt)
	}
	b.count++
	return true, 0
}

// RateLimit guards the public endpoints (login, reset request) keyed by
// client IP. Exceeding the quota is answered, never silently dropped.
func RateLimit(limiter RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		ok, retryAfter := limiter.Allow(c.ClientIP())
		if !ok {
			secs := int(retryAfter.Seconds())
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", fmt.Sprintf("%d", secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"type":   "rate-limited",
				"title":  "too many requests",
				"status": http.StatusTooManyRequests,
				"detail": fmt.Sprintf("retry after %d seconds", secs),
			})
			return
		}
		c.Next()
	}
}
