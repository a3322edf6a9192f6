package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter allows a burst of limit requests per key, refilled evenly over window.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rate     rate.Limit
	burst    int
	idle     time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit < 1 {
		limit = 1
	}
	r := &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     rate.Every(window / time.Duration(limit)),
		burst:    limit,
		idle:     2 * window,
		stop:     make(chan struct{}),
	}
	go r.cleanupLoop(time.Minute)
	return r
}

func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	e, ok := r.limiters[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(r.rate, r.burst)}
		r.limiters[key] = e
	}
	e.lastAccess = time.Now()
	l := e.limiter
	r.mu.Unlock()
	return l.Allow()
}

func (r *RateLimiter) cleanupLoop(interval time.Duration) {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-tick.C:
			r.cleanup(time.Now())
		case <-r.stop:
			return
		}
	}
}

func (r *RateLimiter) cleanup(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := now.Add(-r.idle)
	for k, e := range r.limiters {
		if e.lastAccess.Before(cutoff) {
			delete(r.limiters, k)
		}
	}
}

// Stop ends the cleanup goroutine. Safe to call more than once.
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// RateLimit limits by authenticated user when known, otherwise by client IP.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := GetUserID(c)
		if key == "" {
			key = "ip:" + c.ClientIP()
		}
		if !limiter.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
