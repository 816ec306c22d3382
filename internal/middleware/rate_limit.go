package middleware

import (
	"net/http"
	"sync"
	"time"

	"go-empms/internal/shared/apperror"
	"go-empms/internal/shared/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Entries idle longer than this are dropped, otherwise the per-key map
// grows without bound under client address churn.
const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type keyedRateLimiter struct {
	entries   map[string]*limiterEntry
	mu        *sync.Mutex
	r         rate.Limit
	b         int
	ttl       time.Duration
	nextSweep time.Time
}

func newKeyedRateLimiter(r rate.Limit, b int) *keyedRateLimiter {
	return &keyedRateLimiter{
		entries:   make(map[string]*limiterEntry),
		mu:        &sync.Mutex{},
		r:         r,
		b:         b,
		ttl:       limiterIdleTTL,
		nextSweep: time.Now().Add(limiterIdleTTL),
	}
}

func (k *keyedRateLimiter) getLimiter(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := time.Now()
	if now.After(k.nextSweep) {
		k.sweep(now)
	}

	entry, exists := k.entries[key]
	if !exists {
		entry = &limiterEntry{limiter: rate.NewLimiter(k.r, k.b)}
		k.entries[key] = entry
	}
	entry.lastSeen = now

	return entry.limiter
}

// sweep drops idle entries. Caller holds the mutex.
func (k *keyedRateLimiter) sweep(now time.Time) {
	for key, entry := range k.entries {
		if now.Sub(entry.lastSeen) > k.ttl {
			delete(k.entries, key)
		}
	}
	k.nextSweep = now.Add(k.ttl)
}

// RateLimitByIP throttles unauthenticated traffic, mainly the login
// endpoint where each attempt costs a bcrypt comparison.
func RateLimitByIP(r rate.Limit, b int) gin.HandlerFunc {
	limiter := newKeyedRateLimiter(r, b)
	return func(c *gin.Context) {
		if !limiter.getLimiter(c.ClientIP()).Allow() {
			response.Error(c, http.StatusTooManyRequests, apperror.CodeRateLimited, "Too many requests from this IP", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RateLimitByUser throttles per authenticated user. Requests without an
// identity pass through, the auth middleware rejects those anyway.
func RateLimitByUser(r rate.Limit, b int) gin.HandlerFunc {
	limiter := newKeyedRateLimiter(r, b)
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.Next()
			return
		}
		if !limiter.getLimiter(userID).Allow() {
			response.Error(c, http.StatusTooManyRequests, apperror.CodeRateLimited, "Too many requests from this user", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
