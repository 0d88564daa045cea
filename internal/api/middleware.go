// internal/api/middleware.go
package api

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RateLimiter is a fixed-window counter per key.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*Visitor
	limit    int
	window   time.Duration
	now      func() time.Time
}

// Visitor is the window state of one key.
type Visitor struct {
	Remaining int
	Reset     time.Time
}

// NewRateLimiter allows limit requests per key and window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*Visitor),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// Allow consumes one request for key and returns the remaining budget and
// the window reset time.
func (rl *RateLimiter) Allow(key string) (bool, int, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.pruneLocked(now)

	visitor, exists := rl.visitors[key]
	if !exists {
		visitor = &Visitor{Remaining: rl.limit, Reset: now.Add(rl.window)}
		rl.visitors[key] = visitor
	}
	if visitor.Remaining <= 0 {
		return false, 0, visitor.Reset
	}
	visitor.Remaining--
	return true, visitor.Remaining, visitor.Reset
}

func (rl *RateLimiter) pruneLocked(now time.Time) {
	for key, visitor := range rl.visitors {
		if !now.Before(visitor.Reset) {
			delete(rl.visitors, key)
		}
	}
}

// Middleware limits by client IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	helper := NewResponseHelper()
	return func(c *gin.Context) {
		allowed, remaining, reset := rl.Allow(c.ClientIP())
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rl.limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", reset.Unix()))
		if !allowed {
			helper.Error(c, http.StatusTooManyRequests, ErrorRateLimited, "Rate limit exceeded")
			return
		}
		c.Next()
	}
}

// PairingRateLimit guards the PIN endpoints: 10 attempts per minute and IP.
func PairingRateLimit() gin.HandlerFunc {
	return NewRateLimiter(10, time.Minute).Middleware()
}

// RequestID tags every request with an id echoed in the envelope.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// corsMiddleware lets the browser clients of host and player talk to the API.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
