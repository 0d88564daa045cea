package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	allowed, remaining, reset := rl.Allow("1.2.3.4")
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)
	assert.Equal(t, now.Add(time.Minute), reset)

	allowed, remaining, _ = rl.Allow("1.2.3.4")
	assert.True(t, allowed)
	assert.Equal(t, 0, remaining)

	allowed, _, _ = rl.Allow("1.2.3.4")
	assert.False(t, allowed)

	allowed, _, _ = rl.Allow("5.6.7.8")
	assert.True(t, allowed, "keys are independent")

	now = now.Add(time.Minute)
	allowed, remaining, _ = rl.Allow("1.2.3.4")
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)
}

func TestPairingIsRateLimited(t *testing.T) {
	s := newTestServer(t, false)

	// Two pairings were spent by the fixture.
	for i := 0; i < 8; i++ {
		w := s.do(t, http.MethodPost, "/api/player/pairing", "", gin.H{"pin": "0000"})
		assert.NotEqual(t, http.StatusTooManyRequests, w.Code)
	}
	w := s.do(t, http.MethodPost, "/api/player/pairing", "", gin.H{"pin": "1234"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, ErrorRateLimited, errorOf(t, w).Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t, false)

	w := s.do(t, http.MethodGet, "/api/snapshot", s.host, nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
